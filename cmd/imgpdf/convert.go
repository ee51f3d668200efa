package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"imgpdf/internal/config"
	"imgpdf/internal/convert"
	"imgpdf/internal/domain"
)

var convertCmd = &cobra.Command{
	Use:   "convert FILE",
	Short: "Convert one file and write the results to disk",
	Long: `Convert turns an image (.jpg, .jpeg, .png, .bmp) into <name>.pdf, or a
PDF into <name>_page_<n>.png, one PNG per page. Results are written to
--out, which defaults to the directory holding FILE.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		initLogger(cfg)

		outDir, _ := cmd.Flags().GetString("out")
		if outDir == "" {
			outDir = filepath.Dir(args[0])
		}
		conv := convert.New(cfg.Convert.ImageDPI, cfg.Convert.RenderDPI, cfg.Workspace.BaseDir)
		return runConvert(cmd.Context(), conv, args[0], outDir, cmd.OutOrStdout())
	},
}

func init() {
	convertCmd.Flags().StringP("out", "o", "", "directory for the converted files (default: next to FILE)")
	rootCmd.AddCommand(convertCmd)
}

// runConvert converts the file at path and writes every output into outDir,
// printing one written path per line to w.
func runConvert(ctx context.Context, conv *convert.Converter, path, outDir string, w io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	res, err := conv.ConvertUpload(ctx, filepath.Base(path), f)
	if err != nil {
		return err
	}
	if res.Kind == domain.KindUnsupported {
		return domain.ErrUnsupportedFormat
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", outDir, err)
	}
	for _, o := range res.Outputs {
		dst := filepath.Join(outDir, o.Name)
		if err := os.WriteFile(dst, o.Data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", dst, err)
		}
		fmt.Fprintln(w, dst)
	}
	return nil
}
