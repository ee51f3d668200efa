// Package main is the entry point for the imgpdf converter: an HTTP service
// by default, plus a one-shot convert subcommand.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:     "imgpdf",
	Short:   "Convert images to PDF and PDF pages to images",
	Version: version,
	Long: `imgpdf turns JPEG, PNG and BMP images into a one-page PDF and renders
every page of a PDF to PNG. Without a subcommand it starts the web service.

Configuration is read from the YAML file named by CONFIG_PATH
(default ./config.yaml).`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCmd.RunE(cmd, args)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
