package convert

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"golang.org/x/image/bmp"

	// Registered for image.Decode validation of uploads.
	_ "image/jpeg"

	"imgpdf/internal/domain"
)

func init() {
	// pdfcpu would otherwise create and read ~/.config/pdfcpu on first use.
	api.DisableConfigDir()
}

// ImageToPDF writes a one-page PDF next to imagePath (same stem, .pdf
// extension) holding the image at c.ImageDPI. On failure it returns an empty
// path and an error wrapping ErrConversionFailed.
func (c *Converter) ImageToPDF(imagePath string) (string, error) {
	src, err := openImage(imagePath)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrConversionFailed, err)
	}

	pdfPath := stem(imagePath) + ".pdf"
	out, err := os.Create(pdfPath)
	if err != nil {
		return "", fmt.Errorf("%w: create %s: %v", domain.ErrConversionFailed, filepath.Base(pdfPath), err)
	}

	imp := pdfcpu.DefaultImportConfig()
	imp.DPI = c.ImageDPI

	if err := api.ImportImages(nil, out, []io.Reader{src}, imp, nil); err != nil {
		_ = out.Close()
		_ = os.Remove(pdfPath)
		return "", fmt.Errorf("%w: encode pdf: %v", domain.ErrConversionFailed, err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(pdfPath)
		return "", fmt.Errorf("%w: close %s: %v", domain.ErrConversionFailed, filepath.Base(pdfPath), err)
	}
	return pdfPath, nil
}

// openImage loads the image bytes and checks that they decode. BMP is
// re-encoded as PNG because the PDF importer reads JPEG, PNG, TIFF and WebP only.
func openImage(path string) (io.Reader, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if strings.EqualFold(filepath.Ext(path), ".bmp") {
		img, err := bmp.Decode(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("decode bmp: %w", err)
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("re-encode bmp: %w", err)
		}
		return &buf, nil
	}

	if _, _, err := image.Decode(bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return bytes.NewReader(raw), nil
}
