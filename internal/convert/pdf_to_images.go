package convert

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/gen2brain/go-fitz"

	"imgpdf/internal/domain"
)

// PDFToImages renders every page of pdfPath to <stem>_page_<n>.png, n from 1,
// and returns the paths in page order. The first failing page aborts the
// whole run; already written pages are removed and nil is returned.
func (c *Converter) PDFToImages(pdfPath string) ([]string, error) {
	doc, err := fitz.New(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("%w: open pdf: %v", domain.ErrConversionFailed, err)
	}
	defer doc.Close()

	base := stem(pdfPath)
	var paths []string
	for i := 0; i < doc.NumPage(); i++ {
		img, err := doc.ImageDPI(i, c.RenderDPI)
		if err != nil {
			removeAll(paths)
			return nil, fmt.Errorf("%w: render page %d: %v", domain.ErrConversionFailed, i+1, err)
		}

		p := fmt.Sprintf("%s_page_%d.png", base, i+1)
		if err := writePNG(p, img); err != nil {
			removeAll(paths)
			return nil, fmt.Errorf("%w: save page %d: %v", domain.ErrConversionFailed, i+1, err)
		}
		paths = append(paths, p)
	}

	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: pdf has no pages", domain.ErrConversionFailed)
	}
	return paths, nil
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return err
	}
	return f.Close()
}

func removeAll(paths []string) {
	for _, p := range paths {
		_ = os.Remove(p)
	}
}
