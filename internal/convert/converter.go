package convert

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"imgpdf/internal/domain"
	log "imgpdf/internal/infra/logging"
)

var (
	imageExts = []string{".jpg", ".jpeg", ".png", ".bmp"}
	pdfExts   = []string{".pdf"}
)

// Result is what a conversion routine produced on disk.
type Result struct {
	Kind  domain.Kind
	Paths []string
}

// Converter turns images into PDFs and PDFs into images.
type Converter struct {
	// ImageDPI is the resolution stored when an image becomes a PDF page.
	ImageDPI int
	// RenderDPI is the resolution PDF pages are rasterized at.
	RenderDPI float64
	// BaseDir holds the per-request workspaces; empty means the OS temp dir.
	BaseDir string
}

// New returns a Converter with the given settings, falling back to 100 DPI
// for image placement and 72 DPI for page rendering.
func New(imageDPI int, renderDPI float64, baseDir string) *Converter {
	if imageDPI <= 0 {
		imageDPI = 100
	}
	if renderDPI <= 0 {
		renderDPI = 72
	}
	return &Converter{ImageDPI: imageDPI, RenderDPI: renderDPI, BaseDir: baseDir}
}

// ImageExtensions lists the extensions converted to PDF.
func ImageExtensions() []string { return append([]string(nil), imageExts...) }

// PDFExtensions lists the extensions converted to images.
func PDFExtensions() []string { return append([]string(nil), pdfExts...) }

// DetectKind classifies path by its extension, ignoring case. A name that is
// only an extension, such as ".png", has no extension and is unsupported.
func DetectKind(path string) domain.Kind {
	base := safeName(path)
	ext := strings.ToLower(filepath.Ext(base))
	if len(ext) == len(base) {
		return domain.KindUnsupported
	}
	for _, e := range imageExts {
		if ext == e {
			return domain.KindPDF
		}
	}
	for _, e := range pdfExts {
		if ext == e {
			return domain.KindImages
		}
	}
	return domain.KindUnsupported
}

// Dispatch runs the conversion routine matching path's extension. Unsupported
// extensions return KindUnsupported with ErrUnsupportedFormat; routine
// failures return the kind with no paths and an error wrapping
// ErrConversionFailed. Panics from the codec libraries are recovered.
func (c *Converter) Dispatch(path string) (res Result, err error) {
	kind := DetectKind(path)
	res.Kind = kind

	defer func() {
		if r := recover(); r != nil {
			log.Error("Conversion panicked", "path", filepath.Base(path), "panic", fmt.Sprint(r))
			res = Result{Kind: kind}
			err = fmt.Errorf("%w: %v", domain.ErrConversionFailed, r)
		}
	}()

	switch kind {
	case domain.KindPDF:
		pdfPath, convErr := c.ImageToPDF(path)
		if convErr != nil {
			return res, convErr
		}
		res.Paths = []string{pdfPath}
	case domain.KindImages:
		imgPaths, convErr := c.PDFToImages(path)
		if convErr != nil {
			return res, convErr
		}
		res.Paths = imgPaths
	default:
		return res, fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, filepath.Ext(path))
	}
	return res, nil
}

// ConvertUpload stores one upload in a fresh workspace, converts it and
// returns the outputs in memory. The workspace is removed before returning,
// on success and on failure.
func (c *Converter) ConvertUpload(ctx context.Context, name string, r io.Reader) (*domain.Conversion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Reject early so unsupported uploads never touch the disk.
	if DetectKind(name) == domain.KindUnsupported {
		return &domain.Conversion{Kind: domain.KindUnsupported, Source: safeName(name)},
			fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, filepath.Ext(name))
	}

	ws, err := NewWorkspace(c.BaseDir)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := ws.Close(); cerr != nil {
			log.Warn("Workspace cleanup failed", "dir", ws.Dir(), "error", cerr)
		}
	}()

	src, err := ws.Save(name, r)
	if err != nil {
		return nil, err
	}

	res, err := c.Dispatch(src)
	conv := &domain.Conversion{Kind: res.Kind, Source: filepath.Base(src)}
	if err != nil {
		log.Warn("Conversion failed", "source", conv.Source, "kind", string(res.Kind), "error", err)
		return conv, err
	}

	for _, p := range res.Paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return conv, fmt.Errorf("%w: read %s: %v", domain.ErrConversionFailed, filepath.Base(p), err)
		}
		name := filepath.Base(p)
		conv.Outputs = append(conv.Outputs, domain.Output{
			Name:        name,
			ContentType: domain.ContentTypeFor(name),
			Data:        data,
		})
	}

	log.Info("Conversion finished", "source", conv.Source, "kind", string(conv.Kind), "outputs", len(conv.Outputs))
	return conv, nil
}

// Relabel returns a copy of conv named after the upload name instead of the
// upload it was produced from. Output bytes are shared with conv.
func Relabel(conv *domain.Conversion, name string) *domain.Conversion {
	if conv == nil {
		return nil
	}
	source := safeName(name)
	base := stem(source)
	out := &domain.Conversion{Kind: conv.Kind, Source: source, Outputs: make([]domain.Output, len(conv.Outputs))}
	for i, o := range conv.Outputs {
		switch conv.Kind {
		case domain.KindPDF:
			o.Name = base + ".pdf"
		case domain.KindImages:
			o.Name = fmt.Sprintf("%s_page_%d.png", base, i+1)
		}
		out.Outputs[i] = o
	}
	return out
}

func stem(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path))
}
