package handlers

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"

	"imgpdf/internal/convert"
	"imgpdf/internal/domain"
)

//go:embed views/*.html
var viewsFS embed.FS

const (
	pageTitle       = "Image ⇄ PDF Converter"
	pdfDownloadName = "converted.pdf"
)

// NewViews returns the template engine for the upload page.
func NewViews() *html.Engine {
	sub, err := fs.Sub(viewsFS, "views")
	if err != nil {
		panic(err)
	}
	return html.NewFileSystem(http.FS(sub), ".html")
}

type fileView struct {
	Name string
	URI  template.URL
}

type pageView struct {
	Title   string
	Accept  string
	Success string
	Error   string
	PDF     *fileView
	Images  []fileView
}

func newPageView() pageView {
	exts := append(convert.ImageExtensions(), convert.PDFExtensions()...)
	return pageView{Title: pageTitle, Accept: strings.Join(exts, ",")}
}

// HandlePage renders the empty upload form.
func (svc *ConvertService) HandlePage(c *fiber.Ctx) error {
	return c.Render("index", newPageView())
}

// HandleUpload converts the posted file and renders previews with download
// links, or the error message inline.
func (svc *ConvertService) HandleUpload(c *fiber.Ctx) error {
	view := newPageView()

	conv, err := svc.process(c)
	if err != nil {
		status, msg := statusFor(err)
		view.Error = msg
		return c.Status(status).Render("index", view)
	}

	switch conv.Kind {
	case domain.KindPDF:
		view.Success = "Converted to PDF!"
		if len(conv.Outputs) > 0 {
			// The data URI is built from trusted bytes, so it is safe in href/src.
			view.PDF = &fileView{Name: pdfDownloadName, URI: template.URL(conv.Outputs[0].DataURI())}
		}
	case domain.KindImages:
		view.Success = "Converted to Images!"
		for _, o := range conv.Outputs {
			view.Images = append(view.Images, fileView{Name: o.Name, URI: template.URL(o.DataURI())})
		}
	}
	return c.Render("index", view)
}
