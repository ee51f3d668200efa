package handlers

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"

	"imgpdf/internal/convert"
	"imgpdf/internal/domain"
	"imgpdf/internal/infra/cache"
	log "imgpdf/internal/infra/logging"
)

const formField = "file"

var errMissingFile = errors.New("no file uploaded")

// Converter runs the whole upload pipeline for one file.
type Converter interface {
	ConvertUpload(ctx context.Context, name string, r io.Reader) (*domain.Conversion, error)
}

// ConvertService serves the upload page and the JSON conversion API.
type ConvertService struct {
	Converter Converter
	// Cache is optional; nil disables result caching.
	Cache *cache.ResultCache
}

// NewConvertService returns a service converting with conv; rc may be nil.
func NewConvertService(conv Converter, rc *cache.ResultCache) *ConvertService {
	return &ConvertService{Converter: conv, Cache: rc}
}

// FileJSON is one converted file in the API response.
type FileJSON struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Size        int    `json:"size"`
	DataURI     string `json:"data_uri"`
}

// ConvertResponse is the body of a successful POST /v1/convert.
type ConvertResponse struct {
	Kind   domain.Kind `json:"kind"`
	Source string      `json:"source"`
	Files  []FileJSON  `json:"files"`
}

// HandleConvert converts the uploaded file and answers with data URIs as JSON.
func (svc *ConvertService) HandleConvert(c *fiber.Ctx) error {
	conv, err := svc.process(c)
	if err != nil {
		status, msg := statusFor(err)
		return fiber.NewError(status, msg)
	}

	resp := ConvertResponse{Kind: conv.Kind, Source: conv.Source, Files: make([]FileJSON, 0, len(conv.Outputs))}
	for _, o := range conv.Outputs {
		resp.Files = append(resp.Files, FileJSON{
			Name:        o.Name,
			ContentType: o.ContentType,
			Size:        len(o.Data),
			DataURI:     o.DataURI(),
		})
	}
	return c.JSON(resp)
}

// HandleFormats lists the accepted extensions grouped by what they convert to.
func (svc *ConvertService) HandleFormats(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		string(domain.KindPDF):    convert.ImageExtensions(),
		string(domain.KindImages): convert.PDFExtensions(),
	})
}

// process reads the upload, consults the cache and runs the conversion.
func (svc *ConvertService) process(c *fiber.Ctx) (*domain.Conversion, error) {
	fh, err := c.FormFile(formField)
	if err != nil || fh.Filename == "" {
		return nil, errMissingFile
	}

	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	data, err := io.ReadAll(f)
	_ = f.Close()
	if err != nil {
		return nil, err
	}

	if convert.DetectKind(fh.Filename) == domain.KindUnsupported {
		log.Warn("Unsupported upload", "filename", fh.Filename, "request_id", requestID(c))
		return nil, domain.ErrUnsupportedFormat
	}

	key := cache.Key(fh.Filename, data)
	if cached := svc.Cache.Get(c.UserContext(), key); cached != nil {
		// Entries are shared by content; names follow this upload.
		return convert.Relabel(cached, fh.Filename), nil
	}

	conv, err := svc.Converter.ConvertUpload(c.UserContext(), fh.Filename, bytes.NewReader(data))
	if err != nil {
		log.Warn("Upload conversion failed", "filename", fh.Filename, "error", err, "request_id", requestID(c))
		return nil, err
	}

	svc.Cache.Set(c.UserContext(), key, conv)
	log.Info("Upload converted", "filename", fh.Filename, "kind", string(conv.Kind), "outputs", len(conv.Outputs), "request_id", requestID(c))
	return conv, nil
}

// statusFor maps pipeline errors to an HTTP status and the user-facing message.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, errMissingFile):
		return fiber.StatusBadRequest, "Please choose a file to upload."
	case errors.Is(err, domain.ErrUnsupportedFormat):
		return fiber.StatusUnsupportedMediaType, "Unsupported file format."
	case errors.Is(err, domain.ErrConversionFailed):
		return fiber.StatusUnprocessableEntity, "Conversion failed. Please try again."
	default:
		return fiber.StatusInternalServerError, "Conversion failed. Please try again."
	}
}

func requestID(c *fiber.Ctx) string {
	if id := c.GetRespHeader(fiber.HeaderXRequestID); id != "" {
		return id
	}
	return strings.TrimSpace(c.Get(fiber.HeaderXRequestID))
}
