package domain

import (
	"encoding/base64"
	"path/filepath"
	"strings"
)

// Kind is the outcome class of a dispatched upload.
type Kind string

const (
	KindPDF         Kind = "pdf"
	KindImages      Kind = "images"
	KindUnsupported Kind = "unsupported"
)

// Output is one converted file held in memory after its workspace is gone.
type Output struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"data"`
}

// DataURI embeds the output bytes as a base64 data URI.
func (o Output) DataURI() string {
	return "data:" + o.ContentType + ";base64," + base64.StdEncoding.EncodeToString(o.Data)
}

// Conversion is the in-memory result of converting one upload.
type Conversion struct {
	Kind    Kind     `json:"kind"`
	Source  string   `json:"source"`
	Outputs []Output `json:"outputs"`
}

// ContentTypeFor maps an output file name to its MIME type.
func ContentTypeFor(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return "application/pdf"
	case ".png":
		return "image/png"
	default:
		return "application/octet-stream"
	}
}
