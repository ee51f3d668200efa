package convert

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"golang.org/x/image/bmp"
)

var quadrantColors = [4]color.RGBA{
	{R: 220, A: 255},
	{G: 200, A: 255},
	{B: 210, A: 255},
	{R: 255, G: 255, B: 255, A: 255},
}

// quadrantImage paints four solid quadrants so a rendered copy can be
// compared by sampling each quadrant's center.
func quadrantImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			q := 0
			if x >= w/2 {
				q++
			}
			if y >= h/2 {
				q += 2
			}
			img.SetRGBA(x, y, quadrantColors[q])
		}
	}
	return img
}

func encodeImage(t *testing.T, ext string, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	var err error
	switch ext {
	case ".png":
		err = png.Encode(&buf, img)
	case ".jpg", ".jpeg":
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: 95})
	case ".bmp":
		err = bmp.Encode(&buf, img)
	default:
		t.Fatalf("no encoder for %s", ext)
	}
	if err != nil {
		t.Fatalf("encode %s: %v", ext, err)
	}
	return buf.Bytes()
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

// multiPagePDF builds an n-page PDF, one PNG per page.
func multiPagePDF(t *testing.T, n int) []byte {
	t.Helper()
	readers := make([]io.Reader, 0, n)
	for i := 0; i < n; i++ {
		readers = append(readers, bytes.NewReader(encodeImage(t, ".png", quadrantImage(40+10*i, 30))))
	}
	var out bytes.Buffer
	if err := api.ImportImages(nil, &out, readers, pdfcpu.DefaultImportConfig(), nil); err != nil {
		t.Fatalf("build pdf fixture: %v", err)
	}
	return out.Bytes()
}

func entries(t *testing.T, dir string) []string {
	t.Helper()
	list, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	var names []string
	for _, e := range list {
		names = append(names, e.Name())
	}
	return names
}
