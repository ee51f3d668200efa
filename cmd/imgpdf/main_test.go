package main

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imgpdf/internal/config"
	"imgpdf/internal/convert"
	"imgpdf/internal/domain"
	"imgpdf/internal/infra/postgres"
)

func TestRunConvert_ImageWritesPDF(t *testing.T) {
	src := t.TempDir()
	var img bytes.Buffer
	require.NoError(t, png.Encode(&img, image.NewRGBA(image.Rect(0, 0, 20, 10))))
	path := filepath.Join(src, "logo.png")
	require.NoError(t, os.WriteFile(path, img.Bytes(), 0o644))

	out := filepath.Join(t.TempDir(), "out")
	var stdout bytes.Buffer
	err := runConvert(context.Background(), convert.New(0, 0, t.TempDir()), path, out, &stdout)
	require.NoError(t, err)

	want := filepath.Join(out, "logo.pdf")
	assert.FileExists(t, want)
	assert.Equal(t, want, strings.TrimSpace(stdout.String()))
}

func TestRunConvert_Unsupported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hi"), 0o644))

	var stdout bytes.Buffer
	err := runConvert(context.Background(), convert.New(0, 0, t.TempDir()), path, t.TempDir(), &stdout)
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
	assert.Empty(t, stdout.String())
}

func TestRunConvert_MissingFile(t *testing.T) {
	err := runConvert(context.Background(), convert.New(0, 0, t.TempDir()), "/does/not/exist.png", t.TempDir(), &bytes.Buffer{})
	assert.Error(t, err)
}

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["serve"])
	assert.True(t, names["convert"])
}

func TestLoadTokens_NoDSNIsReadyAndEmpty(t *testing.T) {
	cfg := config.Default()
	cfg.Auth.PostgresDSN = ""

	tc := loadTokens(context.Background(), cfg, postgres.NewDB())
	assert.True(t, tc.Ready())
	assert.Zero(t, tc.Len())
	assert.False(t, tc.Validate("anything"))
}
