package convert

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkspace_SaveAndClose(t *testing.T) {
	base := t.TempDir()
	ws, err := NewWorkspace(base)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filepath.Base(ws.Dir()), WorkspacePrefix))

	p, err := ws.Save("../../etc/passwd.png", strings.NewReader("data"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(ws.Dir(), "passwd.png"), p)

	require.NoError(t, ws.Close())
	require.NoError(t, ws.Close())
	_, err = os.Stat(ws.Dir())
	assert.True(t, os.IsNotExist(err))
}

func TestWorkspace_CreatesMissingBase(t *testing.T) {
	base := filepath.Join(t.TempDir(), "nested", "work")
	ws, err := NewWorkspace(base)
	require.NoError(t, err)
	defer ws.Close()
	assert.DirExists(t, base)
}

func TestWorkspace_RejectsEmptyName(t *testing.T) {
	ws, err := NewWorkspace(t.TempDir())
	require.NoError(t, err)
	defer ws.Close()

	for _, name := range []string{"", "/", ".."} {
		_, err := ws.Save(name, strings.NewReader("x"))
		assert.Error(t, err, "name %q", name)
	}
}

func TestNewWorkspace_InvalidBase(t *testing.T) {
	_, err := NewWorkspace("/dev/null/x")
	assert.Error(t, err)
}
