package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Farfive/expenseflow-pro-sub007/constants"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestScanDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "Total: 10.00")
	writeFile(t, dir, "b.png", "fake image bytes")
	writeFile(t, dir, "notes.pdf", "unsupported")
	writeFile(t, dir, ".hidden.txt", "skipped")

	inputs, stats, err := ScanDirectory(dir, nil)
	require.NoError(t, err)
	require.Len(t, inputs, 2)

	// lexical path order
	assert.Equal(t, filepath.Join(dir, "a.txt"), inputs[0].Source)
	assert.Equal(t, constants.MediaText, inputs[0].Media)
	assert.Equal(t, "Total: 10.00", inputs[0].Recognized)

	assert.Equal(t, filepath.Join(dir, "b.png"), inputs[1].Source)
	assert.Equal(t, constants.MediaImage, inputs[1].Media)
	assert.NotEmpty(t, inputs[1].Image)

	assert.Equal(t, uint32(2), stats.Matched)
	assert.Equal(t, uint32(2), stats.Skipped) // pdf + hidden
}

func TestScanDirectorySkipsHiddenDirs(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, ".cache")
	require.NoError(t, os.Mkdir(sub, 0o755))
	writeFile(t, sub, "x.txt", "should not be picked up")
	writeFile(t, dir, "visible.txt", "Total: 5.00")

	inputs, _, err := ScanDirectory(dir, nil)
	require.NoError(t, err)
	require.Len(t, inputs, 1)
	assert.Equal(t, filepath.Join(dir, "visible.txt"), inputs[0].Source)
}

func TestScanDirectoryEmptyRoot(t *testing.T) {
	_, _, err := ScanDirectory("  ", nil)
	require.Error(t, err)
}

func TestLoadFileUnsupported(t *testing.T) {
	_, err := LoadFile("whatever.pdf")
	require.Error(t, err)
}
