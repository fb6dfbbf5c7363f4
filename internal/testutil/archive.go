package testutil

import (
	"archive/zip"
	"bytes"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/require"
)

// ArchiveEntry is one member of a zip built by ZipArchive.
// A Name ending in "/" is written as a directory.
type ArchiveEntry struct {
	Name string
	Body string
	Mode fs.FileMode
}

// ZipArchive builds an in-memory zip from entries.
func ZipArchive(t *testing.T, entries ...ArchiveEntry) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range entries {
		hdr := &zip.FileHeader{Name: e.Name, Method: zip.Deflate}
		mode := e.Mode
		if mode == 0 {
			mode = 0644
		}
		if e.Name != "" && e.Name[len(e.Name)-1] == '/' {
			mode |= fs.ModeDir
		}
		hdr.SetMode(mode)
		w, err := zw.CreateHeader(hdr)
		require.NoError(t, err)
		if !mode.IsDir() {
			_, err = w.Write([]byte(e.Body))
			require.NoError(t, err)
		}
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}
