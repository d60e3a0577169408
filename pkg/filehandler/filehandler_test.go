package filehandler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func touch(t *testing.T, path string, data []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, data, 0644))
}

func TestDetectFileFormat(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		data    []byte
		want    string
		wantErr bool
	}{
		{"by extension", "a.JPG", []byte("whatever"), "jpeg", false},
		{"tiff extension", "a.tif", nil, "tiff", false},
		{"png content", "noext", pngMagic, "png", false},
		{"tiff content", "scan.raw", []byte("II*\x00\x08\x00\x00\x00"), "tiff", false},
		{"gif content", "anim.dat", []byte("GIF89a......"), "gif", false},
		{"text", "notes.txt", []byte("hello"), "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			touch(t, path, tt.data)
			got, err := DetectFileFormat(path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := DetectFileFormat(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestImageFiles(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "b.png"), pngMagic)
	touch(t, filepath.Join(dir, "a.jpeg"), nil)
	touch(t, filepath.Join(dir, "readme.md"), nil)
	touch(t, filepath.Join(dir, "sub", "c.bmp"), nil)

	files, err := ImageFiles(dir, false)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.jpeg"), filepath.Join(dir, "b.png")}, files)

	files, err = ImageFiles(dir, true)
	require.NoError(t, err)
	assert.Len(t, files, 3)
	assert.Contains(t, files, filepath.Join(dir, "sub", "c.bmp"))

	_, err = ImageFiles(filepath.Join(dir, "b.png"), false)
	assert.ErrorContains(t, err, "not a directory")
}

func TestDownloadFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.png" {
			http.NotFound(w, r)
			return
		}
		w.Write(pngMagic)
	}))
	defer srv.Close()

	dir := filepath.Join(t.TempDir(), "downloads")

	path, err := DownloadFile(context.Background(), srv.URL+"/img/cat.png", dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "cat.png"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, pngMagic, data)

	_, err = DownloadFile(context.Background(), srv.URL+"/missing.png", dir)
	assert.ErrorContains(t, err, "bad status")
	assert.NoFileExists(t, filepath.Join(dir, "missing.png"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = DownloadFile(ctx, srv.URL+"/x.png", dir)
	assert.Error(t, err)
}

func TestSaveFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "c.bin")
	require.NoError(t, SaveFile([]byte{1, 2, 3}, path))

	size, err := GetFileSize(path)
	require.NoError(t, err)
	assert.Equal(t, int64(3), size)
}

func TestReadLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "list.txt")
	touch(t, path, []byte("# inputs\n  a.png \n\nhttps://example.com/b.jpg\n"))

	lines, err := ReadLines(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.png", "https://example.com/b.jpg"}, lines)
}

func TestFormatFileSize(t *testing.T) {
	tests := []struct {
		size int64
		want string
	}{
		{0, "0 B"},
		{-5, "0 B"},
		{1, "1.00 B"},
		{1023, "1023.00 B"},
		{1024, "1.00 KB"},
		{1536, "1.50 KB"},
		{5 * 1024 * 1024, "5.00 MB"},
		{3 << 30, "3.00 GB"},
		{2 << 40, "2.00 TB"},
		{4096 << 40, "4096.00 TB"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatFileSize(tt.size), "size %d", tt.size)
	}
}

func TestOutputName(t *testing.T) {
	assert.Equal(t, "Encrypted_photo.png", OutputName("Encrypted_", "/tmp/in/photo.jpg"))
	assert.Equal(t, "Decrypted_Encrypted_photo.png", OutputName("Decrypted_", "Encrypted_photo.png"))
	assert.Equal(t, "x.tar.png", OutputName("", "x.tar.gz"))
	assert.Equal(t, filepath.Join("out", "E_a.png"), OutputPath("out", "E_", "a.bmp"))
	assert.True(t, IsImageFile("A.PNG"))
	assert.False(t, IsImageFile("a.webp"))
	assert.True(t, IsURL("https://x"))
	assert.False(t, IsURL("ftp://x"))
}
