package file

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"artify/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0x0D}

func TestDownloadFile(t *testing.T) {
	tests := []struct {
		name       string
		inputBytes []byte
		status     int
		wantErr    bool
	}{
		{
			name:       "success",
			inputBytes: []byte("test\n"),
			status:     http.StatusOK,
			wantErr:    false,
		},
		{
			name:       "not found",
			inputBytes: []byte("not found"),
			status:     http.StatusNotFound,
			wantErr:    true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
				_, err := w.Write(tc.inputBytes)
				assert.NoError(t, err)
			}))
			defer srv.Close()

			res, err := DownloadFile(t.Context(), srv.URL)
			if tc.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tc.inputBytes, res)
			}
		})
	}
}

func TestDownloadImage(t *testing.T) {
	tests := []struct {
		name     string
		body     []byte
		wantType string
		wantErr  error
	}{
		{
			name:     "png body",
			body:     pngHeader,
			wantType: "image/png",
		},
		{
			name:    "text body",
			body:    []byte("hello"),
			wantErr: domain.ErrInputFormat,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write(tc.body)
			}))
			defer srv.Close()

			img, err := DownloadImage(t.Context(), srv.URL)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.wantType, img.MediaType)
			assert.Equal(t, tc.body, img.Data)
		})
	}
}

func TestWriteAndReadImage(t *testing.T) {
	dir := t.TempDir()
	img := domain.EncodedImage{MediaType: "image/png", Data: pngHeader}

	path, err := WriteImage(dir, img)
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))
	assert.True(t, strings.HasPrefix(filepath.Base(path), "artify-"))
	assert.Equal(t, ".png", filepath.Ext(path))

	read, err := ReadImage(path)
	require.NoError(t, err)
	assert.Equal(t, img, read)
}

func TestWriteImageExplicitPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jpg")

	got, err := WriteImage(path, domain.EncodedImage{MediaType: "image/jpeg", Data: []byte{0xFF, 0xD8, 0xFF}})
	require.NoError(t, err)
	assert.Equal(t, path, got)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xFF, 0xD8, 0xFF}, data)
}

func TestReadImageMissingFile(t *testing.T) {
	_, err := ReadImage(filepath.Join(t.TempDir(), "missing.png"))
	require.Error(t, err)
}
