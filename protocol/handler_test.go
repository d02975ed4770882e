package protocol

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/brettbedarf/imgnav"
	"github.com/brettbedarf/imgnav/config"
	"github.com/brettbedarf/imgnav/internal/mocks"
	"github.com/brettbedarf/imgnav/navigator"
	"github.com/brettbedarf/imgnav/volume"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, h http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func assertNotFound(t *testing.T, rec *httptest.ResponseRecorder) {
	t.Helper()
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, rec.Body.Bytes())
}

func TestHandler_Success(t *testing.T) {
	t.Parallel()

	nav := &mocks.MockNavigator{}
	data := []byte{0x89, 'P', 'N', 'G'}
	nav.On("Resolve", 2).Return(&imgnav.Resource{Path: "/x/a.png", ContentType: "image/png", Data: data}, nil)
	h := NewHandler(nav)

	rec := serve(t, h, http.MethodGet, "/reqimg/?n=2&cc=a.png")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, "4", rec.Header().Get("Content-Length"))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	assert.Equal(t, data, rec.Body.Bytes())
	nav.AssertExpectations(t)
}

// A bare n=<i> with no trailing '&' still addresses the entry
func TestHandler_IndexAtEndOfQuery(t *testing.T) {
	t.Parallel()

	nav := &mocks.MockNavigator{}
	nav.On("Resolve", 2).Return(&imgnav.Resource{Path: "/x/a.gif", ContentType: "image/gif", Data: []byte("gif")}, nil)
	h := NewHandler(nav)

	rec := serve(t, h, http.MethodGet, "/reqimg/?n=2")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []byte("gif"), rec.Body.Bytes())
	nav.AssertExpectations(t)
}

func TestHandler_Failures(t *testing.T) {
	t.Parallel()

	nav := &mocks.MockNavigator{}
	nav.On("Resolve", 9).Return(nil, imgnav.ErrResourceNotFound)
	h := NewHandler(nav)

	tests := []struct {
		method string
		target string
		desc   string
	}{
		{http.MethodPost, "/reqimg/?n=1&", "POST"},
		{http.MethodHead, "/reqimg/?n=1&", "HEAD"},
		{http.MethodDelete, "/reqimg/?n=1&", "DELETE"},
		{http.MethodGet, "/reqimg/", "no query"},
		{http.MethodGet, "/reqimg/?cc=a.png", "missing n"},
		{http.MethodGet, "/reqimg/?n=abc&", "non numeric"},
		{http.MethodGet, "/reqimg/?n=9&", "resolver miss"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			assertNotFound(t, serve(t, h, tt.method, tt.target))
		})
	}
	nav.AssertNumberOfCalls(t, "Resolve", 1)
	nav.AssertNotCalled(t, "Resolve", mock.MatchedBy(func(i int) bool { return i != 9 }))
}

// TestHandler_WithNavigator drives the handler against a real directory
func TestHandler_WithNavigator(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	png := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}
	require.NoError(t, os.WriteFile(filepath.Join(root, "b.png"), png, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "c.txt"), []byte("text"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "d.WebP"), []byte("RIFF"), 0o644))

	prober := volume.NewProber([]string{root})
	nav := navigator.New(config.NewDefaultConfig(), prober, nil)
	_, err := nav.ScanDirectory()
	require.NoError(t, err)
	// [parent, b.png, c.txt, d.WebP]
	h := NewHandler(nav)

	rec := serve(t, h, http.MethodGet, "/reqimg/?n=1&cc=b.png")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, png, rec.Body.Bytes())

	rec = serve(t, h, http.MethodGet, "/reqimg/?n=3")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/webp", rec.Header().Get("Content-Type"))

	assertNotFound(t, serve(t, h, http.MethodGet, "/reqimg/?n=2&"))
	assertNotFound(t, serve(t, h, http.MethodGet, "/reqimg/?n=0&"))
	assertNotFound(t, serve(t, h, http.MethodGet, "/reqimg/?n=4&"))

	require.NoError(t, os.Remove(filepath.Join(root, "b.png")))
	rec = serve(t, h, http.MethodGet, "/reqimg/?n=1&")
	assertNotFound(t, rec)
	assert.False(t, strings.Contains(rec.Body.String(), root))
}
