package vk

import (
	"compress/gzip"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchPageDecompressesGzip(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Contains(t, r.Header.Get("Accept-Encoding"), "gzip")
		require.Contains(t, r.Header.Get("User-Agent"), "Mozilla")

		w.Header().Set("Content-Encoding", "gzip")
		gz := gzip.NewWriter(w)
		fmt.Fprint(gz, "<html><body>compressed page</body></html>")
		require.NoError(t, gz.Close())
	}))
	t.Cleanup(server.Close)

	client, err := NewClient()
	require.NoError(t, err)

	html, err := client.FetchPage(server.URL)
	require.NoError(t, err)
	assert.Contains(t, html, "compressed page")
}

func TestFetchPagePlainBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html>plain</html>")
	}))
	t.Cleanup(server.Close)

	client, err := NewClient()
	require.NoError(t, err)

	html, err := client.FetchPage(server.URL)
	require.NoError(t, err)
	assert.Equal(t, "<html>plain</html>", html)
}

func TestFetchPageKeepsCookies(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			http.SetCookie(w, &http.Cookie{Name: "remixlang", Value: "3"})
			fmt.Fprint(w, "first")
			return
		}
		cookie, err := r.Cookie("remixlang")
		require.NoError(t, err, "second request should carry the cookie back")
		assert.Equal(t, "3", cookie.Value)
		fmt.Fprint(w, "second")
	}))
	t.Cleanup(server.Close)

	client, err := NewClient()
	require.NoError(t, err)

	_, err = client.FetchPage(server.URL)
	require.NoError(t, err)
	_, err = client.FetchPage(server.URL)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestFetchPageNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	t.Cleanup(server.Close)

	client, err := NewClient()
	require.NoError(t, err)

	_, err = client.FetchPage(server.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 404")
}
