package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const articleHTML = `<!DOCTYPE html>
<html>
<head><title>Rate Decision</title><style>body { color: red; }</style></head>
<body>
<script>console.log("tracking");</script>
<h1>Central bank raises rates</h1>
<p>The central bank raised rates by a quarter point.</p>
<p>Markets reacted &amp; bonds fell.</p>
<!-- comment -->
</body>
</html>`

func TestFetchExtractsText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(articleHTML))
	}))
	defer srv.Close()

	f := New(Config{})
	docs := f.Fetch(context.Background(), []string{srv.URL})
	require.Len(t, docs, 1)
	assert.Equal(t, srv.URL, docs[0].URL)
	assert.Contains(t, docs[0].Text, "Central bank raises rates")
	assert.Contains(t, docs[0].Text, "The central bank raised rates by a quarter point.")
	assert.Contains(t, docs[0].Text, "Markets reacted & bonds fell.")
	assert.NotContains(t, docs[0].Text, "console.log")
	assert.NotContains(t, docs[0].Text, "color: red")
	assert.NotContains(t, docs[0].Text, "<p>")
}

func TestFetchPlainText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("Just plain text content."))
	}))
	defer srv.Close()

	f := New(Config{})
	docs := f.Fetch(context.Background(), []string{srv.URL})
	require.Len(t, docs, 1)
	assert.Equal(t, "Just plain text content.", docs[0].Text)
}

func TestFetchSkipsFailingURLs(t *testing.T) {
	ok := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<p>Still reachable content here.</p>"))
	}))
	defer ok.Close()
	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer dead.Close()

	f := New(Config{})
	docs := f.Fetch(context.Background(), []string{dead.URL, ok.URL, "http://127.0.0.1:1/nope", ""})
	require.Len(t, docs, 1)
	assert.Equal(t, ok.URL, docs[0].URL)
}

func TestFetchAllFailing(t *testing.T) {
	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer dead.Close()

	f := New(Config{})
	docs := f.Fetch(context.Background(), []string{dead.URL})
	assert.Empty(t, docs)
}

func TestFetchSkipsEmptyPages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><head><title>t</title></head><body><script>x()</script></body></html>"))
	}))
	defer srv.Close()

	f := New(Config{})
	docs := f.Fetch(context.Background(), []string{srv.URL})
	assert.Empty(t, docs)
}

func TestStripHTMLKeepsParagraphBreaks(t *testing.T) {
	text := stripHTML("<p>First paragraph.</p><p>Second paragraph.</p>")
	assert.Contains(t, text, "First paragraph.\n\nSecond paragraph.")
}
