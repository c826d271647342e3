package metadata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func page(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(body))
	}
}

func TestCleanTitle(t *testing.T) {
	tests := map[string]string{
		"Wireless Mouse - Acme Store":       "Wireless Mouse",
		"Best  Headphones  Ever | BuyStuff": "Best Headphones Ever",
		"  Lego\n\tCastle  ":                "Lego Castle",
		"Robot Kit — Toy Shop":              "Robot Kit",
		"Plain Title":                       "Plain Title",
		"":                                  "",
	}
	for in, want := range tests {
		assert.Equal(t, want, cleanTitle(in), "input %q", in)
	}
}

func TestResolveImageURL(t *testing.T) {
	assert.Equal(t, "https://shop.example/img/a.jpg", resolveImageURL("https://shop.example/p/1", "/img/a.jpg"))
	assert.Equal(t, "https://shop.example/p/b.png", resolveImageURL("https://shop.example/p/1", "b.png"))
	assert.Equal(t, "https://cdn.example/c.jpg", resolveImageURL("https://shop.example/p/1", "//cdn.example/c.jpg"))
	assert.Equal(t, "", resolveImageURL("https://shop.example/p/1", "http://[::1"))
}

func TestExtractTitleFallbackOrder(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "og title wins",
			html: `<html><head><title>Page - Site</title>
				<meta name="twitter:title" content="Twitter">
				<meta property="og:title" content="Wireless Mouse - Acme Store"></head></html>`,
			want: "Wireless Mouse",
		},
		{
			name: "empty og falls through to twitter",
			html: `<html><head><meta property="og:title" content="">
				<meta name="twitter:title" content="Kite"></head></html>`,
			want: "Kite",
		},
		{
			name: "microdata name",
			html: `<html><body><meta itemprop="name" content="Puzzle"></body></html>`,
			want: "Puzzle",
		},
		{
			name: "title element",
			html: `<html><head><title>Best  Headphones  Ever | BuyStuff</title></head></html>`,
			want: "Best Headphones Ever",
		},
		{
			name: "nothing",
			html: `<html><body><p>hi</p></body></html>`,
			want: "",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(page(tc.html))
			defer srv.Close()

			got := NewExtractor(time.Second).ExtractTitle(context.Background(), srv.URL+"/p/1")
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestExtractImage(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/og", page(`<meta property="og:image" content="/img/a.jpg"><meta name="twitter:image" content="https://x/t.jpg">`))
	mux.HandleFunc("/twitter", page(`<meta name="twitter:image" content="https://cdn.example/t.jpg">`))
	mux.HandleFunc("/itemprop", page(`<meta itemprop="image" content="pics/i.webp">`))
	mux.HandleFunc("/photo.PNG", page(`binary`))
	mux.HandleFunc("/none", page(`<html></html>`))
	srv := httptest.NewServer(mux)
	defer srv.Close()

	e := NewExtractor(time.Second)
	ctx := context.Background()

	assert.Equal(t, srv.URL+"/img/a.jpg", e.ExtractImage(ctx, srv.URL+"/og"))
	assert.Equal(t, "https://cdn.example/t.jpg", e.ExtractImage(ctx, srv.URL+"/twitter"))
	assert.Equal(t, srv.URL+"/pics/i.webp", e.ExtractImage(ctx, srv.URL+"/itemprop"))
	assert.Equal(t, srv.URL+"/photo.PNG", e.ExtractImage(ctx, srv.URL+"/photo.PNG"))
	assert.Equal(t, "", e.ExtractImage(ctx, srv.URL+"/none"))
}

func TestExtractSkipsNonHTTPInput(t *testing.T) {
	e := NewExtractor(time.Second)
	for _, in := range []string{"", "not-a-url", "ftp://shop.example/a.jpg", "javascript:alert(1)"} {
		assert.Equal(t, "", e.ExtractTitle(context.Background(), in))
		assert.Equal(t, "", e.ExtractImage(context.Background(), in))
	}
}

func TestExtractNonSuccessStatus(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`<title>Not Found - Shop</title><meta property="og:image" content="/x.jpg">`))
	}))
	defer srv.Close()

	e := NewExtractor(time.Second)
	assert.Equal(t, "", e.ExtractTitle(context.Background(), srv.URL))
	assert.Equal(t, "", e.ExtractImage(context.Background(), srv.URL))
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits), "no retries")
}

func TestExtractTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	start := time.Now()
	got := NewExtractor(50 * time.Millisecond).ExtractTitle(context.Background(), srv.URL)

	assert.Equal(t, "", got)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestExtractSendsBrowserUserAgent(t *testing.T) {
	var ua string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ua = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(`<title>Kite</title>`))
	}))
	defer srv.Close()

	assert.Equal(t, "Kite", NewExtractor(time.Second).ExtractTitle(context.Background(), srv.URL))
	assert.Equal(t, userAgent, ua)
}
