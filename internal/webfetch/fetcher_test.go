package webfetch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"
)

func TestText_StripsMarkupAndCollapsesWhitespace(t *testing.T) {
	page := `<!DOCTYPE html>
<html><head>
<style>body { color: red; }</style>
<script>console.log("tracking");</script>
</head><body>
  <h1>Bakkerij   Jansen</h1>
  <noscript>Enable JS</noscript>
  <p>Vers brood,
     elke dag.</p>
</body></html>`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, page)
	}))
	defer srv.Close()

	got := NewFetcher(2*time.Second).Text(context.Background(), srv.URL)

	if strings.Contains(got, "color: red") || strings.Contains(got, "tracking") || strings.Contains(got, "Enable JS") {
		t.Errorf("script/style/noscript content leaked: %q", got)
	}
	if strings.Contains(got, "<") {
		t.Errorf("markup leaked: %q", got)
	}
	if !strings.Contains(got, "Bakkerij Jansen") || !strings.Contains(got, "Vers brood, elke dag.") {
		t.Errorf("visible text lost or whitespace not collapsed: %q", got)
	}
}

func TestText_TruncatesTo8000Runes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "<body>%s</body>", strings.Repeat("é ", 9000))
	}))
	defer srv.Close()

	got := NewFetcher(2*time.Second).Text(context.Background(), srv.URL)
	if n := utf8.RuneCountInString(got); n > 8000 {
		t.Errorf("rune count = %d; want <= 8000", n)
	}
}

func TestText_DegradesOnNonOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	got := NewFetcher(2*time.Second).Text(context.Background(), srv.URL)
	if got != "Website URL: "+srv.URL {
		t.Errorf("got %q; want degraded placeholder", got)
	}
}

func TestText_DegradesOnNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	got := NewFetcher(500*time.Millisecond).Text(context.Background(), url)
	if got != "Website URL: "+url {
		t.Errorf("got %q; want degraded placeholder", got)
	}
}

func TestText_EmptyPageYieldsPlaceholder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html><body><script>only()</script></body></html>")
	}))
	defer srv.Close()

	got := NewFetcher(2*time.Second).Text(context.Background(), srv.URL)
	if got != "Website: "+srv.URL {
		t.Errorf("got %q; want empty-extraction placeholder", got)
	}
}
