package dataset

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/lacuna/internal/model"
)

const ingestPage = `<!DOCTYPE html>
<html>
<head><title>Reference Page</title></head>
<body>
<nav><p>Short nav text.</p></nav>
<article>
<p>The river delta spans roughly four hundred square kilometers and supports
three distinct wetland ecosystems, each hosting migratory bird populations
that arrive between late March and early June every year.</p>
<p>The river delta spans roughly four hundred square kilometers and supports
three distinct wetland ecosystems, each hosting migratory bird populations
that arrive between late March and early June every year.</p>
<p>Regional grain production doubled over the following decade as irrigation
canals were extended into the eastern plateau, though yields remained
sensitive to the spring runoff from the northern ranges.</p>
</article>
<footer><p>Contact us.</p></footer>
</body>
</html>`

func testFetcher(t *testing.T) *Fetcher {
	t.Helper()
	return NewFetcher(model.HTTPConfig{
		Timeout:      5 * time.Second,
		UserAgent:    "Lacuna/0.1 (+https://github.com/ppiankov/lacuna)",
		MaxBodyBytes: 1 << 20,
	})
}

func TestIngester_Extract(t *testing.T) {
	ing := NewIngester(testFetcher(t))

	paras, err := ing.extract(ingestPage)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}

	// Two long paragraphs, one a duplicate; short nav/footer text is dropped.
	if len(paras) != 2 {
		t.Fatalf("extracted %d paragraphs, want 2: %v", len(paras), paras)
	}
	if !strings.Contains(paras[0], "river delta") {
		t.Errorf("first paragraph = %q", paras[0])
	}
	if strings.Contains(paras[0], "\n") {
		t.Error("paragraph whitespace not collapsed")
	}
}

func TestIngester_IngestURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			w.Write([]byte("User-agent: *\nAllow: /\n"))
			return
		}
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(ingestPage))
	}))
	defer srv.Close()

	ing := NewIngester(testFetcher(t))
	paras, err := ing.IngestURL(context.Background(), srv.URL+"/page")
	if err != nil {
		t.Fatalf("IngestURL failed: %v", err)
	}
	if len(paras) != 2 {
		t.Errorf("extracted %d paragraphs, want 2", len(paras))
	}
}

func TestIngester_IngestURL_RobotsDisallow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			w.Write([]byte("User-agent: *\nDisallow: /private/\n"))
			return
		}
		w.Write([]byte(ingestPage))
	}))
	defer srv.Close()

	ing := NewIngester(testFetcher(t))
	if _, err := ing.IngestURL(context.Background(), srv.URL+"/private/page"); err == nil {
		t.Error("expected robots.txt disallow error")
	}
}

func TestAppendDistractors(t *testing.T) {
	pool := []string{"a", "b"}
	merged := AppendDistractors(pool, []string{"b", "c", "c", "d"})
	want := []string{"a", "b", "c", "d"}
	if len(merged) != len(want) {
		t.Fatalf("merged %d docs, want %d: %v", len(merged), len(want), merged)
	}
	for i := range want {
		if merged[i] != want[i] {
			t.Errorf("merged[%d] = %q, want %q", i, merged[i], want[i])
		}
	}
}
