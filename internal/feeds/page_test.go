package feeds_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-medical-site/internal/feeds"
	"go-medical-site/internal/rules"
)

const listPage = `<html><body>
<article>
  <h2><a href="/posts/sleep">Sleep   and
  the brain</a></h2>
  <time datetime="2024-03-01T08:00:00Z">March 1</time>
  <p class="excerpt">Rest <em>matters</em>.</p>
  <img src="/img/sleep.jpg">
</article>
<article>
  <h3>Stroke recovery</h3>
  <span class="date">Feb 10, 2024</span>
  <p>Small steps.</p>
</article>
<article><p>no title here</p></article>
</body></html>`

func TestParseBlogPage_DefaultPreset(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(listPage))
	}))
	defer srv.Close()

	p, _ := rules.Default().GetPreset("")
	blogs, err := feeds.ParseBlogPage(context.Background(), newClient(t), srv.URL+"/blog", p.BlogPage, 0)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(blogs) != 2 {
		t.Fatalf("want 2, got %d: %+v", len(blogs), blogs)
	}
	a := blogs[0]
	if a.Title != "Sleep and the brain" || a.Link != srv.URL+"/posts/sleep" || a.Date != "2024-03-01" {
		t.Fatalf("first = %+v", a)
	}
	if a.Excerpt != "Rest matters." || a.Image != srv.URL+"/img/sleep.jpg" {
		t.Fatalf("first excerpt/image = %q %q", a.Excerpt, a.Image)
	}
	b := blogs[1]
	if b.Title != "Stroke recovery" || b.Date != "2024-02-10" || b.Link != "" || b.Image != "" {
		t.Fatalf("second = %+v", b)
	}
}

func TestParseBlogPage_MaxAndMissingRule(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(listPage))
	}))
	defer srv.Close()
	cl := newClient(t)
	p, _ := rules.Default().GetPreset("default")
	blogs, err := feeds.ParseBlogPage(context.Background(), cl, srv.URL, p.BlogPage, 1)
	if err != nil || len(blogs) != 1 {
		t.Fatalf("max=1: %v %d", err, len(blogs))
	}
	if _, err := feeds.ParseBlogPage(context.Background(), cl, srv.URL, nil, 0); err == nil {
		t.Fatalf("expected error without rule")
	}
}

func TestParseBlogPage_SelectorFallbackAndAttr(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<!doctype html><ul>
		<li class="it" data-href="/x"><span class="t1">Migraine triggers</span></li>
		</ul>`))
	}))
	defer srv.Close()

	bp := &rules.BlogPage{
		Item:  ".it",
		Title: ".t0||.t1||.",
		Link:  "a@href||@data-href",
		Image: ".missing||img@src",
	}
	blogs, err := feeds.ParseBlogPage(context.Background(), newClient(t), srv.URL+"/l", bp, 0)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(blogs) != 1 {
		t.Fatalf("len = %d, want 1", len(blogs))
	}
	if blogs[0].Title != "Migraine triggers" {
		t.Fatalf("fallback title = %q", blogs[0].Title)
	}
	if blogs[0].Link != srv.URL+"/x" {
		t.Fatalf("link = %q", blogs[0].Link)
	}
	if blogs[0].Image != "" {
		t.Fatalf("image = %q", blogs[0].Image)
	}
}
