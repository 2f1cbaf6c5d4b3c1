package blogsync_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-medical-site/internal/blogsync"
	"go-medical-site/internal/content"
	"go-medical-site/internal/docstore"
	"go-medical-site/internal/fetch"
	"go-medical-site/internal/model"
	"go-medical-site/internal/rules"
)

func rss(items ...string) string {
	s := `<?xml version="1.0"?><rss version="2.0"><channel><title>t</title>`
	for _, it := range items {
		s += it
	}
	return s + `</channel></rss>`
}

func item(title, date string) string {
	return fmt.Sprintf(`<item><title>%s</title><link>https://ex/%s</link><pubDate>%s</pubDate><description>body</description></item>`, title, title, date)
}

func newAccessor(t *testing.T) *content.Accessor {
	t.Helper()
	s, err := docstore.New(docstore.Options{Mode: docstore.ModeServerRender})
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	s.Init(context.Background())
	return content.New(s)
}

func newClient(t *testing.T) *fetch.Client {
	t.Helper()
	cl, err := fetch.New(fetch.Options{})
	if err != nil {
		t.Fatalf("fetch.New: %v", err)
	}
	return cl
}

func TestRun_MergesSortsCapsAndAssignsIDs(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/a.xml", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(rss(
			item("Alpha", "Mon, 02 Jan 2006 15:04:05 GMT"),
			item("Shared", "Wed, 04 Jan 2006 15:04:05 GMT"),
		)))
	})
	mux.HandleFunc("/b.xml", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(rss(
			item("Beta", "Thu, 05 Jan 2006 15:04:05 GMT"),
			item("shared", "Tue, 03 Jan 2006 15:04:05 GMT"),
			item("Old", "Sun, 01 Jan 2006 15:04:05 GMT"),
		)))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	acc := newAccessor(t)
	maxBefore := acc.WebsiteData().MaxID()
	r := blogsync.New(acc, newClient(t), blogsync.Options{
		Feeds:       []string{srv.URL + "/a.xml", srv.URL + "/b.xml", srv.URL + "/a.xml"},
		MaxBlogs:    3,
		Concurrency: 2,
	})
	n, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	blogs := acc.Blogs()
	if n != 3 || len(blogs) != 3 {
		t.Fatalf("n=%d blogs=%d", n, len(blogs))
	}
	wantTitles := []string{"Beta", "Shared", "Alpha"}
	for i, w := range wantTitles {
		if blogs[i].Title != w {
			t.Fatalf("blogs[%d] = %q want %q", i, blogs[i].Title, w)
		}
	}
	if blogs[1].Date != "2006-01-04" {
		t.Fatalf("newer duplicate should win, date=%s", blogs[1].Date)
	}
	seen := map[int64]bool{}
	for _, b := range blogs {
		if b.ID <= maxBefore || seen[b.ID] {
			t.Fatalf("bad id %d (max before %d)", b.ID, maxBefore)
		}
		seen[b.ID] = true
	}
}

func TestRun_NoResultsKeepsBlogs(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	acc := newAccessor(t)
	before := acc.Blogs()
	r := blogsync.New(acc, newClient(t), blogsync.Options{Feeds: []string{srv.URL + "/missing.xml"}})
	n, err := r.Run(context.Background())
	if err != nil || n != 0 {
		t.Fatalf("n=%d err=%v", n, err)
	}
	if len(acc.Blogs()) != len(before) || acc.Blogs()[0].Title != before[0].Title {
		t.Fatalf("blogs changed on empty sync")
	}
}

func TestRun_DiscoversFeedFromSitePage(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/blog", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><head><link rel="alternate" type="application/rss+xml" href="/blog/rss.xml"></head></html>`))
	})
	mux.HandleFunc("/blog/rss.xml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(rss(item("Discovered", "Mon, 02 Jan 2006 15:04:05 GMT"))))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	acc := newAccessor(t)
	r := blogsync.New(acc, newClient(t), blogsync.Options{Feeds: []string{srv.URL + "/blog"}})
	if _, err := r.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if b := acc.Blogs(); len(b) != 1 || b[0].Title != "Discovered" {
		t.Fatalf("blogs = %+v", b)
	}
}

func TestRun_KeepsViewsForSameTitle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(rss(item("Popular", "Mon, 02 Jan 2006 15:04:05 GMT"))))
	}))
	defer srv.Close()

	acc := newAccessor(t)
	if err := acc.UpdateBlogs(context.Background(), []model.Blog{{ID: 1, Title: "Popular", Views: 77}}); err != nil {
		t.Fatalf("seed blogs: %v", err)
	}
	r := blogsync.New(acc, newClient(t), blogsync.Options{Feeds: []string{srv.URL}})
	if _, err := r.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if b := acc.Blogs(); len(b) != 1 || b[0].Views != 77 || b[0].ID == 1 {
		t.Fatalf("blogs = %+v", b)
	}
}

func TestRun_ParsesListPageWithPreset(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<ul><li class="post"><a href="/p/1">Clinic news</a><i>2024-05-01</i></li></ul>`))
	}))
	defer srv.Close()

	rl := &rules.Rules{Presets: map[string]rules.Preset{
		"list": {BlogPage: &rules.BlogPage{Item: "li.post", Title: "a", Link: "a@href", Date: "i"}},
	}}
	acc := newAccessor(t)
	r := blogsync.New(acc, newClient(t), blogsync.Options{
		Pages: []blogsync.Page{{URL: srv.URL, Theme: "list"}},
		Rules: rl,
	})
	if _, err := r.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	b := acc.Blogs()
	if len(b) != 1 || b[0].Title != "Clinic news" || b[0].Date != "2024-05-01" || b[0].Link != srv.URL+"/p/1" {
		t.Fatalf("blogs = %+v", b)
	}
}

func TestBuffer_SnapshotOrderAndCap(t *testing.T) {
	b := blogsync.NewBuffer()
	b.Add([]model.Blog{{Title: "b", Date: "2024-01-01"}, {Title: "a", Date: "2024-01-01"}, {Title: " ", Date: "2025-01-01"}})
	b.Add([]model.Blog{{Title: "c", Date: "2024-02-01"}})
	if b.Len() != 3 {
		t.Fatalf("len=%d", b.Len())
	}
	got := b.Snapshot(2)
	if len(got) != 2 || got[0].Title != "c" || got[1].Title != "a" {
		t.Fatalf("snapshot = %+v", got)
	}
}

func TestBuffer_UnparseableDatesSortLast(t *testing.T) {
	b := blogsync.NewBuffer()
	b.Add([]model.Blog{
		{Title: "spring issue", Date: "Spring 2024"},
		{Title: "old", Date: "2023-05-01"},
		{Title: "undated", Date: ""},
		{Title: "new", Date: "2024-06-01"},
	})
	got := b.Snapshot(0)
	want := []string{"new", "old", "spring issue", "undated"}
	if len(got) != len(want) {
		t.Fatalf("len = %d", len(got))
	}
	for i, w := range want {
		if got[i].Title != w {
			t.Fatalf("order = %+v", got)
		}
	}

	b.Add([]model.Blog{{Title: "OLD", Date: "someday"}})
	for _, p := range b.Snapshot(0) {
		if p.Title == "OLD" {
			t.Fatalf("undated duplicate replaced a dated entry")
		}
	}
}
