package docstore_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"go-medical-site/internal/docstore"
	"go-medical-site/internal/fetch"
	"go-medical-site/internal/model"
	"go-medical-site/internal/seed"
	"go-medical-site/internal/store"
)

type memKV struct {
	mu     sync.Mutex
	m      map[string]string
	setErr error
}

func newMemKV() *memKV { return &memKV{m: map[string]string{}} }

func (k *memKV) Get(_ context.Context, key string) (string, bool, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	v, ok := k.m[key]
	return v, ok, nil
}

func (k *memKV) Set(_ context.Context, key, value string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.setErr != nil {
		return k.setErr
	}
	k.m[key] = value
	return nil
}

func (k *memKV) Delete(_ context.Context, key string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	delete(k.m, key)
	return nil
}

type failingAsset struct{}

func (failingAsset) Fetch(context.Context) ([]byte, error) { return nil, errors.New("asset unavailable") }
func (failingAsset) String() string                        { return "failing" }

type bytesAsset []byte

func (b bytesAsset) Fetch(context.Context) ([]byte, error) { return b, nil }
func (bytesAsset) String() string                          { return "bytes" }

func threeTreatmentPayload() []byte {
	d := seed.Default()
	d.SiteSettings.SiteName = "From Asset"
	b, _ := json.Marshal(d)
	return b
}

func mustStore(t *testing.T, opts docstore.Options) *docstore.Store {
	t.Helper()
	s, err := docstore.New(opts)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return s
}

func TestNew_InteractiveRequiresKV(t *testing.T) {
	if _, err := docstore.New(docstore.Options{Mode: docstore.ModeInteractive}); err == nil {
		t.Fatal("expected error without kv")
	}
	if _, err := docstore.New(docstore.Options{Mode: docstore.ModeServerRender}); err != nil {
		t.Fatalf("server mode: %v", err)
	}
}

func TestCurrent_HoldsSeedBeforeInit(t *testing.T) {
	s := mustStore(t, docstore.Options{KV: newMemKV(), Asset: failingAsset{}})
	if !reflect.DeepEqual(s.Current(), seed.Default()) {
		t.Fatalf("pre-init current is not the seed default")
	}
}

func TestInit_AssetPathAdoptsAndPersists(t *testing.T) {
	payload := threeTreatmentPayload()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(payload)
	}))
	defer srv.Close()
	cl, _ := fetch.New(fetch.Options{Timeout: 2 * time.Second})
	kv := newMemKV()
	s := mustStore(t, docstore.Options{KV: kv, Asset: docstore.HTTPAsset{Client: cl, URL: srv.URL}})

	if src := s.Init(context.Background()); src != docstore.SourceAsset {
		t.Fatalf("source=%v want asset", src)
	}
	var want model.WebsiteData
	_ = json.Unmarshal(payload, &want)
	if !reflect.DeepEqual(s.Current(), &want) {
		t.Fatalf("current differs from asset payload")
	}
	if len(s.Current().Treatments) != 3 {
		t.Fatalf("treatments=%d want=3", len(s.Current().Treatments))
	}

	raw, ok, _ := kv.Get(context.Background(), docstore.DefaultStorageKey)
	if !ok {
		t.Fatalf("asset not persisted")
	}
	var stored model.WebsiteData
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		t.Fatalf("decode persisted: %v", err)
	}
	if !reflect.DeepEqual(&stored, &want) {
		t.Fatalf("persisted copy differs from payload")
	}
}

func TestInit_PersistedCopyWins(t *testing.T) {
	kv := newMemKV()
	d := seed.Default()
	d.DoctorInfo.Name = "Dr. Persisted"
	b, _ := json.Marshal(d)
	_ = kv.Set(context.Background(), docstore.DefaultStorageKey, string(b))

	s := mustStore(t, docstore.Options{KV: kv, Asset: bytesAsset(threeTreatmentPayload())})
	if src := s.Init(context.Background()); src != docstore.SourcePersisted {
		t.Fatalf("source=%v want persisted", src)
	}
	if s.Current().DoctorInfo.Name != "Dr. Persisted" {
		t.Fatalf("name=%q", s.Current().DoctorInfo.Name)
	}
}

func TestInit_CorruptPersistedFallsThrough(t *testing.T) {
	kv := newMemKV()
	_ = kv.Set(context.Background(), docstore.DefaultStorageKey, "{not json")
	s := mustStore(t, docstore.Options{KV: kv, Asset: bytesAsset(threeTreatmentPayload())})
	if src := s.Init(context.Background()); src != docstore.SourceAsset {
		t.Fatalf("source=%v want asset", src)
	}
	if s.Current().SiteSettings.SiteName != "From Asset" {
		t.Fatalf("site name=%q", s.Current().SiteSettings.SiteName)
	}
}

func TestInit_AssetFailureFallsBackToSeed(t *testing.T) {
	kv := newMemKV()
	s := mustStore(t, docstore.Options{KV: kv, Asset: failingAsset{}})
	if src := s.Init(context.Background()); src != docstore.SourceSeed {
		t.Fatalf("source=%v want seed", src)
	}
	if !reflect.DeepEqual(s.Current(), seed.Default()) {
		t.Fatalf("current is not seed default")
	}
	if _, ok, _ := kv.Get(context.Background(), docstore.DefaultStorageKey); ok {
		t.Fatalf("seed fallback must not persist")
	}
}

func TestInit_ServerRenderSkipsStorageAndAsset(t *testing.T) {
	kv := newMemKV()
	_ = kv.Set(context.Background(), docstore.DefaultStorageKey, string(threeTreatmentPayload()))
	s := mustStore(t, docstore.Options{Mode: docstore.ModeServerRender, KV: kv, Asset: bytesAsset(threeTreatmentPayload())})
	if src := s.Init(context.Background()); src != docstore.SourceSeed {
		t.Fatalf("source=%v want seed", src)
	}
	if !reflect.DeepEqual(s.Current(), seed.Default()) {
		t.Fatalf("server render must use seed")
	}

	d := seed.Default()
	d.SiteSettings.SiteName = "edited"
	if err := s.Replace(context.Background(), d); err != nil {
		t.Fatalf("replace: %v", err)
	}
	raw, _, _ := kv.Get(context.Background(), docstore.DefaultStorageKey)
	if strings.Contains(raw, "edited") {
		t.Fatalf("server render mode wrote to storage")
	}
}

func TestReplace_ThenCurrentDeepEqual(t *testing.T) {
	s := mustStore(t, docstore.Options{KV: newMemKV(), Asset: failingAsset{}})
	s.Init(context.Background())
	d := seed.Default()
	d.Treatments = append(d.Treatments, model.Treatment{ID: 99, Title: "New", Slug: "new", Symptoms: []string{}})
	d.Blogs = nil
	if err := s.Replace(context.Background(), d); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if !reflect.DeepEqual(s.Current(), d) {
		t.Fatalf("current != replaced document")
	}

	// 调用方后续修改不影响仓库
	d.Treatments[0].Title = "mutated"
	if s.Current().Treatments[0].Title == "mutated" {
		t.Fatalf("store shares caller's slices")
	}
}

func TestReplace_PersistErrorStillPublishes(t *testing.T) {
	kv := newMemKV()
	s := mustStore(t, docstore.Options{KV: kv, Asset: failingAsset{}})
	s.Init(context.Background())
	kv.setErr = errors.New("disk full")
	d := seed.Default()
	d.SiteSettings.SiteName = "x"
	if err := s.Replace(context.Background(), d); err == nil {
		t.Fatal("expected persist error")
	}
	if s.Current().SiteSettings.SiteName != "x" {
		t.Fatalf("in-memory document not updated")
	}
}

func TestSubscribers_ObserveLatest(t *testing.T) {
	s := mustStore(t, docstore.Options{KV: newMemKV(), Asset: failingAsset{}})
	var early *model.WebsiteData
	sub := s.Subscribe(func(d *model.WebsiteData) { early = d })
	defer sub.Unsubscribe()
	s.Init(context.Background())

	d := seed.Default()
	d.SiteSettings.SiteName = "after"
	_ = s.Replace(context.Background(), d)
	if early != s.Current() {
		t.Fatalf("early subscriber does not hold current snapshot")
	}

	var late *model.WebsiteData
	sub2 := s.Subscribe(func(d *model.WebsiteData) { late = d })
	defer sub2.Unsubscribe()
	if late != s.Current() {
		t.Fatalf("late subscriber did not receive current snapshot")
	}
}

func TestResetToDefault_ClearsStorageAndRepublishes(t *testing.T) {
	kv := newMemKV()
	s := mustStore(t, docstore.Options{KV: kv, Asset: bytesAsset(threeTreatmentPayload())})
	s.Init(context.Background())
	var got *model.WebsiteData
	sub := s.Subscribe(func(d *model.WebsiteData) { got = d })
	defer sub.Unsubscribe()

	if err := s.ResetToDefault(context.Background()); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if _, ok, _ := kv.Get(context.Background(), docstore.DefaultStorageKey); ok {
		t.Fatalf("storage not cleared")
	}
	if !reflect.DeepEqual(got, seed.Default()) {
		t.Fatalf("subscriber did not receive seed default")
	}
	if s.Source() != docstore.SourceSeed {
		t.Fatalf("source=%v", s.Source())
	}
}

func TestResetToDefaultFromAssets_FailureYieldsSeed(t *testing.T) {
	s := mustStore(t, docstore.Options{KV: newMemKV(), Asset: failingAsset{}})
	s.Init(context.Background())
	d := seed.Default()
	d.SiteSettings.SiteName = "edited"
	_ = s.Replace(context.Background(), d)

	src, err := s.ResetToDefaultFromAssets(context.Background())
	if err != nil {
		t.Fatalf("reset from assets: %v", err)
	}
	if src != docstore.SourceSeed {
		t.Fatalf("source=%v want seed", src)
	}
	if !reflect.DeepEqual(s.Current(), seed.Default()) {
		t.Fatalf("current is not seed default")
	}
}

func TestResetToDefaultFromAssets_EmbeddedAsset(t *testing.T) {
	s := mustStore(t, docstore.Options{KV: newMemKV()})
	s.Init(context.Background())
	_ = s.Replace(context.Background(), seed.Default())
	src, err := s.ResetToDefaultFromAssets(context.Background())
	if err != nil || src != docstore.SourceAsset {
		t.Fatalf("src=%v err=%v", src, err)
	}
	want, _ := docstore.Decode(seed.BundledJSON())
	if !reflect.DeepEqual(s.Current(), want) {
		t.Fatalf("current differs from bundled asset")
	}
}

func TestImport_RejectsMissingSections(t *testing.T) {
	s := mustStore(t, docstore.Options{KV: newMemKV(), Asset: failingAsset{}})
	s.Init(context.Background())
	before := s.Current()

	for _, key := range docstore.RequiredSections {
		var m map[string]any
		_ = json.Unmarshal(threeTreatmentPayload(), &m)
		delete(m, key)
		b, _ := json.Marshal(m)
		err := s.Import(context.Background(), b)
		if !errors.Is(err, docstore.ErrMissingSection) {
			t.Fatalf("missing %s: err=%v", key, err)
		}
		if s.Current() != before {
			t.Fatalf("document changed after rejected import (%s)", key)
		}
	}
	if err := s.Import(context.Background(), []byte(`{"doctorInfo":`)); !errors.Is(err, docstore.ErrInvalidJSON) {
		t.Fatalf("malformed: err=%v", err)
	}
	if err := s.Import(context.Background(), []byte(`[1,2]`)); !errors.Is(err, docstore.ErrInvalidJSON) {
		t.Fatalf("array: err=%v", err)
	}
	if err := s.Import(context.Background(), []byte(`{"doctorInfo":{},"treatments":null,"testimonials":[],"contactInfo":{},"siteSettings":{}}`)); !errors.Is(err, docstore.ErrMissingSection) {
		t.Fatalf("null section: err=%v", err)
	}
	if s.Current() != before {
		t.Fatalf("document changed after rejected import")
	}
}

func TestImport_AcceptsValidDocument(t *testing.T) {
	s := mustStore(t, docstore.Options{KV: newMemKV(), Asset: failingAsset{}})
	s.Init(context.Background())
	if err := s.Import(context.Background(), threeTreatmentPayload()); err != nil {
		t.Fatalf("import: %v", err)
	}
	if s.Current().SiteSettings.SiteName != "From Asset" {
		t.Fatalf("import not applied")
	}
}

func TestExportText_PrettyRoundTrip(t *testing.T) {
	s := mustStore(t, docstore.Options{KV: newMemKV(), Asset: failingAsset{}})
	s.Init(context.Background())
	txt, err := s.ExportText()
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.Contains(txt, "\n  \"doctorInfo\": {") {
		t.Fatalf("export not pretty printed: %.80q", txt)
	}
	d, err := docstore.Decode([]byte(txt))
	if err != nil {
		t.Fatalf("decode export: %v", err)
	}
	if !reflect.DeepEqual(d, s.Current()) {
		t.Fatalf("export does not round-trip")
	}
}

func TestNextID_MonotonicAndAboveDocument(t *testing.T) {
	s := mustStore(t, docstore.Options{KV: newMemKV(), Asset: failingAsset{}})
	s.Init(context.Background())
	top := s.Current().MaxID()
	a, b := s.NextID(), s.NextID()
	if a <= top || b <= a {
		t.Fatalf("ids not monotonic: max=%d a=%d b=%d", top, a, b)
	}
}

func TestStore_WithSQLiteSurvivesRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.db")
	kv, err := store.OpenSQLite(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	s := mustStore(t, docstore.Options{KV: kv, Asset: failingAsset{}})
	s.Init(context.Background())
	d := seed.Default()
	d.ContactInfo.Phone = "+49 30 1234"
	if err := s.Replace(context.Background(), d); err != nil {
		t.Fatalf("replace: %v", err)
	}
	_ = kv.Close()

	kv2, err := store.OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer kv2.Close()
	s2 := mustStore(t, docstore.Options{KV: kv2, Asset: failingAsset{}})
	if src := s2.Init(context.Background()); src != docstore.SourcePersisted {
		t.Fatalf("source=%v", src)
	}
	if s2.Current().ContactInfo.Phone != "+49 30 1234" {
		t.Fatalf("phone=%q", s2.Current().ContactInfo.Phone)
	}
}

func TestParseMode(t *testing.T) {
	if m, err := docstore.ParseMode(""); err != nil || m != docstore.ModeInteractive {
		t.Fatalf("empty: %v %v", m, err)
	}
	if m, err := docstore.ParseMode("SSR"); err != nil || m != docstore.ModeServerRender {
		t.Fatalf("ssr: %v %v", m, err)
	}
	if _, err := docstore.ParseMode("desktop"); err == nil {
		t.Fatal("expected error")
	}
}
