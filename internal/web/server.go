// 包 web 是站点的表现层：基于 chi 的页面路由、后台 JSON 接口、
// 后台编辑页与 SSE 推送。页面始终从订阅维护的快照渲染。
package web

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"go-medical-site/internal/admin"
	"go-medical-site/internal/broadcast"
	"go-medical-site/internal/content"
	"go-medical-site/internal/logx"
	"go-medical-site/internal/model"
	"go-medical-site/internal/seed"
)

//go:embed templates/*.html
var templateFS embed.FS

// BlogSyncer 为博客同步入口（blogsync.Runner 实现）。
type BlogSyncer interface {
	Run(ctx context.Context) (int, error)
}

// Options 为 Server 构造参数；Editor 为空时按 Accessor 新建，Sync 为空时同步接口返回 503。
type Options struct {
	Accessor *content.Accessor
	Editor   *admin.Editor
	Sync     BlogSyncer
	// RequestTimeout 为单请求超时（不作用于 /events），默认 30s。
	RequestTimeout time.Duration
	// AllowedOrigins 为 /api 的跨域白名单，默认仅本机。
	AllowedOrigins []string
	// StaticDir 为 /assets/ 下图片与视频的本地目录，默认 assets。
	StaticDir string
}

// Server 持有路由与渲染所需的文档快照。
type Server struct {
	acc    *content.Accessor
	editor *admin.Editor
	sync   BlogSyncer

	pages  map[string]*template.Template
	view   atomic.Pointer[model.WebsiteData]
	sub    *broadcast.Subscription
	router chi.Router
	http   *http.Server
}

// New 创建 Server 并订阅文档变化以维护渲染快照；用完须调用 Close。
func New(opts Options) (*Server, error) {
	if opts.Accessor == nil {
		return nil, fmt.Errorf("web: accessor is required")
	}
	if opts.Editor == nil {
		opts.Editor = admin.New(opts.Accessor)
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 30 * time.Second
	}
	if opts.StaticDir == "" {
		opts.StaticDir = "assets"
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"http://localhost:*", "http://127.0.0.1:*"}
	}
	pages, err := parsePages()
	if err != nil {
		return nil, err
	}
	s := &Server{acc: opts.Accessor, editor: opts.Editor, sync: opts.Sync, pages: pages}
	s.sub = opts.Accessor.Subscribe(func(d *model.WebsiteData) { s.view.Store(d) })
	s.router = s.buildRouter(opts)
	return s, nil
}

// buildRouter 创建并配置 chi 路由。
func (s *Server) buildRouter(opts Options) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/events", s.handleEvents)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(opts.RequestTimeout))

		r.Get("/", s.handleHome)
		r.Get("/home", s.handleHome)
		r.Get("/about", s.handleAbout)
		r.Get("/contact", s.handleContact)
		r.Get("/gallery", s.handleGallery)
		r.Get("/treatment/{slug}", s.handleTreatment)
		r.Post("/appointments", s.handleAppointment)
		r.Get(seed.AssetPath, handleAsset)
		r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.Dir(opts.StaticDir))))

		r.Route("/admin", s.adminRoutes)
		r.Route("/api", func(r chi.Router) {
			r.Use(cors.Handler(cors.Options{
				AllowedOrigins: opts.AllowedOrigins,
				AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "OPTIONS"},
				AllowedHeaders: []string{"Accept", "Content-Type"},
				MaxAge:         300,
			}))
			s.apiRoutes(r)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/", http.StatusFound)
	})
	return r
}

// Handler 返回根路由。
func (s *Server) Handler() http.Handler { return s.router }

// Start 在 addr 上监听，直到 Shutdown。
func (s *Server) Start(addr string) error {
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	logx.Infof("站点服务监听：%s", addr)
	return s.http.ListenAndServe()
}

// Shutdown 优雅关闭 HTTP 服务并取消文档订阅。
func (s *Server) Shutdown(ctx context.Context) error {
	defer s.Close()
	if s.http != nil {
		return s.http.Shutdown(ctx)
	}
	return nil
}

// Close 取消文档订阅。
func (s *Server) Close() { s.sub.Unsubscribe() }

// snapshot 返回当前渲染快照（只读）。
func (s *Server) snapshot() *model.WebsiteData {
	if d := s.view.Load(); d != nil {
		return d
	}
	return s.acc.WebsiteData()
}

func parsePages() (map[string]*template.Template, error) {
	names := []string{"home", "about", "contact", "gallery", "treatment", "admin"}
	out := make(map[string]*template.Template, len(names))
	for _, n := range names {
		t, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+n+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", n, err)
		}
		out[n] = t
	}
	return out, nil
}

func handleAsset(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(seed.BundledJSON())
}
