package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-medical-site/internal/docstore"
	"go-medical-site/internal/export"
	"go-medical-site/internal/logx"
)

// maxBody 限制接口请求体大小。
const maxBody = 4 << 20

// apiRoutes 挂载 /api 下的后台 JSON 接口。
func (s *Server) apiRoutes(r chi.Router) {
	r.Get("/data", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.snapshot())
	})
	r.Put("/treatments", putSection(s, s.acc.UpdateTreatments))
	r.Put("/testimonials", putSection(s, s.acc.UpdateTestimonials))
	r.Put("/stats", putSection(s, s.acc.UpdateStats))
	r.Put("/blogs", putSection(s, s.acc.UpdateBlogs))
	r.Put("/contact", putSection(s, s.acc.UpdateContactInfo))
	r.Put("/doctor", putSection(s, s.acc.UpdateDoctorInfo))
	r.Patch("/settings", putSection(s, s.acc.UpdateSiteSettings))
	r.Patch("/hero", putSection(s, s.acc.UpdateHeroSettings))

	r.Post("/import", s.handleImport)
	r.Get("/export", s.handleExport)
	r.Post("/reset", s.handleReset)
	r.Post("/reset-assets", s.handleResetAssets)
	r.Post("/blogs/sync", s.handleBlogSync)
}

// putSection 解码请求体为 T 并交给对应的分区写入函数，成功后重载后台工作副本并返回最新文档。
func putSection[T any](s *Server, update func(ctx context.Context, v T) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var raw json.RawMessage
		if err := decodeJSON(r, &raw); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			writeError(w, http.StatusBadRequest, errors.New("section must not be null"))
			return
		}
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("decode section: %w", err))
			return
		}
		if err := update(r.Context(), v); err != nil {
			logx.Warnf("分区写入未能持久化：%s %v", r.URL.Path, err)
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		s.editor.Load()
		writeJSON(w, http.StatusOK, s.acc.WebsiteData())
	}
}

// handleImport 校验并整体替换文档；结构不合法时返回 400 且文档不变。
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	b, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	err = s.acc.Store().Import(r.Context(), b)
	switch {
	case errors.Is(err, docstore.ErrInvalidJSON), errors.Is(err, docstore.ErrMissingSection):
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid data format: %w", err))
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.editor.Load()
	logx.Infof("已导入文档")
	writeJSON(w, http.StatusOK, map[string]string{"status": "imported"})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	text, err := s.acc.Store().ExportText()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.DownloadName))
	_, _ = io.WriteString(w, text)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := s.editor.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, s.acc.WebsiteData())
}

func (s *Server) handleResetAssets(w http.ResponseWriter, r *http.Request) {
	src, err := s.acc.Store().ResetToDefaultFromAssets(r.Context())
	s.editor.Load()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"source": src.String()})
}

func (s *Server) handleBlogSync(w http.ResponseWriter, r *http.Request) {
	if s.sync == nil {
		writeError(w, http.StatusServiceUnavailable, errors.New("blog sync is not configured"))
		return
	}
	n, err := s.sync.Run(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"count": n})
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBody))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
