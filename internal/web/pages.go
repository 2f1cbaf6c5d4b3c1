package web

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"go-medical-site/internal/logx"
	"go-medical-site/internal/model"
)

// pageData 为所有页面模板共用的数据。
type pageData struct {
	Page      string
	Data      *model.WebsiteData
	Treatment *model.Treatment
	Gallery   []GalleryImage
	Lightbox  *Lightbox
	Form      Appointment
	Errors    map[string]string
	Flash     string
	Reference string
	Admin     *adminView
}

var funcs = template.FuncMap{
	"stars": func(n int) string {
		n = clamp(n, 0, 5)
		return strings.Repeat("★", n) + strings.Repeat("☆", 5-n)
	},
	"opacity":  func(f float64) string { return strconv.FormatFloat(f, 'f', 2, 64) },
	"add":      func(a, b int) int { return a + b },
	"title":    pageTitle,
	"markdown": renderMarkdown,
}

// md 不启用 WithUnsafe，内容中的原始 HTML 会被省略。
var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

// renderMarkdown 把诊疗详情等长文本按 Markdown 渲染；失败时退回转义后的原文。
func renderMarkdown(s string) template.HTML {
	var buf bytes.Buffer
	if err := md.Convert([]byte(s), &buf); err != nil {
		logx.Warnf("渲染 Markdown 失败：%v", err)
		return template.HTML(template.HTMLEscapeString(s))
	}
	return template.HTML(buf.String())
}

func (s *Server) render(w http.ResponseWriter, status int, name string, pd pageData) {
	t, ok := s.pages[name]
	if !ok {
		http.Error(w, "unknown page", http.StatusInternalServerError)
		return
	}
	pd.Page = name
	if pd.Data == nil {
		pd.Data = s.snapshot()
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, pd); err != nil {
		logx.Errorf("渲染页面失败：page=%s 错误=%v", name, err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "home", pageData{})
}

func (s *Server) handleAbout(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "about", pageData{})
}

func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "contact", pageData{})
}

// handleGallery 渲染图库；?i= 打开对应图片的大图，越界时夹到有效范围。
func (s *Server) handleGallery(w http.ResponseWriter, r *http.Request) {
	lb := NewLightbox(Gallery)
	if v := r.URL.Query().Get("i"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			lb.Open(i)
		}
	}
	s.render(w, http.StatusOK, "gallery", pageData{Gallery: Gallery, Lightbox: lb})
}

// handleTreatment 按 slug 渲染诊疗详情；未知 slug 重定向到首页。
func (s *Server) handleTreatment(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	d := s.snapshot()
	for i := range d.Treatments {
		if d.Treatments[i].Slug == slug && slug != "" {
			t := d.Treatments[i]
			s.render(w, http.StatusOK, "treatment", pageData{Data: d, Treatment: &t})
			return
		}
	}
	logx.Debugf("未找到诊疗项目：slug=%s", slug)
	http.Redirect(w, r, "/", http.StatusFound)
}

// handleAppointment 校验预约表单：JSON 请求返回 JSON，表单请求重新渲染联系页。
func (s *Server) handleAppointment(w http.ResponseWriter, r *http.Request) {
	var a Appointment
	isJSON := strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
	if isJSON {
		if err := decodeJSON(r, &a); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		a = Appointment{
			FullName:        r.PostForm.Get("fullName"),
			Phone:           r.PostForm.Get("phone"),
			Email:           r.PostForm.Get("email"),
			AppointmentDate: r.PostForm.Get("appointmentDate"),
			Treatment:       r.PostForm.Get("treatment"),
			Location:        r.PostForm.Get("location"),
			Time:            r.PostForm.Get("time"),
			Message:         r.PostForm.Get("message"),
		}
	}
	a.Trim()
	if errs := a.Validate(); errs != nil {
		if isJSON {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"errors": errs})
			return
		}
		s.render(w, http.StatusUnprocessableEntity, "contact", pageData{Form: a, Errors: errs})
		return
	}
	ref := uuid.NewString()
	logx.Event("appointment requested", "ref", ref,
		"name", a.FullName, "date", a.AppointmentDate, "time", a.Time,
		"treatment", a.Treatment, "location", a.Location)
	msg := "Appointment request submitted successfully! We will contact you soon."
	if isJSON {
		writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted", "message": msg, "reference": ref})
		return
	}
	s.render(w, http.StatusAccepted, "contact", pageData{Flash: msg, Reference: ref})
}

func pageTitle(site model.SiteSettings, page string) string {
	if page == "" || page == "home" {
		return site.SiteName
	}
	return fmt.Sprintf("%s | %s", strings.ToUpper(page[:1])+page[1:], site.SiteName)
}
