package web

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"go-medical-site/internal/logx"
	"go-medical-site/internal/model"
)

// adminView 为后台编辑页的数据：全部来自编辑器工作副本而非已发布文档。
type adminView struct {
	Tab           string
	Doctor        model.DoctorInfo
	EducationText string
	Treatments    []model.Treatment
	Testimonials  []model.Testimonial
	Phone, Email  string
	Locations     []model.Location
	Stats         []model.Stat
	Settings      model.SiteSettings
}

var tabTitles = map[string]string{
	"doctor":       "Doctor Information",
	"treatments":   "Treatments",
	"testimonials": "Testimonials",
	"contact":      "Contact Information",
	"stats":        "Statistics",
	"settings":     "Site Settings",
}

// TabTitle 返回当前标签页标题，未知标签为空。
func (v *adminView) TabTitle() string { return tabTitles[v.Tab] }

// adminRoutes 挂载后台编辑页：GET 渲染工作副本，POST 执行增删与保存后重定向回对应标签页。
func (s *Server) adminRoutes(r chi.Router) {
	r.Get("/", s.handleAdmin)
	r.Post("/reload", func(w http.ResponseWriter, r *http.Request) {
		s.editor.Load()
		redirectTab(w, r, r.URL.Query().Get("tab"))
	})
	r.Post("/reset", func(w http.ResponseWriter, r *http.Request) {
		if err := s.editor.Reset(r.Context()); err != nil {
			logx.Warnf("重置文档失败：%v", err)
		}
		redirectTab(w, r, "")
	})
	r.Post("/{section}/add", s.handleAdminAdd)
	r.Post("/{section}/remove", s.handleAdminRemove)
	r.Post("/{section}/save", s.handleAdminSave)
}

func (s *Server) handleAdmin(w http.ResponseWriter, r *http.Request) {
	e := s.editor
	phone, email := e.Contact()
	v := &adminView{
		Tab:           r.URL.Query().Get("tab"),
		Doctor:        e.DoctorInfo(),
		EducationText: e.EducationText(),
		Treatments:    e.Treatments(),
		Testimonials:  e.Testimonials(),
		Phone:         phone,
		Email:         email,
		Locations:     e.Locations(),
		Stats:         e.Stats(),
		Settings:      e.Settings(),
	}
	s.render(w, http.StatusOK, "admin", pageData{Admin: v})
}

func (s *Server) handleAdminAdd(w http.ResponseWriter, r *http.Request) {
	section := chi.URLParam(r, "section")
	switch section {
	case "treatments":
		s.editor.AddTreatment()
	case "testimonials":
		s.editor.AddTestimonial()
	case "locations":
		s.editor.AddLocation()
		section = "contact"
	case "stats":
		s.editor.AddStat()
	default:
		http.NotFound(w, r)
		return
	}
	redirectTab(w, r, section)
}

// handleAdminRemove 删除第 i 项；越界时不做任何修改。
func (s *Server) handleAdminRemove(w http.ResponseWriter, r *http.Request) {
	section := chi.URLParam(r, "section")
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	i, err := strconv.Atoi(r.PostForm.Get("i"))
	if err != nil {
		i = -1
	}
	switch section {
	case "treatments":
		s.editor.RemoveTreatment(i)
	case "testimonials":
		s.editor.RemoveTestimonial(i)
	case "locations":
		s.editor.RemoveLocation(i)
		section = "contact"
	case "stats":
		s.editor.RemoveStat(i)
	default:
		http.NotFound(w, r)
		return
	}
	redirectTab(w, r, section)
}

// handleAdminSave 把表单字段写入工作副本后按分区保存。
func (s *Server) handleAdminSave(w http.ResponseWriter, r *http.Request) {
	section := chi.URLParam(r, "section")
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	f := r.PostForm
	e := s.editor
	var err error
	switch section {
	case "treatments":
		list := e.Treatments()
		for i := range list {
			t := &list[i]
			t.Title = at(f, "title", i, t.Title)
			t.Description = at(f, "description", i, t.Description)
			t.Icon = at(f, "icon", i, t.Icon)
			t.Slug = at(f, "slug", i, t.Slug)
		}
		e.SetTreatments(list)
		err = e.SaveTreatments(r.Context())
	case "testimonials":
		list := e.Testimonials()
		for i := range list {
			t := &list[i]
			t.Name = at(f, "name", i, t.Name)
			t.Role = at(f, "role", i, t.Role)
			t.Content = at(f, "content", i, t.Content)
			if n, perr := strconv.Atoi(at(f, "rating", i, "")); perr == nil {
				t.Rating = clamp(n, 1, 5)
			}
		}
		e.SetTestimonials(list)
		err = e.SaveTestimonials(r.Context())
	case "stats":
		list := e.Stats()
		for i := range list {
			st := &list[i]
			st.Number = at(f, "number", i, st.Number)
			st.Label = at(f, "label", i, st.Label)
			st.Icon = at(f, "icon", i, st.Icon)
		}
		e.SetStats(list)
		err = e.SaveStats(r.Context())
	case "contact":
		phone, email := e.Contact()
		e.SetContact(first(f, "phone", phone), first(f, "email", email))
		locs := e.Locations()
		for i := range locs {
			l := &locs[i]
			l.Name = at(f, "locName", i, l.Name)
			l.Address = at(f, "locAddress", i, l.Address)
			l.Phone = at(f, "locPhone", i, l.Phone)
			l.Hours = at(f, "locHours", i, l.Hours)
		}
		e.SetLocations(locs)
		err = e.SaveContactInfo(r.Context())
	case "doctor":
		d := e.DoctorInfo()
		d.Name = first(f, "name", d.Name)
		d.Title = first(f, "title", d.Title)
		d.Experience = first(f, "experience", d.Experience)
		d.CurrentPractice = first(f, "currentPractice", d.CurrentPractice)
		d.Description = first(f, "description", d.Description)
		d.Image = first(f, "image", d.Image)
		e.SetDoctorInfo(d)
		e.SetEducationText(first(f, "education", e.EducationText()))
		err = e.SaveDoctorInfo(r.Context())
	case "settings":
		st := e.Settings()
		st.SiteName = first(f, "siteName", st.SiteName)
		st.PrimaryColor = first(f, "primaryColor", st.PrimaryColor)
		st.SecondaryColor = first(f, "secondaryColor", st.SecondaryColor)
		e.SetSettings(st)
		err = e.SaveSettings(r.Context())
	default:
		http.NotFound(w, r)
		return
	}
	if err != nil {
		logx.Warnf("后台保存未能持久化：section=%s 错误=%v", section, err)
	}
	redirectTab(w, r, section)
}

// at 返回表单中 key 的第 i 个值，不存在时返回 fallback。
func at(f url.Values, key string, i int, fallback string) string {
	if vs, ok := f[key]; ok && i < len(vs) {
		return vs[i]
	}
	return fallback
}

func first(f url.Values, key, fallback string) string { return at(f, key, 0, fallback) }

func redirectTab(w http.ResponseWriter, r *http.Request, tab string) {
	target := "/admin"
	if tab != "" {
		target += "?tab=" + url.QueryEscape(tab)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
