// 包 admin 实现后台编辑器：从访问层载入各分区的工作副本，
// 在副本上增删改，保存时按分区整体写回。
package admin

import (
	"context"
	"strings"
	"sync"

	"go-medical-site/internal/content"
	"go-medical-site/internal/logx"
	"go-medical-site/internal/model"
)

const (
	DefaultTreatmentIcon = "fas fa-medical"
	DefaultStatIcon      = "fas fa-chart-bar"
	DefaultRole          = "Patient"
	DefaultRating        = 5
)

// Editor 持有后台页面的工作副本；保存前的修改不会影响已发布文档。
type Editor struct {
	acc *content.Accessor

	mu            sync.Mutex
	doctor        model.DoctorInfo
	educationText string
	treatments    []model.Treatment
	testimonials  []model.Testimonial
	phone, email  string
	locations     []model.Location
	stats         []model.Stat
	settings      model.SiteSettings
}

// New 创建编辑器并立即载入当前文档。
func New(acc *content.Accessor) *Editor {
	e := &Editor{acc: acc}
	e.Load()
	return e
}

// Load 用当前文档覆盖全部工作副本，未保存的修改会丢失。
func (e *Editor) Load() {
	d := e.acc.WebsiteData()
	e.mu.Lock()
	defer e.mu.Unlock()
	e.doctor = d.DoctorInfo.Clone()
	e.educationText = strings.Join(d.DoctorInfo.Education, "\n")
	e.treatments = model.CloneTreatments(d.Treatments)
	e.testimonials = model.CloneSlice(d.Testimonials)
	e.phone, e.email = d.ContactInfo.Phone, d.ContactInfo.Email
	e.locations = model.CloneSlice(d.ContactInfo.Locations)
	e.stats = model.CloneSlice(d.Stats)
	e.settings = d.SiteSettings
}

// Reset 把文档重置为种子默认值并重新载入工作副本。
func (e *Editor) Reset(ctx context.Context) error {
	err := e.acc.Store().ResetToDefault(ctx)
	e.Load()
	return err
}

// ---- 诊疗项目 ----

func (e *Editor) Treatments() []model.Treatment {
	e.mu.Lock()
	defer e.mu.Unlock()
	return model.CloneTreatments(e.treatments)
}

func (e *Editor) SetTreatments(v []model.Treatment) {
	e.mu.Lock()
	e.treatments = model.CloneTreatments(v)
	e.mu.Unlock()
}

// AddTreatment 追加一个空白项目（新 ID，默认图标）。
func (e *Editor) AddTreatment() model.Treatment {
	t := model.Treatment{ID: e.acc.NextID(), Icon: DefaultTreatmentIcon}
	e.mu.Lock()
	e.treatments = append(e.treatments, t)
	e.mu.Unlock()
	return t
}

func (e *Editor) RemoveTreatment(i int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	var ok bool
	e.treatments, ok = removeAt(e.treatments, i)
	return ok
}

func (e *Editor) SaveTreatments(ctx context.Context) error {
	v := e.Treatments()
	if v == nil {
		v = []model.Treatment{}
	}
	if err := e.acc.UpdateTreatments(ctx, v); err != nil {
		return err
	}
	logx.Infof("诊疗项目已保存：%d 项", len(v))
	return nil
}

// ---- 患者评价 ----

func (e *Editor) Testimonials() []model.Testimonial {
	e.mu.Lock()
	defer e.mu.Unlock()
	return model.CloneSlice(e.testimonials)
}

func (e *Editor) SetTestimonials(v []model.Testimonial) {
	e.mu.Lock()
	e.testimonials = model.CloneSlice(v)
	e.mu.Unlock()
}

func (e *Editor) AddTestimonial() model.Testimonial {
	t := model.Testimonial{ID: e.acc.NextID(), Role: DefaultRole, Rating: DefaultRating}
	e.mu.Lock()
	e.testimonials = append(e.testimonials, t)
	e.mu.Unlock()
	return t
}

func (e *Editor) RemoveTestimonial(i int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	var ok bool
	e.testimonials, ok = removeAt(e.testimonials, i)
	return ok
}

func (e *Editor) SaveTestimonials(ctx context.Context) error {
	v := e.Testimonials()
	if v == nil {
		v = []model.Testimonial{}
	}
	if err := e.acc.UpdateTestimonials(ctx, v); err != nil {
		return err
	}
	logx.Infof("患者评价已保存：%d 条", len(v))
	return nil
}

// ---- 联系方式与地点 ----

func (e *Editor) Contact() (phone, email string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.phone, e.email
}

func (e *Editor) SetContact(phone, email string) {
	e.mu.Lock()
	e.phone, e.email = phone, email
	e.mu.Unlock()
}

func (e *Editor) Locations() []model.Location {
	e.mu.Lock()
	defer e.mu.Unlock()
	return model.CloneSlice(e.locations)
}

func (e *Editor) SetLocations(v []model.Location) {
	e.mu.Lock()
	e.locations = model.CloneSlice(v)
	e.mu.Unlock()
}

func (e *Editor) AddLocation() {
	e.mu.Lock()
	e.locations = append(e.locations, model.Location{})
	e.mu.Unlock()
}

func (e *Editor) RemoveLocation(i int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	var ok bool
	e.locations, ok = removeAt(e.locations, i)
	return ok
}

// SaveContactInfo 以电话、邮箱与地点工作副本组成联系方式并写回。
func (e *Editor) SaveContactInfo(ctx context.Context) error {
	e.mu.Lock()
	ci := model.ContactInfo{Phone: e.phone, Email: e.email, Locations: model.CloneSlice(e.locations)}
	e.mu.Unlock()
	if ci.Locations == nil {
		ci.Locations = []model.Location{}
	}
	if err := e.acc.UpdateContactInfo(ctx, ci); err != nil {
		return err
	}
	logx.Infof("联系方式已保存：地点 %d 个", len(ci.Locations))
	return nil
}

// ---- 统计数字 ----

func (e *Editor) Stats() []model.Stat {
	e.mu.Lock()
	defer e.mu.Unlock()
	return model.CloneSlice(e.stats)
}

func (e *Editor) SetStats(v []model.Stat) {
	e.mu.Lock()
	e.stats = model.CloneSlice(v)
	e.mu.Unlock()
}

func (e *Editor) AddStat() model.Stat {
	s := model.Stat{ID: e.acc.NextID(), Icon: DefaultStatIcon}
	e.mu.Lock()
	e.stats = append(e.stats, s)
	e.mu.Unlock()
	return s
}

func (e *Editor) RemoveStat(i int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	var ok bool
	e.stats, ok = removeAt(e.stats, i)
	return ok
}

func (e *Editor) SaveStats(ctx context.Context) error {
	v := e.Stats()
	if v == nil {
		v = []model.Stat{}
	}
	if err := e.acc.UpdateStats(ctx, v); err != nil {
		return err
	}
	logx.Infof("统计数字已保存：%d 项", len(v))
	return nil
}

// ---- 医生信息 ----

func (e *Editor) DoctorInfo() model.DoctorInfo {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.doctor.Clone()
}

// SetDoctorInfo 替换医生信息工作副本；教育经历以 EducationText 为准。
func (e *Editor) SetDoctorInfo(di model.DoctorInfo) {
	e.mu.Lock()
	e.doctor = di.Clone()
	e.mu.Unlock()
}

func (e *Editor) EducationText() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.educationText
}

func (e *Editor) SetEducationText(s string) {
	e.mu.Lock()
	e.educationText = s
	e.mu.Unlock()
}

// SaveDoctorInfo 把教育经历文本按行拆分（丢弃空行）后写回医生信息。
func (e *Editor) SaveDoctorInfo(ctx context.Context) error {
	e.mu.Lock()
	e.doctor.Education = SplitLines(e.educationText)
	di := e.doctor.Clone()
	e.mu.Unlock()
	if err := e.acc.UpdateDoctorInfo(ctx, di); err != nil {
		return err
	}
	logx.Infof("医生信息已保存：%s", di.Name)
	return nil
}

// ---- 站点设置 ----

func (e *Editor) Settings() model.SiteSettings {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.settings
}

func (e *Editor) SetSettings(s model.SiteSettings) {
	e.mu.Lock()
	e.settings = s
	e.mu.Unlock()
}

func (e *Editor) SaveSettings(ctx context.Context) error {
	s := e.Settings()
	p := model.SiteSettingsPatch{SiteName: &s.SiteName, PrimaryColor: &s.PrimaryColor, SecondaryColor: &s.SecondaryColor}
	if err := e.acc.UpdateSiteSettings(ctx, p); err != nil {
		return err
	}
	logx.Infof("站点设置已保存：%s", s.SiteName)
	return nil
}

// SplitLines 按换行拆分并丢弃空白行，保留行内原文。
func SplitLines(s string) []string {
	out := []string{}
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}

func removeAt[T any](s []T, i int) ([]T, bool) {
	if i < 0 || i >= len(s) {
		return s, false
	}
	return append(s[:i:i], s[i+1:]...), true
}
