// 包 model 定义站点内容文档 WebsiteData 及其各分区结构。
// JSON 字段名与持久化/内置资源（default-data.json）保持一致。
package model

// WebsiteData 是整站唯一的内容聚合文档。
type WebsiteData struct {
	DoctorInfo   DoctorInfo    `json:"doctorInfo"`
	Treatments   []Treatment   `json:"treatments"`
	Testimonials []Testimonial `json:"testimonials"`
	Blogs        []Blog        `json:"blogs"`
	Stats        []Stat        `json:"stats"`
	ContactInfo  ContactInfo   `json:"contactInfo"`
	SiteSettings SiteSettings  `json:"siteSettings"`
	HeroSettings HeroSettings  `json:"heroSettings"`
}

type DoctorInfo struct {
	Name              string           `json:"name"`
	Title             string           `json:"title"`
	Experience        string           `json:"experience"`
	Education         []string         `json:"education"`
	CurrentPractice   string           `json:"currentPractice"`
	Description       string           `json:"description"`
	ExperienceDetails []ExperienceItem `json:"experienceDetails"`
	Image             string           `json:"image,omitempty"`
}

type ExperienceItem struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	Organization string `json:"organization"`
	Description  string `json:"description"`
	Icon         string `json:"icon"`
}

// Treatment 为诊疗项目；Slug 是详情页路由键（唯一性不做强制）。
type Treatment struct {
	ID               int64    `json:"id"`
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Icon             string   `json:"icon"`
	Slug             string   `json:"slug"`
	LongDescription  string   `json:"longDescription,omitempty"`
	Symptoms         []string `json:"symptoms,omitempty"`
	Causes           []string `json:"causes,omitempty"`
	TreatmentOptions []string `json:"treatmentOptions,omitempty"`
	Prevention       []string `json:"prevention,omitempty"`
	WhenToSeeDoctor  []string `json:"whenToSeeDoctor,omitempty"`
}

// Testimonial 的 Rating 取值 1–5。
type Testimonial struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Role    string `json:"role"`
	Content string `json:"content"`
	Rating  int    `json:"rating"`
}

type Blog struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Excerpt string `json:"excerpt"`
	Date    string `json:"date"`
	Views   int    `json:"views"`
	Image   string `json:"image"`
	Link    string `json:"link,omitempty"`
}

// Stat 的 Number 为展示用字符串（如 "1000+"）。
type Stat struct {
	ID     int64  `json:"id"`
	Number string `json:"number"`
	Label  string `json:"label"`
	Icon   string `json:"icon"`
}

type ContactInfo struct {
	Phone     string     `json:"phone"`
	Email     string     `json:"email"`
	Locations []Location `json:"locations"`
}

type Location struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone,omitempty"`
	Hours   string `json:"hours,omitempty"`
}

type SiteSettings struct {
	SiteName       string `json:"siteName"`
	PrimaryColor   string `json:"primaryColor"`
	SecondaryColor string `json:"secondaryColor"`
}

type HeroSettings struct {
	VideoBackground VideoBackground `json:"videoBackground"`
}

type VideoBackground struct {
	Enabled        bool    `json:"enabled"`
	VideoURL       string  `json:"videoUrl"`
	FallbackImage  string  `json:"fallbackImage"`
	OverlayOpacity float64 `json:"overlayOpacity"`
	Autoplay       bool    `json:"autoplay"`
	Muted          bool    `json:"muted"`
	Loop           bool    `json:"loop"`
}

// SiteSettingsPatch 仅覆盖非 nil 字段（合并而非替换）。
type SiteSettingsPatch struct {
	SiteName       *string `json:"siteName,omitempty"`
	PrimaryColor   *string `json:"primaryColor,omitempty"`
	SecondaryColor *string `json:"secondaryColor,omitempty"`
}

// Apply 返回合并后的设置，不修改接收者。
func (p SiteSettingsPatch) Apply(s SiteSettings) SiteSettings {
	if p.SiteName != nil {
		s.SiteName = *p.SiteName
	}
	if p.PrimaryColor != nil {
		s.PrimaryColor = *p.PrimaryColor
	}
	if p.SecondaryColor != nil {
		s.SecondaryColor = *p.SecondaryColor
	}
	return s
}

// VideoBackgroundPatch 同 SiteSettingsPatch，用于首屏视频背景的合并更新。
type VideoBackgroundPatch struct {
	Enabled        *bool    `json:"enabled,omitempty"`
	VideoURL       *string  `json:"videoUrl,omitempty"`
	FallbackImage  *string  `json:"fallbackImage,omitempty"`
	OverlayOpacity *float64 `json:"overlayOpacity,omitempty"`
	Autoplay       *bool    `json:"autoplay,omitempty"`
	Muted          *bool    `json:"muted,omitempty"`
	Loop           *bool    `json:"loop,omitempty"`
}

func (p VideoBackgroundPatch) Apply(v VideoBackground) VideoBackground {
	if p.Enabled != nil {
		v.Enabled = *p.Enabled
	}
	if p.VideoURL != nil {
		v.VideoURL = *p.VideoURL
	}
	if p.FallbackImage != nil {
		v.FallbackImage = *p.FallbackImage
	}
	if p.OverlayOpacity != nil {
		v.OverlayOpacity = *p.OverlayOpacity
	}
	if p.Autoplay != nil {
		v.Autoplay = *p.Autoplay
	}
	if p.Muted != nil {
		v.Muted = *p.Muted
	}
	if p.Loop != nil {
		v.Loop = *p.Loop
	}
	return v
}
