// 包 content 是文档仓库之上的按分区访问层：
// 读取直接取当前快照，写入均为“读取→替换单一分区→整体替换”。
// 本层不做校验，校验由表现层负责。
package content

import (
	"context"

	"go-medical-site/internal/broadcast"
	"go-medical-site/internal/docstore"
	"go-medical-site/internal/model"
)

// Accessor 为按分区读写的便捷封装。
type Accessor struct {
	store *docstore.Store
}

func New(s *docstore.Store) *Accessor { return &Accessor{store: s} }

// Store 返回底层仓库（重置/导入导出等整文档操作）。
func (a *Accessor) Store() *docstore.Store { return a.store }

func (a *Accessor) WebsiteData() *model.WebsiteData { return a.store.Current() }

func (a *Accessor) Treatments() []model.Treatment { return a.store.Current().Treatments }

func (a *Accessor) Testimonials() []model.Testimonial { return a.store.Current().Testimonials }

func (a *Accessor) Blogs() []model.Blog { return a.store.Current().Blogs }

func (a *Accessor) Stats() []model.Stat { return a.store.Current().Stats }

func (a *Accessor) DoctorInfo() model.DoctorInfo { return a.store.Current().DoctorInfo }

func (a *Accessor) ContactInfo() model.ContactInfo { return a.store.Current().ContactInfo }

func (a *Accessor) SiteSettings() model.SiteSettings { return a.store.Current().SiteSettings }

func (a *Accessor) HeroSettings() model.HeroSettings { return a.store.Current().HeroSettings }

// TreatmentBySlug 线性查找 slug，对应 /treatment/{slug} 路由。
func (a *Accessor) TreatmentBySlug(slug string) (model.Treatment, bool) {
	if slug == "" {
		return model.Treatment{}, false
	}
	for _, t := range a.store.Current().Treatments {
		if t.Slug == slug {
			return t, true
		}
	}
	return model.Treatment{}, false
}

// Subscribe 订阅整文档变化。
func (a *Accessor) Subscribe(fn func(*model.WebsiteData)) *broadcast.Subscription {
	return a.store.Subscribe(fn)
}

// NextID 分配新条目的 ID。
func (a *Accessor) NextID() int64 { return a.store.NextID() }

func (a *Accessor) UpdateTreatments(ctx context.Context, v []model.Treatment) error {
	v = model.CloneTreatments(v)
	return a.store.Update(ctx, func(d *model.WebsiteData) { d.Treatments = v })
}

func (a *Accessor) UpdateTestimonials(ctx context.Context, v []model.Testimonial) error {
	v = model.CloneSlice(v)
	return a.store.Update(ctx, func(d *model.WebsiteData) { d.Testimonials = v })
}

func (a *Accessor) UpdateBlogs(ctx context.Context, v []model.Blog) error {
	v = model.CloneSlice(v)
	return a.store.Update(ctx, func(d *model.WebsiteData) { d.Blogs = v })
}

func (a *Accessor) UpdateStats(ctx context.Context, v []model.Stat) error {
	v = model.CloneSlice(v)
	return a.store.Update(ctx, func(d *model.WebsiteData) { d.Stats = v })
}

func (a *Accessor) UpdateDoctorInfo(ctx context.Context, v model.DoctorInfo) error {
	v = v.Clone()
	return a.store.Update(ctx, func(d *model.WebsiteData) { d.DoctorInfo = v })
}

func (a *Accessor) UpdateContactInfo(ctx context.Context, v model.ContactInfo) error {
	v = v.Clone()
	return a.store.Update(ctx, func(d *model.WebsiteData) { d.ContactInfo = v })
}

// UpdateSiteSettings 合并更新站点设置，未提供的字段保持原值。
func (a *Accessor) UpdateSiteSettings(ctx context.Context, p model.SiteSettingsPatch) error {
	return a.store.Update(ctx, func(d *model.WebsiteData) { d.SiteSettings = p.Apply(d.SiteSettings) })
}

// UpdateHeroSettings 合并更新首屏视频背景设置。
func (a *Accessor) UpdateHeroSettings(ctx context.Context, p model.VideoBackgroundPatch) error {
	return a.store.Update(ctx, func(d *model.WebsiteData) {
		d.HeroSettings.VideoBackground = p.Apply(d.HeroSettings.VideoBackground)
	})
}

// UpdateWebsiteData 整体替换（批量导入使用）。
func (a *Accessor) UpdateWebsiteData(ctx context.Context, d *model.WebsiteData) error {
	return a.store.Replace(ctx, d)
}
