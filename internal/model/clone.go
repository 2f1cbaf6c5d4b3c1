package model

// Clone 深拷贝文档；nil 切片保持为 nil，空切片保持为空，便于 DeepEqual 比较。
func (d *WebsiteData) Clone() *WebsiteData {
	if d == nil {
		return nil
	}
	out := *d
	out.DoctorInfo.Education = cloneSlice(d.DoctorInfo.Education)
	out.DoctorInfo.ExperienceDetails = cloneSlice(d.DoctorInfo.ExperienceDetails)
	out.Treatments = CloneTreatments(d.Treatments)
	out.Testimonials = cloneSlice(d.Testimonials)
	out.Blogs = cloneSlice(d.Blogs)
	out.Stats = cloneSlice(d.Stats)
	out.ContactInfo = d.ContactInfo.Clone()
	return &out
}

// Clone 深拷贝联系方式（含地点列表）。
func (c ContactInfo) Clone() ContactInfo {
	c.Locations = cloneSlice(c.Locations)
	return c
}

func (di DoctorInfo) Clone() DoctorInfo {
	di.Education = cloneSlice(di.Education)
	di.ExperienceDetails = cloneSlice(di.ExperienceDetails)
	return di
}

// CloneTreatments 拷贝列表及每项内的详情列表。
func CloneTreatments(in []Treatment) []Treatment {
	if in == nil {
		return nil
	}
	out := make([]Treatment, len(in))
	for i, t := range in {
		t.Symptoms = cloneSlice(t.Symptoms)
		t.Causes = cloneSlice(t.Causes)
		t.TreatmentOptions = cloneSlice(t.TreatmentOptions)
		t.Prevention = cloneSlice(t.Prevention)
		t.WhenToSeeDoctor = cloneSlice(t.WhenToSeeDoctor)
		out[i] = t
	}
	return out
}

// CloneSlice 对值类型元素做浅拷贝。
func CloneSlice[T any](in []T) []T { return cloneSlice(in) }

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}

// MaxID 返回文档内所有带 id 条目的最大值（空文档为 0）。
func (d *WebsiteData) MaxID() int64 {
	if d == nil {
		return 0
	}
	var m int64
	see := func(id int64) {
		if id > m {
			m = id
		}
	}
	for _, e := range d.DoctorInfo.ExperienceDetails {
		see(e.ID)
	}
	for _, t := range d.Treatments {
		see(t.ID)
	}
	for _, t := range d.Testimonials {
		see(t.ID)
	}
	for _, b := range d.Blogs {
		see(b.ID)
	}
	for _, s := range d.Stats {
		see(s.ID)
	}
	return m
}
