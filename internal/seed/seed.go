// 包 seed 提供内置默认文档：
// - Default：代码内常量文档，作为最后兜底与服务端渲染的同步数据源
// - BundledJSON：随二进制打包的 default-data.json（对外以静态资源提供）
package seed

import (
	_ "embed"

	"go-medical-site/internal/model"
)

//go:embed default-data.json
var bundled []byte

// AssetPath 为内置资源对外暴露的路径。
const AssetPath = "/assets/default-data.json"

// BundledJSON 返回内置 JSON 资源的副本。
func BundledJSON() []byte {
	out := make([]byte, len(bundled))
	copy(out, bundled)
	return out
}

// Default 每次返回一份新的完整默认文档，调用方可自由修改。
func Default() *model.WebsiteData {
	return &model.WebsiteData{
		DoctorInfo: model.DoctorInfo{
			Name:       "Dr. John Doe",
			Title:      "Neurologist",
			Experience: "10+ years",
			Education: []string{
				"MBBS from Medical College",
				"MD in Medicine",
				"DNB in Neurology",
			},
			CurrentPractice: "General Hospital",
			Description:     "Experienced neurologist with comprehensive training and expertise in neurological disorders.",
			ExperienceDetails: []model.ExperienceItem{
				{
					ID:           1,
					Title:        "Current Practice",
					Organization: "General Hospital",
					Description:  "Currently practicing as a neurologist, providing comprehensive neurological care and treatment to patients.",
					Icon:         "fas fa-hospital",
				},
				{
					ID:           2,
					Title:        "Experience",
					Organization: "10+ Years",
					Description:  "Over 10 years of experience in the medical field, specializing in neurological disorders and treatments.",
					Icon:         "fas fa-clock",
				},
			},
		},
		Treatments: []model.Treatment{
			{
				ID:              1,
				Title:           "Neuromuscular Disorders",
				Description:     "Comprehensive treatment for neuromuscular conditions affecting the peripheral nervous system.",
				Icon:            "fas fa-brain",
				Slug:            "neuromuscular-disorders",
				LongDescription: "Neuromuscular disorders affect the nerves that control voluntary muscles. Early diagnosis helps slow progression and preserve function.",
				Symptoms:        []string{"Muscle weakness", "Numbness or tingling", "Muscle cramps"},
				Causes:          []string{"Genetic conditions", "Autoimmune disease", "Nerve injury"},
				TreatmentOptions: []string{
					"Nerve conduction studies",
					"Medication management",
					"Physiotherapy referral",
				},
				Prevention:      []string{"Regular follow-up", "Balanced diet", "Early reporting of symptoms"},
				WhenToSeeDoctor: []string{"Progressive weakness", "Difficulty walking or swallowing"},
			},
			{
				ID:              2,
				Title:           "Headache Management",
				Description:     "Specialized treatment for various types of headaches and migraines.",
				Icon:            "fas fa-head-side-virus",
				Slug:            "headache-management",
				LongDescription: "Recurring headaches and migraines can be controlled with the right combination of lifestyle changes and medication.",
				Symptoms:        []string{"Throbbing pain", "Sensitivity to light", "Nausea"},
				Causes:          []string{"Stress", "Sleep disturbance", "Dietary triggers"},
				TreatmentOptions: []string{
					"Acute pain relief",
					"Preventive medication",
					"Trigger diary review",
				},
				Prevention:      []string{"Regular sleep", "Hydration", "Avoiding known triggers"},
				WhenToSeeDoctor: []string{"Sudden severe headache", "Headache with fever or stiff neck"},
			},
			{
				ID:              3,
				Title:           "Stroke Care",
				Description:     "Expert care for stroke patients with rehabilitation and prevention strategies.",
				Icon:            "fas fa-heartbeat",
				Slug:            "stroke-care",
				LongDescription: "Stroke care covers acute assessment, secondary prevention and long-term rehabilitation planning.",
				Symptoms:        []string{"Facial droop", "Arm weakness", "Speech difficulty"},
				Causes:          []string{"Blocked artery", "Bleeding in the brain", "Irregular heartbeat"},
				TreatmentOptions: []string{
					"Clot-prevention therapy",
					"Blood pressure control",
					"Rehabilitation planning",
				},
				Prevention:      []string{"Blood pressure control", "No smoking", "Regular exercise"},
				WhenToSeeDoctor: []string{"Any sudden weakness or speech change: call emergency services"},
			},
		},
		Testimonials: []model.Testimonial{
			{ID: 1, Name: "Patient Name", Role: "Patient", Content: "Excellent care and treatment. Highly recommended!", Rating: 5},
		},
		Blogs: []model.Blog{
			{
				ID:      1,
				Title:   "Understanding Neurological Health",
				Excerpt: "Learn about maintaining good neurological health and preventing disorders.",
				Date:    "2024-01-15",
				Views:   10,
				Image:   "assets/images/blog1.jpg",
			},
		},
		Stats: []model.Stat{
			{ID: 1, Number: "1000+", Label: "Happy Patients", Icon: "fas fa-smile"},
			{ID: 2, Number: "10+", Label: "Years of Experience", Icon: "fas fa-calendar-alt"},
			{ID: 3, Number: "1000+", Label: "Successful Treatment", Icon: "fas fa-check-circle"},
			{ID: 4, Number: "5+", Label: "Publications", Icon: "fas fa-book"},
		},
		ContactInfo: model.ContactInfo{
			Phone: "+1234567890",
			Email: "info@doctor.com",
			Locations: []model.Location{
				{
					Name:    "Main Clinic",
					Address: "123 Medical Street, City, State 12345",
					Phone:   "+1234567890",
					Hours:   "Mon-Fri: 9:00 AM - 5:00 PM",
				},
			},
		},
		SiteSettings: model.SiteSettings{
			SiteName:       "Medical Practice",
			PrimaryColor:   "#2c5aa0",
			SecondaryColor: "#f8f9fa",
		},
		HeroSettings: model.HeroSettings{
			VideoBackground: model.VideoBackground{
				Enabled:        false,
				VideoURL:       "assets/videos/hero.mp4",
				FallbackImage:  "assets/images/hero.jpg",
				OverlayOpacity: 0.5,
				Autoplay:       true,
				Muted:          true,
				Loop:           true,
			},
		},
	}
}
