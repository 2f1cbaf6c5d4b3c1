package web

// GalleryImage 为图库中的单张图片；Size 对应拼贴布局的尺寸类名。
type GalleryImage struct {
	Src   string
	Alt   string
	Title string
	Size  string
}

// SizeClass 返回模板使用的 CSS 类名。
func (g GalleryImage) SizeClass() string {
	if g.Size == "" {
		return "gallery-item-medium"
	}
	return "gallery-item-" + g.Size
}

var gallerySizes = []string{"large", "medium", "wide", "tall", "small", "medium", "large", "wide"}

// Gallery 为固定的图库图片列表（不属于内容文档）。
var Gallery = withSizes([]GalleryImage{
	{Src: "/assets/gallery/doctor_pic.jpg", Alt: "Doctor Photo", Title: "Doctor Profile"},
	{Src: "/assets/gallery/pexels-cdc-library-3992931.jpg", Alt: "Medical Library", Title: "Medical Library"},
	{Src: "/assets/gallery/pexels-cedric-fauntleroy-4266931.jpg", Alt: "Medical Care", Title: "Medical Care"},
	{Src: "/assets/gallery/pexels-cedric-fauntleroy-4269203.jpg", Alt: "Healthcare Service", Title: "Healthcare Service"},
	{Src: "/assets/gallery/pexels-cottonbro-7578803.jpg", Alt: "Medical Consultation", Title: "Medical Consultation"},
	{Src: "/assets/gallery/pexels-jonathanborba-3259629.jpg", Alt: "Medical Facility", Title: "Medical Facility"},
	{Src: "/assets/gallery/pexels-pixabay-263337.jpg", Alt: "Healthcare", Title: "Healthcare"},
	{Src: "/assets/gallery/pexels-shkrabaanthony-5215017.jpg", Alt: "Medical Practice", Title: "Medical Practice"},
})

func withSizes(in []GalleryImage) []GalleryImage {
	for i := range in {
		in[i].Size = gallerySizes[i%len(gallerySizes)]
	}
	return in
}

// Lightbox 为图库大图浏览状态：Next 不越过最后一张，Prev 不低于第一张。
type Lightbox struct {
	images []GalleryImage
	open   bool
	index  int
}

func NewLightbox(images []GalleryImage) *Lightbox { return &Lightbox{images: images} }

// Open 打开第 i 张，越界时夹到 [0, len-1]；图库为空时保持关闭。
func (l *Lightbox) Open(i int) {
	if len(l.images) == 0 {
		return
	}
	l.index = clamp(i, 0, len(l.images)-1)
	l.open = true
}

func (l *Lightbox) Close() { l.open = false }

func (l *Lightbox) Next() {
	if l.open && l.index < len(l.images)-1 {
		l.index++
	}
}

func (l *Lightbox) Prev() {
	if l.open && l.index > 0 {
		l.index--
	}
}

func (l *Lightbox) IsOpen() bool { return l.open }

func (l *Lightbox) Index() int { return l.index }

func (l *Lightbox) HasNext() bool { return l.open && l.index < len(l.images)-1 }

func (l *Lightbox) HasPrev() bool { return l.open && l.index > 0 }

// Image 返回当前图片；未打开时为零值。
func (l *Lightbox) Image() GalleryImage {
	if !l.open {
		return GalleryImage{}
	}
	return l.images[l.index]
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
