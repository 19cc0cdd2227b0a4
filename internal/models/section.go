package models

// SEOMeta is the per-page search metadata block.
type SEOMeta struct {
	MetaTitle       string   `json:"metaTitle"`
	MetaDescription string   `json:"metaDescription"`
	Keywords        []string `json:"keywords"`
	CanonicalURL    string   `json:"canonicalUrl"`
	OGImage         string   `json:"ogImage"`
	NoIndex         bool     `json:"noIndex"`
}

type TextBlock struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

type Stat struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type AboutSection struct {
	Title    string      `json:"title"`
	Subtitle string      `json:"subtitle"`
	Body     string      `json:"body"`
	Image    string      `json:"image"`
	Mission  TextBlock   `json:"mission"`
	Values   []TextBlock `json:"values"`
	Stats    []Stat      `json:"stats"`
	SEO      SEOMeta     `json:"seo"`
}

type Article struct {
	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	Summary     string   `json:"summary"`
	Body        string   `json:"body"`
	CoverImage  string   `json:"coverImage"`
	Author      string   `json:"author"`
	PublishedAt string   `json:"publishedAt"`
	Published   bool     `json:"published"`
	Tags        []string `json:"tags"`
}

type ArticleSection struct {
	Title    string    `json:"title"`
	Articles []Article `json:"articles"`
}

type CallToAction struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

type Hero struct {
	Title    string       `json:"title"`
	Subtitle string       `json:"subtitle"`
	Image    string       `json:"image"`
	CTA      CallToAction `json:"cta"`
}

type ServiceCard struct {
	Title string `json:"title"`
	Text  string `json:"text"`
	Icon  string `json:"icon"`
}

type HowItWorksStep struct {
	Order int    `json:"order"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

type FAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// HomepageSection is the nested landing page document.
type HomepageSection struct {
	Hero       Hero             `json:"hero"`
	Services   []ServiceCard    `json:"services"`
	HowItWorks []HowItWorksStep `json:"howItWorks"`
	FAQ        []FAQ            `json:"faq"`
	SEO        SEOMeta          `json:"seo"`
}

type Agent struct {
	Name  string `json:"name"`
	Title string `json:"title"`
	Phone string `json:"phone"`
	Email string `json:"email"`
	Photo string `json:"photo"`
	Bio   string `json:"bio"`
}

type RealEstateAgentsSection struct {
	Title  string  `json:"title"`
	Intro  string  `json:"intro"`
	Agents []Agent `json:"agents"`
}

type Partner struct {
	Name string `json:"name"`
	Logo string `json:"logo"`
	URL  string `json:"url"`
}

type PartnerSection struct {
	Title    string    `json:"title"`
	Intro    string    `json:"intro"`
	Partners []Partner `json:"partners"`
}

// LegalSection backs both the privacy policy and the terms of service.
type LegalSection struct {
	Title       string `json:"title"`
	LastUpdated string `json:"lastUpdated"`
	Body        string `json:"body"`
}

type Quote struct {
	Text   string `json:"text"`
	Author string `json:"author"`
	Role   string `json:"role"`
}

type QuotesSection struct {
	Quotes []Quote `json:"quotes"`
}

type SitemapEntry struct {
	Loc        string  `json:"loc"`
	ChangeFreq string  `json:"changeFreq"`
	Priority   float64 `json:"priority"`
	LastMod    string  `json:"lastMod"`
}

type SitemapSection struct {
	Entries []SitemapEntry `json:"entries"`
}

type PageSEO struct {
	Path string  `json:"path"`
	Meta SEOMeta `json:"meta"`
}

type SEOSection struct {
	Pages []PageSEO `json:"pages"`
}
