package section

import (
	"github.com/parisxmas/OxiDB/OxiAdmin/internal/models"
	"github.com/parisxmas/OxiDB/OxiAdmin/internal/validate"
)

// Section names as the backend knows them.
const (
	About            = "about"
	Articles         = "articles"
	Homepage         = "homepage"
	RealEstateAgents = "real-estate-agents"
	Partners         = "partners"
	PrivacyPolicy    = "privacy-policy"
	TermsOfService   = "terms-of-service"
	Quotes           = "quotes"
	Sitemap          = "sitemap"
	SEO              = "seo"
)

func emptySEO() models.SEOMeta { return models.SEOMeta{Keywords: []string{}} }

var AboutSpec = Spec[models.AboutSection]{
	Name:  About,
	Title: "About page",
	Defaults: func() models.AboutSection {
		return models.AboutSection{Values: []models.TextBlock{}, Stats: []models.Stat{}, SEO: emptySEO()}
	},
	Schema:        validate.Schema{"title", "body", "mission.title", "mission.text", "values[*].title", "values[*].text", "stats[*].label", "stats[*].value"},
	RefetchOnSave: true,
	Sanitize:      sanitizeAbout,
}

var ArticlesSpec = Spec[models.ArticleSection]{
	Name:  Articles,
	Title: "Articles",
	Defaults: func() models.ArticleSection {
		return models.ArticleSection{Articles: []models.Article{}}
	},
	Schema:        validate.Schema{"articles[*].slug", "articles[*].title", "articles[*].body"},
	RefetchOnSave: true,
	Sanitize:      sanitizeArticles,
}

var HomepageSpec = Spec[models.HomepageSection]{
	Name:  Homepage,
	Title: "Homepage",
	Defaults: func() models.HomepageSection {
		return models.HomepageSection{
			Services:   []models.ServiceCard{},
			HowItWorks: []models.HowItWorksStep{},
			FAQ:        []models.FAQ{},
			SEO:        emptySEO(),
		}
	},
	Schema: validate.Schema{
		"hero.title", "hero.subtitle", "hero.image", "hero.cta.label", "hero.cta.url",
		"services[*].title", "services[*].text",
		"howItWorks[*].title", "howItWorks[*].text",
		"faq[*].question", "faq[*].answer",
	},
	RefetchOnSave: true,
}

var AgentsSpec = Spec[models.RealEstateAgentsSection]{
	Name:  RealEstateAgents,
	Title: "Real estate agents",
	Defaults: func() models.RealEstateAgentsSection {
		return models.RealEstateAgentsSection{Agents: []models.Agent{}}
	},
	Schema:        validate.Schema{"title", "agents[*].name", "agents[*].email"},
	RefetchOnSave: true,
	Sanitize:      sanitizeAgents,
}

var PartnersSpec = Spec[models.PartnerSection]{
	Name:  Partners,
	Title: "Partners",
	Defaults: func() models.PartnerSection {
		return models.PartnerSection{Partners: []models.Partner{}}
	},
	Schema:        validate.Schema{"title", "partners[*].name", "partners[*].logo"},
	RefetchOnSave: true,
}

func legalSpec(name, title string) Spec[models.LegalSection] {
	return Spec[models.LegalSection]{
		Name:          name,
		Title:         title,
		Defaults:      func() models.LegalSection { return models.LegalSection{} },
		Schema:        validate.Schema{"title", "body"},
		RefetchOnSave: true,
		Sanitize:      sanitizeLegal,
	}
}

var (
	PrivacyPolicySpec  = legalSpec(PrivacyPolicy, "Privacy policy")
	TermsOfServiceSpec = legalSpec(TermsOfService, "Terms of service")
)

// Quotes and the sitemap keep the saved value instead of refetching.
var QuotesSpec = Spec[models.QuotesSection]{
	Name:     Quotes,
	Title:    "Quotes",
	Defaults: func() models.QuotesSection { return models.QuotesSection{Quotes: []models.Quote{}} },
	Schema:   validate.Schema{"quotes[*].text", "quotes[*].author"},
}

var SitemapSpec = Spec[models.SitemapSection]{
	Name:     Sitemap,
	Title:    "Sitemap",
	Defaults: func() models.SitemapSection { return models.SitemapSection{Entries: []models.SitemapEntry{}} },
	Schema:   validate.Schema{"entries[*].loc"},
}

var SEOSpec = Spec[models.SEOSection]{
	Name:          SEO,
	Title:         "SEO metadata",
	Defaults:      func() models.SEOSection { return models.SEOSection{Pages: []models.PageSEO{}} },
	Schema:        validate.Schema{"pages[*].path", "pages[*].meta.metaTitle", "pages[*].meta.metaDescription"},
	RefetchOnSave: true,
}

// Registry holds one editor per site section, in menu order.
type Registry struct {
	order   []string
	handles map[string]Handle
}

// NewRegistry builds editors for every site section over store.
func NewRegistry(store Store, opts ...Option) *Registry {
	r := &Registry{handles: map[string]Handle{}}
	r.add(NewEditor(HomepageSpec, store, opts...))
	r.add(NewEditor(AboutSpec, store, opts...))
	r.add(NewEditor(ArticlesSpec, store, opts...))
	r.add(NewEditor(AgentsSpec, store, opts...))
	r.add(NewEditor(PartnersSpec, store, opts...))
	r.add(NewEditor(QuotesSpec, store, opts...))
	r.add(NewEditor(PrivacyPolicySpec, store, opts...))
	r.add(NewEditor(TermsOfServiceSpec, store, opts...))
	r.add(NewEditor(SitemapSpec, store, opts...))
	r.add(NewEditor(SEOSpec, store, opts...))
	return r
}

func (r *Registry) add(h Handle) {
	r.order = append(r.order, h.Name())
	r.handles[h.Name()] = h
}

func (r *Registry) Get(name string) (Handle, bool) {
	h, ok := r.handles[name]
	return h, ok
}

// All returns the editors in menu order.
func (r *Registry) All() []Handle {
	out := make([]Handle, 0, len(r.order))
	for _, n := range r.order {
		out = append(out, r.handles[n])
	}
	return out
}
