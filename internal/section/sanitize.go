package section

import (
	"github.com/microcosm-cc/bluemonday"

	"github.com/parisxmas/OxiDB/OxiAdmin/internal/models"
)

// richText is the policy for bodies produced by the rich-text widget.
var richText = bluemonday.UGCPolicy()

func cleanHTML(s string) string { return richText.Sanitize(s) }

func sanitizeAbout(v models.AboutSection) models.AboutSection {
	v.Body = cleanHTML(v.Body)
	return v
}

func sanitizeArticles(v models.ArticleSection) models.ArticleSection {
	articles := make([]models.Article, len(v.Articles))
	for i, a := range v.Articles {
		a.Body = cleanHTML(a.Body)
		articles[i] = a
	}
	v.Articles = articles
	return v
}

func sanitizeLegal(v models.LegalSection) models.LegalSection {
	v.Body = cleanHTML(v.Body)
	return v
}

func sanitizeAgents(v models.RealEstateAgentsSection) models.RealEstateAgentsSection {
	agents := make([]models.Agent, len(v.Agents))
	for i, a := range v.Agents {
		a.Bio = cleanHTML(a.Bio)
		agents[i] = a
	}
	v.Agents = agents
	return v
}
