package handlers

import (
	"encoding/json"
	"net/http"
	"sort"
	"strings"

	"github.com/mozillazg/go-unidecode"
	"go.uber.org/zap"

	"homeport/internal/htmltext"
	"homeport/models"
)

// SearchHandler serves /api/search: a substring/weight scorer over blog
// articles and the static project list.
type SearchHandler struct {
	Source   articleSource
	Projects []models.Project
	Log      *zap.SugaredLogger
}

func NewSearchHandler(source articleSource, log *zap.SugaredLogger) *SearchHandler {
	return &SearchHandler{Source: source, Projects: siteProjects, Log: log}
}

func (h *SearchHandler) Get(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	query := normalizeQuery(r.URL.Query().Get("q"))
	filter := r.URL.Query().Get("filter")
	if filter == "" {
		filter = "all"
	}
	if query == "" {
		json.NewEncoder(w).Encode([]models.SearchResult{})
		return
	}

	var results []models.SearchResult

	if filter == "all" || filter == "blog" {
		articles, err := h.Source.Posts(r.Context(), "blog")
		if err != nil {
			h.Log.Warnw("search: article fetch failed", "err", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "Search failed"})
			return
		}
		for _, article := range articles {
			if matchesArticle(article, query) {
				results = append(results, models.SearchResult{
					Type:        "blog",
					Title:       article.Title,
					Description: article.Description,
					URL:         "/blog/" + article.Slug,
					Date:        article.PublishedAt.Format("January 2, 2006"),
				})
			}
		}
	}

	if filter == "all" || filter == "project" {
		for _, project := range h.Projects {
			haystack := normalizeQuery(project.Name + " " + project.Description)
			if strings.Contains(haystack, query) {
				results = append(results, models.SearchResult{
					Type:        "project",
					Title:       project.Name,
					Description: project.Description,
					URL:         project.Link.Href,
					Date:        project.Link.Label,
				})
			}
		}
	}

	rankResults(results, query)
	if results == nil {
		results = []models.SearchResult{}
	}
	json.NewEncoder(w).Encode(results)
}

// matchesArticle checks title and description first, then falls back to the
// article body with markup stripped.
func matchesArticle(article models.Article, query string) bool {
	if strings.Contains(normalizeQuery(article.Title+" "+article.Description), query) {
		return true
	}
	return strings.Contains(normalizeQuery(htmltext.Clean(article.Content)), query)
}

// rankResults orders hits: exact title match, then title substring, then
// description substring; ties keep their original order.
func rankResults(results []models.SearchResult, query string) {
	rank := func(r models.SearchResult) int {
		title := normalizeQuery(r.Title)
		switch {
		case title == query:
			return 0
		case strings.Contains(title, query):
			return 1
		case strings.Contains(normalizeQuery(r.Description), query):
			return 2
		default:
			return 3
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return rank(results[i]) < rank(results[j])
	})
}

// normalizeQuery folds case and accents so "Café" matches "cafe".
func normalizeQuery(s string) string {
	return strings.ToLower(strings.TrimSpace(unidecode.Unidecode(s)))
}
