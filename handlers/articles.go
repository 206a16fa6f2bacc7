package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"sort"
	"strings"

	"homeport/models"
	"homeport/services/wordpress"
)

// articleSource serves normalized articles by category and slug.
type articleSource interface {
	Posts(ctx context.Context, category string) ([]models.Article, error)
	Post(ctx context.Context, category, slug string) (*models.Article, error)
}

var _ articleSource = (*wordpress.Client)(nil)

// ArticlesHandler serves /api/posts and /api/legal. The two categories are
// the same machinery with different user-facing wording.
type ArticlesHandler struct {
	Source articleSource
}

func NewArticlesHandler(source articleSource) *ArticlesHandler {
	return &ArticlesHandler{Source: source}
}

func (h *ArticlesHandler) Posts(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "blog",
		"This blog post could not be found.",
		"We're having trouble loading the blog posts. Please try again later.")
}

func (h *ArticlesHandler) Legal(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "legal",
		"This legal document could not be found.",
		"We're having trouble loading the legal documents. Please try again later.")
}

func (h *ArticlesHandler) serve(w http.ResponseWriter, r *http.Request, category, notFoundMsg, unavailableMsg string) {
	w.Header().Set("Content-Type", "application/json")

	if slug := strings.TrimSpace(r.URL.Query().Get("slug")); slug != "" {
		article, err := h.Source.Post(r.Context(), category, slug)
		if err != nil {
			if errors.Is(err, wordpress.ErrNotFound) {
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(map[string]string{"error": notFoundMsg})
				return
			}
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": unavailableMsg})
			return
		}
		json.NewEncoder(w).Encode(article)
		return
	}

	articles, err := h.Source.Posts(r.Context(), category)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": unavailableMsg})
		return
	}

	// The client does not guarantee order; newest-first is this layer's job.
	// Sort a copy: the returned slice is the cached value, shared with
	// concurrent requests.
	articles = slices.Clone(articles)
	sort.Slice(articles, func(i, j int) bool {
		return articles[i].PublishedAt.After(articles[j].PublishedAt)
	})
	json.NewEncoder(w).Encode(articles)
}
