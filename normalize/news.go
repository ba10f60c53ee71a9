package normalize

import (
	"fmt"
	"strings"

	"catalogadmin/model"
)

// NewsForm is the working model behind the news editor.
type NewsForm struct {
	ID          string `json:"id,omitempty"`
	Image       string `json:"image,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	ExpiresAt   string `json:"expires_at,omitempty"`
	IsPublished bool   `json:"is_published"`
}

func (f NewsForm) ToPayload() model.NewsPayload {
	return model.NewsPayload{
		Image:       optional(f.Image),
		Title:       strings.TrimSpace(f.Title),
		Description: optional(f.Description),
		Category:    optional(f.Category),
		ExpiresAt:   optional(f.ExpiresAt),
		IsPublished: f.IsPublished,
	}
}

func NewsFormFrom(n model.News, _ Lookups) (NewsForm, error) {
	if n.ID == "" {
		return NewsForm{}, fmt.Errorf("%w: news %q", ErrMissingIdentity, n.Title)
	}
	return NewsForm{
		ID:          n.ID,
		Image:       n.Image,
		Title:       n.Title,
		Description: n.Description,
		Category:    n.Category,
		ExpiresAt:   dateOnly(n.ExpiresAt),
		IsPublished: n.IsPublished,
	}, nil
}
