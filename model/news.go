package model

import (
	"strings"
	"time"
)

// News 新闻公告
type News struct {
	ID          string `json:"_id,omitempty"`
	Image       string `json:"image,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	ExpiresAt   string `json:"expires_at,omitempty"`
	IsPublished bool   `json:"is_published"`
	CreatedAt   string `json:"createdAt,omitempty"`
	UpdatedAt   string `json:"updatedAt,omitempty"`
}

func (n *News) UnmarshalJSON(data []byte) error {
	type alias News
	return decodeWithIdentity(data, (*alias)(n), &n.ID)
}

// Expired reports whether the announcement's expiry date is before now.
// Unparseable or missing dates never expire.
func (n News) Expired(now time.Time) bool {
	t, ok := ParseDate(n.ExpiresAt)
	if !ok {
		return false
	}
	return t.Before(now)
}

// NewsPayload is the canonical create/update body for /news.
type NewsPayload struct {
	Image       *string `json:"image,omitempty"`
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	Category    *string `json:"category,omitempty"`
	ExpiresAt   *string `json:"expires_at,omitempty"`
	IsPublished bool    `json:"is_published"`
}

// ParseDate accepts the API's date-only and RFC3339 forms.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
