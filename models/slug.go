package models

import (
	"time"

	"github.com/gosimple/slug"
)

type Timestamps struct {
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// SEO is embedded with a seo_ column prefix on public entities.
type SEO struct {
	MetaTitle       string `json:"meta_title,omitempty"`
	MetaDescription string `json:"meta_description,omitempty"`
	Keywords        string `json:"keywords,omitempty"`
}

// MakeSlug lowercases and strips everything that is not URL safe.
func MakeSlug(source string) string {
	return slug.Make(source)
}

// slugTracker remembers the slug source as loaded from the database so a
// save only re-derives the slug when that source actually changed.
type slugTracker struct {
	loaded string
	found  bool
}

func (t *slugTracker) remember(source string) {
	t.loaded = source
	t.found = true
}

// refresh rewrites *dst when the record is new, the source changed, or no
// slug was ever stored.
func (t *slugTracker) refresh(dst *string, source string) {
	if !t.found || source != t.loaded || *dst == "" {
		*dst = MakeSlug(source)
	}
	t.remember(source)
}

func slugRequired(field, slugValue string) error {
	if slugValue == "" {
		return &ValidationError{Fields: map[string]string{field: field + " must contain letters or digits"}}
	}
	return nil
}
