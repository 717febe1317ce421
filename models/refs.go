package models

import (
	"time"

	"github.com/lib/pq"
)

// Reduced projections attached to records by the population step. They are
// never persisted from these structs.

type UserRef struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ProfileImage string `json:"profile_image,omitempty"`
	Bio          string `json:"bio,omitempty"`
}

type TeamRef struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"short_name,omitempty"`
	Logo      string `json:"logo,omitempty"`
	Slug      string `json:"slug,omitempty"`
}

type PlayerRef struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Slug         string `json:"slug,omitempty"`
	ProfileImage string `json:"profile_image,omitempty"`
	Role         string `json:"role,omitempty"`
}

type MatchRef struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	MatchDate time.Time `json:"match_date"`
	Status    string    `json:"status"`
	Team1ID   string    `json:"-" gorm:"column:team1_id"`
	Team2ID   string    `json:"-" gorm:"column:team2_id"`
	Team1     *TeamRef  `json:"team1,omitempty" gorm:"-"`
	Team2     *TeamRef  `json:"team2,omitempty" gorm:"-"`
}

type TournamentRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Logo string `json:"logo,omitempty"`
	Slug string `json:"slug,omitempty"`
}

type VenueRef struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	City    string `json:"city,omitempty"`
	Country string `json:"country,omitempty"`
	Slug    string `json:"slug,omitempty"`
}

type TagRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug,omitempty"`
}

type NewsRef struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	CoverImage  string     `json:"cover_image,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

// normalizeRefs drops blanks and duplicates and never returns nil, so the
// text[] column is stored as '{}' rather than NULL.
func normalizeRefs(ids pq.StringArray) pq.StringArray {
	out := make(pq.StringArray, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
