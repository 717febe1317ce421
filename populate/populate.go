// Package populate resolves stored reference ids into reduced projections of
// the referenced records. Every reference path is resolved with one batched
// IN query regardless of how many records are being populated.
package populate

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"cricanalyzer/models"
)

// View selects how much of each reference is resolved.
type View int

const (
	// List resolves the compact projection used on collection endpoints.
	List View = iota
	// Detail adds wider projections, nested match teams and back-references.
	Detail
)

// RecentNews bounds back-referenced news lists on detail views.
const RecentNews = 10

type columns map[View][]string

func (c columns) of(v View) []string {
	if cols, ok := c[v]; ok {
		return cols
	}
	return c[List]
}

var (
	userCols       = columns{List: {"id", "name", "profile_image"}, Detail: {"id", "name", "profile_image", "bio"}}
	teamCols       = columns{List: {"id", "name", "short_name", "logo"}, Detail: {"id", "name", "short_name", "logo", "slug"}}
	playerCols     = columns{List: {"id", "name", "slug", "profile_image"}, Detail: {"id", "name", "slug", "profile_image", "role"}}
	matchCols      = columns{List: {"id", "title", "match_date", "status"}, Detail: {"id", "title", "match_date", "status", "team1_id", "team2_id"}}
	tournamentCols = columns{List: {"id", "name", "logo"}, Detail: {"id", "name", "logo", "slug"}}
	venueCols      = columns{List: {"id", "name", "city", "country"}, Detail: {"id", "name", "city", "country", "slug"}}
	tagCols        = columns{List: {"id", "name"}, Detail: {"id", "name", "slug"}}
	newsRefCols    = []string{"id", "title", "slug", "cover_image", "published_at"}
)

type Populator struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Populator {
	return &Populator{db: db}
}

// idSet collects ids in first-seen order without duplicates.
type idSet struct {
	seen map[string]struct{}
	ids  []string
}

func (s *idSet) add(ids ...string) {
	if s.seen == nil {
		s.seen = make(map[string]struct{})
	}
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := s.seen[id]; ok {
			continue
		}
		s.seen[id] = struct{}{}
		s.ids = append(s.ids, id)
	}
}

func (s *idSet) addPtr(id *string) {
	if id != nil {
		s.add(*id)
	}
}

// lookup loads rows of table with the given columns into T, keyed by id.
func lookup[T any](ctx context.Context, db *gorm.DB, table string, cols []string, ids idSet, key func(T) string) (map[string]T, error) {
	out := make(map[string]T, len(ids.ids))
	if len(ids.ids) == 0 {
		return out, nil
	}
	var rows []T
	if err := db.WithContext(ctx).Table(table).Select(cols).Where("id IN ?", ids.ids).Find(&rows).Error; err != nil {
		return nil, errors.Wrapf(err, "populate %s", table)
	}
	for _, row := range rows {
		out[key(row)] = row
	}
	return out, nil
}

// pick returns the refs for ids in stored order, skipping ids that no longer
// resolve.
func pick[T any](byID map[string]T, ids []string) []T {
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		if ref, ok := byID[id]; ok {
			out = append(out, ref)
		}
	}
	return out
}

func one[T any](byID map[string]T, id string) *T {
	if ref, ok := byID[id]; ok {
		return &ref
	}
	return nil
}

func onePtr[T any](byID map[string]T, id *string) *T {
	if id == nil {
		return nil
	}
	return one(byID, *id)
}

func (p *Populator) users(ctx context.Context, ids idSet, v View) (map[string]models.UserRef, error) {
	return lookup(ctx, p.db, "users", userCols.of(v), ids, func(r models.UserRef) string { return r.ID })
}

func (p *Populator) teams(ctx context.Context, ids idSet, v View) (map[string]models.TeamRef, error) {
	return lookup(ctx, p.db, "teams", teamCols.of(v), ids, func(r models.TeamRef) string { return r.ID })
}

func (p *Populator) players(ctx context.Context, ids idSet, v View) (map[string]models.PlayerRef, error) {
	return lookup(ctx, p.db, "players", playerCols.of(v), ids, func(r models.PlayerRef) string { return r.ID })
}

func (p *Populator) tournaments(ctx context.Context, ids idSet, v View) (map[string]models.TournamentRef, error) {
	return lookup(ctx, p.db, "tournaments", tournamentCols.of(v), ids, func(r models.TournamentRef) string { return r.ID })
}

func (p *Populator) venues(ctx context.Context, ids idSet, v View) (map[string]models.VenueRef, error) {
	return lookup(ctx, p.db, "venues", venueCols.of(v), ids, func(r models.VenueRef) string { return r.ID })
}

func (p *Populator) tags(ctx context.Context, ids idSet, v View) (map[string]models.TagRef, error) {
	return lookup(ctx, p.db, "tags", tagCols.of(v), ids, func(r models.TagRef) string { return r.ID })
}

// matches resolves match refs. On Detail each match also gets its two teams.
func (p *Populator) matches(ctx context.Context, ids idSet, v View) (map[string]models.MatchRef, error) {
	byID, err := lookup(ctx, p.db, "matches", matchCols.of(v), ids, func(r models.MatchRef) string { return r.ID })
	if err != nil || v != Detail {
		return byID, err
	}
	refs := make([]models.MatchRef, 0, len(byID))
	for _, m := range byID {
		refs = append(refs, m)
	}
	if err := p.matchTeams(ctx, refs); err != nil {
		return nil, err
	}
	for _, m := range refs {
		byID[m.ID] = m
	}
	return byID, nil
}

// matchTeams attaches team1/team2 to match refs in place.
func (p *Populator) matchTeams(ctx context.Context, refs []models.MatchRef) error {
	var ids idSet
	for _, m := range refs {
		ids.add(m.Team1ID, m.Team2ID)
	}
	teams, err := p.teams(ctx, ids, List)
	if err != nil {
		return err
	}
	for i := range refs {
		refs[i].Team1 = one(teams, refs[i].Team1ID)
		refs[i].Team2 = one(teams, refs[i].Team2ID)
	}
	return nil
}

// newsMentioning lists recent published news whose column array holds id.
func (p *Populator) newsMentioning(ctx context.Context, column, id string) ([]models.NewsRef, error) {
	refs := make([]models.NewsRef, 0)
	err := p.db.WithContext(ctx).Table("news").Select(newsRefCols).
		Where("? = ANY("+column+")", id).
		Where("published_at IS NOT NULL").
		Order("published_at DESC").
		Limit(RecentNews).
		Find(&refs).Error
	return refs, errors.Wrap(err, "populate news back-reference")
}

// matchesWhere lists match refs, with teams, matching a single column.
func (p *Populator) matchesWhere(ctx context.Context, column, id, order string) ([]models.MatchRef, error) {
	refs := make([]models.MatchRef, 0)
	err := p.db.WithContext(ctx).Table("matches").Select(matchCols.of(Detail)).
		Where(column+" = ?", id).
		Order(order).
		Find(&refs).Error
	if err != nil {
		return nil, errors.Wrap(err, "populate match back-reference")
	}
	return refs, p.matchTeams(ctx, refs)
}
