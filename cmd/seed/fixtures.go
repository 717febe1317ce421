package main

import (
	"context"
	"os"
	"time"

	"github.com/lib/pq"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"cricanalyzer/models"
)

// Fixtures is the seed file layout. Records refer to each other by name
// (users by email) so the file never carries generated ids.
type Fixtures struct {
	Users       []userFixture       `yaml:"users"`
	Teams       []teamFixture       `yaml:"teams"`
	Players     []playerFixture     `yaml:"players"`
	Tournaments []tournamentFixture `yaml:"tournaments"`
	Venues      []venueFixture      `yaml:"venues"`
	Matches     []matchFixture      `yaml:"matches"`
	Tags        []tagFixture        `yaml:"tags"`
	News        []newsFixture       `yaml:"news"`
}

type userFixture struct {
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Role     string `yaml:"role"`
	Password string `yaml:"password"`
}

type teamFixture struct {
	Name      string `yaml:"name"`
	ShortName string `yaml:"short_name"`
	TeamType  string `yaml:"team_type"`
	Country   string `yaml:"country"`
	Logo      string `yaml:"logo"`
	Coach     string `yaml:"coach"`
	Captain   string `yaml:"captain"`
}

type playerFixture struct {
	Name         string   `yaml:"name"`
	Role         string   `yaml:"role"`
	Nationality  string   `yaml:"nationality"`
	BattingStyle string   `yaml:"batting_style"`
	BowlingStyle string   `yaml:"bowling_style"`
	Teams        []string `yaml:"teams"`
}

type tournamentFixture struct {
	Name      string     `yaml:"name"`
	Format    string     `yaml:"format"`
	Status    string     `yaml:"status"`
	Location  string     `yaml:"location"`
	StartDate *time.Time `yaml:"start_date"`
	EndDate   *time.Time `yaml:"end_date"`
	Teams     []string   `yaml:"teams"`
	Winner    string     `yaml:"winner"`
}

type venueFixture struct {
	Name     string `yaml:"name"`
	City     string `yaml:"city"`
	Country  string `yaml:"country"`
	Capacity int    `yaml:"capacity"`
}

type matchFixture struct {
	Title      string    `yaml:"title"`
	Tournament string    `yaml:"tournament"`
	Team1      string    `yaml:"team1"`
	Team2      string    `yaml:"team2"`
	Venue      string    `yaml:"venue"`
	MatchDate  time.Time `yaml:"match_date"`
	Format     string    `yaml:"format"`
	Status     string    `yaml:"status"`
	Result     string    `yaml:"result"`
}

type tagFixture struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

type newsFixture struct {
	Title       string     `yaml:"title"`
	Excerpt     string     `yaml:"excerpt"`
	Content     string     `yaml:"content"`
	CoverImage  string     `yaml:"cover_image"`
	Category    string     `yaml:"category"`
	Featured    bool       `yaml:"featured"`
	Author      string     `yaml:"author"`
	PublishedAt *time.Time `yaml:"published_at"`
	Teams       []string   `yaml:"teams"`
	Players     []string   `yaml:"players"`
	Matches     []string   `yaml:"matches"`
	Tournaments []string   `yaml:"tournaments"`
	Tags        []string   `yaml:"tags"`
}

func LoadFixtures(path string) (*Fixtures, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read fixtures")
	}
	var f Fixtures
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	return &f, nil
}

// names maps fixture names to stored ids, per collection.
type names map[string]string

func (n names) ids(kind string, keys []string) (pq.StringArray, error) {
	out := pq.StringArray{}
	for _, k := range keys {
		id, ok := n[k]
		if !ok {
			return nil, errors.Errorf("unknown %s %q", kind, k)
		}
		out = append(out, id)
	}
	return out, nil
}

func (n names) id(kind, key string) (string, error) {
	ids, err := n.ids(kind, []string{key})
	if err != nil {
		return "", err
	}
	return ids[0], nil
}

func (n names) optional(kind, key string) (*string, error) {
	if key == "" {
		return nil, nil
	}
	id, err := n.id(kind, key)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// Summary counts the records created by Apply; existing records are skipped.
type Summary map[string]int

type seeder struct {
	db      *gorm.DB
	created Summary
	users   names
	teams   names
	players names
	tours   names
	venues  names
	matches names
	tags    names
}

// Apply inserts fixtures in dependency order. It is safe to rerun: a record
// whose unique key already exists is left untouched and reused for references.
func Apply(ctx context.Context, db *gorm.DB, f *Fixtures) (Summary, error) {
	s := &seeder{
		db:      db.WithContext(ctx),
		created: Summary{},
		users:   names{},
		teams:   names{},
		players: names{},
		tours:   names{},
		venues:  names{},
		matches: names{},
		tags:    names{},
	}
	steps := []func(*Fixtures) error{
		s.seedUsers, s.seedTeams, s.seedPlayers, s.seedCaptains, s.seedTournaments,
		s.seedVenues, s.seedMatches, s.seedTags, s.seedNews,
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		s.db = tx
		for _, step := range steps {
			if err := step(f); err != nil {
				return err
			}
		}
		return nil
	})
	return s.created, err
}

// firstOrCreate loads the row matching column = value into rec, creating rec
// when none exists.
func firstOrCreate[T any](s *seeder, entity, column, value string, rec *T) error {
	res := s.db.Where(column+" = ?", value).Limit(1).Find(rec)
	if res.Error != nil {
		return errors.Wrapf(res.Error, "look up %s %q", entity, value)
	}
	if res.RowsAffected > 0 {
		return nil
	}
	if err := s.db.Create(rec).Error; err != nil {
		return errors.Wrapf(err, "create %s %q", entity, value)
	}
	s.created[entity]++
	return nil
}

func (s *seeder) seedUsers(f *Fixtures) error {
	for _, in := range f.Users {
		u := models.User{Name: in.Name, Email: in.Email, Role: in.Role}
		if err := u.SetPassword(in.Password); err != nil {
			return err
		}
		if err := firstOrCreate(s, "users", "email", in.Email, &u); err != nil {
			return err
		}
		s.users[in.Email] = u.ID
	}
	return nil
}

func (s *seeder) seedTeams(f *Fixtures) error {
	for _, in := range f.Teams {
		t := models.Team{Name: in.Name, ShortName: in.ShortName, TeamType: in.TeamType,
			Country: in.Country, Logo: in.Logo, Coach: in.Coach}
		if err := firstOrCreate(s, "teams", "name", in.Name, &t); err != nil {
			return err
		}
		s.teams[in.Name] = t.ID
	}
	return nil
}

func (s *seeder) seedPlayers(f *Fixtures) error {
	for _, in := range f.Players {
		teamIDs, err := s.teams.ids("team", in.Teams)
		if err != nil {
			return errors.Wrapf(err, "player %q", in.Name)
		}
		p := models.Player{Name: in.Name, Role: in.Role, Nationality: in.Nationality,
			BattingStyle: in.BattingStyle, BowlingStyle: in.BowlingStyle, TeamIDs: teamIDs}
		if err := firstOrCreate(s, "players", "name", in.Name, &p); err != nil {
			return err
		}
		s.players[in.Name] = p.ID
	}
	return nil
}

// seedCaptains runs after players exist since teams point at them.
func (s *seeder) seedCaptains(f *Fixtures) error {
	for _, in := range f.Teams {
		if in.Captain == "" {
			continue
		}
		captainID, err := s.players.id("player", in.Captain)
		if err != nil {
			return errors.Wrapf(err, "captain of %q", in.Name)
		}
		err = s.db.Model(&models.Team{}).Where("id = ?", s.teams[in.Name]).
			UpdateColumn("captain_id", captainID).Error
		if err != nil {
			return errors.Wrapf(err, "set captain of %q", in.Name)
		}
	}
	return nil
}

func (s *seeder) seedTournaments(f *Fixtures) error {
	for _, in := range f.Tournaments {
		teamIDs, err := s.teams.ids("team", in.Teams)
		if err != nil {
			return errors.Wrapf(err, "tournament %q", in.Name)
		}
		winnerID, err := s.teams.optional("team", in.Winner)
		if err != nil {
			return errors.Wrapf(err, "tournament %q", in.Name)
		}
		t := models.Tournament{Name: in.Name, Format: in.Format, Status: in.Status, Location: in.Location,
			StartDate: in.StartDate, EndDate: in.EndDate, TeamIDs: teamIDs, WinnerID: winnerID}
		if err := firstOrCreate(s, "tournaments", "name", in.Name, &t); err != nil {
			return err
		}
		s.tours[in.Name] = t.ID
	}
	return nil
}

func (s *seeder) seedVenues(f *Fixtures) error {
	for _, in := range f.Venues {
		v := models.Venue{Name: in.Name, City: in.City, Country: in.Country, Capacity: in.Capacity}
		if err := firstOrCreate(s, "venues", "name", in.Name, &v); err != nil {
			return err
		}
		s.venues[in.Name] = v.ID
	}
	return nil
}

func (s *seeder) seedMatches(f *Fixtures) error {
	for _, in := range f.Matches {
		m := models.Match{Title: in.Title, MatchDate: in.MatchDate, Format: in.Format,
			Status: in.Status, Result: in.Result}
		var err error
		if m.TournamentID, err = s.tours.id("tournament", in.Tournament); err != nil {
			return errors.Wrapf(err, "match %q", in.Title)
		}
		if m.Team1ID, err = s.teams.id("team", in.Team1); err != nil {
			return errors.Wrapf(err, "match %q", in.Title)
		}
		if m.Team2ID, err = s.teams.id("team", in.Team2); err != nil {
			return errors.Wrapf(err, "match %q", in.Title)
		}
		if m.VenueID, err = s.venues.id("venue", in.Venue); err != nil {
			return errors.Wrapf(err, "match %q", in.Title)
		}
		if err := firstOrCreate(s, "matches", "title", in.Title, &m); err != nil {
			return err
		}
		s.matches[in.Title] = m.ID
	}
	return nil
}

func (s *seeder) seedTags(f *Fixtures) error {
	for _, in := range f.Tags {
		t := models.Tag{Name: in.Name, Description: in.Description}
		if err := firstOrCreate(s, "tags", "name", in.Name, &t); err != nil {
			return err
		}
		s.tags[in.Name] = t.ID
	}
	return nil
}

func (s *seeder) seedNews(f *Fixtures) error {
	for _, in := range f.News {
		n := models.News{Title: in.Title, Excerpt: in.Excerpt, Content: in.Content, CoverImage: in.CoverImage,
			Category: in.Category, Featured: in.Featured, PublishedAt: in.PublishedAt}
		var err error
		if n.AuthorID, err = s.users.id("author", in.Author); err != nil {
			return errors.Wrapf(err, "news %q", in.Title)
		}
		refs := []struct {
			dst  *pq.StringArray
			from names
			kind string
			keys []string
		}{
			{&n.TeamIDs, s.teams, "team", in.Teams},
			{&n.PlayerIDs, s.players, "player", in.Players},
			{&n.MatchIDs, s.matches, "match", in.Matches},
			{&n.TournamentIDs, s.tours, "tournament", in.Tournaments},
			{&n.TagIDs, s.tags, "tag", in.Tags},
		}
		for _, r := range refs {
			if *r.dst, err = r.from.ids(r.kind, r.keys); err != nil {
				return errors.Wrapf(err, "news %q", in.Title)
			}
		}
		if err := firstOrCreate(s, "news", "title", in.Title, &n); err != nil {
			return err
		}
	}
	return nil
}
