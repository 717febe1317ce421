package models

const (
	RoleUser   = "user"
	RoleEditor = "editor"
	RoleAdmin  = "admin"
)

const (
	MatchStatusUpcoming  = "upcoming"
	MatchStatusLive      = "live"
	MatchStatusCompleted = "completed"
	MatchStatusAbandoned = "abandoned"
)

const (
	TournamentStatusUpcoming  = "upcoming"
	TournamentStatusOngoing   = "ongoing"
	TournamentStatusCompleted = "completed"
)

// Enums lists every fixed value set, keyed by the name used in `enum=` tags.
var Enums = map[string][]string{
	"role":              {RoleUser, RoleEditor, RoleAdmin},
	"news_category":     {"News", "Match Reports", "Opinion", "Analysis", "Interviews", "Fantasy Tips"},
	"match_status":      {MatchStatusUpcoming, MatchStatusLive, MatchStatusCompleted, MatchStatusAbandoned},
	"match_format":      {"Test", "ODI", "T20I", "T20", "First Class", "List A", "Women"},
	"toss_decision":     {"bat", "field"},
	"player_role":       {"Batsman", "Bowler", "All-rounder", "Wicket-keeper", "Wicket-keeper Batsman"},
	"ranking_format":    {"Test", "ODI", "T20I"},
	"team_type":         {"International", "Domestic", "League", "Women"},
	"tournament_format": {"Test", "ODI", "T20I", "T20", "Mixed"},
	"tournament_status": {TournamentStatusUpcoming, TournamentStatusOngoing, TournamentStatusCompleted},
}

// InEnum reports whether value belongs to the named value set.
func InEnum(name, value string) bool {
	for _, v := range Enums[name] {
		if v == value {
			return true
		}
	}
	return false
}
