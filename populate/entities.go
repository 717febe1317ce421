package populate

import (
	"context"

	"cricanalyzer/models"
)

// News resolves author, teams, players, matches, tournaments and tags.
func (p *Populator) News(ctx context.Context, items []models.News, v View) error {
	var authors, teams, players, matches, tournaments, tags idSet
	for _, n := range items {
		authors.add(n.AuthorID)
		teams.add(n.TeamIDs...)
		players.add(n.PlayerIDs...)
		matches.add(n.MatchIDs...)
		tournaments.add(n.TournamentIDs...)
		tags.add(n.TagIDs...)
	}
	authorRefs, err := p.users(ctx, authors, v)
	if err != nil {
		return err
	}
	teamRefs, err := p.teams(ctx, teams, v)
	if err != nil {
		return err
	}
	playerRefs, err := p.players(ctx, players, v)
	if err != nil {
		return err
	}
	matchRefs, err := p.matches(ctx, matches, v)
	if err != nil {
		return err
	}
	tournamentRefs, err := p.tournaments(ctx, tournaments, v)
	if err != nil {
		return err
	}
	tagRefs, err := p.tags(ctx, tags, v)
	if err != nil {
		return err
	}
	for i := range items {
		n := &items[i]
		n.Author = one(authorRefs, n.AuthorID)
		n.Teams = pick(teamRefs, n.TeamIDs)
		n.Players = pick(playerRefs, n.PlayerIDs)
		n.Matches = pick(matchRefs, n.MatchIDs)
		n.Tournaments = pick(tournamentRefs, n.TournamentIDs)
		n.Tags = pick(tagRefs, n.TagIDs)
	}
	return nil
}

// NewsSummary resolves only author, teams and players, as used by the
// featured and latest feeds.
func (p *Populator) NewsSummary(ctx context.Context, items []models.News) error {
	var authors, teams, players idSet
	for _, n := range items {
		authors.add(n.AuthorID)
		teams.add(n.TeamIDs...)
		players.add(n.PlayerIDs...)
	}
	authorRefs, err := p.users(ctx, authors, List)
	if err != nil {
		return err
	}
	teamRefs, err := p.teams(ctx, teams, List)
	if err != nil {
		return err
	}
	playerRefs, err := p.players(ctx, players, List)
	if err != nil {
		return err
	}
	for i := range items {
		n := &items[i]
		n.Author = one(authorRefs, n.AuthorID)
		n.Teams = pick(teamRefs, n.TeamIDs)
		n.Players = pick(playerRefs, n.PlayerIDs)
	}
	return nil
}

// Matches resolves tournament, both teams and the venue. Detail adds toss
// winner, player of the match and news mentioning the match.
func (p *Populator) Matches(ctx context.Context, items []models.Match, v View) error {
	var tournaments, teams, venues, players idSet
	for _, m := range items {
		tournaments.add(m.TournamentID)
		teams.add(m.Team1ID, m.Team2ID)
		venues.add(m.VenueID)
		if v == Detail {
			teams.addPtr(m.TossWinnerID)
			players.addPtr(m.PlayerOfMatchID)
		}
	}
	tournamentRefs, err := p.tournaments(ctx, tournaments, v)
	if err != nil {
		return err
	}
	teamRefs, err := p.teams(ctx, teams, v)
	if err != nil {
		return err
	}
	venueRefs, err := p.venues(ctx, venues, v)
	if err != nil {
		return err
	}
	playerRefs, err := p.players(ctx, players, v)
	if err != nil {
		return err
	}
	for i := range items {
		m := &items[i]
		m.Tournament = one(tournamentRefs, m.TournamentID)
		m.Team1 = one(teamRefs, m.Team1ID)
		m.Team2 = one(teamRefs, m.Team2ID)
		m.Venue = one(venueRefs, m.VenueID)
		if v != Detail {
			continue
		}
		m.TossWinner = onePtr(teamRefs, m.TossWinnerID)
		m.PlayerOfMatch = onePtr(playerRefs, m.PlayerOfMatchID)
		if m.News, err = p.newsMentioning(ctx, "matches", m.ID); err != nil {
			return err
		}
	}
	return nil
}

// Players resolves teams. Detail adds news mentioning the player.
func (p *Populator) Players(ctx context.Context, items []models.Player, v View) error {
	var teams idSet
	for _, pl := range items {
		teams.add(pl.TeamIDs...)
	}
	teamRefs, err := p.teams(ctx, teams, v)
	if err != nil {
		return err
	}
	for i := range items {
		pl := &items[i]
		pl.Teams = pick(teamRefs, pl.TeamIDs)
		if v != Detail {
			continue
		}
		if pl.News, err = p.newsMentioning(ctx, "players", pl.ID); err != nil {
			return err
		}
	}
	return nil
}

// Teams resolves the captain. Detail adds the squad and news.
func (p *Populator) Teams(ctx context.Context, items []models.Team, v View) error {
	var captains idSet
	for _, t := range items {
		captains.addPtr(t.CaptainID)
	}
	captainRefs, err := p.players(ctx, captains, v)
	if err != nil {
		return err
	}
	for i := range items {
		t := &items[i]
		t.Captain = onePtr(captainRefs, t.CaptainID)
		if v != Detail {
			continue
		}
		if t.Players, err = p.squad(ctx, t.ID); err != nil {
			return err
		}
		if t.News, err = p.newsMentioning(ctx, "teams", t.ID); err != nil {
			return err
		}
	}
	return nil
}

func (p *Populator) squad(ctx context.Context, teamID string) ([]models.PlayerRef, error) {
	refs := make([]models.PlayerRef, 0)
	err := p.db.WithContext(ctx).Table("players").Select(playerCols.of(Detail)).
		Where("? = ANY(teams)", teamID).
		Order("name").
		Find(&refs).Error
	return refs, err
}

// Tournaments resolves teams and winner. Detail adds the fixture list.
func (p *Populator) Tournaments(ctx context.Context, items []models.Tournament, v View) error {
	var teams idSet
	for _, t := range items {
		teams.add(t.TeamIDs...)
		teams.addPtr(t.WinnerID)
	}
	teamRefs, err := p.teams(ctx, teams, v)
	if err != nil {
		return err
	}
	for i := range items {
		t := &items[i]
		t.Teams = pick(teamRefs, t.TeamIDs)
		t.Winner = onePtr(teamRefs, t.WinnerID)
		if v != Detail {
			continue
		}
		if t.Matches, err = p.matchesWhere(ctx, "tournament_id", t.ID, "match_date ASC"); err != nil {
			return err
		}
	}
	return nil
}

// Venues resolves record holders and, on Detail, matches at the ground.
func (p *Populator) Venues(ctx context.Context, items []models.Venue, v View) error {
	var players idSet
	for _, venue := range items {
		for _, r := range venue.Records {
			players.add(r.PlayerID)
		}
	}
	playerRefs, err := p.players(ctx, players, List)
	if err != nil {
		return err
	}
	for i := range items {
		venue := &items[i]
		for j := range venue.Records {
			venue.Records[j].Player = one(playerRefs, venue.Records[j].PlayerID)
		}
		if v != Detail {
			continue
		}
		if venue.Matches, err = p.matchesWhere(ctx, "venue_id", venue.ID, "match_date DESC"); err != nil {
			return err
		}
	}
	return nil
}
