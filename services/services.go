package services

import "cricanalyzer/utils"

// Services bundles every handler set mounted by the API.
type Services struct {
	News        *NewsService
	Matches     *MatchService
	Players     *PlayerService
	Teams       *TeamService
	Tournaments *TournamentService
	Venues      *VenueService
	Tags        *TagService
	Users       *UserService
	Auth        *AuthService
	Newsletter  *NewsletterService
	Search      *SearchService
}

func New(deps Deps, signer *utils.TokenSigner) *Services {
	return &Services{
		News:        NewNewsService(deps),
		Matches:     NewMatchService(deps),
		Players:     NewPlayerService(deps),
		Teams:       NewTeamService(deps),
		Tournaments: NewTournamentService(deps),
		Venues:      NewVenueService(deps),
		Tags:        NewTagService(deps),
		Users:       NewUserService(deps),
		Auth:        NewAuthService(deps.DB, signer),
		Newsletter:  NewNewsletterService(deps.DB),
		Search:      NewSearchService(deps.DB),
	}
}
