package models

// Fixture is a scheduled match between two named teams. Fixtures for a week
// form an ordered sequence; predictions and results align to it by position,
// not by team name.
type Fixture struct {
	HomeTeam string `json:"home_team"`
	AwayTeam string `json:"away_team"`
}

// Result is the final scoreline for a fixture. Scores are pointers because a
// results row may be published before the match finishes; a nil score means
// "not yet played" and the fixture scores zero for everyone.
type Result struct {
	HomeTeam  string `json:"home_team"`
	AwayTeam  string `json:"away_team"`
	HomeScore *int   `json:"home_score"`
	AwayScore *int   `json:"away_score"`
}

// Played reports whether both scores are present.
func (r Result) Played() bool {
	return r.HomeScore != nil && r.AwayScore != nil
}
