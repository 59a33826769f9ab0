package protocol

// Roster types cross the persistence boundary in both directions: a squad
// snapshot comes in at match start, a result snapshot goes out at full time.

type TeamSnapshot struct {
	Name       string          `json:"name" yaml:"name"`
	Aggression float64         `json:"aggression" yaml:"aggression"`
	Players    []PlayerProfile `json:"players" yaml:"players"`
}

type PlayerProfile struct {
	Name      string `json:"name" yaml:"name"`
	Role      string `json:"role" yaml:"role"` // prop, hooker, lock, flanker, number8, scrumhalf, flyhalf, centre, wing, fullback
	Speed     int    `json:"speed" yaml:"speed"`
	Strength  int    `json:"strength" yaml:"strength"`
	Handling  int    `json:"handling" yaml:"handling"`
	Kicking   int    `json:"kicking" yaml:"kicking"`
	Stamina   int    `json:"stamina" yaml:"stamina"`
	Tackling  int    `json:"tackling" yaml:"tackling"`
	Awareness int    `json:"awareness" yaml:"awareness"`
	WorkRate  int    `json:"work_rate" yaml:"work_rate"`
}

// MatchResult is the final snapshot produced at full time.
type MatchResult struct {
	MatchID   string       `json:"match_id"`
	Seed      int64        `json:"seed"`
	HomeTeam  string       `json:"home_team"`
	AwayTeam  string       `json:"away_team"`
	HomeScore int          `json:"home_score"`
	AwayScore int          `json:"away_score"`
	Ticks     uint64       `json:"ticks"`
	Stats     [2]StatLine  `json:"stats"`
	Timeline  []ScoreEntry `json:"timeline"`
}

type StatLine struct {
	Tries           int     `json:"tries"`
	Conversions     int     `json:"conversions"`
	PenaltyGoals    int     `json:"penalty_goals"`
	DropGoals       int     `json:"drop_goals"`
	PossessionTicks int     `json:"possession_ticks"`
	TacklesMade     int     `json:"tackles_made"`
	TacklesMissed   int     `json:"tackles_missed"`
	RucksWon        int     `json:"rucks_won"`
	RucksLost       int     `json:"rucks_lost"`
	ScrumsWon       int     `json:"scrums_won"`
	LineoutsWon     int     `json:"lineouts_won"`
	LineoutsStolen  int     `json:"lineouts_stolen"`
	MetresGained    float64 `json:"metres_gained"`
	Penalties       int     `json:"penalties"`
}

type ScoreEntry struct {
	Tick   uint64 `json:"tick"`
	Minute int    `json:"minute"`
	Team   string `json:"team"`
	Kind   string `json:"kind"`
	Points int    `json:"points"`
}
