package match

import "scrumcraft.ai/internal/protocol"

type Formation string

const (
	FormationStandard Formation = "standard"
	FormationWide     Formation = "wide"
	FormationNarrow   Formation = "narrow"
	FormationDrift    Formation = "drift"
	FormationBlitz    Formation = "blitz"
)

// Team owns its fifteen agents plus the adaptive state the tactical
// director reads and writes each think cycle.
type Team struct {
	Name string
	Side int

	Players []*Agent

	Aggression   float64 // 0..1 risk appetite
	Formation    Formation
	RuckCommit   int // target committed agents per ruck
	currentPlay  string
	playHeld     bool // human-called play, kept until possession changes
	playScores   map[string]float64
	oppCalls     []string // rolling window of observed opponent play calls
	lastThink    uint64
	lastBallGain float64 // carrier X at the previous think, for success scoring
}

func newTeam(side int, snap protocol.TeamSnapshot) *Team {
	t := &Team{
		Name:       snap.Name,
		Side:       side,
		Aggression: snap.Aggression,
		Formation:  FormationStandard,
		RuckCommit: 3,
		playScores: map[string]float64{},
	}
	if t.Aggression <= 0 || t.Aggression > 1 {
		t.Aggression = 0.5
	}
	players := snap.Players
	if len(players) == 0 {
		players = defaultSquad()
	}
	for i, p := range players {
		if i >= 15 {
			break
		}
		t.Players = append(t.Players, newAgent(side, i, p))
	}
	return t
}

// defaultSquad fills an unnamed roster with a serviceable fifteen.
func defaultSquad() []protocol.PlayerProfile {
	roles := []string{
		"prop", "hooker", "prop", "lock", "lock", "flanker", "flanker", "number8",
		"scrumhalf", "flyhalf", "wing", "centre", "centre", "wing", "fullback",
	}
	out := make([]protocol.PlayerProfile, len(roles))
	for i, role := range roles {
		p := protocol.PlayerProfile{
			Name: role, Role: role,
			Speed: 55, Strength: 55, Handling: 55, Kicking: 40,
			Stamina: 60, Tackling: 55, Awareness: 50, WorkRate: 55,
		}
		if i < 8 {
			p.Strength, p.Speed = 70, 45
		} else {
			p.Speed, p.Handling = 70, 65
		}
		if role == "flyhalf" || role == "fullback" {
			p.Kicking = 75
		}
		out[i] = p
	}
	return out
}

// avgStamina is the team fatigue signal used by formation choice.
func (t *Team) avgStamina() float64 {
	if len(t.Players) == 0 {
		return 100
	}
	sum := 0.0
	for _, p := range t.Players {
		sum += p.Stamina
	}
	return sum / float64(len(t.Players))
}

func (t *Team) recordOpponentCall(call string) {
	t.oppCalls = append(t.oppCalls, call)
	if len(t.oppCalls) > 5 {
		t.oppCalls = t.oppCalls[len(t.oppCalls)-5:]
	}
}

// detectPattern reports a play call seen at least three times in the last
// five opponent calls.
func (t *Team) detectPattern() (string, bool) {
	if len(t.oppCalls) < 3 {
		return "", false
	}
	counts := map[string]int{}
	for _, c := range t.oppCalls {
		counts[c]++
		if counts[c] >= 3 {
			return c, true
		}
	}
	return "", false
}
