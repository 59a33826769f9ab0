package match

// Clock runs accelerated game time. Game seconds advance a fixed amount per
// tick so the clock is deterministic and replayable.
type Clock struct {
	gameSeconds    float64
	secondsPerTick float64
	half           int
	halfSeconds    float64
}

func newClock(tickRateHz, halfMinutes int, realSecPerGameMin float64) *Clock {
	return &Clock{
		secondsPerTick: 60 / (realSecPerGameMin * float64(tickRateHz)),
		half:           1,
		halfSeconds:    float64(halfMinutes) * 60,
	}
}

func (c *Clock) Advance() { c.gameSeconds += c.secondsPerTick }

func (c *Clock) Half() int { return c.half }

func (c *Clock) Minutes() int { return int(c.gameSeconds) / 60 }
func (c *Clock) Seconds() int { return int(c.gameSeconds) % 60 }

// HalfExpired reports whether the current half's time is up.
func (c *Clock) HalfExpired() bool {
	return c.gameSeconds >= c.halfSeconds*float64(c.half)
}

// StartSecondHalf flips to the second half; the clock keeps counting up.
func (c *Clock) StartSecondHalf() { c.half = 2 }

// Point values per scoring kind.
const (
	PointsTry         = 5
	PointsConversion  = 2
	PointsPenaltyGoal = 3
	PointsDropGoal    = 3
)
