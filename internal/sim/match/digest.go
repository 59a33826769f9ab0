package match

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"
)

// StateDigest hashes the simulation state that must replay identically for
// a given seed: phase, clock, score, ball, and every agent in a fixed
// order. Two matches with the same seed and inputs produce the same digest
// stream.
func (m *Match) StateDigest() string {
	h := sha256.New()
	var buf [8]byte

	writeU64 := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[:], v)
		h.Write(buf[:])
	}
	writeF64 := func(v float64) {
		writeU64(math.Float64bits(v))
	}

	writeU64(m.tick.Load())
	writeU64(uint64(m.phases.Phase()))
	writeU64(uint64(m.phases.PhaseCount()))
	writeU64(uint64(m.clock.Half()))
	writeU64(uint64(m.clock.Minutes()*60 + m.clock.Seconds()))
	writeU64(uint64(m.score[0]))
	writeU64(uint64(m.score[1]))

	writeU64(uint64(m.ball.State))
	h.Write([]byte(m.ball.Carrier))
	writeF64(m.ball.Pos.X)
	writeF64(m.ball.Pos.Y)
	writeF64(m.ball.Vel.X)
	writeF64(m.ball.Vel.Y)

	for side := 0; side < 2; side++ {
		for _, a := range m.teams[side].Players {
			h.Write([]byte(a.ID))
			writeU64(uint64(a.State))
			writeF64(a.Pos.X)
			writeF64(a.Pos.Y)
			writeF64(a.Vel.X)
			writeF64(a.Vel.Y)
			writeF64(a.Stamina)
			writeU64(uint64(a.GroundedTicks))
			writeU64(uint64(a.StumbleTicks))
		}
	}

	return hex.EncodeToString(h.Sum(nil)[:16])
}
