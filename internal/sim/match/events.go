package match

import "scrumcraft.ai/internal/protocol"

// emit buffers an event for this tick. The loop fans the buffer out to
// subscribers after the step; StepOnce hands it straight back.
func (m *Match) emit(typ string, data any) {
	m.events = append(m.events, protocol.Event{
		Type: typ,
		Tick: m.tick.Load(),
		Data: data,
	})
}
