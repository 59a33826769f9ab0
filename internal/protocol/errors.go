package protocol

const (
	// Protocol/transport validation.
	ErrProtoBadRequest = "E_PROTO_BAD_REQUEST"

	// Session routing.
	ErrTeamTaken     = "E_TEAM_TAKEN"
	ErrMatchOver     = "E_MATCH_OVER"
	ErrMatchNotFound = "E_MATCH_NOT_FOUND"

	// Simulation-layer rejections.
	ErrBadRequest    = "E_BAD_REQUEST"
	ErrWrongPhase    = "E_WRONG_PHASE"
	ErrNotController = "E_NOT_CONTROLLER"
	ErrInternal      = "E_INTERNAL"
)

var knownCodes = map[string]struct{}{
	ErrProtoBadRequest: {},
	ErrTeamTaken:       {},
	ErrMatchOver:       {},
	ErrMatchNotFound:   {},
	ErrBadRequest:      {},
	ErrWrongPhase:      {},
	ErrNotController:   {},
	ErrInternal:        {},
}

func IsKnownCode(code string) bool {
	if code == "" {
		return true
	}
	_, ok := knownCodes[code]
	return ok
}
