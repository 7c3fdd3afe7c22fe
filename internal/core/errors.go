package core

// Error codes for domain errors. These are the codes clients see on the
// wire in error frames.
const (
	ErrCodeRoomNotFound     = "room_not_found"
	ErrCodeRoomFull         = "room_full"
	ErrCodeNameTaken        = "name_taken"
	ErrCodeNotCreator       = "not_creator"
	ErrCodeNeedTwoPlayers   = "need_two_players"
	ErrCodeInvalidSecret    = "invalid_secret"
	ErrCodeGameNotStarted   = "game_not_started"
	ErrCodeGameNotPlaying   = "game_not_playing"
	ErrCodeNotYourTurn      = "not_your_turn"
	ErrCodeInvalidGuess     = "invalid_guess"
	ErrCodeNoOpponent       = "no_opponent"
	ErrCodeOpponentNoSecret = "opponent_no_secret"
	ErrCodeNotInRoom        = "not_in_room"
	ErrCodeAlreadyInRoom    = "already_in_room"
	ErrCodeNoReconnectSlot  = "no_reconnect_slot"
	ErrCodeRateLimited      = "rate_limited"
	ErrCodeBadRequest       = "bad_request"
)

// CoreError wraps a code and human-readable message.
type CoreError struct {
	Code    string
	Message string
}

func (e *CoreError) Error() string {
	return e.Message
}

func coreError(code, msg string) *CoreError {
	return &CoreError{Code: code, Message: msg}
}
