package proto

import "encoding/json"

// Inbound is the envelope for actions coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const (
	InboundTypeCreateRoom     = "createRoom"
	InboundTypeJoinRoom       = "joinRoom"
	InboundTypeStartGame      = "startGame"
	InboundTypeReconnect      = "reconnectToRoom"
	InboundTypeSetSecret      = "setSecret"
	InboundTypeGuess          = "guess"
	InboundTypeSendChat       = "sendChat"
	InboundTypeTyping         = "typing"
	InboundTypeRequestRematch = "requestRematch"
	InboundTypeLeaveRoom      = "leaveRoom"

	OutboundTypeEvent = "event"
	OutboundTypeError = "error"
)

// CreateRoomData opens a new room with the caller as host.
type CreateRoomData struct {
	Name string `json:"name"`
}

// JoinRoomData takes the second slot in an existing room.
type JoinRoomData struct {
	Room string `json:"room"`
	Name string `json:"name"`
}

// RoomData addresses an action at a room the caller is part of.
type RoomData struct {
	Room string `json:"room"`
}

// ReconnectData reclaims a disconnected slot by room code and name.
type ReconnectData struct {
	Room string `json:"room"`
	Name string `json:"name"`
}

// SetSecretData locks the caller's secret code.
type SetSecretData struct {
	Room   string `json:"room"`
	Secret string `json:"secret"`
}

// GuessData submits a guess.
type GuessData struct {
	Room  string `json:"room"`
	Guess string `json:"guess"`
}

// ChatData is a chat message from the client.
type ChatData struct {
	Room    string `json:"room"`
	Message string `json:"message"`
	Name    string `json:"name,omitempty"`
}

// TypingData toggles the typing indicator.
type TypingData struct {
	Room     string `json:"room"`
	IsTyping bool   `json:"isTyping"`
}

// Outbound is the envelope for notifications sent to the client.
type Outbound struct {
	Type  string `json:"type"`
	Event string `json:"event,omitempty"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// Outbound event names.
const (
	EventRoomCreated        = "roomCreated"
	EventJoined             = "joined"
	EventPlayerJoined       = "playerJoined"
	EventPlayerNames        = "playerNames"
	EventHostInfo           = "hostInfo"
	EventGameStarted        = "gameStarted"
	EventPlayerLocked       = "playerLocked"
	EventBothReady          = "bothReady"
	EventGuessResult        = "guessResult"
	EventOpponentGuessed    = "opponentGuessed"
	EventGameOver           = "gameOver"
	EventTurnChanged        = "turnChanged"
	EventChatMessage        = "chatMessage"
	EventTyping             = "typing"
	EventRematchStatus      = "rematchStatus"
	EventRematchStarted     = "rematchStarted"
	EventPlayerLeft         = "playerLeft"
	EventPlayerReconnected  = "playerReconnected"
	EventHostChanged        = "hostChanged"
	EventReconnected        = "reconnected"
)

// EventRoomCreatedData carries the generated room code.
type EventRoomCreatedData struct {
	Room string `json:"room"`
}

// EventJoinedData acknowledges a join.
type EventJoinedData struct {
	Room    string `json:"room"`
	Started bool   `json:"started"`
}

// EventPlayerJoinedData announces a new player to the room.
type EventPlayerJoinedData struct {
	Name    string `json:"name"`
	Started bool   `json:"started"`
}

// EventPlayerNamesData is each client's view of the roster.
type EventPlayerNamesData struct {
	Self     string  `json:"self"`
	Opponent *string `json:"opponent"`
}

// EventHostInfoData identifies the host connection.
type EventHostInfoData struct {
	HostID string `json:"hostId"`
}

// EventPlayerLockedData announces a locked secret.
type EventPlayerLockedData struct {
	By string `json:"by"`
}

// EventBothReadyData announces the randomly chosen starter.
type EventBothReadyData struct {
	CurrentTurn string `json:"currentTurn"`
}

// EventGuessFeedbackData carries scoring feedback for a guess. Sent to
// the guesser as guessResult and mirrored to the opponent as
// opponentGuessed.
type EventGuessFeedbackData struct {
	Guess  string `json:"guess"`
	Whites int    `json:"whites"`
	Reds   int    `json:"reds"`
}

// EventGameOverData names the winner.
type EventGameOverData struct {
	Winner string `json:"winner"`
}

// EventTurnChangedData announces the next turn holder.
type EventTurnChangedData struct {
	CurrentTurn string `json:"currentTurn"`
}

// EventChatMessageData is a chat message broadcast.
type EventChatMessageData struct {
	From    string `json:"from"`
	Name    string `json:"name"`
	Message string `json:"message"`
	At      int64  `json:"at"`
}

// EventTypingData relays a typing indicator.
type EventTypingData struct {
	From     string `json:"from"`
	IsTyping bool   `json:"isTyping"`
}

// EventRematchStatusData is the running rematch request count.
type EventRematchStatusData struct {
	Count int `json:"count"`
}

// EventPlayerLeftData announces a removed slot.
type EventPlayerLeftData struct {
	By string `json:"by"`
}

// EventPlayerReconnectedData announces a reconnect migration.
type EventPlayerReconnectedData struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// EventHostChangedData announces a host transfer.
type EventHostChangedData struct {
	NewHost string `json:"newHost"`
	Name    string `json:"name"`
}

// EventReconnectedData acknowledges a successful reconnect.
type EventReconnectedData struct {
	OK bool `json:"ok"`
}

// Error describes a rejected action.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg,omitempty"`
}
