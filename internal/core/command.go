package core

// CommandKind describes what the client wants to do.
type CommandKind int

const (
	// CommandCreateRoom creates a fresh room with the caller as host.
	CommandCreateRoom CommandKind = iota
	// CommandJoinRoom takes the second player slot in an existing room.
	CommandJoinRoom
	// CommandStartGame moves a waiting room to started (host only).
	CommandStartGame
	// CommandReconnect reclaims a disconnected slot by room and name.
	CommandReconnect
	// CommandSetSecret locks the caller's secret code.
	CommandSetSecret
	// CommandGuess submits a guess against the opponent's secret.
	CommandGuess
	// CommandChat sends a chat message to the room.
	CommandChat
	// CommandTyping relays a typing indicator to the room.
	CommandTyping
	// CommandRequestRematch asks for a round reset after a finished game.
	CommandRequestRematch
	// CommandLeaveRoom removes the caller's slot immediately.
	CommandLeaveRoom
)

// Command represents an action requested by a client.
type Command struct {
	Kind     CommandKind
	Room     string
	Name     string
	Secret   string
	Guess    string
	Text     string
	IsTyping bool
}
