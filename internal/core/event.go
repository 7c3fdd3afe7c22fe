package core

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventRoomCreated confirms room creation to the creator.
	EventRoomCreated EventKind = iota
	// EventJoined confirms a successful join to the joining client.
	EventJoined
	// EventPlayerJoined notifies the room about a new player.
	EventPlayerJoined
	// EventPlayerNames delivers a per-client view of both display names.
	EventPlayerNames
	// EventHostInfo tells clients which connection holds host privilege.
	EventHostInfo
	// EventGameStarted notifies the room that the host started the game.
	EventGameStarted
	// EventPlayerLocked notifies the room that one player locked a secret.
	EventPlayerLocked
	// EventBothReady announces both secrets are locked and who goes first.
	EventBothReady
	// EventGuessResult delivers scoring feedback to the guesser.
	EventGuessResult
	// EventOpponentGuessed mirrors a guess to the opponent.
	EventOpponentGuessed
	// EventGameOver announces the winner.
	EventGameOver
	// EventTurnChanged announces whose turn it is now.
	EventTurnChanged
	// EventChatMessage carries a chat message to the room.
	EventChatMessage
	// EventTyping relays a typing indicator to the room.
	EventTyping
	// EventRematchStatus broadcasts the running rematch request count.
	EventRematchStatus
	// EventRematchStarted announces the round reset.
	EventRematchStarted
	// EventPlayerLeft notifies the room that a slot was removed.
	EventPlayerLeft
	// EventPlayerReconnected notifies the room about a reconnect migration.
	EventPlayerReconnected
	// EventHostChanged announces a host privilege transfer.
	EventHostChanged
	// EventReconnected confirms a reconnect to the returning client.
	EventReconnected
	// EventError notifies a client about a rejected action.
	EventError
)

// Event is sent to clients to describe what happened in a room. User is
// the connection identity the event concerns (guesser, leaver, new host,
// next turn holder, depending on the kind).
type Event struct {
	Kind     EventKind
	Room     string
	User     string
	Name     string
	Opponent string
	Started  bool
	Guess    string
	Whites   int
	Reds     int
	Count    int
	Text     string
	At       int64
	IsTyping bool
	Error    *CoreError
}
