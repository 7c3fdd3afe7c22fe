package core

// Client is one connected player as seen by the core layer. ID is a
// transient per-connection identity; it does not survive reconnects.
type Client struct {
	ID     string
	Name   string
	Room   string
	Events chan *Event
}

// NewClient constructs a client with an initialized event channel.
func NewClient(id string) *Client {
	return &Client{
		ID:     id,
		Events: make(chan *Event, 16),
	}
}

// send queues an event for the client, dropping it if the consumer is
// too slow. Broadcast delivery is fire-and-forget.
func (c *Client) send(ev *Event) {
	select {
	case c.Events <- ev:
	default:
	}
}
