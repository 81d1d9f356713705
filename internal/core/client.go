package core

// Client is a chat participant as seen by the core layer.
// Events is written and closed by the hub only.
type Client struct {
	ID     string
	Events chan *Event

	done        chan struct{}
	closeReason string
}

// NewClient constructs a client with an initialized event queue. buffer bounds
// the number of undelivered events before the hub treats the client as too slow.
func NewClient(id string, buffer int) *Client {
	if buffer < 1 {
		buffer = 1
	}
	return &Client{
		ID:     id,
		Events: make(chan *Event, buffer),
		done:   make(chan struct{}),
	}
}

// Done is closed once the hub has removed the client.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// CloseReason explains why the hub removed the client. It is empty after a
// normal unregister and must only be read after Done or Events was closed.
func (c *Client) CloseReason() string {
	return c.closeReason
}
