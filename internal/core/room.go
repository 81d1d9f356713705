package core

// Room is the single broadcast domain every connected client belongs to.
type Room struct {
	clients map[*Client]struct{}
}

// NewRoom constructs a room with no clients.
func NewRoom() *Room {
	return &Room{
		clients: make(map[*Client]struct{}),
	}
}

// AddClient inserts a client into the room. Returns true if newly added.
func (r *Room) AddClient(c *Client) bool {
	if _, exists := r.clients[c]; exists {
		return false
	}
	r.clients[c] = struct{}{}
	return true
}

// RemoveClient deletes a client from the room. Returns true if removed.
func (r *Room) RemoveClient(c *Client) bool {
	if _, exists := r.clients[c]; !exists {
		return false
	}
	delete(r.clients, c)
	return true
}

// Has reports whether c is in the room.
func (r *Room) Has(c *Client) bool {
	_, ok := r.clients[c]
	return ok
}

// Broadcast queues an event for every client without blocking and returns the
// clients whose queues were full.
func (r *Room) Broadcast(event *Event) []*Client {
	var slow []*Client
	for client := range r.clients {
		select {
		case client.Events <- event:
		default:
			slow = append(slow, client)
		}
	}
	return slow
}

// Len returns the number of clients in the room.
func (r *Room) Len() int {
	return len(r.clients)
}
