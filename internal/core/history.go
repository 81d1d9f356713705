package core

// DefaultHistoryLimit is the number of messages kept for backfill.
const DefaultHistoryLimit = 100

// History is a fixed-capacity FIFO of the most recent messages.
// It is not safe for concurrent use; the hub goroutine owns it.
type History struct {
	buf   []Message
	start int
	size  int
}

// NewHistory creates an empty history holding at most limit messages.
func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &History{buf: make([]Message, limit)}
}

// Append stores msg as the newest entry. It reports whether the oldest entry was evicted.
func (h *History) Append(msg Message) bool {
	capacity := len(h.buf)
	if h.size < capacity {
		h.buf[(h.start+h.size)%capacity] = msg
		h.size++
		return false
	}
	h.buf[h.start] = msg
	h.start = (h.start + 1) % capacity
	return true
}

// Recent returns a copy of the newest n messages, oldest first.
func (h *History) Recent(n int) []Message {
	if n > h.size {
		n = h.size
	}
	if n <= 0 {
		return []Message{}
	}
	out := make([]Message, n)
	capacity := len(h.buf)
	first := h.start + h.size - n
	for i := range n {
		out[i] = h.buf[(first+i)%capacity]
	}
	return out
}

// Len returns the number of stored messages.
func (h *History) Len() int {
	return h.size
}

// Cap returns the maximum number of stored messages.
func (h *History) Cap() int {
	return len(h.buf)
}
