package core

import "time"

// Message is the domain model for a chat message. It is built by the hub and
// never modified afterwards.
type Message struct {
	// Seq is a strictly increasing per-process sequence number.
	Seq uint64
	// ID is the creation time in milliseconds since epoch. Two messages can share it.
	ID        int64
	User      string
	Avatar    string
	Text      string
	Timestamp string
	CreatedAt time.Time
}

// Draft is what a participant submits; the hub fills in the rest.
type Draft struct {
	User   string
	Avatar string
	Text   string
}
