package core

// CommandKind describes what the client wants to do.
type CommandKind int

const (
	// CommandSendMessage appends a message to history and broadcasts it.
	CommandSendMessage CommandKind = iota
)

// Command represents an action requested by a client.
type Command struct {
	Kind  CommandKind
	Draft Draft
}

type opKind int

const (
	opRegister opKind = iota
	opUnregister
	opCommand
)

// op is a unit of work for the hub loop. Registration, commands and
// unregistration share one queue so a client's send is never overtaken by its
// own disconnect.
type op struct {
	kind   opKind
	client *Client
	cmd    *Command
}
