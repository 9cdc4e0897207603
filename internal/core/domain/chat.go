package domain

// ChatReply is the dispatcher's answer to one user message.
type ChatReply struct {
	SessionID string
	Text      string
}
