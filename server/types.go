package server

// chatRequest is the inbound chat completion payload. Voice platforms attach
// the call under "call"; its id keys the conversation session.
type chatRequest struct {
	Model    string        `json:"model,omitempty"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream,omitempty"`
	Call     *callInfo     `json:"call,omitempty"`
}

type callInfo struct {
	ID string `json:"id,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// sessionID resolves the session key, falling back to a shared default when
// no call metadata is present.
func (r chatRequest) sessionID() string {
	if r.Call != nil && r.Call.ID != "" {
		return r.Call.ID
	}
	return defaultSessionID
}

type chatResponse struct {
	ID      string   `json:"id"`
	Object  string   `json:"object,omitempty"`
	Created int64    `json:"created,omitempty"`
	Choices []choice `json:"choices"`
}

type choice struct {
	Index        int      `json:"index"`
	Message      *message `json:"message,omitempty"`
	FinishReason string   `json:"finish_reason"`
}

type message struct {
	Role    string `json:"role,omitempty"`
	Content string `json:"content"`
}

type chatChunk struct {
	ID      string        `json:"id"`
	Object  string        `json:"object"`
	Created int64         `json:"created"`
	Model   string        `json:"model,omitempty"`
	Choices []chunkChoice `json:"choices"`
}

type chunkChoice struct {
	Index        int     `json:"index"`
	Delta        delta   `json:"delta"`
	FinishReason *string `json:"finish_reason,omitempty"`
}

type delta struct {
	Content string `json:"content,omitempty"`
}
