package core

import "github.com/google/uuid"

// Conversation roles used in turn records. The flow engine only ever appends
// user and assistant turns; system instructions are carried separately on the
// generation request.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Turn is a single role-attributed utterance. Turns are append-only records;
// insertion order equals chronological order.
type Turn struct {
	Role string `json:"role"`
	Text string `json:"content"`
}

// NewUserTurn creates a user-authored turn record.
func NewUserTurn(text string) Turn { return Turn{Role: RoleUser, Text: text} }

// NewAssistantTurn creates an assistant-authored turn record.
func NewAssistantTurn(text string) Turn { return Turn{Role: RoleAssistant, Text: text} }

// ActionSpec declaratively exposes a callable action to the generation
// provider. Parameters is a JSON Schema object (minimal subset expected).
// Vocero only advertises action specs; invoking them is the provider
// integration's responsibility.
type ActionSpec struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// NewID generates a unique identifier for turns, stream chunks and index
// points.
func NewID() string { return uuid.NewString() }
