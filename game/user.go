package game

// User is a seat holder. Name is the identity used for lookups, rejoins and
// vote keys; String is only used in diagnostics.
type User interface {
	Name() string
	Connected() bool
	String() string
}

type Prompt struct {
	Keyword string `json:"keyword"`
	Hint    string `json:"hint"`
}

// PromptProvider hands out prompts. Implementations shared by several rooms
// must be safe for concurrent use. Repeats are allowed.
type PromptProvider interface {
	RandomPrompt() Prompt
}
