package chat

// Transcript is the externally visible state of the assistant session.
type Transcript struct {
	Messages []Message `json:"messages"`
	Loading  bool      `json:"loading"`
	CanClear bool      `json:"canClear"`
}
