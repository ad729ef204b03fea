package domain

// Turn is one exchange recorded in the session log.
// User is empty for the greeting turn, which consumes no input.
type Turn struct {
	User  string `json:"user"`
	Alice string `json:"alice"`
}

// Session represents the conversation state of a single user.
type Session struct {
	// ID is the opaque session key (the platform user id).
	ID string `json:"id"`

	// CurrentElementID is the identifier of the element awaiting an answer.
	// Empty only before the first turn has been rendered.
	CurrentElementID string `json:"current_element_id,omitempty"`

	// Results maps element ids to the canonical answers accepted for them.
	Results map[string]any `json:"results"`

	// Log is the append-only transcript of the conversation.
	Log []Turn `json:"log"`
}

// NewSession creates an empty session for the given key.
func NewSession(id string) *Session {
	return &Session{
		ID:      id,
		Results: make(map[string]any),
		Log:     []Turn{},
	}
}

// Result returns the stored answer for an element and whether it exists.
func (s *Session) Result(elementID string) (any, bool) {
	if s.Results == nil {
		return nil, false
	}
	v, ok := s.Results[elementID]
	return v, ok
}

// Append records a turn in the transcript.
func (s *Session) Append(user, alice string) {
	s.Log = append(s.Log, Turn{User: user, Alice: alice})
}

// Snapshot returns a copy that can be mutated without affecting the receiver.
func (s *Session) Snapshot() *Session {
	if s == nil {
		return nil
	}
	c := *s
	c.Results = make(map[string]any, len(s.Results))
	for k, v := range s.Results {
		c.Results[k] = v
	}
	c.Log = make([]Turn, len(s.Log))
	copy(c.Log, s.Log)
	return &c
}
