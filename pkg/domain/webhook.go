package domain

import "encoding/json"

// Request is the inbound webhook envelope.
type Request struct {
	Version string          `json:"version"`
	Session *RequestSession `json:"session"`
	Request *Utterance      `json:"request"`
}

// RequestSession identifies the caller. New is set on the first turn of a conversation.
// A decoded session keeps its original bytes and marshals back to them unchanged,
// so fields the engine does not model (skill_id, application) reach the response.
type RequestSession struct {
	New       bool   `json:"new"`
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id,omitempty"`
	MessageID int    `json:"message_id"`
	SkillID   string `json:"skill_id,omitempty"`

	raw json.RawMessage
}

type sessionFields RequestSession

// UnmarshalJSON decodes the known fields and retains the raw object for echoing.
func (s *RequestSession) UnmarshalJSON(data []byte) error {
	var f sessionFields
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*s = RequestSession(f)
	s.raw = append(json.RawMessage(nil), data...)
	return nil
}

// MarshalJSON returns the inbound object verbatim when there is one.
func (s RequestSession) MarshalJSON() ([]byte, error) {
	if len(s.raw) > 0 {
		return s.raw, nil
	}
	return json.Marshal(sessionFields(s))
}

// Utterance carries what the user said.
type Utterance struct {
	Command           string `json:"command"`
	OriginalUtterance string `json:"original_utterance,omitempty"`
}

// Response is the outbound webhook envelope.
type Response struct {
	Version  string          `json:"version"`
	Session  *RequestSession `json:"session"`
	Response Reply           `json:"response"`
}

// Reply is the user-visible part of a response.
type Reply struct {
	Text       string   `json:"text"`
	EndSession bool     `json:"end_session"`
	Buttons    []Button `json:"buttons,omitempty"`
}

// Button is a suggestion chip. URL is optional.
type Button struct {
	Title string `json:"title"`
	URL   string `json:"url,omitempty"`
	Hide  bool   `json:"hide"`
}

// Validate checks that the envelope carries every field the engine relies on.
func (r *Request) Validate() error {
	switch {
	case r == nil:
		return ErrMalformedRequest
	case r.Version == "":
		return &MalformedRequestError{Field: "version"}
	case r.Session == nil:
		return &MalformedRequestError{Field: "session"}
	case r.Session.UserID == "":
		return &MalformedRequestError{Field: "session.user_id"}
	case r.Request == nil:
		return &MalformedRequestError{Field: "request"}
	}
	return nil
}

// NewResponse prepares an empty reply that echoes the request envelope.
func NewResponse(req *Request) *Response {
	return &Response{
		Version: req.Version,
		Session: req.Session,
		Response: Reply{
			Buttons: []Button{},
		},
	}
}
