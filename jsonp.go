package fontdl

import (
	"bytes"
	"encoding/json"
	"errors"
)

// endSentinel is the value of "data" the provider sends after the last page.
const endSentinel = "end"

// Unwrap strips the JSONP callback parentheses around a response body.
// The body must start with '(' and end with ')'; surrounding whitespace is
// ignored.
func Unwrap(body []byte) ([]byte, error) {
	body = bytes.TrimSpace(body)
	if len(body) < 2 || body[0] != '(' || body[len(body)-1] != ')' {
		return nil, Errorf(EDECODE, "response is not wrapped in parentheses")
	}
	return body[1 : len(body)-1], nil
}

// Envelope is the decoded top-level object returned by both AJAX endpoints.
type Envelope struct {
	Data  json.RawMessage `json:"data"`
	Next  json.RawMessage `json:"p"`
	Error json.RawMessage `json:"error"`
}

// DecodeEnvelope unwraps and decodes a JSONP response body.
// A payload carrying an "error" key is returned as an EPROVIDER error.
func DecodeEnvelope(body []byte) (*Envelope, error) {
	inner, err := Unwrap(body)
	if err != nil {
		return nil, err
	}

	var env Envelope
	if err := json.Unmarshal(inner, &env); err != nil {
		return nil, WrapError(EDECODE, err, "invalid JSON payload")
	}

	if env.Error != nil {
		msg, err := scalarString(env.Error)
		if err != nil {
			msg = string(env.Error)
		}
		return nil, Errorf(EPROVIDER, "%s", msg)
	}

	return &env, nil
}

// IsEnd reports whether the envelope carries the end-of-search sentinel.
func (e *Envelope) IsEnd() bool {
	var s string
	if err := json.Unmarshal(e.Data, &s); err != nil {
		return false
	}
	return s == endSentinel
}

// Page decodes the envelope as a search results page.
func (e *Envelope) Page() (*Page, error) {
	if e.IsEnd() {
		return &Page{}, nil
	}

	next, err := cursorString(e.Next)
	if err != nil {
		return nil, WrapError(EDECODE, err, "invalid cursor")
	}

	var rows []Row
	data := bytes.TrimSpace(e.Data)
	if len(data) > 0 && !bytes.Equal(data, []byte("null")) {
		if err := json.Unmarshal(data, &rows); err != nil {
			var e *Error
			if errors.As(err, &e) {
				return nil, err
			}
			return nil, WrapError(EDECODE, err, "invalid search rows")
		}
	}

	page := &Page{Rows: rows, Next: next}
	if err := page.Validate(); err != nil {
		return nil, err
	}
	return page, nil
}

// cursorString decodes the "p" field. Any falsy value (null, false, "",
// or a zero number) means there are no more pages.
func cursorString(v json.RawMessage) (string, error) {
	v = bytes.TrimSpace(v)
	switch {
	case len(v) == 0, bytes.Equal(v, []byte("null")), bytes.Equal(v, []byte("false")):
		return "", nil
	case bytes.Equal(v, []byte("true")):
		return "", Errorf(EDECODE, "cursor is a boolean")
	case v[0] != '"':
		var f float64
		if err := json.Unmarshal(v, &f); err != nil {
			return "", err
		}
		if f == 0 {
			return "", nil
		}
	}
	return scalarString(v)
}

// URL decodes the envelope's data as a download URL.
func (e *Envelope) URL() (string, error) {
	var s string
	if err := json.Unmarshal(e.Data, &s); err != nil {
		return "", Errorf(EPROTOCOL, "download URL is not a string")
	}
	if s == "" {
		return "", Errorf(EPROTOCOL, "download URL is empty")
	}
	return s, nil
}
