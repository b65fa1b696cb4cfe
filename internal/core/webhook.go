package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// ErrNameRequired is returned when a webhook is created without a name.
var ErrNameRequired = errors.New("please enter a webhook name")

// Webhook is a named endpoint the backend exposes to capture HTTP requests.
type Webhook struct {
	ID            int64     `json:"id" yaml:"id"`
	Name          string    `json:"name" yaml:"name"`
	Description   string    `json:"description" yaml:"description"`
	Secret        string    `json:"secret,omitempty" yaml:"secret,omitempty"`
	Endpoint      string    `json:"endpoint" yaml:"endpoint"`
	IsActive      bool      `json:"is_active" yaml:"is_active"`
	TotalRequests int64     `json:"total_requests" yaml:"total_requests"`
	CreatedAt     time.Time `json:"created_at" yaml:"created_at"`
}

// StatusLabel returns "Active" or "Inactive".
func (w Webhook) StatusLabel() string {
	if w.IsActive {
		return "Active"
	}
	return "Inactive"
}

// CapturedRequest is one HTTP request the backend logged against a webhook.
type CapturedRequest struct {
	ID           int64     `json:"id" yaml:"id"`
	Method       string    `json:"method" yaml:"method"`
	IPAddress    string    `json:"ip_address" yaml:"ip_address"`
	UserAgent    string    `json:"user_agent" yaml:"user_agent"`
	ResponseTime *float64  `json:"response_time,omitempty" yaml:"response_time,omitempty"`
	CreatedAt    time.Time `json:"created_at" yaml:"created_at"`
	Headers      RawText   `json:"headers" yaml:"headers"`
	Body         RawText   `json:"body" yaml:"body"`
	QueryParams  RawText   `json:"query_params" yaml:"query_params"`
}

// Field identifies one of the opaque payload fields of a captured request.
type Field string

const (
	FieldHeaders     Field = "headers"
	FieldBody        Field = "body"
	FieldQueryParams Field = "query_params"
)

// PayloadFields lists the fields shown when a request row is expanded, in order.
var PayloadFields = []Field{FieldHeaders, FieldBody, FieldQueryParams}

// Label returns the human-readable field name ("Query Params").
func (f Field) Label() string {
	words := strings.Split(string(f), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// Value returns the raw text of the given payload field.
func (r CapturedRequest) Value(f Field) string {
	switch f {
	case FieldHeaders:
		return string(r.Headers)
	case FieldBody:
		return string(r.Body)
	case FieldQueryParams:
		return string(r.QueryParams)
	}
	return ""
}

// RawText holds a payload field as text. The backend usually sends these
// fields as JSON strings, but a structured JSON value is accepted and kept
// verbatim.
type RawText string

// UnmarshalJSON implements json.Unmarshaler.
func (t *RawText) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*t = ""
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*t = RawText(s)
		return nil
	}
	*t = RawText(trimmed)
	return nil
}

// PrettyField renders text as indented JSON when it parses, otherwise returns
// it unchanged. Key order and literal characters are kept as captured. A
// non-JSON payload is a display fallback, not an error.
func PrettyField(text string) string {
	var out bytes.Buffer
	if err := json.Indent(&out, []byte(text), "", "  "); err != nil {
		return text
	}
	return string(bytes.TrimSpace(out.Bytes()))
}

// IsJSON reports whether text parses as JSON.
func IsJSON(text string) bool {
	return json.Valid([]byte(text))
}

// CreateWebhookInput is the body of a create-webhook call.
type CreateWebhookInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Secret      string `json:"secret"`
}

// Validate checks the input before it is sent to the backend.
func (in CreateWebhookInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return ErrNameRequired
	}
	return nil
}
