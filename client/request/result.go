package request

import (
	"encoding/json"
	"net/http"
)

// Result is a successful response. Data holds the parsed body as-is; envelopes
// are left for consumers to unwrap.
type Result struct {
	Status int
	Header http.Header
	Body   []byte
	Data   any
}

// Decode unmarshals the raw body into target.
func (r *Result) Decode(target any) error {
	if len(r.Body) == 0 {
		return nil
	}
	return json.Unmarshal(r.Body, target)
}

// ParsePayload decodes body as JSON and falls back to the raw text.
func ParsePayload(body []byte) any {
	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return string(body)
	}
	return payload
}
