package api

import (
	"bytes"

	"github.com/goccy/go-json"

	"github.com/macropower/leads/pkg/pagination"
)

// envelope is the wrapper the backend places around most payloads.
type envelope struct {
	Success    *bool            `json:"success"`
	Pagination *pagination.Info `json:"pagination"`
	Message    string           `json:"message"`
	Data       json.RawMessage  `json:"data"`
}

// failed reports whether the envelope explicitly signals failure.
func (e *envelope) failed() bool {
	return e.Success != nil && !*e.Success
}

// unwrap decodes a payload that is either bare or wrapped in an envelope
// into v. Objects are treated as envelopes when they carry a "data" field.
func unwrap(raw json.RawMessage, v any) (*envelope, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, malformed("empty body")
	}

	if trimmed[0] == '{' {
		env := &envelope{}

		err := json.Unmarshal(trimmed, env)
		if err != nil {
			return nil, malformed("decode envelope: %v", err)
		}

		if env.failed() {
			return env, nil
		}

		if env.Data != nil {
			err = json.Unmarshal(env.Data, v)
			if err != nil {
				return nil, malformed("decode data: %v", err)
			}

			return env, nil
		}
	}

	err := json.Unmarshal(trimmed, v)
	if err != nil {
		return nil, malformed("decode body: %v", err)
	}

	return nil, nil
}
