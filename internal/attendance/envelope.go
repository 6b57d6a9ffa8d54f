package attendance

import (
	"bytes"
	"encoding/json"
	"fmt"
)

func decodeEnvelope(body []byte) (Envelope, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return Envelope{Kind: envelopeUnrecognised}, nil
	}

	switch trimmed[0] {
	case '[':
		var items []AttendanceSummary
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return Envelope{}, fmt.Errorf("could not decode summaries: %w", err)
		}
		return Envelope{Kind: envelopeBare, Items: items}, nil
	case '{':
		var wrapped struct {
			Data  json.RawMessage `json:"data"`
			Total json.RawMessage `json:"total"`
		}
		if err := json.Unmarshal(trimmed, &wrapped); err != nil {
			return Envelope{}, fmt.Errorf("could not decode page envelope: %w", err)
		}
		data := bytes.TrimSpace(wrapped.Data)
		if len(data) == 0 || data[0] != '[' {
			return Envelope{Kind: envelopeUnrecognised, Total: decodeTotal(wrapped.Total)}, nil
		}
		var items []AttendanceSummary
		if err := json.Unmarshal(data, &items); err != nil {
			return Envelope{}, fmt.Errorf("could not decode summaries: %w", err)
		}
		return Envelope{Kind: envelopeWrapped, Items: items, Total: decodeTotal(wrapped.Total)}, nil
	}

	if !json.Valid(trimmed) {
		return Envelope{}, fmt.Errorf("response body is not JSON")
	}
	return Envelope{Kind: envelopeUnrecognised}, nil
}

// decodeTotal treats a missing, non numeric or non positive total as absent.
func decodeTotal(raw json.RawMessage) *int {
	if len(raw) == 0 {
		return nil
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err != nil || n <= 0 {
		return nil
	}
	total := int(n)
	return &total
}

// hasNext reports whether another page should be requested after this one.
func (e Envelope) hasNext(collected int, perPage int) bool {
	if len(e.Items) != perPage || len(e.Items) == 0 {
		return false
	}
	if e.Total != nil {
		return collected < *e.Total
	}
	return true
}
