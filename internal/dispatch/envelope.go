package dispatch

import (
	"encoding/json"
	"fmt"
)

// Envelope kinds.
const (
	TypeMetric  = "metric"
	TypeTable   = "table"
	TypeError   = "error"
	TypeSuccess = "success"
)

// Envelope is the single response shape callers receive, regardless of
// outcome. Exactly one kind's fields are populated; MarshalJSON emits
// only the fields of the active kind so clients never see ambiguous
// half-filled unions.
type Envelope struct {
	Type string

	// metric
	Label string
	Value any

	// table
	Columns []string
	Rows    []map[string]any

	// error / success
	Message     string
	Suggestions []string

	// always present for transparency
	Query string
	SQL   string
}

// MarshalJSON serializes only the active kind's fields. Table envelopes
// always carry both columns and rows arrays, empty included, so clients
// can render zero-row results without special cases.
func (e Envelope) MarshalJSON() ([]byte, error) {
	switch e.Type {
	case TypeMetric:
		return json.Marshal(struct {
			Type  string `json:"type"`
			Label string `json:"label"`
			Value any    `json:"value"`
			Query string `json:"query,omitempty"`
			SQL   string `json:"sql,omitempty"`
		}{e.Type, e.Label, e.Value, e.Query, e.SQL})
	case TypeTable:
		cols, rows := e.Columns, e.Rows
		if cols == nil {
			cols = []string{}
		}
		if rows == nil {
			rows = []map[string]any{}
		}
		return json.Marshal(struct {
			Type    string           `json:"type"`
			Columns []string         `json:"columns"`
			Rows    []map[string]any `json:"rows"`
			Query   string           `json:"query,omitempty"`
			SQL     string           `json:"sql,omitempty"`
		}{e.Type, cols, rows, e.Query, e.SQL})
	case TypeError:
		return json.Marshal(struct {
			Type        string   `json:"type"`
			Message     string   `json:"message"`
			Suggestions []string `json:"suggestions,omitempty"`
			Query       string   `json:"query,omitempty"`
		}{e.Type, e.Message, e.Suggestions, e.Query})
	case TypeSuccess:
		return json.Marshal(struct {
			Type    string `json:"type"`
			Message string `json:"message"`
			Query   string `json:"query,omitempty"`
			SQL     string `json:"sql,omitempty"`
		}{e.Type, e.Message, e.Query, e.SQL})
	default:
		return nil, fmt.Errorf("envelope has unknown type %q", e.Type)
	}
}

// ErrorEnvelope builds an error envelope for a rejected or failed query.
func ErrorEnvelope(query, message string, suggestions []string) Envelope {
	return Envelope{
		Type:        TypeError,
		Message:     message,
		Suggestions: suggestions,
		Query:       query,
	}
}
