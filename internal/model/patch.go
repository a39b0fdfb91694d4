package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/deppfellow/travel-sync/internal/lib/jsonvalue"
	"github.com/shopspring/decimal"
)

// Assignment is one "column = value" pair of a partial update.
type Assignment struct {
	Column string
	Value  any
}

// FieldDecodeError reports a recognized patch key whose value has the wrong type.
type FieldDecodeError struct {
	Field string
	Err   error
}

func (e *FieldDecodeError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *FieldDecodeError) Unwrap() error {
	return e.Err
}

var errNull = errors.New("must not be null")

// setter decodes one raw JSON value into the Go type bound for its column.
type setter func(raw json.RawMessage) (any, error)

// PatchField is one updatable field. The JSON key and the column share a name.
type PatchField struct {
	Name string
	set  setter
}

// PatchFields is the closed, ordered set of fields a partial update may touch.
type PatchFields []PatchField

// PlanPatchFields lists every updatable travel plan field.
var PlanPatchFields = PatchFields{
	{"user_id", textSetter},
	{"title", textSetter},
	{"destination", textSetter},
	{"start_date", textSetter},
	{"end_date", textSetter},
	{"budget", decimalSetter},
	{"travelers", intSetter},
	{"preferences", jsonSetter},
	{"itinerary", jsonSetter},
	{"expenses", jsonSetter},
	{"created_at", timeSetter},
	{"updated_at", timeSetter},
}

// ExpensePatchFields lists every updatable expense field.
var ExpensePatchFields = PatchFields{
	{"travel_plan_id", textSetter},
	{"category", textSetter},
	{"amount", decimalSetter},
	{"description", textSetter},
	{"date", textSetter},
	{"location", nullableJSONSetter},
}

// Assignments turns a raw update map into typed assignments.
//
// Keys outside the set are ignored. The result follows the set's order,
// never the map's, so the same input always yields the same statement.
// It returns nil when nothing recognized is left.
func (f PatchFields) Assignments(updates map[string]json.RawMessage) ([]Assignment, error) {
	var out []Assignment

	for _, field := range f {
		raw, ok := updates[field.Name]
		if !ok {
			continue
		}

		value, err := field.set(raw)
		if err != nil {
			return nil, &FieldDecodeError{Field: field.Name, Err: err}
		}

		out = append(out, Assignment{Column: field.Name, Value: value})
	}

	return out, nil
}

// Names returns the field names in order.
func (f PatchFields) Names() []string {
	names := make([]string, len(f))
	for i, field := range f {
		names[i] = field.Name
	}
	return names
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func textSetter(raw json.RawMessage) (any, error) {
	if isNull(raw) {
		return nil, errNull
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, errors.New("must be a string")
	}
	return s, nil
}

func decimalSetter(raw json.RawMessage) (any, error) {
	if isNull(raw) {
		return nil, errNull
	}
	var d decimal.Decimal
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, errors.New("must be a number")
	}
	return d, nil
}

func intSetter(raw json.RawMessage) (any, error) {
	if isNull(raw) {
		return nil, errNull
	}
	var n int
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil, errors.New("must be an integer")
	}
	return n, nil
}

func timeSetter(raw json.RawMessage) (any, error) {
	if isNull(raw) {
		return nil, errNull
	}
	var t time.Time
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, errors.New("must be an RFC 3339 timestamp")
	}
	return t, nil
}

func jsonSetter(raw json.RawMessage) (any, error) {
	if isNull(raw) {
		return nil, errNull
	}
	return jsonvalue.Parse(raw)
}

// nullableJSONSetter maps JSON null onto SQL NULL.
func nullableJSONSetter(raw json.RawMessage) (any, error) {
	if isNull(raw) {
		return nil, nil
	}
	return jsonvalue.Parse(raw)
}
