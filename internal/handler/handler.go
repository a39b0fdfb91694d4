// Package handler is the HTTP layer between the router and the services.
//
// Each handler binds the request (path, query and body), validates it
// through the validation package, calls one service method and writes
// the JSON response. Errors are returned to the global error handler.
package handler

import (
	"encoding/json"

	"github.com/deppfellow/travel-sync/internal/model"
	"github.com/deppfellow/travel-sync/internal/validation"
)

// OKResponse acknowledges a write: {"ok":true}.
type OKResponse struct {
	OK bool `json:"ok"`
}

var okResponse = &OKResponse{OK: true}

// PatchRequest is a partial update: the target id from the path and the
// raw update object from the body. Keys are filtered by the service.
type PatchRequest struct {
	ID      string `param:"id" json:"id" validate:"required"`
	Updates map[string]json.RawMessage
}

// UnmarshalJSON takes the whole body as the update map. JSON null reads
// as no updates; anything other than an object is an error.
func (r *PatchRequest) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &r.Updates)
}

func (r *PatchRequest) Validate() error {
	return validation.Struct(r)
}

// DeleteRequest names the row to delete.
type DeleteRequest struct {
	ID string `param:"id" json:"id" validate:"required"`
}

func (r *DeleteRequest) Validate() error {
	return validation.Struct(r)
}

// bodyKeys holds the top-level members of an upsert body as sent, so rules
// that depend on presence can tell a missing key from a zero value.
type bodyKeys map[string]json.RawMessage

// decodeRecord unmarshals data into record and records its keys.
func decodeRecord(data []byte, record any) (bodyKeys, error) {
	if err := json.Unmarshal(data, record); err != nil {
		return nil, err
	}

	var keys bodyKeys
	if err := json.Unmarshal(data, &keys); err != nil {
		return nil, err
	}
	return keys, nil
}

// validateRecord runs the validate tags of record, then rules against keys.
func validateRecord(record any, keys bodyKeys, rules model.BodyRules) error {
	if err := validation.Struct(record); err != nil {
		return err
	}

	var fieldErrors validation.CustomValidationErrors
	for _, e := range rules.Check(keys) {
		fieldErrors = append(fieldErrors, validation.CustomValidationError{
			Field:   e.Field,
			Message: e.Err.Error(),
		})
	}
	if len(fieldErrors) > 0 {
		return fieldErrors
	}
	return nil
}
