// Package service contains the business logic.
//
// It sits between the handler and repository layers.
// It receives validated data from the handler, applies the rules the
// sync API has (list defaults, patch field filtering, access policy),
// and calls repository methods to interact with the data.
package service

import (
	"encoding/json"
	"errors"

	"github.com/deppfellow/travel-sync/internal/errs"
	"github.com/deppfellow/travel-sync/internal/model"
)

// assignments filters a raw update map through a closed field set.
//
// A recognized key with an undecodable value is a 400 naming the field.
func assignments(fields model.PatchFields, updates map[string]json.RawMessage) ([]model.Assignment, error) {
	set, err := fields.Assignments(updates)
	if err != nil {
		var fieldErr *model.FieldDecodeError
		if errors.As(err, &fieldErr) {
			return nil, errs.NewBadRequestError("Validation failed", true, nil, []errs.FieldError{
				{Field: fieldErr.Field, Error: fieldErr.Err.Error()},
			})
		}
		return nil, errs.ValidationError(err)
	}
	return set, nil
}
