package model

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/deppfellow/travel-sync/internal/lib/jsonvalue"
)

var errMissing = errors.New("is required")

// BodyRule constrains one top-level key of an upsert body where the
// validate tags cannot: a zero value is legal but a missing key is not,
// or an opaque JSON field must still have a given shape.
//
// A Kind of jsonvalue.Null places no constraint on the shape.
type BodyRule struct {
	Key      string
	Required bool
	Kind     jsonvalue.Kind
	Nullable bool
}

type BodyRules []BodyRule

// PlanBodyRules apply to a travel plan upsert. The list fields may be
// omitted, in which case they default to [].
var PlanBodyRules = BodyRules{
	{Key: "budget", Required: true},
	{Key: "travelers", Required: true},
	{Key: "preferences", Kind: jsonvalue.Array},
	{Key: "itinerary", Kind: jsonvalue.Array},
	{Key: "expenses", Kind: jsonvalue.Array},
}

// ExpenseBodyRules apply to an expense upsert. description may be empty
// but must be sent.
var ExpenseBodyRules = BodyRules{
	{Key: "amount", Required: true},
	{Key: "description", Required: true},
	{Key: "location", Kind: jsonvalue.Object, Nullable: true},
}

// Check returns one error per violated rule, in rule order.
func (r BodyRules) Check(body map[string]json.RawMessage) []*FieldDecodeError {
	var out []*FieldDecodeError

	for _, rule := range r {
		raw, ok := body[rule.Key]
		if !ok {
			if rule.Required {
				out = append(out, &FieldDecodeError{Field: rule.Key, Err: errMissing})
			}
			continue
		}

		kind := jsonvalue.KindOf(raw)
		switch {
		case kind == jsonvalue.Null && rule.Nullable:
		case kind == jsonvalue.Null && rule.Required:
			out = append(out, &FieldDecodeError{Field: rule.Key, Err: errNull})
		case rule.Kind != jsonvalue.Null && kind != rule.Kind:
			out = append(out, &FieldDecodeError{Field: rule.Key, Err: fmt.Errorf("must be a JSON %s", rule.Kind)})
		}
	}

	return out
}
