// Package model holds the records stored by the sync API: travel plans
// and the expenses that belong to them.
//
// Records are plain structs with json and validate tags. Semi-structured
// fields use jsonvalue.Value and money uses decimal.Decimal so neither
// loses precision on the way through.
package model

import "github.com/shopspring/decimal"

func init() {
	// Clients send and expect budget and amount as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}
