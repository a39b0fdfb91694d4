// Package lib holds small packages that do not belong to a layer:
// the opaque JSON value used by the model (jsonvalue) and generic
// helpers (utils).
package lib
