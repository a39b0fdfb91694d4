// Package sqlerr classifies database driver errors.
//
// It parses SQLSTATE codes and constraint metadata out of pgx errors
// so the log line says what went wrong. Clients never see any of it:
// every storage failure reaches them as the same generic 500.
package sqlerr
