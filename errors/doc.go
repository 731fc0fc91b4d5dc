// Package errors provides the structured error type shared by seqkit
// packages. Terminal query operators report not-found, empty-input and
// cardinality failures as *AppError values carrying a machine-readable code,
// so callers can branch with errors.Is against the sentinels exported by
// package query, while HTTP handlers map the same value to a status code.
package errors
