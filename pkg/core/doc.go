// Package core holds the shared domain data types: severities, positions,
// and diagnostics. It imports nothing outside the standard library so every
// other package can depend on it without cycles.
package core
