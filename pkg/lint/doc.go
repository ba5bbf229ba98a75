// Package lint defines the rule capability interface, the explicit rule
// registry, and the selection matcher that gates which rules run.
//
// Rules are data-driven RuleDef values wrapped into the Rule interface. Each
// rule declares a typed parameter schema and a message template; diagnostics
// are reconstructed from the template and stored arguments, which is what
// lets the result cache rehydrate prior findings without rerunning checks.
package lint
