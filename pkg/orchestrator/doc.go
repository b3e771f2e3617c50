// Package orchestrator wires the variant → editor → form model → renderer
// pipeline behind a single entry point for callers that do not hold a
// session, such as the CLI.
package orchestrator
