// Package workflow implements gpp's multi-step branch workflows: move,
// cherry, pr and diff. Each is a fixed sequence of git and gh calls that
// stops at the first failure and reports which step failed.
package workflow
