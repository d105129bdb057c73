// Package project groups the walls produced by one evaluation together with
// the material catalog they were priced from, and validates the result.
// A Project is built once per evaluation and is not mutated afterwards.
package project
