// Package terminal defines the cell and event model shared by every
// backend, plus the Backend drawing contract and the tcell-based real
// terminal implementation.
//
// The same Event type is used whether input comes from a physical
// terminal or is injected programmatically, so application code and
// tests see identical values.
package terminal
