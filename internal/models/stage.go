package models

// Stage is one bucket in the finite, ordered pipeline workflow
// (e.g. "Sourcing", "Due Diligence", "Negotiation").
// The stage set is closed and supplied by configuration; it is never
// discovered from the data at runtime.
type Stage struct {
	Key   string // unique identifier, stored on each deal
	Label string // display name for the column header
	Order int    // position on the board, lowest first
}
