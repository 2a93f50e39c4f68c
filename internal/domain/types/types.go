// Package types contains common types used across the application
package types

// RowError describes one rejected spreadsheet row. Row is 1-based, as
// shown by spreadsheet programs.
type RowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ImportResult reports the outcome of a spreadsheet import.
type ImportResult struct {
	// Accepted counts rows that parsed and validated.
	Accepted int `json:"accepted"`
	// Rejected lists rows that did not.
	Rejected []RowError `json:"rejected"`
	// Truncated is set when the row cap stopped the import early.
	Truncated bool `json:"truncated"`
	// Stored counts accepted rows that were added to the repository.
	Stored int `json:"stored"`
	// Duplicates lists IDs that were already stored.
	Duplicates []string `json:"duplicates"`
}

// Skipped returns the number of rows that were read but not stored.
func (r ImportResult) Skipped() int {
	return len(r.Rejected) + len(r.Duplicates)
}
