package scanner

// ScanResult pairs a work item with the outcome of fetching it.
type ScanResult struct {
	Item WorkItem
	Outcome
}
