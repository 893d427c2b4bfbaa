package trace

// Summary aggregates statistics from a SimulationTrace.
type Summary struct {
	TotalRecords int
	ByNode       map[string]int // node id string -> record count
}

// Summarize computes aggregate statistics from a SimulationTrace. Safe
// for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *Summary {
	summary := &Summary{ByNode: make(map[string]int)}
	if st == nil {
		return summary
	}

	summary.TotalRecords = len(st.Records)
	for _, r := range st.Records {
		summary.ByNode[r.Node]++
	}
	return summary
}
