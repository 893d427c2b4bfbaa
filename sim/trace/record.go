package trace

import "fmt"

// Record captures a single traced event: one router pipeline stage's
// activity in one cycle.
type Record struct {
	Time    int64
	Node    string
	Message string
}

// String renders the record in the trace line format:
// "[@<time>] [<NodeIdStr>] <message>".
func (r Record) String() string {
	return fmt.Sprintf("[@%d] [%s] %s", r.Time, r.Node, r.Message)
}
