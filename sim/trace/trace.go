// Package trace provides decision-trace recording for per-cycle router
// activity. This package has no dependency on the sim package: it
// stores pure data types, the same separation the teacher's trace
// package keeps from its cluster package.
package trace

// Level controls the verbosity of per-cycle tracing.
type Level string

const (
	// LevelNone disables tracing (zero overhead).
	LevelNone Level = "none"
	// LevelCycle captures one Record per pipeline-stage event per cycle.
	LevelCycle Level = "cycle"
)

// validLevels maps accepted trace level strings.
var validLevels = map[Level]bool{
	LevelNone:  true,
	LevelCycle: true,
	"":         true, // empty defaults to none
}

// IsValidLevel returns true if the given level string is a recognized
// trace level.
func IsValidLevel(level string) bool {
	return validLevels[Level(level)]
}

// Config controls trace collection behavior for a run.
type Config struct {
	Level Level
}

// SimulationTrace collects Records during a run, when enabled.
type SimulationTrace struct {
	Config  Config
	Records []Record
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
func NewSimulationTrace(config Config) *SimulationTrace {
	return &SimulationTrace{
		Config:  config,
		Records: make([]Record, 0),
	}
}

// Enabled reports whether this trace should record anything at all;
// Record is a no-op when it returns false.
func (st *SimulationTrace) Enabled() bool {
	return st != nil && st.Config.Level == LevelCycle
}

// Record appends one trace line, in the "[@<time>] [<node>] <message>"
// shape expected of trace output.
func (st *SimulationTrace) Record(time int64, node, message string) {
	if !st.Enabled() {
		return
	}
	st.Records = append(st.Records, Record{Time: time, Node: node, Message: message})
}
