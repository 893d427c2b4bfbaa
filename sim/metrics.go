package sim

import (
	"fmt"
	"io"
	"os"

	"gonum.org/v1/gonum/stat"
	"gopkg.in/yaml.v3"
)

// Stats is the aggregate report produced at the end of a run: the
// run's final clock and per-node counters, plus a latency distribution
// computed with gonum/stat.
type Stats struct {
	Ticks       int64   `yaml:"ticks"`
	DoubleTicks int64   `yaml:"double_ticks"`
	Generated   []int64 `yaml:"flits_generated"` // indexed by source id
	Arrived     []int64 `yaml:"flits_arrived"`   // indexed by destination id

	LatencyMean   float64 `yaml:"latency_mean_cycles"`
	LatencyStdDev float64 `yaml:"latency_stddev_cycles"`
}

// Stats walks every node and aggregates its counters. It can be called
// mid-run (e.g. from the debugger's `q` command) as well as at the end.
func (s *Simulator) Stats() Stats {
	st := Stats{
		Ticks:     s.eq.Now(),
		Generated: make([]int64, len(s.sources)),
		Arrived:   make([]int64, len(s.destinations)),
	}

	var latencies []float64
	for _, r := range s.sources {
		st.DoubleTicks += r.DoubleTickCount
	}
	for i, r := range s.destinations {
		st.DoubleTicks += r.DoubleTickCount
		for _, l := range r.Latencies {
			latencies = append(latencies, float64(l))
		}
		st.Arrived[i] = r.FlitArriveCount
	}
	for i, r := range s.sources {
		st.Generated[i] = r.FlitGenCount
	}
	for _, r := range s.routers {
		st.DoubleTicks += r.DoubleTickCount
	}

	if len(latencies) > 0 {
		st.LatencyMean, st.LatencyStdDev = stat.MeanStdDev(latencies, nil)
	}

	return st
}

// Print writes the end-of-run report to stdout.
func (st Stats) Print() { st.Fprint(os.Stdout) }

func (st Stats) Fprint(w io.Writer) {
	fmt.Fprintln(w, "==== SIMULATION RESULT ====")
	fmt.Fprintf(w, "# of ticks: %d\n", st.Ticks)
	fmt.Fprintf(w, "# of double ticks: %d\n\n", st.DoubleTicks)
	for i, g := range st.Generated {
		fmt.Fprintf(w, "[Src %d] # of flits generated: %d\n", i, g)
	}
	for i, a := range st.Arrived {
		fmt.Fprintf(w, "[Dst %d] # of flits arrived:   %d\n", i, a)
	}
}

// WriteYAML exports the report to path in YAML form, for the
// `--metrics-out` flag.
func (st Stats) WriteYAML(path string) error {
	data, err := yaml.Marshal(st)
	if err != nil {
		return fmt.Errorf("netsim: marshaling metrics: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("netsim: writing metrics to %s: %w", path, err)
	}
	return nil
}
