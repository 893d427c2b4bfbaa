package sim

import (
	"fmt"

	"github.com/hansungk/netsim-go/sim/trace"
)

// Simulator wires a Topology into channels and tick-driven nodes (source
// terminals, destination terminals, internal routers), owns the global
// EventQueue, and drives the run loop.
type Simulator struct {
	eq       *EventQueue
	topology *Topology
	topoDesc TopoDesc
	cfg      RunConfig

	channels map[int]*Channel // keyed by Connection.Uniq

	sources      []*Router
	destinations []*Router
	routers      []*Router

	eventsProcessed int64

	trace *trace.SimulationTrace
}

// NewSimulator builds the full node/channel graph described by cfg:
// topology -> channels (one per forward edge) -> source, destination,
// and internal router nodes, each given the channel references for its
// radix. It seeds the event queue with a tick for every source at time 0.
func NewSimulator(cfg RunConfig) *Simulator {
	var top *Topology
	var td TopoDesc
	switch cfg.Topology {
	case "ring":
		top, td = Ring(cfg.Terminals)
	case "torus":
		top, td = Torus(cfg.TorusK, cfg.TorusR)
	default:
		panic(fmt.Sprintf("netsim: unknown topology kind %q", cfg.Topology))
	}

	s := &Simulator{
		eq:       NewEventQueue(),
		topology: top,
		topoDesc: td,
		cfg:      cfg,
		channels: make(map[int]*Channel),
		trace:    trace.NewSimulationTrace(trace.Config{Level: trace.Level(cfg.TraceLevel)}),
	}

	for _, conn := range top.Connections() {
		s.channels[conn.Uniq] = NewChannel(s.eq, conn, cfg.ChannelDelay)
	}

	routerCount := numRouters(td)
	for i := 0; i < cfg.Terminals; i++ {
		srcOut := s.channelAt(top.FindForward(RouterPortPair{Id: SrcID(i), Port: 0}))
		dstIn := s.channelAt(top.FindReverse(RouterPortPair{Id: DstID(i), Port: 0}))

		// Terminal nodes are radix 1 but only ever touch one direction's
		// channel (a Source never reads inputChannels, a Destination never
		// writes outputChannels); the unused side is still passed as a
		// length-1 slice to satisfy NewRouter's radix check.
		src := NewRouter(s.eq, td, SrcID(i), 1, cfg.InputBufSize, cfg.PacketSize, []*Channel{nil}, []*Channel{srcOut})
		src.SetDestination((i + cfg.Terminals/2) % cfg.Terminals)
		src.SetTrace(s.trace)
		dst := NewRouter(s.eq, td, DstID(i), 1, cfg.InputBufSize, cfg.PacketSize, []*Channel{dstIn}, []*Channel{nil})
		dst.SetTrace(s.trace)

		s.sources = append(s.sources, src)
		s.destinations = append(s.destinations, dst)
	}

	for i := 0; i < routerCount; i++ {
		radix := 2*td.R + 1
		in := make([]*Channel, radix)
		out := make([]*Channel, radix)
		for port := 0; port < radix; port++ {
			rpp := RouterPortPair{Id: RtrID(i), Port: port}
			out[port] = s.channelAt(top.FindForward(rpp))
			in[port] = s.channelAt(top.FindReverse(rpp))
		}
		rtr := NewRouter(s.eq, td, RtrID(i), radix, cfg.InputBufSize, cfg.PacketSize, in, out)
		rtr.SetTrace(s.trace)
		s.routers = append(s.routers, rtr)
	}

	for i := range s.sources {
		s.eq.Schedule(0, SrcID(i))
	}

	return s
}

func (s *Simulator) channelAt(conn Connection) *Channel {
	if !conn.Connected() {
		panic("netsim: topology has an unconnected port the simulator expected wired")
	}
	return s.channels[conn.Uniq]
}

// numRouters returns the number of internal router nodes a topology of
// the given description has: n for a ring, k^r for a torus.
func numRouters(td TopoDesc) int {
	if td.Kind == TopoRing {
		return td.K
	}
	n := 1
	for i := 0; i < td.R; i++ {
		n *= td.K
	}
	return n
}

// tick dispatches one Event's worth of work to the node it targets,
// pattern-matching the tagged Id by Kind and indexing the corresponding
// array.
func (s *Simulator) tick(id Id) {
	now := s.eq.Now()
	switch id.Kind {
	case Source:
		s.sources[id.Value].Tick(now)
	case Destination:
		s.destinations[id.Value].Tick(now)
	default:
		s.routers[id.Value].Tick(now)
	}
}

// Run executes the simulation until the earliest pending event is at or
// after `until`, then returns the collected Stats. This is batch mode;
// see RunInteractive for the debugger REPL.
func (s *Simulator) Run(until int64) Stats {
	for !s.eq.Empty() {
		t, ok := s.eq.PeekNextTime()
		if !ok || t >= until {
			break
		}
		e := s.eq.Pop()
		e.Execute(s)
		s.eventsProcessed++
	}
	return s.Stats()
}

// Step pops and executes exactly one event, returning false if the queue
// was already empty. Used by the interactive debugger's `n` command.
func (s *Simulator) Step() bool {
	if s.eq.Empty() {
		return false
	}
	e := s.eq.Pop()
	e.Execute(s)
	s.eventsProcessed++
	return true
}

func (s *Simulator) Now() int64 { return s.eq.Now() }

// Trace returns the run's decision trace, non-nil but possibly disabled
// (Enabled() == false) when the run's trace level is "none".
func (s *Simulator) Trace() *trace.SimulationTrace { return s.trace }

// PrintAllStates renders every router's and terminal's PrintState, for
// the debugger's `p` command.
func (s *Simulator) PrintAllStates() string {
	out := ""
	for _, r := range s.sources {
		out += r.PrintState()
	}
	for _, r := range s.destinations {
		out += r.PrintState()
	}
	for _, r := range s.routers {
		out += r.PrintState()
	}
	return out
}
