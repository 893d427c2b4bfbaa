package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/hansungk/netsim-go/sim/trace"
)

// GlobalState is the coarse-grained state shared by an InputUnit and the
// OutputUnit it currently owns (or is waiting to own).
type GlobalState int

const (
	StateIdle GlobalState = iota
	StateRouting
	StateVCWait
	StateActive
	StateCreditWait
)

func (s GlobalState) String() string {
	switch s {
	case StateIdle:
		return "I"
	case StateRouting:
		return "R"
	case StateVCWait:
		return "V"
	case StateActive:
		return "A"
	case StateCreditWait:
		return "C"
	default:
		return "?"
	}
}

// PipelineStage is the stage an InputUnit's head-of-line flit currently
// occupies.
type PipelineStage int

const (
	StageIdle PipelineStage = iota
	StageRC
	StageVA
	StageSA
	StageST
)

// InputUnit is the per-port receive-side state machine.
type InputUnit struct {
	global     GlobalState
	nextGlobal GlobalState
	stage      PipelineStage
	routePort  int // selected output port, -1 if none chosen yet
	outputVC   int

	buf     []*Flit
	stReady *Flit // at most one flit staged for ST this cycle
}

// OutputUnit is the per-port send-side state machine.
type OutputUnit struct {
	global     GlobalState
	nextGlobal GlobalState
	inputPort  int // which IU currently owns this OU, -1 if none
	inputVC    int
	credit     int64 // credit_count: free buffer slots at the downstream IU

	pendingCredit bool // FCr fetched a credit not yet applied by CU
}

// Router is a tick-driven node with radix input units and radix output
// units. Terminals (Source, Destination) use radix 1 and special-case
// their pipeline in Tick; internal routers run the full five-stage
// RC/VA/SA/ST model plus credit update and fetch stages.
type Router struct {
	id    Id
	radix int

	eq       *EventQueue
	topoDesc TopoDesc

	inputChannels  []*Channel
	outputChannels []*Channel

	inputUnits  []*InputUnit
	outputUnits []*OutputUnit

	bufSize    int64
	packetSize int64 // flits per packet at a source; configurable per run
	destID     int   // target terminal index for a Source node's generated traffic

	lastTick           int64
	rescheduleNextTick bool
	flitPayloadCounter int64

	vaLastGrantInput int
	saLastGrantInput int

	FlitGenCount    int64
	FlitArriveCount int64
	DoubleTickCount int64
	Latencies       []int64 // cycles from generation to consumption, recorded at a Destination

	log   *logrus.Entry
	trace *trace.SimulationTrace // nil or disabled unless a run asked for cycle tracing
}

// NewRouter builds a router (or terminal) with the given radix, wired to
// the given per-port input/output channels. Terminal nodes must pass
// radix 1; internal routers pass the topology's full port count.
func NewRouter(eq *EventQueue, td TopoDesc, id Id, radix int, bufSize, packetSize int64, in, out []*Channel) *Router {
	if len(in) != radix || len(out) != radix {
		panic("netsim: router channel count does not match radix")
	}
	r := &Router{
		id:             id,
		radix:          radix,
		eq:             eq,
		topoDesc:       td,
		inputChannels:  in,
		outputChannels: out,
		bufSize:        bufSize,
		packetSize:     packetSize,
		lastTick:       -1,
		log:            logrus.WithField("node", id.String()),
	}
	for p := 0; p < radix; p++ {
		r.inputUnits = append(r.inputUnits, &InputUnit{routePort: -1})
		r.outputUnits = append(r.outputUnits, &OutputUnit{inputPort: -1, credit: bufSize})
	}
	if id.IsSrc() || id.IsDst() {
		// Terminal nodes have no RC stage; their single port's routing is
		// statically fixed, matching the reference's router_create.
		r.inputUnits[0].routePort = 0
		r.outputUnits[0].inputPort = 0
	}
	return r
}

// SetDestination fixes the terminal index a Source node sends its
// generated traffic to (the original hardcodes dst=(src+2)%4 for a
// 4-ring; this generalizes that choice to any terminal count).
func (r *Router) SetDestination(dst int) { r.destID = dst }

// SetTrace attaches the run's decision trace, letting this router's
// per-cycle activity be recorded as structured Records in addition to
// the unconditional logrus output.
func (r *Router) SetTrace(t *trace.SimulationTrace) { r.trace = t }

func (r *Router) debugf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	r.log.WithField("t", r.eq.Now()).Debug(msg)
	if r.trace.Enabled() {
		r.trace.Record(r.eq.Now(), r.id.String(), msg)
	}
}

// Tick runs every pipeline stage this router owes for cycle `now`. It
// refuses to run twice in the same cycle: a router ticked again at the
// same timestamp only bumps DoubleTickCount.
func (r *Router) Tick(now int64) {
	if r.lastTick == now {
		r.DoubleTickCount++
		return
	}
	r.rescheduleNextTick = false

	switch {
	case r.id.IsSrc():
		r.sourceGenerate()
		r.creditUpdate()
		r.fetchCredit()
	case r.id.IsDst():
		r.destinationConsume()
		r.fetchFlit()
	default:
		// Reverse-dependency order: a flit must not advance two pipeline
		// stages in one cycle. Running ST,SA,VA,RC,CU,FF,FCr consumes each
		// stage's previous-cycle placement before an earlier stage can
		// produce this cycle's placement into the same slot.
		r.switchTraverse()
		r.switchAlloc()
		r.vcAlloc()
		r.routeCompute()
		r.creditUpdate()
		r.fetchFlit()
		r.fetchCredit()
	}

	r.updateStates()

	if r.rescheduleNextTick {
		r.eq.Reschedule(1, r.id)
	}
	r.lastTick = now
}

// sourceGenerate is the Source terminal's tick body: it manufactures one
// flit per cycle as long as its sole output VC has credit, cycling
// Head -> Body... -> Tail over packetSize flits, then starts the next
// packet. Offered load is infinite: a source always reschedules itself.
func (r *Router) sourceGenerate() {
	ou := r.outputUnits[0]
	if ou.credit <= 0 {
		r.debugf("credit stall")
		r.rescheduleNextTick = true
		return
	}

	flit := &Flit{Payload: r.flitPayloadCounter, GenTime: r.eq.Now()}
	flit.RouteInfo.Src = r.id.Value
	flit.RouteInfo.Dst = r.destID

	switch {
	case r.packetSize == 1:
		// A single-flit packet is both head and tail: it must still carry
		// the source-computed path RC consults, but reserves and releases
		// its VC in the same cycle rather than ever going Body.
		flit.Type = Tail
		flit.RouteInfo.Path = Route(r.topoDesc, r.id.Value, r.destID)
		r.flitPayloadCounter = 0
	case r.flitPayloadCounter == 0:
		flit.Type = Head
		flit.RouteInfo.Path = Route(r.topoDesc, r.id.Value, r.destID)
		r.flitPayloadCounter++
	case r.flitPayloadCounter == r.packetSize-1:
		flit.Type = Tail
		r.flitPayloadCounter = 0
	default:
		flit.Type = Body
		r.flitPayloadCounter++
	}

	r.outputChannels[0].PutFlit(flit)
	ou.credit--
	if ou.credit < 0 {
		panic("netsim: output credit went negative at source")
	}
	r.FlitGenCount++
	r.debugf("flit generated and sent: %s", flit)

	r.rescheduleNextTick = true
}

// destinationConsume is the Destination terminal's tick body: it drains
// and destroys the single flit, if any, sitting in its lone input unit,
// returning one credit upstream for every flit consumed.
func (r *Router) destinationConsume() {
	iu := r.inputUnits[0]
	if len(iu.buf) == 0 {
		return
	}
	flit := iu.buf[0]
	iu.buf = nil
	r.FlitArriveCount++
	r.Latencies = append(r.Latencies, r.eq.Now()-flit.GenTime)
	r.debugf("flit arrived: %s", flit)

	r.inputChannels[0].PutCredit(Credit{})
	r.rescheduleNextTick = true
}

// switchTraverse (ST): for each IU with a flit staged in stReady, put it
// on the output channel for its chosen port and return a credit upstream.
func (r *Router) switchTraverse() {
	for iport := 0; iport < r.radix; iport++ {
		iu := r.inputUnits[iport]
		if iu.stReady == nil {
			continue
		}
		flit := iu.stReady
		iu.stReady = nil

		och := r.outputChannels[iu.routePort]
		och.PutFlit(flit)
		r.debugf("ST: %s -> %s", flit, och.Conn.Dst)

		ich := r.inputChannels[iport]
		ich.PutCredit(Credit{})
	}
}

// switchAlloc (SA): for each Active OU, round-robin grant among the IUs
// requesting it with a non-empty buffer.
func (r *Router) switchAlloc() {
	for oport := 0; oport < r.radix; oport++ {
		ou := r.outputUnits[oport]
		if ou.global != StateActive {
			continue
		}
		iport, ok := r.arbitSA(oport)
		if !ok {
			continue
		}
		iu := r.inputUnits[iport]

		flit := iu.buf[0]
		iu.buf = iu.buf[1:]
		if iu.stReady != nil {
			panic("netsim: SA granted a port already holding a staged flit")
		}
		iu.stReady = flit

		ou.credit--
		if ou.credit < 0 {
			panic("netsim: output credit went negative in SA")
		}
		r.debugf("SA: granted oport %d to iport %d (%s)", oport, iport, flit)

		switch {
		case flit.Type == Tail:
			ou.nextGlobal = StateIdle
			if len(iu.buf) == 0 {
				iu.nextGlobal = StateIdle
				iu.stage = StageIdle
			} else {
				iu.nextGlobal = StateRouting
				iu.stage = StageRC
			}
			r.rescheduleNextTick = true
		case ou.credit == 0:
			iu.nextGlobal = StateCreditWait
			ou.nextGlobal = StateCreditWait
		default:
			iu.nextGlobal = StateActive
			iu.stage = StageSA
			r.rescheduleNextTick = true
		}
	}
}

// arbitSA grants the output port to the next eligible IU after the last
// grant, wrapping modulo radix. IUs in CreditWait are skipped with a
// credit-stall trace line rather than silently ignored.
func (r *Router) arbitSA(oport int) (int, bool) {
	iport := (r.saLastGrantInput + 1) % r.radix
	for i := 0; i < r.radix; i++ {
		iu := r.inputUnits[iport]
		if iu.stage == StageSA && iu.routePort == oport && iu.global == StateActive && len(iu.buf) > 0 {
			r.saLastGrantInput = iport
			return iport, true
		}
		if iu.stage == StageSA && iu.routePort == oport && iu.global == StateCreditWait {
			r.debugf("credit stall at iport %d for oport %d", iport, oport)
		}
		iport = (iport + 1) % r.radix
	}
	return -1, false
}

// vcAlloc (VA): for each Idle OU, round-robin grant among the IUs in
// VCWait requesting it.
func (r *Router) vcAlloc() {
	for oport := 0; oport < r.radix; oport++ {
		ou := r.outputUnits[oport]
		if ou.global != StateIdle {
			continue
		}
		iport, ok := r.arbitVA(oport)
		if !ok {
			continue
		}
		iu := r.inputUnits[iport]

		ou.inputPort = iport
		if ou.credit == 0 {
			iu.nextGlobal = StateCreditWait
			ou.nextGlobal = StateCreditWait
		} else {
			iu.nextGlobal = StateActive
			ou.nextGlobal = StateActive
		}
		iu.stage = StageSA
		r.debugf("VA: granted oport %d to iport %d", oport, iport)
		r.rescheduleNextTick = true
	}
}

func (r *Router) arbitVA(oport int) (int, bool) {
	iport := (r.vaLastGrantInput + 1) % r.radix
	for i := 0; i < r.radix; i++ {
		iu := r.inputUnits[iport]
		if iu.global == StateVCWait && iu.routePort == oport {
			r.vaLastGrantInput = iport
			return iport, true
		}
		iport = (iport + 1) % r.radix
	}
	return -1, false
}

// routeCompute (RC): for each IU in Routing, consult the head flit's
// source-computed path at its current cursor and advance the cursor.
func (r *Router) routeCompute() {
	for iport := 0; iport < r.radix; iport++ {
		iu := r.inputUnits[iport]
		if iu.global != StateRouting {
			continue
		}
		if len(iu.buf) == 0 {
			panic("netsim: RC on an input unit with no buffered flit")
		}
		flit := iu.buf[0]
		if flit.RouteInfo.Idx >= len(flit.RouteInfo.Path) {
			panic("netsim: RC ran past the end of a flit's routed path")
		}
		iu.routePort = flit.RouteInfo.Path[flit.RouteInfo.Idx]
		flit.RouteInfo.Idx++
		r.debugf("RC: %s -> oport %d", flit, iu.routePort)

		iu.nextGlobal = StateVCWait
		iu.stage = StageVA
		r.rescheduleNextTick = true
	}
}

// creditUpdate (CU): for each OU with a pending incoming credit, apply
// it, waking a CreditWait IU/OU pair back to Active if this was the
// credit that refilled them.
func (r *Router) creditUpdate() {
	for oport := 0; oport < r.radix; oport++ {
		ou := r.outputUnits[oport]
		if !ou.pendingCredit {
			continue
		}
		ou.pendingCredit = false

		if ou.credit == 0 && ou.nextGlobal == StateCreditWait {
			if ou.inputPort < 0 {
				panic("netsim: CreditWait output unit has no owning input unit")
			}
			iu := r.inputUnits[ou.inputPort]
			if iu.nextGlobal != StateCreditWait {
				panic("netsim: CU found an OU/IU pair out of sync in CreditWait")
			}
			iu.nextGlobal = StateActive
			ou.nextGlobal = StateActive
			r.debugf("credit update: oport %d CreditWait -> Active", oport)
		}
		ou.credit++
		r.rescheduleNextTick = true
	}
}

// fetchFlit (FF): pull any flit that has arrived this cycle on each input
// channel into that port's buffer, kickstarting the pipeline if the
// buffer had been empty.
func (r *Router) fetchFlit() {
	for iport := 0; iport < r.radix; iport++ {
		flit, ok := r.inputChannels[iport].TryGetFlit()
		if !ok {
			continue
		}
		iu := r.inputUnits[iport]
		r.debugf("fetched flit %s at iport %d (buf=%d)", flit, iport, len(iu.buf))

		if len(iu.buf) == 0 && iu.nextGlobal == StateIdle {
			iu.nextGlobal = StateRouting
			iu.stage = StageRC
			r.rescheduleNextTick = true
		}
		iu.buf = append(iu.buf, flit)
		if int64(len(iu.buf)) > r.bufSize {
			panic("netsim: input buffer overflow")
		}
	}
}

// fetchCredit (FCr): pull any credit that has arrived this cycle on each
// output channel into that port's one-deep pending-credit slot.
func (r *Router) fetchCredit() {
	for oport := 0; oport < r.radix; oport++ {
		_, ok := r.outputChannels[oport].TryGetCredit()
		if !ok {
			continue
		}
		ou := r.outputUnits[oport]
		if ou.pendingCredit {
			panic("netsim: more than one credit pending for an output unit")
		}
		ou.pendingCredit = true
		r.debugf("fetched credit at oport %d", oport)
		r.rescheduleNextTick = true
	}
}

// updateStates commits every IU/OU's buffered next-state into its
// current state at end-of-tick, so every stage above reads a coherent
// view for the whole cycle. Any state change forces a self-reschedule.
func (r *Router) updateStates() {
	changed := false
	for port := 0; port < r.radix; port++ {
		iu := r.inputUnits[port]
		ou := r.outputUnits[port]
		if iu.global != iu.nextGlobal {
			iu.global = iu.nextGlobal
			changed = true
		}
		if ou.global != ou.nextGlobal {
			if ou.nextGlobal == StateCreditWait && ou.credit > 0 {
				panic("netsim: output unit entering CreditWait with credit available")
			}
			ou.global = ou.nextGlobal
			changed = true
		}
	}
	if changed {
		r.rescheduleNextTick = true
	}
}

// PrintState renders the router's full per-port state, for the `p`
// debugger command.
func (r *Router) PrintState() string {
	out := r.id.String() + "\n"
	for i, iu := range r.inputUnits {
		out += iuLine(i, iu)
	}
	for i, ou := range r.outputUnits {
		out += ouLine(i, ou)
	}
	return out
}

func iuLine(i int, iu *InputUnit) string {
	line := ""
	for _, f := range iu.buf {
		line += f.String() + ","
	}
	return fmt.Sprintf("  Input[%d]: [%s] R=%2d {%s} ST:%s\n", i, iu.global, iu.routePort, line, iu.stReady)
}

func ouLine(i int, ou *OutputUnit) string {
	return fmt.Sprintf("  Output[%d]: [%s] I=%2d C=%2d\n", i, ou.global, ou.inputPort, ou.credit)
}
