// Package sim implements a cycle-accurate discrete-event simulator of a
// packet-switched interconnection network of virtual-channel routers
// arranged as a k-ary r-cube (torus) or ring.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - event.go: the time-ordered priority queue that drives every tick
//   - topology.go: the bidirectional port-pair map and the ring/torus builders
//   - flit.go, channel.go: the flit/credit wire format and delayed FIFOs
//   - router.go: the five-stage RC/VA/SA/ST router pipeline and its allocators
//   - simulator.go: wiring topology -> channels -> nodes, and the run loop
//
// # Architecture
//
// Every node (source terminal, destination terminal, or internal
// router) is a Router ticked by the EventQueue. Terminals run radix 1
// and special-case their tick body; internal routers run the full
// pipeline. A Channel is the only thing that crosses a cycle boundary
// between two nodes; everything else happens within a single Tick call.
//
// sim/trace holds decision-trace record types with no dependency back on
// this package, the same separation the reference trace package keeps.
package sim
