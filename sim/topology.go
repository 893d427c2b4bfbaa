package sim

import "fmt"

// RouterPortPair identifies a physical port: a node identity plus a
// port index on that node.
type RouterPortPair struct {
	Id   Id
	Port int
}

func (p RouterPortPair) String() string { return fmt.Sprintf("{%s, %d}", p.Id, p.Port) }

// notConnected is the sentinel RouterPortPair returned by Topology lookups
// that miss, matching the reference's Topology::not_connected.
var notConnected = RouterPortPair{Id: Id{Kind: RtrKind, Value: -1}, Port: -1}

// Connection is a directed link between two ports. uniq is a monotonic
// counter assigned at insertion time, used only to give every edge a
// stable identity (e.g. for channel lookup tables); it plays no role in
// routing.
type Connection struct {
	Src  RouterPortPair
	Dst  RouterPortPair
	Uniq int
}

func (c Connection) Connected() bool { return c.Src.Port != -1 }

// TopoKind distinguishes the two builders this package supports.
type TopoKind int

const (
	TopoRing TopoKind = iota
	TopoTorus
)

// TopoDesc records the parameters used to build a topology, needed at
// source-route-compute time (the k-ary size and dimension count).
type TopoDesc struct {
	Kind TopoKind
	K    int // ring/torus radix per dimension
	R    int // number of torus dimensions (1 for a plain ring)
}

// Topology is a bidirectional map between (router,port) endpoints: a
// forward map keyed by source port, and a reverse map keyed by
// destination port. Every key present in forward appears as a
// destination in exactly one reverse entry and vice versa.
type Topology struct {
	forward map[RouterPortPair]Connection
	reverse map[RouterPortPair]Connection
	nextID  int
}

func NewTopology() *Topology {
	return &Topology{
		forward: make(map[RouterPortPair]Connection),
		reverse: make(map[RouterPortPair]Connection),
	}
}

// Connect inserts a directed src->dst edge into both maps. It is
// idempotent for an identical re-connection (returns true, no state
// change) and rejects any attempt to reuse an already-bound src or dst
// port with a different counterpart (returns false, no state change).
func (t *Topology) Connect(src, dst RouterPortPair) bool {
	oldFromSrc, srcBound := t.forward[src]
	oldFromDst, dstBound := t.reverse[dst]
	if srcBound || dstBound {
		if srcBound && oldFromSrc.Dst == dst && dstBound && oldFromDst.Src == src {
			return true
		}
		return false
	}

	conn := Connection{Src: src, Dst: dst, Uniq: t.nextID}
	t.nextID++
	t.forward[src] = conn
	t.reverse[dst] = conn
	return true
}

// FindForward looks up the connection whose source port is src.
func (t *Topology) FindForward(src RouterPortPair) Connection {
	if c, ok := t.forward[src]; ok {
		return c
	}
	return Connection{Src: notConnected, Dst: notConnected, Uniq: -1}
}

// FindReverse looks up the connection whose destination port is dst.
func (t *Topology) FindReverse(dst RouterPortPair) Connection {
	if c, ok := t.reverse[dst]; ok {
		return c
	}
	return Connection{Src: notConnected, Dst: notConnected, Uniq: -1}
}

// Connections returns every forward-keyed connection, in no particular
// order; callers that need determinism should sort by Uniq.
func (t *Topology) Connections() []Connection {
	conns := make([]Connection, 0, len(t.forward))
	for _, c := range t.forward {
		conns = append(conns, c)
	}
	return conns
}

// connectTerminals wires port 0 of every router bidirectionally to a
// dedicated source and destination terminal, one pair per router index.
func connectTerminals(t *Topology, ids []int) bool {
	ok := true
	for _, id := range ids {
		src := RouterPortPair{Id: SrcID(id), Port: 0}
		dst := RouterPortPair{Id: DstID(id), Port: 0}
		rtr := RouterPortPair{Id: RtrID(id), Port: 0}
		ok = ok && t.Connect(src, rtr)
		ok = ok && t.Connect(rtr, dst)
	}
	return ok
}

// connectRing wires routers ids[i] <-> ids[i+1] bidirectionally along one
// ring dimension. Port usage follows the reference: port 2d+2 faces the
// clockwise neighbour, port 2d+1 faces the counter-clockwise neighbour.
func connectRing(t *Topology, ids []int, dimension int) bool {
	portCW := dimension*2 + 2
	portCCW := dimension*2 + 1
	ok := true
	n := len(ids)
	for i := 0; i < n; i++ {
		l := ids[i]
		r := ids[(i+1)%n]
		lport := RouterPortPair{Id: RtrID(l), Port: portCW}
		rport := RouterPortPair{Id: RtrID(r), Port: portCCW}
		ok = ok && t.Connect(lport, rport)
		ok = ok && t.Connect(rport, lport)
	}
	return ok
}

// Ring builds a topology of n routers arranged in a single cycle, each
// with a terminal on port 0: connect (Rtr i, 2) <-> (Rtr (i+1)%n, 1),
// then terminals.
func Ring(n int) (*Topology, TopoDesc) {
	t := NewTopology()
	ids := make([]int, n)
	for i := range ids {
		ids[i] = i
	}
	if !connectRing(t, ids, 0) {
		panic("netsim: ring topology construction produced a conflicting connection")
	}
	if !connectTerminals(t, ids) {
		panic("netsim: ring terminal wiring produced a conflicting connection")
	}
	return t, TopoDesc{Kind: TopoRing, K: n, R: 1}
}

// connectTorusDimension recursively wires a k-ary r-cube dimension by
// dimension, exactly mirroring the reference's topology_connect_torus_dimension:
// normal flags which dimensions are already fixed (0 marks a free
// dimension, 1 a fixed one), offset is the index of the first router of
// the sub-cube, and once exactly one dimension remains free the routers
// along it are connected as a ring.
func connectTorusDimension(t *Topology, k, dims int, normal []int, offset int) bool {
	free := 0
	for i := 0; i < dims; i++ {
		if normal[i] == 0 {
			free++
		}
	}

	ok := true
	if free == 1 {
		stride := 1
		for i := 0; i < dims; i++ {
			if normal[i] == 0 {
				ids := make([]int, k)
				for j := 0; j < k; j++ {
					ids[j] = offset + j*stride
				}
				ok = ok && connectRing(t, ids, i)
				break
			}
			stride *= k
		}
		return ok
	}

	stride := 1
	for i := 0; i < dims; i++ {
		if normal[i] == 0 {
			subnormal := append([]int(nil), normal...)
			subnormal[i] = 1 // lock this dimension while recursing on the rest
			for j := 0; j < k; j++ {
				suboffset := offset + j*stride
				ok = ok && connectTorusDimension(t, k, dims, subnormal, suboffset)
			}
		}
		stride *= k
	}
	return ok
}

// Torus builds a k-ary r-cube: r dimensions, each of size k, recursively
// connected as nested rings, plus one terminal per router. Port
// assignment per dimension d follows connectRing: 2d+1 lower neighbour,
// 2d+2 higher neighbour; port 0 is always the terminal.
func Torus(k, r int) (*Topology, TopoDesc) {
	t := NewTopology()
	normal := make([]int, r)
	if !connectTorusDimension(t, k, r, normal, 0) {
		panic("netsim: torus topology construction produced a conflicting connection")
	}
	n := 1
	for i := 0; i < r; i++ {
		n *= k
	}
	ids := make([]int, n)
	for i := range ids {
		ids[i] = i
	}
	if !connectTerminals(t, ids) {
		panic("netsim: torus terminal wiring produced a conflicting connection")
	}
	return t, TopoDesc{Kind: TopoTorus, K: k, R: r}
}

// Route computes the source-routed sequence of output ports from src to
// dst. For a ring, it picks the shorter direction (ties broken clockwise,
// matching the reference's unresolved "pick random" TODO, reproduced here
// as a deterministic CW choice). For a torus, it applies the ring
// algorithm dimension by dimension in ascending order, then appends the
// terminal port.
func Route(td TopoDesc, srcID, dstID int) []int {
	switch td.Kind {
	case TopoRing:
		return ringRoute(td.K, 0, srcID, dstID, true)
	default:
		return torusRoute(td, srcID, dstID)
	}
}

// ringRoute computes the path along one ring dimension of size k, where
// srcCoord and dstCoord are the coordinates along that dimension. When
// terminal is true, port 0 is appended at the end (the path reaches its
// final destination along this dimension); otherwise the caller is
// expected to continue routing along further dimensions.
func ringRoute(k, dim, srcCoord, dstCoord int, terminal bool) []int {
	portCW := dim*2 + 2
	portCCW := dim*2 + 1
	cw := ((dstCoord - srcCoord) % k + k) % k
	path := make([]int, 0, k/2+1)
	if cw <= k/2 {
		for i := 0; i < cw; i++ {
			path = append(path, portCW)
		}
	} else {
		for i := 0; i < k-cw; i++ {
			path = append(path, portCCW)
		}
	}
	if terminal {
		path = append(path, 0)
	}
	return path
}

// torusRoute applies dimension-order routing: for each dimension in
// ascending order, extract the coordinate along that dimension from the
// mixed-radix node index and run the ring algorithm on it.
func torusRoute(td TopoDesc, srcID, dstID int) []int {
	path := make([]int, 0)
	stride := 1
	for d := 0; d < td.R; d++ {
		srcCoord := (srcID / stride) % td.K
		dstCoord := (dstID / stride) % td.K
		path = append(path, ringRoute(td.K, d, srcCoord, dstCoord, false)...)
		stride *= td.K
	}
	path = append(path, 0)
	return path
}
