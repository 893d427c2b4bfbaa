package sim

import (
	"container/heap"
	"fmt"
)

// Event is a unit of work dispatched at a specific simulation time.
// Target names the node the handler should run against; Execute runs the
// node's tick against the owning Simulator.
type Event interface {
	Timestamp() int64
	Target() Id
	Execute(s *Simulator)
}

// tickEvent is the only event type in this simulator: a request for the
// named node to run one tick. Every other piece of cross-node
// communication (flits, credits) travels through Channel buffers instead
// of the event queue; the event queue only carries "wake up and look at
// your channels" notifications.
type tickEvent struct {
	time int64
	id   uint64 // insertion sequence, used only to break time ties deterministically
	node Id
}

func (e *tickEvent) Timestamp() int64 { return e.time }
func (e *tickEvent) Target() Id       { return e.node }
func (e *tickEvent) Execute(s *Simulator) {
	s.tick(e.node)
}

// eventHeap implements container/heap.Interface over pending tickEvents,
// ordered by time and, for ties, by insertion sequence (FIFO), so that
// replaying the same schedule always dispatches events in the same order.
type eventHeap []*tickEvent

func (h eventHeap) Len() int { return len(h) }
func (h eventHeap) Less(i, j int) bool {
	if h[i].time != h[j].time {
		return h[i].time < h[j].time
	}
	return h[i].id < h[j].id
}
func (h eventHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *eventHeap) Push(x interface{}) {
	*h = append(*h, x.(*tickEvent))
}
func (h *eventHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}

// EventQueue is the time-ordered priority queue that drives the whole
// simulation. now() is monotonically non-decreasing across pop(); a
// schedule() call for a time earlier than now is a fatal invariant
// breach, since it would mean some node is trying to rewrite history.
type EventQueue struct {
	heap   eventHeap
	now_   int64
	nextID uint64
}

func NewEventQueue() *EventQueue {
	eq := &EventQueue{}
	heap.Init(&eq.heap)
	return eq
}

// Schedule inserts a tick of node at an absolute time. time must be >= now.
// A tick already pending for the same node at the same time is not
// queued a second time, so a node is dispatched at most once per cycle.
func (eq *EventQueue) Schedule(time int64, node Id) {
	if time < eq.now_ {
		panic(fmt.Errorf("netsim: schedule() time %d precedes now %d", time, eq.now_).Error())
	}
	for _, e := range eq.heap {
		if e.time == time && e.node == node {
			return
		}
	}
	eq.nextID++
	heap.Push(&eq.heap, &tickEvent{time: time, id: eq.nextID, node: node})
}

// Reschedule inserts a tick of node at now + relTime.
func (eq *EventQueue) Reschedule(relTime int64, node Id) {
	eq.Schedule(eq.now_+relTime, node)
}

// Pop removes and returns the earliest event, advancing now() to its time.
// Panics if the queue is empty.
func (eq *EventQueue) Pop() Event {
	if eq.heap.Len() == 0 {
		panic("netsim: Pop() on empty event queue")
	}
	e := heap.Pop(&eq.heap).(*tickEvent)
	if e.time < eq.now_ {
		panic(fmt.Errorf("netsim: time went backward: %d < %d", e.time, eq.now_).Error())
	}
	eq.now_ = e.time
	return e
}

// PeekNextTime returns the earliest pending time without popping.
func (eq *EventQueue) PeekNextTime() (int64, bool) {
	if eq.heap.Len() == 0 {
		return 0, false
	}
	return eq.heap[0].time, true
}

func (eq *EventQueue) Now() int64  { return eq.now_ }
func (eq *EventQueue) Empty() bool { return eq.heap.Len() == 0 }
func (eq *EventQueue) Len() int    { return eq.heap.Len() }
