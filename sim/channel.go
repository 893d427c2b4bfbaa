package sim

// timedFlit and timedCredit pair a payload with the cycle at which it
// becomes visible to a get().
type timedFlit struct {
	time int64
	flit *Flit
}

type timedCredit struct {
	time int64
}

// Channel is a delayed FIFO carrying flits one way and credits the
// other, one per directed Connection. It is the only mechanism that
// crosses cycles between nodes: every put() schedules a tick of the
// node on the receiving end at now+delay, which is the sole source of
// scheduled events apart from a node's own self-reschedule.
type Channel struct {
	Conn  Connection
	delay int64
	eq    *EventQueue

	flits   []timedFlit
	credits []timedCredit
}

func NewChannel(eq *EventQueue, conn Connection, delay int64) *Channel {
	if delay < 1 {
		panic("netsim: channel delay must be >= 1")
	}
	return &Channel{Conn: conn, delay: delay, eq: eq}
}

// PutFlit enqueues flit for delivery at now+delay and wakes the
// downstream node at that time.
func (c *Channel) PutFlit(flit *Flit) {
	c.flits = append(c.flits, timedFlit{time: c.eq.Now() + c.delay, flit: flit})
	c.eq.Reschedule(c.delay, c.Conn.Dst.Id)
}

// PutCredit enqueues a credit for delivery at now+delay and wakes the
// upstream node at that time.
func (c *Channel) PutCredit(_ Credit) {
	c.credits = append(c.credits, timedCredit{time: c.eq.Now() + c.delay})
	c.eq.Reschedule(c.delay, c.Conn.Src.Id)
}

// TryGetFlit returns the head flit iff it is due exactly now. A head
// whose delivery time has already passed indicates a missed tick, a
// fatal invariant breach.
func (c *Channel) TryGetFlit() (*Flit, bool) {
	if len(c.flits) == 0 {
		return nil, false
	}
	head := c.flits[0]
	if c.eq.Now() < head.time {
		return nil, false
	}
	if c.eq.Now() > head.time {
		panic("netsim: stale flit, get arrived after its delivery cycle")
	}
	c.flits = c.flits[1:]
	return head.flit, true
}

// TryGetCredit is the credit-side analogue of TryGetFlit.
func (c *Channel) TryGetCredit() (Credit, bool) {
	if len(c.credits) == 0 {
		return Credit{}, false
	}
	head := c.credits[0]
	if c.eq.Now() < head.time {
		return Credit{}, false
	}
	if c.eq.Now() > head.time {
		panic("netsim: stale credit, get arrived after its delivery cycle")
	}
	c.credits = c.credits[1:]
	return Credit{}, true
}
