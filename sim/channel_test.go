package sim

import "testing"

func testConn() Connection {
	return Connection{
		Src: RouterPortPair{Id: RtrID(0), Port: 0},
		Dst: RouterPortPair{Id: RtrID(1), Port: 0},
	}
}

func TestNewChannel_ZeroDelayPanics(t *testing.T) {
	eq := NewEventQueue()
	defer func() {
		if recover() == nil {
			t.Error("expected panic constructing a channel with delay 0")
		}
	}()
	NewChannel(eq, testConn(), 0)
}

func TestChannel_PutGetFlit_ArrivesAfterDelay(t *testing.T) {
	eq := NewEventQueue()
	c := NewChannel(eq, testConn(), 2)

	f := &Flit{Type: Head}
	c.PutFlit(f)

	if _, ok := c.TryGetFlit(); ok {
		t.Fatal("flit should not be visible before its delivery cycle")
	}

	// advance now to the delivery time by popping the scheduled wake-up.
	eq.Pop()
	got, ok := c.TryGetFlit()
	if !ok || got != f {
		t.Fatalf("expected flit to be deliverable at now=2, got ok=%v", ok)
	}
}

func TestChannel_PutGetCredit_ArrivesAfterDelay(t *testing.T) {
	eq := NewEventQueue()
	c := NewChannel(eq, testConn(), 1)

	c.PutCredit(Credit{})
	eq.Pop() // advance now to 1
	if _, ok := c.TryGetCredit(); !ok {
		t.Fatal("expected credit to be deliverable at now=1")
	}
}

func TestChannel_TryGetFlit_StalePanics(t *testing.T) {
	eq := NewEventQueue()
	c := NewChannel(eq, testConn(), 1)
	c.PutFlit(&Flit{})

	// Jump now past the delivery cycle without ever getting the flit.
	eq.Schedule(5, RtrID(2))
	eq.Pop() // now == 1, the channel's own wake-up
	eq.Pop() // now == 5, past the flit's delivery cycle

	defer func() {
		if recover() == nil {
			t.Error("expected panic on a stale flit get")
		}
	}()
	c.TryGetFlit()
}

func TestChannel_TryGetCredit_StalePanics(t *testing.T) {
	eq := NewEventQueue()
	c := NewChannel(eq, testConn(), 1)
	c.PutCredit(Credit{})

	eq.Schedule(5, RtrID(2))
	eq.Pop() // now == 1, the channel's own wake-up
	eq.Pop() // now == 5, past the credit's delivery cycle

	defer func() {
		if recover() == nil {
			t.Error("expected panic on a stale credit get")
		}
	}()
	c.TryGetCredit()
}
