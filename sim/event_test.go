package sim

import "testing"

func TestEventQueue_PopsInTimeOrder(t *testing.T) {
	eq := NewEventQueue()
	eq.Schedule(100, RtrID(0))
	eq.Schedule(50, RtrID(1))
	eq.Schedule(150, RtrID(2))

	first := eq.Pop()
	if first.Timestamp() != 50 {
		t.Fatalf("first popped timestamp = %d, want 50", first.Timestamp())
	}
	second := eq.Pop()
	if second.Timestamp() != 100 {
		t.Fatalf("second popped timestamp = %d, want 100", second.Timestamp())
	}
	third := eq.Pop()
	if third.Timestamp() != 150 {
		t.Fatalf("third popped timestamp = %d, want 150", third.Timestamp())
	}
	if !eq.Empty() {
		t.Error("expected queue to be empty")
	}
}

func TestEventQueue_TiesBreakByInsertionOrder(t *testing.T) {
	eq := NewEventQueue()
	eq.Schedule(10, SrcID(0))
	eq.Schedule(10, SrcID(1))
	eq.Schedule(10, SrcID(2))

	if got := eq.Pop().Target(); got != SrcID(0) {
		t.Errorf("first tie-break target = %v, want Src 0", got)
	}
	if got := eq.Pop().Target(); got != SrcID(1) {
		t.Errorf("second tie-break target = %v, want Src 1", got)
	}
	if got := eq.Pop().Target(); got != SrcID(2) {
		t.Errorf("third tie-break target = %v, want Src 2", got)
	}
}

func TestEventQueue_Now_AdvancesOnPop(t *testing.T) {
	eq := NewEventQueue()
	if eq.Now() != 0 {
		t.Fatalf("expected initial now 0, got %d", eq.Now())
	}
	eq.Schedule(5, RtrID(0))
	eq.Pop()
	if eq.Now() != 5 {
		t.Errorf("expected now 5 after pop, got %d", eq.Now())
	}
}

func TestEventQueue_Reschedule_IsRelativeToNow(t *testing.T) {
	eq := NewEventQueue()
	eq.Schedule(5, RtrID(0))
	eq.Pop() // now == 5
	eq.Reschedule(3, RtrID(1))
	if t2, ok := eq.PeekNextTime(); !ok || t2 != 8 {
		t.Errorf("expected next time 8, got %d (ok=%v)", t2, ok)
	}
}

func TestEventQueue_Schedule_PastTimePanics(t *testing.T) {
	eq := NewEventQueue()
	eq.Schedule(5, RtrID(0))
	eq.Pop() // now == 5
	defer func() {
		if recover() == nil {
			t.Error("expected panic scheduling a time before now")
		}
	}()
	eq.Schedule(4, RtrID(0))
}

func TestEventQueue_Pop_EmptyPanics(t *testing.T) {
	eq := NewEventQueue()
	defer func() {
		if recover() == nil {
			t.Error("expected panic popping an empty queue")
		}
	}()
	eq.Pop()
}

func TestEventQueue_PeekNextTime_EmptyReturnsFalse(t *testing.T) {
	eq := NewEventQueue()
	if _, ok := eq.PeekNextTime(); ok {
		t.Error("expected ok=false on an empty queue")
	}
}
