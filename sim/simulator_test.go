package sim

import (
	"strings"
	"testing"
)

// S1: 4-ring, radix 3, packet_size 4, run 10000 cycles with all 4 sources
// generating at max rate. Every destination should receive at least one
// packet and no double-tick should occur.
func TestSimulator_S1_RingAllSourcesEveryDestinationArrives(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Topology = "ring"
	cfg.Terminals = 4
	cfg.PacketSize = 4
	cfg.Horizon = 10000

	s := NewSimulator(cfg)
	st := s.Run(cfg.Horizon)

	if st.DoubleTicks != 0 {
		t.Errorf("double_tick_count = %d, want 0", st.DoubleTicks)
	}
	for i, a := range st.Arrived {
		if a < 1 {
			t.Errorf("[Dst %d] flits arrived = %d, want >= 1", i, a)
		}
	}
}

func TestSimulator_Run_StopsAtHorizon(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Horizon = 50
	s := NewSimulator(cfg)
	s.Run(cfg.Horizon)
	if s.Now() >= cfg.Horizon+10 {
		t.Errorf("simulator ran well past its horizon: now=%d, horizon=%d", s.Now(), cfg.Horizon)
	}
}

func TestSimulator_Step_AdvancesOneEventAtATime(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Horizon = 1000
	s := NewSimulator(cfg)

	prev := s.Now()
	steps := 0
	for s.Step() && steps < 20 {
		if s.Now() < prev {
			t.Fatalf("time went backward: %d < %d", s.Now(), prev)
		}
		prev = s.Now()
		steps++
	}
	if steps != 20 {
		t.Fatalf("expected to take 20 steps, queue ran dry after %d", steps)
	}
}

func TestSimulator_Torus_RunsWithoutInvariantViolation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Topology = "torus"
	cfg.TorusK = 4
	cfg.TorusR = 2
	cfg.Terminals = 16
	cfg.Horizon = 2000

	s := NewSimulator(cfg)
	st := s.Run(cfg.Horizon)
	if st.DoubleTicks != 0 {
		t.Errorf("double_tick_count = %d, want 0", st.DoubleTicks)
	}
}

// S5-style credit stall check: with a tight buffer, no output credit count
// ever goes negative and the simulation survives to horizon without an
// invariant panic (the panics inside Router enforce this; the test's job
// is simply to drive that code path and let it panic on any violation).
func TestSimulator_S5_TightBufferDoesNotUnderflowCredit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.InputBufSize = 1
	cfg.Horizon = 5000

	s := NewSimulator(cfg)
	s.Run(cfg.Horizon) // any credit underflow panics inside Router.switchAlloc/sourceGenerate
}

func TestSimulator_PrintAllStates_ListsEveryNode(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Horizon = 10
	s := NewSimulator(cfg)
	s.Run(cfg.Horizon)

	out := s.PrintAllStates()
	for i := 0; i < cfg.Terminals; i++ {
		if !strings.Contains(out, SrcID(i).String()) || !strings.Contains(out, DstID(i).String()) {
			t.Errorf("PrintAllStates missing terminal %d states", i)
		}
	}
}
