package core

import (
	"reflect"
	"testing"
)

func newAttachedReader(t *testing.T) (*MockCaptureDriver, *CaptureReader, *ElapsedTicks) {
	t.Helper()
	drv := &MockCaptureDriver{}
	cell := &ElapsedTicks{}
	r := NewCaptureReader(drv, cell)
	if err := r.Attach(); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}
	if drv.edge == nil || drv.overflow == nil {
		t.Fatalf("Attach did not register both handlers")
	}
	return drv, r, cell
}

func TestCaptureEdgeOrder(t *testing.T) {
	drv, _, cell := newAttachedReader(t)

	drv.fire(25000)

	want := []string{"clear", "reset", "read"}
	if !reflect.DeepEqual(drv.ops, want) {
		t.Errorf("ops = %v, want %v", drv.ops, want)
	}
	if cell.Load() != 25000 {
		t.Errorf("cell = %d, want 25000", cell.Load())
	}
}

func TestCaptureOverwriteCounting(t *testing.T) {
	drv, r, cell := newAttachedReader(t)

	drv.fire(100)
	drv.fire(200) // Replaces unconsumed 100
	if cell.Load() != 200 {
		t.Fatalf("cell = %d, want latest value 200", cell.Load())
	}

	cell.Take()
	drv.fire(300) // Cell was consumed, not an overwrite

	st := r.Snapshot()
	if st.Edges != 3 {
		t.Errorf("Edges = %d, want 3", st.Edges)
	}
	if st.Overwrites != 1 {
		t.Errorf("Overwrites = %d, want 1", st.Overwrites)
	}
}

func TestCaptureOverflowStoresZero(t *testing.T) {
	drv, r, cell := newAttachedReader(t)

	drv.fire(40000)
	cell.Take()

	drv.overflow()
	drv.fire(1234) // Truncated count after a wrap
	if cell.Load() != 0 {
		t.Errorf("cell = %d after overflow edge, want 0", cell.Load())
	}

	// Flag clears on that edge
	drv.fire(5000)
	if cell.Load() != 5000 {
		t.Errorf("cell = %d, want 5000", cell.Load())
	}

	if st := r.Snapshot(); st.Overflows != 1 {
		t.Errorf("Overflows = %d, want 1", st.Overflows)
	}
}

func TestCaptureAttachWithoutDriver(t *testing.T) {
	r := NewCaptureReader(nil, &ElapsedTicks{})
	if err := r.Attach(); err != ErrNoCaptureDriver {
		t.Errorf("Attach() = %v, want ErrNoCaptureDriver", err)
	}
}

// edgeOnlyDriver hides the mock's overflow support
type edgeOnlyDriver struct {
	CaptureDriver
}

func TestCaptureAttachEdgeOnly(t *testing.T) {
	mock := &MockCaptureDriver{}
	var cd CaptureDriver = edgeOnlyDriver{mock}
	if _, ok := cd.(OverflowSource); ok {
		t.Fatalf("edgeOnlyDriver should not satisfy OverflowSource")
	}
	r := NewCaptureReader(cd, &ElapsedTicks{})
	if err := r.Attach(); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}
	if mock.overflow != nil {
		t.Errorf("overflow handler registered on edge-only driver")
	}
	mock.fire(42)
	if r.Ticks().Load() != 42 {
		t.Errorf("cell = %d, want 42", r.Ticks().Load())
	}
}

func TestElapsedTicksTake(t *testing.T) {
	var cell ElapsedTicks
	cell.Store(7)
	if v := cell.Take(); v != 7 {
		t.Errorf("Take() = %d, want 7", v)
	}
	if v := cell.Take(); v != 0 {
		t.Errorf("second Take() = %d, want 0", v)
	}
}

func TestCaptureOverwriteHoldLast(t *testing.T) {
	drv, r, cell := newAttachedReader(t)
	est, err := NewSpeedEstimator(62500, HoldLastReading, cell)
	if err != nil {
		t.Fatalf("NewSpeedEstimator failed: %v", err)
	}

	drv.fire(625)
	if rps, _ := est.Sample(); rps != 100 {
		t.Fatalf("rps = %d, want 100", rps)
	}
	drv.fire(700) // Held value was read, not an overwrite
	if st := r.Snapshot(); st.Overwrites != 0 {
		t.Errorf("Overwrites = %d after a read period was replaced, want 0", st.Overwrites)
	}

	drv.fire(800) // 700 was never sampled
	if st := r.Snapshot(); st.Overwrites != 1 {
		t.Errorf("Overwrites = %d, want 1", st.Overwrites)
	}
	if rps, _ := est.Sample(); rps != 78 {
		t.Errorf("rps = %d, want 78", rps)
	}
}
