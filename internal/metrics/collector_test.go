package metrics

import (
	"testing"
	"time"
)

func TestRecordTiming(t *testing.T) {
	c := NewCollector()
	c.RecordTiming(OpValidate, 10*time.Millisecond)
	c.RecordTiming(OpValidate, 30*time.Millisecond)

	snap := c.Snapshot()
	if snap.Validate == nil {
		t.Fatal("expected validate snapshot")
	}
	if snap.Validate.Count != 2 {
		t.Errorf("count = %d, want 2", snap.Validate.Count)
	}
	if snap.Validate.MinTimeMs != 10 {
		t.Errorf("min = %d, want 10", snap.Validate.MinTimeMs)
	}
	if snap.Validate.MaxTimeMs != 30 {
		t.Errorf("max = %d, want 30", snap.Validate.MaxTimeMs)
	}
	if snap.Validate.AvgTimeMs != 20 {
		t.Errorf("avg = %f, want 20", snap.Validate.AvgTimeMs)
	}
}

func TestRecordOutcome(t *testing.T) {
	c := NewCollector()
	c.RecordOutcome(true, false)
	c.RecordOutcome(false, false)
	c.RecordOutcome(false, true)

	snap := c.Snapshot()
	if snap.ValidTotal != 1 {
		t.Errorf("valid = %d, want 1", snap.ValidTotal)
	}
	if snap.InvalidTotal != 2 {
		t.Errorf("invalid = %d, want 2", snap.InvalidTotal)
	}
	if snap.TimeoutOverrides != 1 {
		t.Errorf("overrides = %d, want 1", snap.TimeoutOverrides)
	}
}

func TestSnapshotEmptyOps(t *testing.T) {
	snap := NewCollector().Snapshot()
	if snap.Validate != nil || snap.Entropy != nil || snap.Prove != nil || snap.Verify != nil {
		t.Error("expected nil snapshots for unrecorded operations")
	}
}
