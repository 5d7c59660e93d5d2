package broadcast

import (
	"errors"
	"testing"
)

type recordingSender struct {
	received int
	fail     bool
}

func (s *recordingSender) Send(v any) error {
	if s.fail {
		return errors.New("broken pipe")
	}
	s.received++
	return nil
}

func TestBestEffort_DeliversToAll(t *testing.T) {
	a, b := &recordingSender{}, &recordingSender{}

	BestEffort("hello", a, b)

	if a.received != 1 || b.received != 1 {
		t.Errorf("Expected one delivery each, got %d/%d", a.received, b.received)
	}
}

func TestBestEffort_FailureDoesNotStopTheRest(t *testing.T) {
	broken := &recordingSender{fail: true}
	healthy := &recordingSender{}

	BestEffort("hello", broken, healthy)

	if healthy.received != 1 {
		t.Error("A failing target must not block delivery to the others")
	}
}

func TestBestEffort_NilTargetIsSkipped(t *testing.T) {
	healthy := &recordingSender{}

	BestEffort("hello", nil, healthy)

	if healthy.received != 1 {
		t.Error("A nil target must be skipped, not panic")
	}
}
