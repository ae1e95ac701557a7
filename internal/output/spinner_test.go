package output

import (
	"bytes"
	"testing"
	"time"
)

func TestSpinner_NonTTYIsSilent(t *testing.T) {
	buf := &bytes.Buffer{}
	s := NewSpinner("Collecting packages")
	s.SetWriter(buf)

	s.Start()
	if s.Running() {
		t.Error("spinner should not animate on a non-TTY writer")
	}
	s.Stop()

	if buf.Len() != 0 {
		t.Errorf("non-TTY spinner wrote %q", buf.String())
	}
}

func TestSpinner_StopIsIdempotent(t *testing.T) {
	s := NewSpinner("Collecting packages")
	s.SetWriter(&bytes.Buffer{})
	s.Stop()
	s.Stop()
}

func TestSpinner_Line(t *testing.T) {
	s := NewSpinner("Collecting packages")
	if got := s.line(); got != "Collecting packages" {
		t.Errorf("line() = %q", got)
	}

	s.WithElapsed()
	s.startTime = time.Now().Add(-3500 * time.Millisecond)
	if got := s.line(); got != "Collecting packages (3s elapsed)" {
		t.Errorf("line() = %q", got)
	}
}
