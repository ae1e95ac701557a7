package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

// writerIsTTY returns true if the given writer exposes an Fd() method
// (e.g. *os.File) and that fd is a terminal. Falls back to false for
// plain io.Writer values such as *bytes.Buffer.
func writerIsTTY(w io.Writer) bool {
	type fder interface {
		Fd() uintptr
	}
	if f, ok := w.(fder); ok {
		return isatty.IsTerminal(f.Fd())
	}
	return false
}

// Spinner shows that a refresh is running. It writes to stderr so that
// stdout stays machine-readable, and stays silent when stderr is not a
// terminal.
type Spinner struct {
	message   string
	frames    []string
	writer    io.Writer
	interval  time.Duration
	elapsed   bool
	startTime time.Time

	mu      sync.Mutex
	running bool
	done    chan struct{}
	wg      sync.WaitGroup
}

// NewSpinner creates a stopped spinner.
func NewSpinner(message string) *Spinner {
	return &Spinner{
		message:  message,
		frames:   []string{"|", "/", "-", "\\"},
		writer:   os.Stderr,
		interval: 100 * time.Millisecond,
	}
}

// WithElapsed makes the spinner show the seconds since Start.
// Must be called before Start.
func (s *Spinner) WithElapsed() *Spinner {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.elapsed = true
	return s
}

// SetWriter sets the output writer (useful for testing).
func (s *Spinner) SetWriter(w io.Writer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writer = w
}

// Start begins the animation. It is a no-op on a non-TTY writer.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running || !writerIsTTY(s.writer) {
		return
	}

	s.running = true
	s.startTime = time.Now()
	s.done = make(chan struct{})

	s.wg.Add(1)
	go s.loop(s.done)
}

func (s *Spinner) loop(done <-chan struct{}) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	idx := 0
	for {
		select {
		case <-ticker.C:
			s.mu.Lock()
			fmt.Fprintf(s.writer, "\r%s  %s", s.frames[idx], s.line())
			s.mu.Unlock()
			idx = (idx + 1) % len(s.frames)
		case <-done:
			return
		}
	}
}

// line returns the message with the elapsed time, if enabled.
// Must be called with lock held.
func (s *Spinner) line() string {
	if !s.elapsed {
		return s.message
	}
	return fmt.Sprintf("%s (%ds elapsed)", s.message, int(time.Since(s.startTime).Seconds()))
}

// Stop stops the animation and clears the line.
func (s *Spinner) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.done)
	s.mu.Unlock()

	s.wg.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.writer, "\r%s\r", strings.Repeat(" ", len(s.line())+4))
}

// Running reports whether the animation goroutine is active.
func (s *Spinner) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}
