package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

// spinner is a simple stderr progress indicator with context cancellation.
type spinner struct {
	message string
	cancel  context.CancelFunc
	ctx     context.Context
	stopped chan struct{}
	mu      sync.Mutex
}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// newSpinner creates and starts a spinner tied to ctx.
func newSpinner(ctx context.Context, message string) *spinner {
	spinCtx, cancel := context.WithCancel(ctx)
	s := &spinner{
		message: message,
		ctx:     spinCtx,
		cancel:  cancel,
		stopped: make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *spinner) run() {
	defer close(s.stopped)
	ticker := time.NewTicker(80 * time.Millisecond)
	defer ticker.Stop()

	i := 0
	for {
		select {
		case <-s.ctx.Done():
			s.clearLine()
			return
		case <-ticker.C:
			frame := spinnerFrames[i%len(spinnerFrames)]
			s.mu.Lock()
			fmt.Fprintf(os.Stderr, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(s.message))
			s.mu.Unlock()
			i++
		}
	}
}

// stop halts the animation and clears the line.
func (s *spinner) stop() {
	s.cancel()
	<-s.stopped
}

func (s *spinner) clearLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(os.Stderr, "\r%s\r", strings.Repeat(" ", len(s.message)+4))
}
