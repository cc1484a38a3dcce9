package utils

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Terminal color codes.
const (
	SuccessColor = "\x1b[92m"
	ErrorColor   = "\x1b[31m"
	DefaultColor = "\x1b[0m"
)

// Spinner prints a progress indicator followed by a status message.
type Spinner struct {
	out      io.Writer
	mu       sync.Mutex
	message  string
	stopChan chan struct{}
	done     chan struct{}
}

// NewSpinner instantiates a new Spinner writing to out.
func NewSpinner(out io.Writer) *Spinner {
	return &Spinner{out: out}
}

// Start starts the process indicator.
func (s *Spinner) Start(message string) {
	s.SetMessage(message)
	s.stopChan = make(chan struct{})
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)
		for {
			for _, r := range `-\|/` {
				select {
				case <-s.stopChan:
					return
				default:
					s.mu.Lock()
					fmt.Fprintf(s.out, "\r%s%s %c%s", s.message, SuccessColor, r, DefaultColor)
					s.mu.Unlock()
					time.Sleep(time.Millisecond * 100)
				}
			}
		}
	}()
}

// SetMessage replaces the text shown next to the indicator.
func (s *Spinner) SetMessage(message string) {
	s.mu.Lock()
	s.message = message
	s.mu.Unlock()
}

// Stop stops the process indicator and clears its line.
func (s *Spinner) Stop() {
	if s.stopChan == nil {
		return
	}
	close(s.stopChan)
	<-s.done
	s.stopChan = nil
	fmt.Fprint(s.out, "\r\x1b[2K")
}
