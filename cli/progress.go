package cli

import (
	"fmt"
	"sync"
	"time"
)

// ProgressReporter reports per-session progress during batch operations
type ProgressReporter struct {
	mu       sync.Mutex
	statuses map[string]string
	start    time.Time
}

// NewProgressReporter creates a new progress reporter
func NewProgressReporter() *ProgressReporter {
	return &ProgressReporter{
		statuses: make(map[string]string),
		start:    time.Now(),
	}
}

// Update updates the status of a session
func (p *ProgressReporter) Update(session, status string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.statuses[session] = status
	p.render()
}

// render displays the current progress
func (p *ProgressReporter) render() {
	elapsed := time.Since(p.start).Round(time.Second)
	fmt.Printf("\rProcessing sessions... [%s]\n", elapsed)

	for session, status := range p.statuses {
		symbol := "[.]"
		switch status {
		case "repaired":
			symbol = "[*]"
		case "failed":
			symbol = "[x]"
		case "repairing":
			symbol = "[~]"
		}

		fmt.Printf("%s %s: %s\n", symbol, session, status)
	}
}

// Done marks the operation as complete
func (p *ProgressReporter) Done() {
	p.mu.Lock()
	defer p.mu.Unlock()

	elapsed := time.Since(p.start).Round(time.Millisecond)
	fmt.Printf("\nOperation completed in %s\n", elapsed)
}
