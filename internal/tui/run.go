package tui

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

type sessionExpiredMsg struct{}

// ProgramNotifier forwards session-expired notices into a running TUI. It is
// created before the access layer so it can be passed as its notifier, and
// attached to the program once Run starts it.
type ProgramNotifier struct {
	mu      sync.Mutex
	program *tea.Program
	pending bool
}

// SessionExpired implements hostapi.Notifier
func (n *ProgramNotifier) SessionExpired(context.Context) {
	n.mu.Lock()
	p := n.program
	if p == nil {
		n.pending = true
	}
	n.mu.Unlock()

	if p != nil {
		p.Send(sessionExpiredMsg{})
	}
}

func (n *ProgramNotifier) attach(p *tea.Program) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.program = p
	pending := n.pending
	n.pending = false
	return pending
}

// Run starts the TUI and blocks until it exits
func Run(ctx context.Context, backend Backend, notifier *ProgramNotifier, opts ...Option) error {
	app := New(ctx, backend, opts...)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))

	if notifier != nil {
		if notifier.attach(p) {
			app.expire()
		}
		defer notifier.attach(nil)
	}

	if _, err := p.Run(); err != nil {
		return err
	}
	if app.Screen() == ScreenExpired {
		return ErrSessionExpired
	}
	return nil
}
