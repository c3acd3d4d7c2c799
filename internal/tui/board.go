package tui

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"resolve/internal/engine"
)

func RunBoard(ctx context.Context, svc *engine.Service, opts Options, out io.Writer) error {
	m := NewModel(ctx, svc, opts)
	p := tea.NewProgram(m, tea.WithOutput(out), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
