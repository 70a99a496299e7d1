package tui

import (
	"fmt"
	"log/slog"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
)

const panicToast = "Unexpected error (see logs)"

// guarded keeps a panic in the dashboard from tearing down the terminal. The
// model falls back to the entry list and any in-flight produce is forgotten.
type guarded struct {
	m   model
	log *slog.Logger
}

func wrapSafe(m model, log *slog.Logger) guarded {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return guarded{m: m, log: log}
}

func (g guarded) Init() tea.Cmd { return g.m.Init() }

func (g guarded) Update(msg tea.Msg) (next tea.Model, cmd tea.Cmd) {
	defer func() {
		if r := recover(); r != nil {
			g.report("tui.update", r)
			g.m.scr = screenHome
			g.m.running = false
			g.m.toast = panicToast
			next, cmd = g, nil
		}
	}()

	inner, c := g.m.Update(msg)
	switch v := inner.(type) {
	case model:
		g.m = v
	case guarded:
		g = v
	}
	return g, c
}

func (g guarded) View() (out string) {
	defer func() {
		if r := recover(); r != nil {
			g.report("tui.view", r)
			out = panicToast
		}
	}()
	return g.m.View()
}

func (g guarded) report(where string, r any) {
	g.log.Error("panic.recovered",
		"where", where,
		"screen", g.m.scr,
		"panic", fmt.Sprint(r),
		"stack", string(debug.Stack()),
	)
}

var _ tea.Model = guarded{}
