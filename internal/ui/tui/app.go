package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aalvaropc/prebundle/internal/domain"
	"github.com/aalvaropc/prebundle/internal/usecase"
)

type screen int

const (
	screenHome screen = iota
	screenDetail
)

// entryItem is one canonical pre-bundle in the dashboard list.
type entryItem struct {
	name     domain.CanonicalName
	requests []string
	manifest domain.ManifestDescriptor
}

func (e entryItem) Title() string {
	mark := "✗"
	if e.manifest.Present() {
		mark = "✓"
	}
	return mark + " " + string(e.name)
}

func (e entryItem) Description() string {
	return clampString(strings.Join(e.requests, ", "), 60)
}

func (e entryItem) FilterValue() string { return string(e.name) }

type model struct {
	theme Theme
	deps  Deps

	scr     screen
	entries list.Model
	active  entryItem

	projectFound bool
	projectRoot  string
	cwd          string
	cfg          domain.Config
	status       usecase.StatusReport

	running bool
	toast   string
}

func Run(deps Deps) error {
	m := newModel(deps)
	p := tea.NewProgram(wrapSafe(m, deps.Logger), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func newModel(deps Deps) model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Pre-bundles"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	return model{
		theme:   DefaultTheme(),
		deps:    deps,
		scr:     screenHome,
		entries: l,
	}
}

func (m model) Init() tea.Cmd { return cmdRefreshProject(m.deps) }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.entries.SetSize(msg.Width-4, msg.Height-12)
		return m, nil

	case projectRefreshedMsg:
		m.cwd = msg.cwd
		m.projectFound = msg.found
		m.projectRoot = msg.root
		if msg.err != nil {
			m.entries.SetItems(nil)
			if msg.found {
				m.toast = userMessage(msg.err)
			}
			return m, nil
		}
		m.cfg = msg.cfg
		m.status = msg.status
		m.entries.SetItems(entryItems(msg.status))
		return m, nil

	case initProjectDoneMsg:
		if msg.err != nil {
			m.toast = userMessage(msg.err)
			return m, nil
		}
		m.toast = "Project initialized in " + msg.root
		return m, cmdRefreshProject(m.deps)

	case produceDoneMsg:
		m.running = false
		if msg.err != nil {
			m.toast = userMessage(msg.err)
			return m, nil
		}
		m.toast = fmt.Sprintf("Pre-bundles produced: %d manifest(s) in %s", len(msg.result.Manifests), msg.result.Duration().Round(time.Millisecond))
		return m, cmdRefreshProject(m.deps)

	case tea.KeyMsg:
		if m.entries.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "ctrl+c", "q":
			if m.scr == screenHome {
				return m, tea.Quit
			}
			m.scr = screenHome
			return m, nil

		case "esc", "b":
			if m.scr != screenHome {
				m.scr = screenHome
				return m, nil
			}

		case "enter":
			if m.scr == screenHome {
				it, ok := m.entries.SelectedItem().(entryItem)
				if !ok {
					return m, nil
				}
				m.active = it
				m.scr = screenDetail
				return m, nil
			}

		case "r":
			m.toast = ""
			return m, cmdRefreshProject(m.deps)

		case "i":
			if !m.projectFound && m.cwd != "" {
				return m, cmdInitProjectHere(m.deps, m.cwd)
			}

		case "d":
			if m.projectFound && !m.running {
				m.running = true
				m.toast = "Producing pre-bundles…"
				_, cmd := startProduceAsync(m.deps, m.projectRoot, m.cfg)
				return m, cmd
			}
		}
	}

	if m.scr == screenHome {
		var cmd tea.Cmd
		m.entries, cmd = m.entries.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) View() string {
	wrap := lipgloss.NewStyle().Padding(1, 2)
	header := m.theme.Title.Render("prebundle") + "\n" +
		m.theme.Subtitle.Render("pre-bundled vendor libraries and their manifests") + "\n"

	var banner string
	if m.projectFound {
		banner = m.theme.Help.Render(fmt.Sprintf("Project: %s", m.projectRoot)) + "\n" + m.summary()
	} else {
		banner = m.theme.Card.Render("⚠ No prebundle.yaml found.\n\nPress i to create one here.")
	}

	var toast string
	if m.toast != "" {
		toast = "\n" + m.theme.Toast.Render(m.toast)
	}

	switch m.scr {
	case screenHome:
		help := m.theme.Help.Render("↑/↓ navigate • enter details • d produce • r refresh • / search • q quit")
		return wrap.Render(header + "\n" + banner + "\n\n" + m.theme.Card.Render(m.entries.View()) + toast + "\n" + help)

	case screenDetail:
		card := m.theme.Card.Render(
			m.theme.Title.Render(string(m.active.name)) + "\n\n" +
				renderEntryDetails(m.active) + "\n" +
				m.theme.Help.Render("esc/b back • q home"),
		)
		return wrap.Render(header + "\n" + banner + "\n\n" + card + toast)

	default:
		return wrap.Render(header + "\n" + "unknown state")
	}
}

func (m model) summary() string {
	r := m.status.Report
	if !m.status.Open {
		return m.theme.Warn.Render("pre-bundling is switched off (prebundle.open: false)")
	}
	inject := "off"
	if r.Injection != nil {
		inject = "on"
	}
	return m.theme.Help.Render(fmt.Sprintf("%d entr(ies) • %d referenced • inject %s • manifests in %s",
		len(r.Entries), len(r.References), inject, r.ManifestRoot))
}

func entryItems(s usecase.StatusReport) []list.Item {
	byName := map[domain.CanonicalName]domain.ManifestDescriptor{}
	for _, d := range s.Report.Manifests {
		byName[d.Name] = d
	}

	var items []list.Item
	for _, name := range s.Report.Entries.Names() {
		d, ok := byName[name]
		if !ok {
			d = domain.ManifestDescriptor{Name: name, FilePath: domain.ManifestPath(s.Report.ManifestRoot, name)}
		}
		items = append(items, entryItem{
			name:     name,
			requests: s.Report.Entries[name],
			manifest: d,
		})
	}
	return items
}
