package tui

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/deskgrid/internal/config"
	"github.com/1broseidon/deskgrid/internal/geom"
	"github.com/1broseidon/deskgrid/internal/preview"
	"github.com/1broseidon/deskgrid/internal/scenario"
	"github.com/1broseidon/deskgrid/internal/tiling"
)

const inlineProfile = "inline"

// Model is the bubbletea model of the layout playground.
type Model struct {
	cfg     *config.Config
	title   string
	desktop geom.Rect
	inline  *config.Profile

	profiles   []string
	profileIdx int

	tasks    []tiling.OriginalTaskBounds
	layout   []tiling.LayoutResult
	path     tiling.Path
	selected int
	nextID   int
	rng      *rand.Rand

	status string
	keys   keyMap
	help   help.Model

	width  int
	height int
}

// NewModel starts a playground from sc. Profiles come from cfg, or from the
// builtin set when cfg is nil.
func NewModel(sc *scenario.Scenario, cfg *config.Config) Model {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	m := Model{
		cfg:     cfg,
		title:   sc.Title(),
		desktop: sc.Desktop.Rect(),
		inline:  sc.Layout,
		tasks:   sc.OriginalTasks(),
		rng:     rand.New(rand.NewPCG(uint64(len(sc.Tasks)), 42)),
		keys:    defaultKeyMap(),
		help:    help.New(),
	}

	if sc.Layout != nil {
		m.profiles = append(m.profiles, inlineProfile)
	}
	m.profiles = append(m.profiles, cfg.ProfileNames()...)

	start := sc.Profile
	if start == "" && sc.Layout == nil {
		start = cfg.DefaultProfile
	}
	for i, name := range m.profiles {
		if name == start {
			m.profileIdx = i
		}
	}

	for _, t := range m.tasks {
		m.nextID = max(m.nextID, t.TaskID)
	}
	m.nextID++

	m.organize()
	return m
}

func (m Model) profileName() string {
	if len(m.profiles) == 0 {
		return ""
	}
	return m.profiles[m.profileIdx]
}

func (m Model) layoutConfig() (tiling.LayoutConfig, error) {
	name := m.profileName()
	if name == inlineProfile && m.inline != nil {
		return m.inline.LayoutConfig(m.desktop), nil
	}
	profile, err := m.cfg.GetProfile(name)
	if err != nil {
		return tiling.LayoutConfig{}, err
	}
	return profile.LayoutConfig(m.desktop), nil
}

func (m *Model) organize() {
	lc, err := m.layoutConfig()
	if err != nil {
		m.status = err.Error()
		return
	}
	m.layout = tiling.Organize(m.tasks, lc)
	m.path = tiling.PathFull
	m.keepSelection()
}

func (m *Model) dismiss() {
	if m.selected == 0 {
		m.status = "nothing selected"
		return
	}
	lc, err := m.layoutConfig()
	if err != nil {
		m.status = err.Error()
		return
	}

	id := m.selected
	next := m.neighbour(1)
	m.layout, m.path = tiling.Reorganize(m.tasks, lc, m.layout, &id)

	remaining := m.tasks[:0:0]
	for _, t := range m.tasks {
		if t.TaskID != id {
			remaining = append(remaining, t)
		}
	}
	m.tasks = remaining
	m.status = fmt.Sprintf("dismissed window %d", id)

	if next == id {
		next = 0
	}
	m.selected = next
	m.keepSelection()
}

func (m *Model) add() {
	t := scenario.RandomTask(m.rng, m.nextID, m.desktop)
	m.nextID++
	m.tasks = append(m.tasks, tiling.OriginalTaskBounds{TaskID: t.ID, Bounds: t.Bounds.Rect()})
	m.organize()
	m.selected = t.ID
	m.keepSelection()
	m.status = fmt.Sprintf("added window %d (%dx%d)", t.ID, t.Bounds.Rect().Width(), t.Bounds.Rect().Height())
}

// renderedIDs lists the ids on screen in layout order.
func (m Model) renderedIDs() []int {
	var ids []int
	for _, r := range m.layout {
		if _, ok := r.(tiling.Rendered); ok {
			ids = append(ids, r.ID())
		}
	}
	return ids
}

// neighbour returns the rendered id delta steps away from the selection,
// wrapping around.
func (m Model) neighbour(delta int) int {
	ids := m.renderedIDs()
	if len(ids) == 0 {
		return 0
	}
	for i, id := range ids {
		if id == m.selected {
			return ids[((i+delta)%len(ids)+len(ids))%len(ids)]
		}
	}
	return ids[0]
}

// keepSelection moves the selection to a rendered window when the current
// one is gone or hidden.
func (m *Model) keepSelection() {
	ids := m.renderedIDs()
	for _, id := range ids {
		if id == m.selected {
			return
		}
	}
	if len(ids) > 0 {
		m.selected = ids[0]
	} else {
		m.selected = 0
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		m.status = ""
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Prev):
			m.selected = m.neighbour(-1)
		case key.Matches(msg, m.keys.Next):
			m.selected = m.neighbour(1)
		case key.Matches(msg, m.keys.Dismiss):
			m.dismiss()
		case key.Matches(msg, m.keys.Add):
			m.add()
		case key.Matches(msg, m.keys.Reflow):
			m.organize()
		case key.Matches(msg, m.keys.Profile):
			if len(m.profiles) > 0 {
				m.profileIdx = (m.profileIdx + 1) % len(m.profiles)
				m.organize()
				m.status = "profile " + m.profileName()
			}
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	width, height := m.width, m.height
	if width == 0 || height == 0 {
		width, height = 80, 24
	}

	title := titleStyle.Render("deskgrid playground • " + m.title)
	statusBar := renderStatusBar(m.profileName(), string(m.path), preview.Summary(m.layout), width)
	helpView := noteStyle.Render(m.help.View(m.keys))

	var notes []string
	if hidden := preview.HiddenLine(m.layout); hidden != "" {
		notes = append(notes, hiddenStyle.Render(hidden))
	}
	if m.selected != 0 {
		notes = append(notes, fmt.Sprintf("selected: %d", m.selected))
	}
	if m.status != "" {
		notes = append(notes, m.status)
	}
	noteLine := noteStyle.Render(strings.Join(notes, "  "))

	used := lipgloss.Height(title) + lipgloss.Height(statusBar) + lipgloss.Height(noteLine) + lipgloss.Height(helpView)
	cw, ch := preview.FitCanvas(m.desktop, width, max(height-used, 3))
	canvas := strings.Join(preview.ASCII(m.desktop, m.layout, cw, ch, m.selected), "\n")

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		statusBar,
		canvas,
		noteLine,
		helpView,
	)
}
