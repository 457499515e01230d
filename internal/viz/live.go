// Package viz renders a live terminal view of a running epidemic
// simulation: the selected compartment curve plus current parameters,
// with interactive rate adjustment.
package viz

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/episim/internal/epi"
)

const (
	graphWidth      = 80
	graphHeight     = 12
	historyCapacity = 600
)

type TickMsg time.Time

// Model holds the stepping state and UI context for the live view.
type Model struct {
	dyn     epi.Model
	stepper epi.Stepper
	state   epi.State
	t       float64
	dt      float64

	stepsPerTick int
	running      bool

	history  [][]float64 // one series per compartment
	selected int         // compartment shown in the graph

	params     map[string]float64
	paramKeys  []string
	paramIdx   int
	showHelp   bool
	statusLine string
}

func NewModel(dyn epi.Model, stepper epi.Stepper, dt float64, stepsPerTick int) Model {
	params := make(map[string]float64)
	if c, ok := dyn.(epi.Configurable); ok {
		for k, v := range c.GetParams() {
			params[k] = v
		}
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	// The curve includes the initial condition, not just post-step states.
	state := dyn.Initial()
	history := make([][]float64, len(dyn.Compartments()))
	for i := range history {
		history[i] = make([]float64, 0, historyCapacity)
		history[i] = append(history[i], state[i])
	}

	return Model{
		dyn:          dyn,
		stepper:      stepper,
		state:        state,
		dt:           dt,
		stepsPerTick: stepsPerTick,
		running:      true,
		history:      history,
		selected:     defaultCompartment(dyn),
		params:       params,
		paramKeys:    keys,
	}
}

// defaultCompartment prefers the infected curve when the model has one.
func defaultCompartment(dyn epi.Model) int {
	if idx := epi.CompartmentIndex(dyn, "I"); idx >= 0 {
		return idx
	}
	return 0
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TickMsg:
		if m.running {
			m.advance()
		}
		return m, tick()

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "left", "h":
			m.selected = (m.selected + len(m.history) - 1) % len(m.history)
		case "right", "l":
			m.selected = (m.selected + 1) % len(m.history)
		case "tab":
			if len(m.paramKeys) > 0 {
				m.paramIdx = (m.paramIdx + 1) % len(m.paramKeys)
			}
		case "up", "k":
			m.adjustParam(1.05)
		case "down", "j":
			m.adjustParam(1 / 1.05)
		case "?":
			m.showHelp = !m.showHelp
		}
	}

	return m, nil
}

func (m *Model) advance() {
	for i := 0; i < m.stepsPerTick; i++ {
		m.state = m.stepper.Step(m.dyn, m.state, m.dt)
		m.t += m.dt
	}
	for c := range m.history {
		m.history[c] = append(m.history[c], m.state[c])
		if len(m.history[c]) > historyCapacity {
			m.history[c] = m.history[c][1:]
		}
	}
}

func (m *Model) reset() {
	m.state = m.dyn.Initial()
	m.t = 0
	for c := range m.history {
		m.history[c] = m.history[c][:0]
		m.history[c] = append(m.history[c], m.state[c])
	}
	m.statusLine = "reset"
}

func (m *Model) adjustParam(factor float64) {
	if len(m.paramKeys) == 0 {
		return
	}
	c, ok := m.dyn.(epi.Configurable)
	if !ok {
		return
	}
	key := m.paramKeys[m.paramIdx]
	value := m.params[key] * factor
	if err := c.SetParam(key, value); err != nil {
		m.statusLine = err.Error()
		return
	}
	m.params[key] = value
	m.statusLine = fmt.Sprintf("%s = %.3g", key, value)
}

func (m Model) View() string {
	var b strings.Builder

	names := m.dyn.Compartments()
	b.WriteString(headerStyle.Render(fmt.Sprintf("episim live: %s  (R0 = %.3f)", m.dyn.Name(), m.dyn.R0())))
	b.WriteByte('\n')

	series := m.history[m.selected]
	if len(series) > 1 {
		graph := asciigraph.Plot(series,
			asciigraph.Height(graphHeight),
			asciigraph.Width(graphWidth),
			asciigraph.Caption(fmt.Sprintf("%s over time", names[m.selected])),
		)
		b.WriteString(graphStyle.Render(graph))
		b.WriteByte('\n')
	}

	var stats strings.Builder
	stats.WriteString(labelStyle.Render("t") + valueStyle.Render(fmt.Sprintf("%.1f days", m.t/86400)) + "\n")
	for c, name := range names {
		stats.WriteString(labelStyle.Render(name) + valueStyle.Render(fmt.Sprintf("%.1f", m.state[c])) + "\n")
	}
	stats.WriteString(labelStyle.Render("total") + valueStyle.Render(fmt.Sprintf("%.1f", m.state.Sum())) + "\n")

	for i, key := range m.paramKeys {
		line := fmt.Sprintf("%s = %.4g", key, m.params[key])
		if i == m.paramIdx {
			stats.WriteString(activeStyle.Render("> "+line) + "\n")
		} else {
			stats.WriteString(valueStyle.Render("  "+line) + "\n")
		}
	}
	b.WriteString(statsStyle.Render(stats.String()))
	b.WriteByte('\n')

	if m.statusLine != "" {
		b.WriteString(helpStyle.Render(m.statusLine))
		b.WriteByte('\n')
	}

	help := "space pause · r reset · ←/→ compartment · tab param · ↑/↓ adjust · q quit"
	if m.showHelp {
		help += " · adjustments scale the selected rate by 5%"
	}
	b.WriteString(helpStyle.Render(help))
	b.WriteByte('\n')

	return b.String()
}
