// Package tui hosts the interactive terminal session: a live top-down view
// of the animated field with the registered elements overlaid, driven by a
// real layout engine so parameter edits go through validation.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/driftlab/wavelayout/internal/cache"
	"github.com/driftlab/wavelayout/internal/config"
	"github.com/driftlab/wavelayout/internal/layout"
	"github.com/driftlab/wavelayout/internal/viz"
	"github.com/driftlab/wavelayout/internal/wavefield"
)

const (
	viewXMin = -2.0
	viewXMax = 2.0
	viewZMin = -2.0
	viewZMax = 2.0
)

type model struct {
	engine *layout.Engine
	cfg    *config.Config
	params wavefield.Params
	ids    []cache.ID

	t      float64
	dt     float64
	paused bool

	status    string
	tickHist  []float64
	lastFrame time.Time
	fps       float64

	width  int
	height int
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(16*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// NewLiveModel builds the session model and registers the configured
// element grid with the engine.
func NewLiveModel(cfg *config.Config) (*model, error) {
	eng, err := layout.NewWithParams(cfg.Engine, cfg.Params)
	if err != nil {
		return nil, err
	}

	ids := registerGrid(eng, cfg.Session.Elements, cfg.Session.Columns)

	return &model{
		engine:   eng,
		cfg:      cfg,
		params:   cfg.Params,
		ids:      ids,
		dt:       1.0 / cfg.Session.TickRate,
		tickHist: make([]float64, 0, 60),
		width:    80,
		height:   24,
	}, nil
}

// registerGrid places count elements on a columns-wide block of grid
// coordinates starting at the grid origin.
func registerGrid(eng *layout.Engine, count, columns int) []cache.ID {
	if columns < 1 {
		columns = 1
	}

	ids := make([]cache.ID, 0, count)
	for i := 0; i < count; i++ {
		gc := cache.GridCoord{
			X: int32(i % columns),
			Z: int32(i / columns),
		}
		ids = append(ids, eng.Register(gc))
	}
	return ids
}

func (m *model) Init() tea.Cmd { return tick() }

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		if !m.paused {
			now := time.Now()
			if !m.lastFrame.IsZero() {
				if dt := now.Sub(m.lastFrame).Seconds(); dt > 0 {
					m.fps = 1.0 / dt
				}
			}
			m.lastFrame = now

			m.t += m.dt
			m.engine.Tick(m.t)

			stats := m.engine.LastStats()
			m.tickHist = append(m.tickHist, float64(stats.ElapsedMicros))
			if len(m.tickHist) > 60 {
				m.tickHist = m.tickHist[1:]
			}
		}
		return m, tick()
	}
	return m, nil
}

func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "escape":
		return m, tea.Quit
	case " ", "p":
		m.paused = !m.paused
		m.lastFrame = time.Time{}
	case "+", "=":
		m.adjustAmplitude(1.15)
	case "-", "_":
		m.adjustAmplitude(1 / 1.15)
	case "i":
		next := m.params
		next.InterferenceEnabled = !next.InterferenceEnabled
		m.applyParams(next, "interference toggled")
	case "r":
		m.applyParams(m.cfg.Params, "parameters reset")
	}
	return m, nil
}

func (m *model) adjustAmplitude(factor float64) {
	next := m.params
	next.Primary.Amplitude *= factor
	next.Secondary.Amplitude *= factor
	next.Tertiary.Amplitude *= factor
	m.applyParams(next, fmt.Sprintf("amplitude x%.2f", factor))
}

// applyParams routes the edit through the engine's validator and surfaces
// the first violation when it is rejected.
func (m *model) applyParams(next wavefield.Params, action string) {
	res := m.engine.SetParams(next)
	if res.Valid {
		m.params = next
		m.status = action
		return
	}
	if len(res.Violations) > 0 {
		v := res.Violations[0]
		m.status = fmt.Sprintf("rejected: %s %s %.3g (limit %.3g)", v.Kind, v.Field, v.Value, v.Limit)
	} else {
		m.status = "rejected"
	}
}

func (m *model) View() string {
	cols := m.width - 8
	rows := m.height - 12
	if cols < 40 {
		cols = 40
	}
	if rows < 10 {
		rows = 10
	}

	lines := viz.FieldHeatmap(m.params, m.t, viewXMin, viewXMax, viewZMin, viewZMax, cols, rows)
	canvas := make([][]rune, len(lines))
	for i, line := range lines {
		canvas[i] = []rune(line)
	}
	m.overlayElements(canvas, cols, rows)

	var b strings.Builder

	status := viz.StatusOK.Render("● running")
	if m.paused {
		status = viz.StatusWarn.Render("○ paused")
	}
	degraded := ""
	if m.engine.Degraded() {
		degraded = "  " + viz.StatusBad.Render("degraded")
	}
	b.WriteString(fmt.Sprintf("\n   %s  %s%s\n\n", viz.Title.Render("wavelayout"), status, degraded))

	for _, row := range canvas {
		b.WriteString("   " + string(row) + "\n")
	}

	stats := m.engine.Perf()
	b.WriteString(fmt.Sprintf("\n   %s %s   %s %s   %s %s   %s %s\n",
		viz.MetricLabel.Render("elements"),
		viz.MetricValue.Render(fmt.Sprintf("%d", m.engine.Len())),
		viz.MetricLabel.Render("tick"),
		viz.MetricValue.Render(fmt.Sprintf("%v", stats.AvgTick.Round(time.Microsecond))),
		viz.MetricLabel.Render("p95"),
		viz.MetricValue.Render(fmt.Sprintf("%v", stats.P95Tick.Round(time.Microsecond))),
		viz.MetricLabel.Render("fps"),
		viz.MetricValue.Render(fmt.Sprintf("%.0f", m.fps)),
	))

	if len(m.tickHist) > 1 {
		b.WriteString(fmt.Sprintf("   %s %s\n",
			viz.MetricLabel.Render("tick µs"),
			viz.MetricValue.Render(sparkline(m.tickHist, 32))))
	}

	if m.status != "" {
		b.WriteString("   " + viz.Subtle.Render(m.status) + "\n")
	}

	b.WriteString("\n" + viz.KeyHint.Render("   space pause  +/- amplitude  i interference  r reset  q quit") + "\n")

	return b.String()
}

// overlayElements marks each registered element's XZ position on the
// heatmap, brighter when its breathing scale is above baseline.
func (m *model) overlayElements(canvas [][]rune, cols, rows int) {
	base := m.cfg.Engine.Breathing.BaseScale
	for _, id := range m.ids {
		pos, ok := m.engine.PositionOf(id)
		if !ok {
			continue
		}
		c := int((pos.X - viewXMin) / (viewXMax - viewXMin) * float64(cols-1))
		r := int((pos.Z - viewZMin) / (viewZMax - viewZMin) * float64(rows-1))
		if r < 0 || r >= rows || c < 0 || c >= cols {
			continue
		}

		marker := '○'
		if br, ok := m.engine.BreathingOf(id); ok && br.Scale > base {
			marker = '●'
		}
		canvas[r][c] = marker
	}
}

func sparkline(data []float64, width int) string {
	if len(data) == 0 {
		return ""
	}
	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	minVal, maxVal := data[0], data[0]
	for _, v := range data {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	rang := maxVal - minVal
	if rang == 0 {
		rang = 1
	}
	step := len(data) / width
	if step < 1 {
		step = 1
	}
	var sb strings.Builder
	for i := 0; i < width && i*step < len(data); i++ {
		idx := int((data[i*step] - minVal) / rang * 7)
		if idx > 7 {
			idx = 7
		}
		if idx < 0 {
			idx = 0
		}
		sb.WriteRune(chars[idx])
	}
	return sb.String()
}

// RunLive starts the interactive session in the alternate screen.
func RunLive(cfg *config.Config) error {
	m, err := NewLiveModel(cfg)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
