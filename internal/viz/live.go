package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/kgforce/internal/dynamo"
	"github.com/san-kum/kgforce/internal/engine"
	"github.com/san-kum/kgforce/internal/sched"
)

const (
	canvasPadX      = 2
	canvasPadY      = 1
	panelWidth      = 45
	historyCapacity = 600

	// layout pixels per terminal cell
	cellW = 10
	cellH = 20

	zoomStep = 1.25
)

type TickMsg time.Time

// StatusMsg replaces the status line, e.g. from an interaction callback.
type StatusMsg string

type ModelOption func(*Model)

func WithTheme(t Theme) ModelOption { return func(m *Model) { m.theme = t } }

func WithTitle(title string) ModelOption { return func(m *Model) { m.title = title } }

func WithFPS(fps int) ModelOption {
	return func(m *Model) {
		if fps > 0 {
			m.fps = fps
		}
	}
}

// Model is the live terminal view of one engine. The engine must use
// host as its frame source: frames run inside Update on each tick.
type Model struct {
	engine  *engine.Engine
	host    *sched.ManualHost
	surface *CanvasSurface
	vp      dynamo.Viewport

	theme  Theme
	title  string
	fps    int
	paused bool

	searching bool
	query     string
	status    string
	showHelp  bool

	lastTick      int
	energyHistory []float64
	alphaHistory  []float64
}

func NewModel(e *engine.Engine, host *sched.ManualHost, surface *CanvasSurface, vp dynamo.Viewport, opts ...ModelOption) Model {
	m := Model{
		engine:   e,
		host:     host,
		surface:  surface,
		vp:       vp,
		theme:    ThemeSlate,
		title:    "kgforce",
		fps:      60,
		lastTick: -1,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	m.engine.Start()
	return m.tick()
}

// Update handles input events and advances the layout.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.searching {
			m.searchKey(msg)
			return m, nil
		}
		switch msg.String() {
		case "q", "ctrl+c":
			m.engine.Detach()
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
			if m.paused {
				m.engine.Stop()
			} else {
				m.engine.Start()
			}
		case "r":
			m.engine.Relayout()
			m.energyHistory = m.energyHistory[:0]
			m.alphaHistory = m.alphaHistory[:0]
		case "t":
			m.theme = NextTheme(m.theme)
		case "+", "=":
			m.zoom(zoomStep)
		case "-", "_":
			m.zoom(1 / zoomStep)
		case "/":
			m.searching = true
			m.query = ""
		case "esc":
			m.engine.Search("")
		case "?":
			m.showHelp = !m.showHelp
		}

	case tea.MouseMsg:
		m.mouse(msg)

	case tea.WindowSizeMsg:
		cols := msg.Width - panelWidth - 2*canvasPadX - 2
		rows := msg.Height - 2*canvasPadY
		if cols > 0 && rows > 0 {
			m.surface.Resize(cols, rows)
			vp := m.vp
			vp.Width, vp.Height = float64(cols*cellW), float64(rows*cellH)
			m.vp = vp
			m.engine.Resize(vp)
		}

	case StatusMsg:
		m.status = string(msg)

	case TickMsg:
		m.host.Advance()
		m.record()
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) searchKey(msg tea.KeyMsg) {
	switch msg.Type {
	case tea.KeyEnter:
		m.engine.Search(m.query)
		m.searching = false
	case tea.KeyEsc:
		m.searching = false
		m.query = ""
	case tea.KeyBackspace:
		if r := []rune(m.query); len(r) > 0 {
			m.query = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		m.query += " "
	case tea.KeyRunes:
		m.query += string(msg.Runes)
	}
}

func (m *Model) mouse(msg tea.MouseMsg) {
	col, row := msg.X-canvasPadX, msg.Y-canvasPadY
	c := m.surface.Canvas()
	if col < 0 || row < 0 || col >= c.Width || row >= c.Height {
		m.engine.PointerLeave()
		return
	}
	p := m.surface.ToViewport(col, row, m.vp)

	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.zoom(zoomStep)
	case msg.Button == tea.MouseButtonWheelDown:
		m.zoom(1 / zoomStep)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		m.engine.PointerDown(p.X, p.Y)
	case msg.Action == tea.MouseActionRelease:
		m.engine.PointerUp(p.X, p.Y)
	case msg.Action == tea.MouseActionMotion:
		m.engine.PointerMove(p.X, p.Y)
	}
}

// zoom keeps m.vp in step with the engine so a later resize does not reset
// the zoom.
func (m *Model) zoom(factor float64) {
	m.vp.Zoom *= factor
	m.engine.Zoom(factor)
}

func (m *Model) record() {
	st := m.engine.Stats()
	if st.Tick == m.lastTick {
		return
	}
	m.lastTick = st.Tick
	m.energyHistory = appendCapped(m.energyHistory, st.Energy)
	m.alphaHistory = appendCapped(m.alphaHistory, st.Alpha)
}

func appendCapped(h []float64, v float64) []float64 {
	h = append(h, v)
	if len(h) > historyCapacity {
		h = h[len(h)-historyCapacity:]
	}
	return h
}

func (m Model) state() string {
	switch {
	case m.engine.Scheduler().Detached():
		return "DETACHED"
	case m.paused:
		return "PAUSED"
	case m.engine.Scheduler().Running():
		return "RUNNING"
	}
	return "SETTLED"
}

// View renders the TUI interface.
func (m Model) View() string {
	st := newStyles(m.theme)
	stats := m.engine.Stats()
	frame := m.engine.Frame()

	canvasView := st.canvas.Render(m.surface.Canvas().Render())

	var s strings.Builder
	s.WriteString(GradientText(strings.ToUpper(m.title), m.theme.Primary, m.theme.Accent) + "\n")
	s.WriteString(st.status.Render(m.state()) + "\n\n")

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Energy"))
		s.WriteString(st.graph.Render(chart) + "\n")
	}
	s.WriteString(st.label.Render("Alpha") + SparklineChart(m.alphaHistory, 20, st.value) + "\n\n")

	row := func(label, value string) {
		s.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}
	row("Nodes", fmt.Sprintf("%d", stats.Nodes))
	row("Edges", fmt.Sprintf("%d", stats.Edges))
	row("Tick", fmt.Sprintf("%d", stats.Tick))
	row("Alpha", fmt.Sprintf("%.4f", stats.Alpha))
	row("Energy", fmt.Sprintf("%.2f", stats.Energy))
	row("Zoom", fmt.Sprintf("%.2fx", zoomOf(frame.Viewport)))
	if stats.Corrected > 0 {
		s.WriteString(st.warn.Render(fmt.Sprintf("%d bodies repaired", stats.Corrected)) + "\n")
	}

	h := frame.Highlight
	if h.Focus != "" {
		row("Focus", h.Focus)
	}
	if len(h.Matches) > 0 {
		row("Matches", fmt.Sprintf("%d", len(h.Matches)))
	}
	if m.searching {
		s.WriteString("\n" + st.status.Render("/") + st.value.Render(m.query+"_") + "\n")
	}
	if m.status != "" {
		s.WriteString("\n" + st.value.Render(m.status) + "\n")
	}

	s.WriteString(st.help.Render("─────────────────────\nSP:Pause R:Relayout Q:Quit\nT:Theme  +/-:Zoom  /:Search\n?:Help"))
	statsView := st.panel.Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume layout      ║
║  R        - Relayout from scratch    ║
║  Q        - Quit                     ║
║  + / -    - Zoom in / out            ║
║  /        - Search node labels       ║
║  Esc      - Clear search             ║
║  T        - Cycle themes             ║
║  Mouse    - Drag, click, hover       ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}

func zoomOf(vp dynamo.Viewport) float64 {
	if vp.Zoom <= 0 {
		return 1
	}
	return vp.Zoom
}
