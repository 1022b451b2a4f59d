package sim

import (
	"fmt"
	"os"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"ecopulse-sim/internal/health"
	"ecopulse-sim/internal/prefs"
)

// teaProgram abstracts bubbletea.Program for testing.
type teaProgram interface {
	Send(tea.Msg)
}

type readingMsg struct{ Reading }

type prefsMsg struct{ p prefs.Preferences }

type saveErrMsg struct{ err error }

// adminMsg reports admin server status.
type adminMsg struct{ active bool }

const (
	maxLogLines   = 200
	maxBarWidth   = 50
	sensorColumns = 3
)

type palette struct {
	text   lipgloss.Color
	muted  lipgloss.Color
	accent lipgloss.Color
	border lipgloss.Color
}

var palettes = map[prefs.Theme]palette{
	prefs.ThemeLight: {text: "235", muted: "243", accent: "28", border: "250"},
	prefs.ThemeDark:  {text: "252", muted: "245", accent: "86", border: "238"},
}

var statusColors = map[health.Status]lipgloss.Color{
	health.StatusExcellent: "10",
	health.StatusGood:      "14",
	health.StatusModerate:  "11",
	health.StatusPoor:      "13",
	health.StatusCritical:  "9",
}

// TUIWriter renders readings using a bubbletea TUI.
type TUIWriter struct {
	program    teaProgram
	done       chan struct{}
	sendSignal atomic.Bool
}

// NewTUIWriter starts a bubbletea program and returns a TUIWriter. save is
// called when the user changes language or theme from the keyboard.
func NewTUIWriter(stationID string, initial prefs.Preferences, env prefs.Environment, save func(prefs.Preferences) error) *TUIWriter {
	w := &TUIWriter{done: make(chan struct{})}
	w.sendSignal.Store(true)
	m := newTUIModel(stationID, initial, env, save)
	p := tea.NewProgram(m, tea.WithAltScreen())
	w.program = p
	go func() {
		_, _ = p.Run()
		close(w.done)
		// quitting the dashboard stops the whole simulator
		if w.sendSignal.Load() {
			if proc, err := os.FindProcess(os.Getpid()); err == nil {
				_ = proc.Signal(os.Interrupt)
			}
		}
	}()
	return w
}

// Write implements ReadingWriter.
func (w *TUIWriter) Write(r Reading) error {
	w.program.Send(readingMsg{r})
	return nil
}

// WriteBatch outputs multiple readings.
func (w *TUIWriter) WriteBatch(rows []Reading) error {
	for _, r := range rows {
		_ = w.Write(r)
	}
	return nil
}

// SetPreferences pushes a preference change into the dashboard.
func (w *TUIWriter) SetPreferences(p prefs.Preferences) {
	w.program.Send(prefsMsg{p: p})
}

// SetAdminStatus updates the admin server indicator.
func (w *TUIWriter) SetAdminStatus(active bool) {
	w.program.Send(adminMsg{active: active})
}

// Close shuts down the TUI program and waits for cleanup.
func (w *TUIWriter) Close() error {
	w.sendSignal.Store(false)
	if w.program != nil {
		w.program.Send(tea.Quit())
	}
	if w.done != nil {
		<-w.done
	}
	return nil
}

type tuiModel struct {
	stationID   string
	env         prefs.Environment
	save        func(prefs.Preferences) error
	prefs       prefs.Preferences
	resolved    prefs.Resolved
	reading     Reading
	haveReading bool
	table       table.Model
	bar         progress.Model
	vp          viewport.Model
	logs        []string
	width       int
	height      int
	showActions bool
	autoscroll  bool
	wrap        bool
	help        bool
	admin       bool
	lastErr     error
}

func newTUIModel(stationID string, initial prefs.Preferences, env prefs.Environment, save func(prefs.Preferences) error) tuiModel {
	if env == nil {
		env = prefs.OSEnvironment{}
	}
	m := tuiModel{
		stationID:   stationID,
		env:         env,
		save:        save,
		bar:         progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage(), progress.WithWidth(maxBarWidth)),
		vp:          viewport.New(0, 0),
		showActions: true,
		autoscroll:  true,
	}
	m.table = table.New(table.WithHeight(9))
	m.applyPrefs(initial)
	return m
}

func (m *tuiModel) applyPrefs(p prefs.Preferences) {
	m.prefs = p
	m.resolved = prefs.Resolve(p, m.env)
	pal := palettes[m.resolved.Theme]
	st := table.DefaultStyles()
	st.Header = st.Header.Foreground(pal.accent).BorderForeground(pal.border).Bold(true)
	st.Cell = st.Cell.Foreground(pal.text)
	st.Selected = st.Selected.Foreground(pal.text).Bold(false)
	m.table.SetStyles(st)
	m.table.SetRows(nil)
	m.table.SetColumns(m.columns())
	m.table.SetRows(m.sensorRows())
}

func (m tuiModel) t(key string) string { return prefs.T(m.resolved.Language, key) }

func (m tuiModel) statusLabel(s health.Status) string {
	return m.t("sensors.status." + s.String())
}

func (m tuiModel) columns() []table.Column {
	w := m.width / sensorColumns
	if w < 14 {
		w = 14
	}
	return []table.Column{
		{Title: m.t("sensors.title"), Width: w + 6},
		{Title: m.t("sensors.value"), Width: 8},
		{Title: m.t("sensors.status"), Width: 12},
	}
}

func (m tuiModel) sensorRows() []table.Row {
	if !m.haveReading {
		return nil
	}
	s := m.reading.Snapshot
	a := m.reading.Assessment
	return []table.Row{
		{m.t("sensors.airQuality"), fmt.Sprintf("%d", s.AirQuality), m.statusLabel(a.Air)},
		{"  " + m.t("sensors.co2"), fmt.Sprintf("%d ppm", s.AirCO2), ""},
		{"  " + m.t("sensors.pm25"), fmt.Sprintf("%d", s.AirPM25), ""},
		{m.t("sensors.waterPurity"), fmt.Sprintf("%d", s.WaterPurity), m.statusLabel(a.Water)},
		{"  " + m.t("sensors.ph"), fmt.Sprintf("%.1f", s.WaterPH), ""},
		{"  " + m.t("sensors.turbidity"), fmt.Sprintf("%d", s.WaterTurbidity), ""},
		{m.t("sensors.soilMoisture"), fmt.Sprintf("%d", s.SoilMoisture), m.statusLabel(a.Soil)},
		{m.t("sensors.biodiversity"), fmt.Sprintf("%d", s.Biodiversity), m.statusLabel(a.Biodiversity)},
	}
}

func (m tuiModel) persist(p prefs.Preferences) tea.Cmd {
	if m.save == nil {
		return nil
	}
	save := m.save
	return func() tea.Msg {
		if err := save(p); err != nil {
			return saveErrMsg{err: err}
		}
		return nil
	}
}

func (m tuiModel) Init() tea.Cmd { return nil }

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		bw := msg.Width - 30
		if bw > maxBarWidth {
			bw = maxBarWidth
		}
		if bw < 10 {
			bw = 10
		}
		m.bar.Width = bw
		m.table.SetColumns(m.columns())
		m.vp.Width = msg.Width
		m.updateViewportHeight()
		m.refreshViewport()
	case readingMsg:
		m.reading = msg.Reading
		m.haveReading = true
		m.logs = append(m.logs, logLine(msg.Reading))
		if len(m.logs) > maxLogLines {
			m.logs = m.logs[len(m.logs)-maxLogLines:]
		}
		m.table.SetRows(m.sensorRows())
		m.updateViewportHeight()
		m.refreshViewport()
	case prefsMsg:
		m.applyPrefs(msg.p)
		m.updateViewportHeight()
	case saveErrMsg:
		m.lastErr = msg.err
	case adminMsg:
		m.admin = msg.active
	case tea.KeyMsg:
		if m.help {
			switch msg.String() {
			case "h", "?", "esc", "q":
				m.help = false
			}
			return m, nil
		}
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "l":
			p := m.prefs
			p.Language = p.Language.Next()
			m.applyPrefs(p)
			return m, m.persist(p)
		case "t":
			p := m.prefs
			p.Theme = p.Theme.Next()
			m.applyPrefs(p)
			return m, m.persist(p)
		case "a":
			m.showActions = !m.showActions
			m.updateViewportHeight()
		case "w":
			m.wrap = !m.wrap
			m.refreshViewport()
		case "s":
			m.autoscroll = !m.autoscroll
			if m.autoscroll {
				m.vp.GotoBottom()
			}
		case "h", "?":
			m.help = true
		default:
			if !m.autoscroll {
				var cmd tea.Cmd
				m.vp, cmd = m.vp.Update(msg)
				return m, cmd
			}
		}
	}
	return m, nil
}

func logLine(r Reading) string {
	s := r.Snapshot
	return fmt.Sprintf("[%s] health=%d %s air=%d water=%d ph=%.1f soil=%d bio=%d",
		r.Timestamp.Format("15:04:05"), r.PlanetHealth, r.Overall,
		s.AirQuality, s.WaterPurity, s.WaterPH, s.SoilMoisture, s.Biodiversity)
}

func (m *tuiModel) updateViewportHeight() {
	used := lipgloss.Height(m.renderHeader()) + lipgloss.Height(m.table.View()) + lipgloss.Height(m.renderBottom()) + 3
	if m.showActions {
		used += lipgloss.Height(m.renderActions()) + 1
	}
	h := m.height - used
	if h < 0 {
		h = 0
	}
	m.vp.Height = h
	if m.autoscroll {
		m.vp.GotoBottom()
	}
}

func (m *tuiModel) refreshViewport() {
	var lines []string
	for _, l := range m.logs {
		if m.wrap && m.vp.Width > 0 {
			lines = append(lines, wordwrap.String(l, m.vp.Width))
		} else {
			lines = append(lines, l)
		}
	}
	m.vp.SetContent(strings.Join(lines, "\n"))
	if m.autoscroll {
		m.vp.GotoBottom()
	}
}

// align right-aligns blocks when the resolved language is right-to-left.
func (m tuiModel) align(s string) string {
	if !m.resolved.RTL || m.width <= 0 {
		return s
	}
	return lipgloss.NewStyle().Width(m.width).Align(lipgloss.Right).Render(s)
}

func (m tuiModel) View() string {
	if m.help {
		return m.renderHelp()
	}
	divider := lipgloss.NewStyle().Foreground(palettes[m.resolved.Theme].border).Render(strings.Repeat("─", m.vp.Width))
	sections := []string{
		m.align(m.renderHeader()),
		divider,
		m.align(m.table.View()),
	}
	if m.showActions {
		sections = append(sections, divider, m.align(m.renderActions()))
	}
	sections = append(sections, divider, m.vp.View(), divider, m.align(m.renderBottom()))
	return strings.Join(sections, "\n")
}

func (m tuiModel) renderHeader() string {
	pal := palettes[m.resolved.Theme]
	title := lipgloss.NewStyle().Foreground(pal.accent).Bold(true).Render("EcoPulse")
	station := lipgloss.NewStyle().Foreground(pal.muted).Render(m.stationID)
	label := lipgloss.NewStyle().Foreground(pal.text).Render(m.t("health.title"))
	if !m.haveReading {
		return fmt.Sprintf("%s %s\n%s: -", title, station, label)
	}
	a := m.reading.Assessment
	status := lipgloss.NewStyle().Foreground(statusColors[a.Overall]).Bold(true).Render(m.statusLabel(a.Overall))
	bar := m.bar.ViewAs(float64(a.PlanetHealth) / 100)
	return fmt.Sprintf("%s %s\n%s: %s %d%% %s", title, station, label, bar, a.PlanetHealth, status)
}

func (m tuiModel) renderActions() string {
	pal := palettes[m.resolved.Theme]
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(pal.accent).Bold(true).Render(m.t("actions.title")))
	b.WriteString(" ")
	b.WriteString(lipgloss.NewStyle().Foreground(pal.muted).Render(m.t("actions.subtitle")))
	if !m.haveReading {
		return b.String()
	}
	for _, a := range health.Recommend(m.reading.Snapshot) {
		icon := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render("✓")
		if a.Level == health.LevelWarning {
			icon = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Render("!")
		}
		line := fmt.Sprintf("%s %s", icon, m.t(a.MessageKey))
		if m.wrap && m.width > 0 {
			line = wordwrap.String(line, m.width)
		}
		b.WriteString("\n" + line)
	}
	return b.String()
}

func indicator(on bool) string {
	c := lipgloss.Color("9")
	if on {
		c = lipgloss.Color("10")
	}
	return lipgloss.NewStyle().Foreground(c).Render("●")
}

func (m tuiModel) renderBottom() string {
	line := fmt.Sprintf("%s: %s | %s: %s | Admin %s | Actions %s | Wrap %s | Scroll %s | h help",
		m.t("settings.language"), m.prefs.Language,
		m.t("settings.theme"), m.t("settings."+string(m.prefs.Theme)),
		indicator(m.admin), indicator(m.showActions), indicator(m.wrap), indicator(m.autoscroll))
	if m.lastErr != nil {
		line += "\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Render("preferences: "+m.lastErr.Error())
	}
	return line
}

func (m tuiModel) renderHelp() string {
	lines := []string{
		"Key Bindings:",
		" q  quit",
		" l  cycle language (en, ar, system)",
		" t  cycle theme (light, dark, system)",
		" a  toggle eco actions",
		" w  toggle wrap",
		" s  toggle auto-scroll",
		" h/? toggle this help view",
		"",
		"When auto-scroll is disabled:",
		" j/k or up/down    scroll one line",
		" pgdown/pgup       scroll a page",
	}
	return strings.Join(lines, "\n")
}
