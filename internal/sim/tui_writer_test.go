package sim

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"ecopulse-sim/internal/prefs"
	"ecopulse-sim/internal/sensor"
)

type fakeProgram struct{ msgs []tea.Msg }

func (f *fakeProgram) Send(msg tea.Msg) { f.msgs = append(f.msgs, msg) }

var englishLight = prefs.StaticEnvironment{SystemLocale: "en_US.UTF-8"}

func TestTUIWriterMessages(t *testing.T) {
	p := &fakeProgram{}
	w := &TUIWriter{program: p}
	if err := w.Write(sampleReading()); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, ok := p.msgs[0].(readingMsg); !ok {
		t.Fatalf("expected readingMsg, got %T", p.msgs[0])
	}
	w.SetPreferences(prefs.Default())
	if _, ok := p.msgs[1].(prefsMsg); !ok {
		t.Fatalf("expected prefsMsg, got %T", p.msgs[1])
	}
	w.SetAdminStatus(true)
	if _, ok := p.msgs[2].(adminMsg); !ok {
		t.Fatalf("expected adminMsg, got %T", p.msgs[2])
	}
}

func TestTUIAdminIndicator(t *testing.T) {
	m := newTUIModel("st", prefs.Default(), englishLight, nil)
	m, _ = update(t, m, adminMsg{active: true})
	if !m.admin {
		t.Fatalf("admin status not applied")
	}
}

func update(t *testing.T, m tuiModel, msg tea.Msg) (tuiModel, tea.Cmd) {
	t.Helper()
	mi, cmd := m.Update(msg)
	return mi.(tuiModel), cmd
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestTUIRendersReading(t *testing.T) {
	m := newTUIModel("st-1", prefs.Default(), englishLight, nil)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	m, _ = update(t, m, readingMsg{sampleReading()})

	view := m.View()
	for _, want := range []string{"EcoPulse", "st-1", "Planet Health", "Air Quality", "Good", "Eco Actions"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if len(m.table.Rows()) != 8 {
		t.Fatalf("expected 8 sensor rows, got %d", len(m.table.Rows()))
	}
	if len(m.logs) != 1 {
		t.Fatalf("expected one log line, got %d", len(m.logs))
	}
}

func TestTUILanguageCyclePersists(t *testing.T) {
	var saved []prefs.Preferences
	save := func(p prefs.Preferences) error {
		saved = append(saved, p)
		return nil
	}
	start := prefs.Preferences{Language: prefs.LanguageEnglish, Theme: prefs.ThemeLight}
	m := newTUIModel("st", start, englishLight, save)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	m, _ = update(t, m, readingMsg{sampleReading()})

	m, cmd := update(t, m, key("l"))
	if m.prefs.Language != prefs.LanguageArabic || !m.resolved.RTL {
		t.Fatalf("expected arabic RTL, got %+v", m.resolved)
	}
	if cmd == nil {
		t.Fatalf("expected persist command")
	}
	cmd()
	if len(saved) != 1 || saved[0].Language != prefs.LanguageArabic {
		t.Fatalf("preferences not saved: %+v", saved)
	}
	if !strings.Contains(m.View(), "صحة الكوكب") {
		t.Fatalf("view not localized")
	}
}

func TestTUIThemeCycleAndSystemResolution(t *testing.T) {
	env := prefs.StaticEnvironment{SystemLocale: "ar_EG.UTF-8", Dark: true}
	m := newTUIModel("st", prefs.Default(), env, nil)
	if m.resolved.Language != prefs.LanguageArabic || m.resolved.Theme != prefs.ThemeDark {
		t.Fatalf("system not resolved from environment: %+v", m.resolved)
	}
	m, _ = update(t, m, key("t"))
	if m.prefs.Theme != prefs.ThemeLight || m.resolved.Theme != prefs.ThemeLight {
		t.Fatalf("theme should cycle system -> light, got %+v", m.prefs)
	}
}

func TestTUIPrefsMsgAndSaveError(t *testing.T) {
	m := newTUIModel("st", prefs.Default(), englishLight, nil)
	m, _ = update(t, m, prefsMsg{p: prefs.Preferences{Language: prefs.LanguageArabic, Theme: prefs.ThemeDark}})
	if m.resolved.Language != prefs.LanguageArabic || m.resolved.Theme != prefs.ThemeDark {
		t.Fatalf("external change not applied: %+v", m.resolved)
	}
	m, _ = update(t, m, saveErrMsg{err: errors.New("read-only")})
	if !strings.Contains(m.renderBottom(), "read-only") {
		t.Fatalf("save error not shown")
	}
}

func TestTUIActionsToggleAndQuit(t *testing.T) {
	m := newTUIModel("st", prefs.Default(), englishLight, nil)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 30})
	low := NewReading("st", sensor.Snapshot{AirQuality: 50, AirCO2: 400, AirPM25: 10, WaterPurity: 60, WaterPH: 7, WaterTurbidity: 2, SoilMoisture: 40, Biodiversity: 55}, sampleReading().Timestamp)
	m, _ = update(t, m, readingMsg{low})
	if !strings.Contains(m.View(), "Soil moisture is low") {
		t.Fatalf("warning action missing")
	}
	m, _ = update(t, m, key("a"))
	if strings.Contains(m.View(), "Eco Actions") {
		t.Fatalf("actions should be hidden")
	}
	_, cmd := update(t, m, key("q"))
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected QuitMsg")
	}
}

func TestTUIHelpView(t *testing.T) {
	m := newTUIModel("st", prefs.Default(), englishLight, nil)
	m, _ = update(t, m, key("?"))
	if !strings.Contains(m.View(), "Key Bindings:") {
		t.Fatalf("help not shown")
	}
	m, _ = update(t, m, key("q"))
	if m.help {
		t.Fatalf("q should close help")
	}
}
