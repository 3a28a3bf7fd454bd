package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/aalvaropc/brixcalc/internal/domain"
	"github.com/aalvaropc/brixcalc/internal/usecase"
)

func testDeps() Deps {
	cfg := domain.DefaultConfig()
	return Deps{
		Config:  cfg,
		Compute: usecase.NewComputeBalance(usecase.NewLocalCalculator(cfg.NewCalculator())),
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "ctrl+e":
		return tea.KeyMsg{Type: tea.KeyCtrlE}
	case "ctrl+r":
		return tea.KeyMsg{Type: tea.KeyCtrlR}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// send applies msg and runs the returned command once, feeding any
// balanceComputedMsg back into the model.
func send(t *testing.T, m model, msg tea.Msg) model {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(model)
	if cmd == nil {
		return m
	}
	return drain(t, m, cmd())
}

func drain(t *testing.T, m model, msg tea.Msg) model {
	t.Helper()
	switch v := msg.(type) {
	case balanceComputedMsg:
		next, _ := m.Update(v)
		return next.(model)
	case tea.BatchMsg:
		for _, c := range v {
			if c != nil {
				m = drain(t, m, c())
			}
		}
	}
	return m
}

func TestNewModel_PrefillsDefaults(t *testing.T) {
	m := newModel(testDeps())
	want := []string{"50", "7", "10"}
	for i, w := range want {
		if got := m.inputs[i].Value(); got != w {
			t.Fatalf("input %d: expected %q, got %q", i, w, got)
		}
	}
	if m.focus != fieldMass {
		t.Fatalf("expected focus on mass")
	}
	if !strings.Contains(m.View(), "press enter to calculate") {
		t.Fatalf("expected info hint before first calculation")
	}
}

func TestEnterCalculates(t *testing.T) {
	m := send(t, newModel(testDeps()), key("enter"))

	if !m.computed || m.err != nil {
		t.Fatalf("expected a result, got err=%v", m.err)
	}
	view := m.View()
	for _, want := range []string{"1.67 kg", "51.67 kg"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in view:\n%s", want, view)
		}
	}
}

func TestFocusCycles(t *testing.T) {
	m := newModel(testDeps())
	m = send(t, m, key("tab"))
	if m.focus != fieldBrix {
		t.Fatalf("expected focus on brix, got %d", m.focus)
	}
	m = send(t, m, key("tab"))
	m = send(t, m, key("tab"))
	if m.focus != fieldMass {
		t.Fatalf("expected focus to wrap to mass, got %d", m.focus)
	}
	m = send(t, m, key("shift+tab"))
	if m.focus != fieldTarget {
		t.Fatalf("expected focus to wrap back to target, got %d", m.focus)
	}
}

func TestInfeasibleShowsBanner(t *testing.T) {
	m := newModel(testDeps())
	m.inputs[fieldTarget].SetValue("100")
	m = send(t, m, key("enter"))

	if !domain.IsKind(m.err, domain.KindInfeasible) {
		t.Fatalf("expected infeasible, got %v", m.err)
	}
	if !strings.Contains(m.View(), "must be lower than the sweetener") {
		t.Fatalf("expected infeasible banner:\n%s", m.View())
	}
}

func TestNonNumericInput(t *testing.T) {
	m := newModel(testDeps())
	m.inputs[fieldMass].SetValue("abc")
	m = send(t, m, key("enter"))

	if !domain.IsKind(m.err, domain.KindInvalidInput) {
		t.Fatalf("expected invalid input, got %v", m.err)
	}
	if !strings.Contains(m.View(), "Initial mass must be a number") {
		t.Fatalf("expected field message:\n%s", m.View())
	}
}

func TestDecimalCommaAccepted(t *testing.T) {
	m := newModel(testDeps())
	m.inputs[fieldBrix].SetValue("7,0")
	m = send(t, m, key("enter"))
	if m.err != nil {
		t.Fatalf("unexpected error: %v", m.err)
	}
}

func TestEagerRecomputesOnEdit(t *testing.T) {
	m := newModel(testDeps())
	m = send(t, m, key("ctrl+e"))
	if !m.eager || !m.computed {
		t.Fatalf("expected eager mode with an initial result")
	}

	// 50 -> 500
	m = send(t, m, key("0"))
	if got := m.inputs[fieldMass].Value(); got != "500" {
		t.Fatalf("expected 500, got %q", got)
	}
	if !strings.Contains(m.View(), "16.67 kg") {
		t.Fatalf("expected recomputed result:\n%s", m.View())
	}
}

func TestExplicitModeDoesNotRecomputeOnEdit(t *testing.T) {
	m := send(t, newModel(testDeps()), key("enter"))
	m = send(t, m, key("0"))
	if !strings.Contains(m.View(), "1.67 kg") {
		t.Fatalf("expected previous result to stay:\n%s", m.View())
	}
}

func TestStaleResultIsDropped(t *testing.T) {
	m := newModel(testDeps())
	m.seq = 3
	next, _ := m.Update(balanceComputedMsg{seq: 2, err: errors.New("old")})
	m = next.(model)
	if m.computed {
		t.Fatalf("expected stale result to be ignored")
	}
}

func TestDerivationToggle(t *testing.T) {
	m := newModel(testDeps())
	m = send(t, m, key("d"))
	if m.showDerivation {
		t.Fatalf("derivation must not toggle before a result")
	}

	m = send(t, m, key("enter"))
	m = send(t, m, key("d"))
	if !m.showDerivation {
		t.Fatalf("expected derivation shown")
	}
	if !strings.Contains(m.View(), "M1 + M2 = M3") {
		t.Fatalf("expected equations in view:\n%s", m.View())
	}
	m = send(t, m, key("d"))
	if m.showDerivation {
		t.Fatalf("expected derivation hidden")
	}
}

func TestDilutionWarning(t *testing.T) {
	m := newModel(testDeps())
	m.inputs[fieldBrix].SetValue("20")
	m = send(t, m, key("enter"))
	if m.err != nil || !m.balance.Dilution {
		t.Fatalf("expected dilution result, got %+v err=%v", m.balance, m.err)
	}
	if !strings.Contains(m.View(), "dilution") {
		t.Fatalf("expected dilution warning:\n%s", m.View())
	}
}

func TestResetRestoresDefaults(t *testing.T) {
	m := newModel(testDeps())
	m.inputs[fieldMass].SetValue("1")
	m = send(t, m, key("enter"))
	m = send(t, m, key("ctrl+r"))
	if m.inputs[fieldMass].Value() != "50" || m.computed {
		t.Fatalf("expected defaults restored")
	}
}

func TestSafeModelRecoversPanic(t *testing.T) {
	m := newModel(testDeps())
	m.focus = fieldCount // out of range: the next keystroke panics
	s := wrapSafe(m, nil)

	next, cmd := s.Update(key("1"))
	if cmd != nil {
		t.Fatalf("expected no command after panic")
	}
	sm, ok := next.(safeModel)
	if !ok {
		t.Fatalf("expected safeModel, got %T", next)
	}
	if sm.m.toast == "" || sm.m.computing {
		t.Fatalf("expected toast after panic, got %+v", sm.m.toast)
	}
}
