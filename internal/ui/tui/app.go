package tui

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aalvaropc/brixcalc/internal/domain"
)

const (
	fieldMass = iota
	fieldBrix
	fieldTarget
	fieldCount
)

var fieldNames = [fieldCount]string{"initial_mass_kg", "initial_brix", "target_brix"}

type model struct {
	theme Theme
	deps  Deps

	inputs [fieldCount]textinput.Model
	labels [fieldCount]string
	focus  int

	// eager recomputes on every edit; otherwise enter triggers a calculation.
	eager bool

	seq       int
	computing bool
	computed  bool
	balance   domain.Balance
	err       error

	showDerivation bool

	workspaceFound bool
	workspaceRoot  string
	cwd            string
	toast          string

	width int
}

func Run(deps Deps) error {
	m := newModel(deps)
	p := tea.NewProgram(wrapSafe(m, deps.Logger), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func newModel(deps Deps) model {
	in := deps.Config.DefaultInputs()

	m := model{
		theme:  DefaultTheme(),
		deps:   deps,
		labels: [fieldCount]string{"Initial mass (kg)", "Initial °Brix", "Target °Brix"},
	}

	values := [fieldCount]float64{in.InitialMass, in.InitialBrix, in.TargetBrix}
	for i := range m.inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 16
		ti.Width = 12
		ti.SetValue(strconv.FormatFloat(values[i], 'f', -1, 64))
		m.inputs[i] = ti
	}
	m.inputs[fieldMass].Focus()

	wd, err := os.Getwd()
	if err == nil {
		m.cwd = wd
		if deps.WorkspaceLocator != nil {
			if root, findErr := deps.WorkspaceLocator.FindRoot(wd); findErr == nil {
				m.workspaceFound = true
				m.workspaceRoot = root
			}
		}
	}

	return m
}

func (m model) Init() tea.Cmd { return textinput.Blink }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case balanceComputedMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.computing = false
		m.computed = true
		m.balance = msg.balance
		m.err = msg.err
		return m, nil

	case initWorkspaceDoneMsg:
		if msg.err != nil {
			m.toast = userMessage(msg.err)
			return m, nil
		}
		m.toast = "Created brixcalc.yaml in " + msg.root
		return m, cmdRefreshWorkspace(m.deps)

	case workspaceRefreshedMsg:
		m.cwd = msg.cwd
		m.workspaceFound = msg.found
		m.workspaceRoot = msg.root
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "tab", "down":
			m.setFocus((m.focus + 1) % fieldCount)
			return m, nil

		case "shift+tab", "up":
			m.setFocus((m.focus + fieldCount - 1) % fieldCount)
			return m, nil

		case "enter":
			return m.calculate()

		case "ctrl+e":
			m.eager = !m.eager
			if m.eager {
				return m.calculate()
			}
			return m, nil

		case "d":
			if m.computed && m.err == nil {
				m.showDerivation = !m.showDerivation
			}
			return m, nil

		case "ctrl+r":
			return m.reset(), nil

		case "ctrl+w":
			if !m.workspaceFound && m.cwd != "" {
				return m, cmdInitWorkspaceHere(m.deps, m.cwd)
			}
			return m, nil
		}
	}

	before := m.inputs[m.focus].Value()

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)

	if m.eager && m.inputs[m.focus].Value() != before {
		next, calc := m.calculate()
		return next, tea.Batch(cmd, calc)
	}
	return m, cmd
}

func (m *model) setFocus(i int) {
	m.inputs[m.focus].Blur()
	m.focus = i
	m.inputs[m.focus].Focus()
}

// calculate parses the form and starts an asynchronous computation.
func (m model) calculate() (model, tea.Cmd) {
	m.toast = ""
	in, err := m.parseInputs()
	m.seq++
	if err != nil {
		m.computing = false
		m.computed = true
		m.err = err
		return m, nil
	}
	m.computing = true
	return m, cmdCompute(m.deps.Compute, m.seq, in)
}

func (m model) parseInputs() (domain.Inputs, error) {
	var vals [fieldCount]float64
	for i := range m.inputs {
		raw := strings.ReplaceAll(strings.TrimSpace(m.inputs[i].Value()), ",", ".")
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return domain.Inputs{}, &domain.OpError{
				Op:    "tui.parse",
				Kind:  domain.KindInvalidInput,
				Field: fieldNames[i],
				Err:   fmt.Errorf("%s must be a number: %w", fieldNames[i], domain.ErrInvalidInput),
			}
		}
		vals[i] = v
	}

	return domain.Inputs{
		InitialMass:   vals[fieldMass],
		InitialBrix:   vals[fieldBrix],
		TargetBrix:    vals[fieldTarget],
		SweetenerBrix: m.deps.Config.Sweetener.Brix,
	}, nil
}

func (m model) reset() model {
	fresh := newModel(m.deps)
	fresh.width = m.width
	fresh.eager = m.eager
	fresh.seq = m.seq + 1
	return fresh
}

func (m model) View() string {
	wrap := lipgloss.NewStyle().Padding(1, 2)
	header := m.theme.Title.Render("brixcalc") + "\n" +
		m.theme.Subtitle.Render("Sugar needed to raise a pulp to a target °Brix") + "\n"

	var workspaceBanner string
	if m.workspaceFound {
		workspaceBanner = m.theme.Help.Render(fmt.Sprintf("Workspace: %s", m.workspaceRoot))
	} else {
		workspaceBanner = m.theme.Help.Render("No brixcalc.yaml found (using defaults) • ctrl+w create one here")
	}

	var form strings.Builder
	for i := range m.inputs {
		prefix := "  "
		if i == m.focus {
			prefix = m.theme.Focused.Render("› ")
		}
		form.WriteString(prefix)
		form.WriteString(m.theme.Label.Render(m.labels[i]))
		form.WriteString(m.inputs[i].View())
		form.WriteString("\n")
	}
	form.WriteString("  ")
	form.WriteString(m.theme.Label.Render("Sweetener °Brix"))
	form.WriteString(strconv.FormatFloat(m.deps.Config.Sweetener.Brix, 'f', -1, 64))
	form.WriteString(m.theme.Subtitle.Render(" (fixed)"))

	body := header + "\n" + workspaceBanner + "\n\n" + m.theme.Card.Render(form.String()) + "\n\n" + m.resultView()

	if m.toast != "" {
		body += "\n\n" + m.theme.Info.Render(m.toast)
	}

	help := m.theme.Help.Render(fmt.Sprintf("tab/↑↓ move • enter calculate • ctrl+e live: %s • d derivation • ctrl+r reset • esc quit",
		onOff(m.eager)))

	return wrap.Render(body + "\n\n" + help)
}

func (m model) resultView() string {
	switch {
	case m.computing && !m.computed:
		return m.theme.Help.Render("Calculating…")

	case !m.computed:
		return m.theme.Info.Render("ℹ Enter the values and press enter to calculate.")

	case m.err != nil:
		return m.theme.Error.Render("✗ " + userMessage(m.err))
	}

	precision := m.deps.Config.Display.Precision
	out := m.theme.Card.Render(renderResult(m.theme, m.balance, precision))
	if m.showDerivation {
		out += "\n" + m.theme.Card.Render(renderDerivation(m.theme, domain.Explain(m.balance, precision), m.width))
	}
	return out
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
