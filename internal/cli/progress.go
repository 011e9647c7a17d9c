package cli

import (
	"fmt"

	"charm.land/bubbles/v2/progress"
	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/lipgloss"
	"github.com/raphaelgruber/structproof/internal/service"
	"github.com/raphaelgruber/structproof/internal/validate"
)

// Theme holds the color scheme for the progress display.
type Theme struct {
	Status  lipgloss.Color
	Success lipgloss.Color
	Error   lipgloss.Color
	Hint    lipgloss.Color
}

// defaultTheme provides default colors.
var defaultTheme = Theme{
	Status:  lipgloss.Color("#5FAFD7"), // light blue
	Success: lipgloss.Color("#00D787"), // green
	Error:   lipgloss.Color("#FF005F"), // red
	Hint:    lipgloss.Color("#6C6C6C"), // dim gray
}

func (t Theme) statusStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Status)
}

func (t Theme) completedStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Success).Bold(true)
}

func (t Theme) errorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Error).Bold(true)
}

func (t Theme) hintStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Hint).Italic(true)
}

// verdictMsg carries the outcome of one validated file.
type verdictMsg fileVerdict

// batchModel is the bubbletea model for batch validation progress.
type batchModel struct {
	svc      *service.ValidationService
	vcfg     validate.Config
	paths    []string
	next     int
	verdicts []fileVerdict
	progress progress.Model
	theme    Theme
	done     bool
	quitting bool
}

// newBatchModel creates a new batch progress model.
func newBatchModel(svc *service.ValidationService, vcfg validate.Config, paths []string) batchModel {
	prog := progress.New(
		progress.WithDefaultBlend(),
		progress.WithWidth(40),
	)

	return batchModel{
		svc:      svc,
		vcfg:     vcfg,
		paths:    paths,
		progress: prog,
		theme:    defaultTheme,
	}
}

// Init starts validating the first file.
func (m batchModel) Init() tea.Cmd {
	return tea.Batch(
		m.validateNext(),
		m.progress.Init(),
	)
}

// Update handles messages and returns the updated model.
func (m batchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			return m, tea.Quit
		}

	case verdictMsg:
		m.verdicts = append(m.verdicts, fileVerdict(msg))
		m.next++
		if m.next >= len(m.paths) {
			m.done = true
			return m, tea.Quit
		}
		return m, m.validateNext()

	case progress.FrameMsg:
		var cmd tea.Cmd
		m.progress, cmd = m.progress.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the progress display.
func (m batchModel) View() tea.View {
	return tea.NewView(m.renderContent())
}

// renderContent builds the display string.
func (m batchModel) renderContent() string {
	if m.done || m.quitting {
		return m.finalView()
	}

	pct := float64(m.next) / float64(len(m.paths))
	status := m.theme.statusStyle().Render("[validating]")
	progressBar := m.progress.ViewAs(pct)
	counts := fmt.Sprintf("%d/%d files", m.next, len(m.paths))
	hint := m.theme.hintStyle().Render("Press Ctrl+C to abort")

	return fmt.Sprintf("%s %s %s\n%s\n", status, progressBar, counts, hint)
}

// finalView renders the summary.
func (m batchModel) finalView() string {
	if m.quitting {
		return m.theme.hintStyle().Render(fmt.Sprintf("\nAborted after %d of %d files.\n", m.next, len(m.paths)))
	}

	valid, invalid, failed := 0, 0, 0
	for _, v := range m.verdicts {
		switch {
		case v.Err != nil:
			failed++
		case v.Valid:
			valid++
		default:
			invalid++
		}
	}

	var output string
	if invalid == 0 && failed == 0 {
		output += m.theme.completedStyle().Render("✓ All inputs structurally valid") + "\n\n"
	} else {
		output += m.theme.errorStyle().Render("✗ Structural validation failures") + "\n\n"
	}
	output += fmt.Sprintf("  Valid:   %d\n", valid)
	output += fmt.Sprintf("  Invalid: %d\n", invalid)
	if failed > 0 {
		output += fmt.Sprintf("  Unreadable: %d\n", failed)
	}

	for _, v := range m.verdicts {
		switch {
		case v.Err != nil:
			output += fmt.Sprintf("  • %s: %v\n", v.Path, v.Err)
		case !v.Valid:
			output += fmt.Sprintf("  • %s: invalid (entropy %.4f)\n", v.Path, v.EntropyScore)
		}
	}
	return output
}

// validateNext validates the next file as a command so Update never blocks.
func (m batchModel) validateNext() tea.Cmd {
	path := m.paths[m.next]
	return func() tea.Msg {
		return verdictMsg(validateFile(m.svc, m.vcfg, path))
	}
}

// RunBatchProgress runs the interactive batch validation UI and returns the
// per-file verdicts collected before completion or abort.
func RunBatchProgress(svc *service.ValidationService, vcfg validate.Config, paths []string) ([]fileVerdict, error) {
	model := newBatchModel(svc, vcfg, paths)
	p := tea.NewProgram(model)

	finalModel, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("progress UI error: %w", err)
	}

	if m, ok := finalModel.(batchModel); ok {
		return m.verdicts, nil
	}
	return nil, nil
}
