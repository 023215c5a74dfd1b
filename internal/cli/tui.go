package cli

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dotfill/dotfill/pkg/pack"
	"github.com/dotfill/dotfill/pkg/pipeline"
)

// =============================================================================
// packModel - Live packing progress
// =============================================================================

// placedMsg reports one placed circle.
type placedMsg struct {
	circle pack.Circle
}

// doneMsg reports pipeline completion.
type doneMsg struct {
	err error
}

// tickMsg drives the elapsed-time display.
type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// packModel is the bubbletea model for the --watch packing display.
type packModel struct {
	source  string
	placed  int
	lastR   float64
	start   time.Time
	elapsed time.Duration
	frame   int
	done    bool
	err     error
	quit    bool
}

// newPackModel creates a packing progress model.
func newPackModel(source string) packModel {
	return packModel{
		source: source,
		start:  time.Now(),
	}
}

func (m packModel) Init() tea.Cmd {
	return tick()
}

func (m packModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quit = true
			return m, tea.Quit
		}
	case placedMsg:
		m.placed++
		m.lastR = msg.circle.R
	case doneMsg:
		m.done = true
		m.err = msg.err
		m.elapsed = time.Since(m.start)
		return m, tea.Quit
	case tickMsg:
		m.elapsed = time.Since(m.start)
		m.frame++
		return m, tick()
	}
	return m, nil
}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

func (m packModel) View() string {
	if m.done || m.quit {
		return ""
	}

	frame := spinnerFrames[m.frame%len(spinnerFrames)]
	s := StyleTitle.Render("Packing "+m.source) + "\n\n"
	s += fmt.Sprintf("  %s %s\n",
		styleIconSpinner.Render(frame),
		StyleDim.Render(fmt.Sprintf("%s elapsed", m.elapsed.Round(100*time.Millisecond))))
	s += fmt.Sprintf("  %s circles placed\n", StyleNumber.Render(fmt.Sprintf("%d", m.placed)))
	if m.lastR > 0 {
		s += fmt.Sprintf("  %s\n", StyleDim.Render(fmt.Sprintf("last radius %.1f px", m.lastR)))
	}
	s += "\n" + StyleDim.Render("  q to abort")
	return s
}

// runPackTUI runs the pipeline with a live placement display. The observer
// streams every placed circle into the program; quitting the display cancels
// nothing but detaches from the run.
func runPackTUI(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options) (*pipeline.Result, error) {
	p := tea.NewProgram(newPackModel(opts.Source), tea.WithContext(ctx))

	opts.Observer = func(c pack.Circle) {
		p.Send(placedMsg{circle: c})
	}

	var (
		result *pipeline.Result
		runErr error
	)
	go func() {
		result, runErr = runner.Execute(ctx, opts)
		p.Send(doneMsg{err: runErr})
	}()

	model, err := p.Run()
	if err != nil {
		return nil, err
	}
	// A user quit returns before doneMsg; result and runErr are unsafe to
	// read until the pipeline goroutine has reported in.
	if pm, ok := model.(packModel); ok && pm.quit {
		return nil, context.Canceled
	}
	if runErr != nil {
		return nil, runErr
	}
	return result, nil
}
