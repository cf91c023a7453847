package app

import (
	"context"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/codiz/internal/a11y"
	"github.com/abhisek/codiz/internal/logger"
	"github.com/abhisek/codiz/internal/router"
	"github.com/abhisek/codiz/internal/screen"
	"github.com/abhisek/codiz/internal/screens/courses"
	"github.com/abhisek/codiz/internal/screens/welcome"
	"github.com/abhisek/codiz/internal/ui/layout"
)

// Options configures the application.
type Options struct {
	Env *screen.Env

	// Monitor is also reachable through Env.Flow; it is listed here because
	// Run watches it for platform changes.
	Monitor *a11y.Monitor

	// Transcript backs the on-screen live region. Optional.
	Transcript *a11y.Transcript

	PollInterval time.Duration
	Log          *logger.Logger
}

// readerMsg reports the initial probe. It only drives the live region.
type readerMsg struct {
	active bool
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	opts   Options
	width  int
	height int

	reader bool
	stats  string
}

// newAppModel creates a new AppModel starting at the welcome screen.
func newAppModel(opts Options) AppModel {
	env := opts.Env
	start := welcome.New(func() screen.Screen { return courses.New(env) }, env.Announce)
	return AppModel{
		router: router.New(start),
		opts:   opts,
	}
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(m.router.Active().Init(), m.opts.Env.LoadStats(), m.probe())
}

func (m AppModel) probe() tea.Cmd {
	mon := m.opts.Monitor
	if mon == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return readerMsg{active: mon.Probe(ctx)}
	}
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			return m, m.router.Back()
		}

	case readerMsg:
		m.reader = msg.active
		return m, nil

	case a11y.ScreenReaderChangedMsg:
		m.reader = msg.Active
		logger.OrNop(m.opts.Log).Info("screen reader changed", "active", msg.Active)

	case screen.StatsMsg:
		m.stats = fmt.Sprintf("%d XP · %d lessons", msg.Stats.XP, msg.Stats.Attempts)
		return m, nil
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	if m.width == 0 || m.height == 0 {
		return v
	}
	v.SetContent(m.render())
	return v
}

// render lays out header, active screen, live region and footer.
func (m AppModel) render() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.stats, m.width)
	footer := layout.RenderFooter(m.footerHints(active), m.width)

	live, liveHeight := "", 0
	if m.reader && m.opts.Transcript != nil {
		live = layout.RenderLiveRegion(m.opts.Transcript.Last(), m.width)
		liveHeight = lipgloss.Height(live)
	}

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer)-liveHeight, 0)
	content := m.router.View(m.width, contentHeight)
	if live != "" {
		content = lipgloss.JoinVertical(lipgloss.Left, content, live)
	}
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

func (m AppModel) footerHints(active screen.Screen) []layout.KeyHint {
	if kh, ok := active.(screen.KeyHintProvider); ok {
		if hints := kh.KeyHints(); len(hints) > 0 {
			return hints
		}
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// Run starts the Bubble Tea program and, alongside it, the screen reader
// watcher. Platform changes are forwarded into the program.
func Run(ctx context.Context, opts Options) error {
	log := logger.OrNop(opts.Log)
	p := tea.NewProgram(newAppModel(opts), tea.WithContext(ctx))

	g, gctx := errgroup.WithContext(ctx)
	watchCtx, stopWatch := context.WithCancel(gctx)
	defer stopWatch()

	if opts.Monitor != nil {
		unsubscribe := opts.Monitor.Subscribe(func(active bool) {
			p.Send(a11y.ScreenReaderChangedMsg{Active: active})
		})
		defer unsubscribe()

		g.Go(func() error {
			return opts.Monitor.Watch(watchCtx, opts.PollInterval)
		})
	}

	g.Go(func() error {
		defer stopWatch()
		if _, err := p.Run(); err != nil {
			log.Error("program exited with error", "error", err)
			return fmt.Errorf("run program: %w", err)
		}
		return nil
	})

	return g.Wait()
}
