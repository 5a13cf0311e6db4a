package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/egonetlab/egonet/pkg/graph"
	"github.com/egonetlab/egonet/pkg/graphio"
	"github.com/egonetlab/egonet/pkg/logging"
	"github.com/egonetlab/egonet/pkg/metrics"
	"github.com/egonetlab/egonet/pkg/pubsub"
	"github.com/egonetlab/egonet/pkg/sweep"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF00FF")).
			MarginLeft(2).
			MarginTop(1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF")).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FFFF")).
			Padding(0, 1)

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#FF00FF")).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#666666")).
				Padding(0, 2)

	contentStyle = lipgloss.NewStyle().
			MarginLeft(2).
			MarginTop(1)

	statsBoxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FF00")).
			Padding(1, 2).
			MarginRight(2)

	spinnerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF00FF"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginTop(1).
			MarginLeft(2)
)

type view int

const (
	dashboardView view = iota
	tasksView
	communitiesView
)

const viewCount = 3

type keyMap struct {
	Tab      key.Binding
	ShiftTab key.Binding
	Up       key.Binding
	Down     key.Binding
	Quit     key.Binding
}

var keys = keyMap{
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next view"),
	),
	ShiftTab: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "prev view"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.ShiftTab},
		{k.Up, k.Down},
		{k.Quit},
	}
}

type model struct {
	graph       *graph.Model
	params      []sweep.Task
	names       map[int64]string
	outputPath  string
	cancel      context.CancelFunc
	currentView view
	taskTable   table.Model
	progressBar progress.Model
	spin        spinner.Model
	help        help.Model
	keys        keyMap
	width       int
	height      int
	message     string
	messageErr  bool
	startTime   time.Time
	elapsed     time.Duration
	completed   int
	total       int
	best        float64
	bestOrdinal int
	rows        map[int]table.Row
	generations map[int]sweep.GenerationEvent
	report      *sweep.Report
	done        bool
}

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

type progressMsg sweep.Progress

type generationMsg sweep.GenerationEvent

type doneMsg struct {
	report *sweep.Report
	err    error
}

func initialModel(g *graph.Model, params []sweep.Task, names map[int64]string, outputPath string, cancel context.CancelFunc) model {
	columns := []table.Column{
		{Title: "Task", Width: 5},
		{Title: "Pop", Width: 5},
		{Title: "Gens", Width: 5},
		{Title: "R", Width: 5},
		{Title: "Cross", Width: 6},
		{Title: "Mut", Width: 5},
		{Title: "Elite", Width: 6},
		{Title: "Fitness", Width: 10},
		{Title: "Status", Width: 8},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#00FFFF")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color("#FF00FF")).
		Bold(false)
	t.SetStyles(s)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	return model{
		graph:       g,
		params:      params,
		names:       names,
		outputPath:  outputPath,
		cancel:      cancel,
		currentView: dashboardView,
		taskTable:   t,
		progressBar: progress.New(progress.WithDefaultGradient()),
		spin:        sp,
		help:        help.New(),
		keys:        keys,
		startTime:   time.Now(),
		bestOrdinal: -1,
		total:       len(params),
		rows:        make(map[int]table.Row),
		generations: make(map[int]sweep.GenerationEvent),
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		m.spin.Tick,
		tickCmd(),
	)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		if w := msg.Width - 12; w > 10 {
			m.progressBar.Width = w
		}

	case tickMsg:
		if !m.done {
			m.elapsed = time.Since(m.startTime)
		}
		return m, tickCmd()

	case spinner.TickMsg:
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case progressMsg:
		m.completed = msg.Completed
		m.total = msg.Total
		if msg.Status == "ok" && (m.bestOrdinal < 0 || msg.BestFitness > m.best) {
			m.best = msg.BestFitness
			m.bestOrdinal = msg.Ordinal
		}
		m.rows[msg.Ordinal] = m.taskRow(sweep.Progress(msg))
		m.taskTable.SetRows(m.sortedRows())
		delete(m.generations, msg.Ordinal)

	case generationMsg:
		m.generations[msg.Ordinal] = sweep.GenerationEvent(msg)

	case doneMsg:
		m.done = true
		m.elapsed = time.Since(m.startTime)
		m.report = msg.report
		m.generations = make(map[int]sweep.GenerationEvent)
		if msg.err != nil {
			m.message = fmt.Sprintf("Sweep failed: %v", msg.err)
			m.messageErr = true
			break
		}
		m.currentView = communitiesView
		m.message = fmt.Sprintf("Sweep complete in %s", m.elapsed.Round(time.Second))
		if m.outputPath != "" {
			if err := msg.report.Save(m.outputPath); err != nil {
				m.message = fmt.Sprintf("Failed to save report: %v", err)
				m.messageErr = true
			} else {
				m.message = fmt.Sprintf("Report saved to %s", m.outputPath)
			}
		}

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.cancel()
			return m, tea.Quit

		case key.Matches(msg, m.keys.Tab):
			m.currentView = (m.currentView + 1) % viewCount

		case key.Matches(msg, m.keys.ShiftTab):
			if m.currentView == 0 {
				m.currentView = viewCount - 1
			} else {
				m.currentView--
			}
		}
	}

	// Update focused component
	if m.currentView == tasksView {
		m.taskTable, cmd = m.taskTable.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m model) taskRow(p sweep.Progress) table.Row {
	opts := m.params[p.Ordinal].Options
	fitness := "-"
	if p.Status == "ok" {
		fitness = fmt.Sprintf("%.4f", p.BestFitness)
	}
	return table.Row{
		fmt.Sprintf("%d", p.Ordinal),
		fmt.Sprintf("%d", opts.PopulationCount),
		fmt.Sprintf("%d", opts.Generations),
		fmt.Sprintf("%.1f", opts.R),
		fmt.Sprintf("%.2f", opts.CrossoverRate),
		fmt.Sprintf("%.2f", opts.MutationRate),
		fmt.Sprintf("%.2f", opts.EliteFraction),
		fitness,
		p.Status,
	}
}

func (m model) sortedRows() []table.Row {
	ordinals := make([]int, 0, len(m.rows))
	for ordinal := range m.rows {
		ordinals = append(ordinals, ordinal)
	}
	sort.Ints(ordinals)

	rows := make([]table.Row, 0, len(ordinals))
	for _, ordinal := range ordinals {
		rows = append(rows, m.rows[ordinal])
	}
	return rows
}

func (m model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var s strings.Builder

	// Title
	s.WriteString(titleStyle.Render("🧬 egonet - Community Detection Sweep"))
	s.WriteString("\n\n")

	// Tabs
	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	// Content based on current view
	switch m.currentView {
	case dashboardView:
		s.WriteString(m.renderDashboard())
	case tasksView:
		s.WriteString(m.renderTasks())
	case communitiesView:
		s.WriteString(m.renderCommunities())
	}

	// Message
	if m.message != "" {
		s.WriteString("\n\n")
		if m.messageErr {
			s.WriteString(contentStyle.Render(errorStyle.Render("✗ " + m.message)))
		} else {
			s.WriteString(contentStyle.Render(successStyle.Render("✓ " + m.message)))
		}
	}

	// Help
	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp())))

	return s.String()
}

func (m model) renderTabs() string {
	tabs := []string{"Dashboard", "Tasks", "Communities"}
	var renderedTabs []string

	for i, tab := range tabs {
		if view(i) == m.currentView {
			renderedTabs = append(renderedTabs, activeTabStyle.Render(tab))
		} else {
			renderedTabs = append(renderedTabs, inactiveTabStyle.Render(tab))
		}
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, renderedTabs...)
}

func (m model) renderDashboard() string {
	best := "-"
	if m.bestOrdinal >= 0 {
		best = fmt.Sprintf("%.4f (task %d)", m.best, m.bestOrdinal)
	}

	statsContent := fmt.Sprintf(`📊 Sweep
━━━━━━━━━━━━━━━
Vertices:  %d
Edges:     %d
Tasks:     %d/%d
Elapsed:   %s
Best:      %s`,
		m.graph.Size(),
		m.graph.EdgeCount(),
		m.completed,
		m.total,
		m.elapsed.Round(time.Second),
		best,
	)

	var s strings.Builder
	s.WriteString(statsBoxStyle.Render(statsContent))
	s.WriteString("\n\n")

	ratio := 0.0
	if m.total > 0 {
		ratio = float64(m.completed) / float64(m.total)
	}
	s.WriteString(m.progressBar.ViewAs(ratio))
	s.WriteString("\n\n")

	if m.done {
		s.WriteString(successStyle.Render("Sweep finished"))
	} else {
		s.WriteString(m.renderActiveTasks())
	}

	return contentStyle.Render(s.String())
}

func (m model) renderActiveTasks() string {
	ordinals := make([]int, 0, len(m.generations))
	for ordinal := range m.generations {
		ordinals = append(ordinals, ordinal)
	}
	sort.Ints(ordinals)

	const maxDisplay = 6
	var s strings.Builder
	for i, ordinal := range ordinals {
		if i == maxDisplay {
			s.WriteString(fmt.Sprintf("  ... and %d more\n", len(ordinals)-maxDisplay))
			break
		}
		g := m.generations[ordinal]
		s.WriteString(fmt.Sprintf("%s Task %d: generation %d/%d, best %.4f\n",
			m.spin.View(), g.Ordinal, g.Generation, g.Total, g.BestFitness))
	}
	if s.Len() == 0 {
		s.WriteString(m.spin.View() + " Waiting for tasks...")
	}
	return s.String()
}

func (m model) renderTasks() string {
	var s strings.Builder

	s.WriteString(headerStyle.Render("Task Results"))
	s.WriteString("\n\n")
	s.WriteString(m.taskTable.View())
	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render("Navigate with ↑/↓"))

	return contentStyle.Render(s.String())
}

func (m model) renderCommunities() string {
	var s strings.Builder

	s.WriteString(headerStyle.Render("Best Partition"))
	s.WriteString("\n\n")

	if m.report == nil {
		s.WriteString(helpStyle.Render("No results yet\n\nCommunities appear here when the sweep finishes."))
		return contentStyle.Render(s.String())
	}

	s.WriteString(fmt.Sprintf("Fitness %.4f with %d communities\n\n",
		m.report.Best.BestFitness, len(m.report.BestCommunities)))

	const maxMembers = 6
	for i, community := range m.report.BestCommunities {
		s.WriteString(fmt.Sprintf("◉ Community %d (%d members)\n", i+1, len(community)))
		for j, id := range community {
			if j == maxMembers {
				s.WriteString(fmt.Sprintf("  └─ ... and %d more\n", len(community)-maxMembers))
				break
			}
			s.WriteString(fmt.Sprintf("  └─ %s\n", m.label(id)))
		}
	}

	return contentStyle.Render(s.String())
}

func (m model) label(id int64) string {
	if name, ok := m.names[id]; ok {
		return name
	}
	return fmt.Sprintf("%d", id)
}

func main() {
	input := flag.String("input", "", "Friend list JSON produced by egonet-collect (required)")
	gridPath := flag.String("grid", "", "Sweep grid YAML (default: built-in grid)")
	namesPath := flag.String("names", "", "Optional display name CSV for labels")
	output := flag.String("output", "", "Save the sweep report here when done")
	workers := flag.Int("workers", 6, "Concurrent tasks")
	seed := flag.Int64("seed", 0, "Base seed for the sweep (0 picks a time-based seed)")
	flag.Parse()

	if *input == "" {
		fmt.Fprintln(os.Stderr, "egonet-tui: -input is required")
		flag.Usage()
		os.Exit(2)
	}

	adj, err := graphio.LoadAdjacency(*input)
	if err != nil {
		log.Fatalf("Failed to load friend lists: %v", err)
	}
	g, err := graph.Build(adj.Induced())
	if err != nil {
		log.Fatalf("Failed to build graph: %v", err)
	}

	grid := sweep.DefaultGrid()
	if *gridPath != "" {
		grid, err = sweep.LoadGrid(*gridPath)
		if err != nil {
			log.Fatalf("Failed to load grid: %v", err)
		}
	}
	if err := grid.Validate(); err != nil {
		log.Fatalf("Invalid grid: %v", err)
	}

	var names map[int64]string
	if *namesPath != "" {
		names, err = graphio.LoadNames(*namesPath)
		if err != nil {
			log.Fatalf("Failed to load names: %v", err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := pubsub.NewBus()
	progressSub := bus.Subscribe(sweep.TopicProgress, 256)
	generationSub := bus.Subscribe(sweep.TopicGeneration, 1024)

	runner := sweep.NewRunner(sweep.RunnerOptions{
		Workers:  *workers,
		BaseSeed: *seed,
		Bus:      bus,
		Logger:   logging.NewNopLogger(),
		Metrics:  metrics.NewRegistry(),
	})

	// The runner expands its own seeded task list; this copy only labels
	// the table rows, so any base seed works.
	params := grid.Tasks(1)

	p := tea.NewProgram(initialModel(g, params, names, *output, cancel), tea.WithAltScreen())

	go func() {
		for event := range progressSub.Events() {
			if pr, ok := event.(sweep.Progress); ok {
				p.Send(progressMsg(pr))
			}
		}
	}()
	go func() {
		for event := range generationSub.Events() {
			if gen, ok := event.(sweep.GenerationEvent); ok {
				p.Send(generationMsg(gen))
			}
		}
	}()
	go func() {
		report, err := runner.Run(ctx, g, grid)
		bus.Close()
		p.Send(doneMsg{report: report, err: err})
	}()

	if _, err := p.Run(); err != nil {
		log.Fatalf("Error running program: %v", err)
	}
}
