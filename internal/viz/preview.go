package viz

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/basins/internal/analysis"
	"github.com/san-kum/basins/internal/basin"
	"github.com/san-kum/basins/internal/compositor"
	"github.com/san-kum/basins/internal/config"
	"github.com/san-kum/basins/internal/dynamo"
	"github.com/san-kum/basins/internal/integrators"
	"github.com/san-kum/basins/internal/physics"
	"github.com/san-kum/basins/internal/storage"
)

const (
	defaultCols = 80
	defaultRows = 24
	// header, separator, info, status and help lines around the canvas
	chromeRows = 6

	defaultStep = 10
	minStep     = 1
	maxStep     = 320
)

type fieldMsg struct {
	buf        *basin.FieldBuffer
	err        error
	elapsed    time.Duration
	generation uint64
	computer   *basin.Computer
}

// jobs tracks the in-flight computation so a newer edit can cancel it.
type jobs struct {
	mu     sync.Mutex
	cancel context.CancelFunc
}

func (j *jobs) start() context.Context {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.cancel != nil {
		j.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	j.cancel = cancel
	return ctx
}

func (j *jobs) stop() {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.cancel != nil {
		j.cancel()
		j.cancel = nil
	}
}

// Preview is the interactive basin explorer.
type Preview struct {
	name     string
	cfg      *config.Config
	scene    *physics.Scene
	computer *basin.Computer
	comp     *compositor.Compositor
	store    *storage.Store
	logger   *slog.Logger
	jobs     *jobs

	selected   int
	step       float32
	cols, rows int

	field     *basin.FieldBuffer
	frame     string
	summary   analysis.Summary
	elapsed   time.Duration
	computing bool
	status    string
	err       error
}

type PreviewOptions struct {
	// Name labels saved runs.
	Name string
	// Store enables saving with the S key when set.
	Store  *storage.Store
	Logger *slog.Logger
}

func NewPreview(cfg *config.Config, opts PreviewOptions) (Preview, error) {
	cfg = cfg.Clone()
	if err := cfg.Validate(); err != nil {
		return Preview{}, err
	}
	scene, err := physics.NewScene(cfg.PhysicsAttractors())
	if err != nil {
		return Preview{}, err
	}
	if scene.Snapshot().Empty() {
		return Preview{}, dynamo.ErrEmptySet
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	computer, err := cfg.NewComputer(logger)
	if err != nil {
		return Preview{}, err
	}
	comp, err := cfg.NewCompositor()
	if err != nil {
		return Preview{}, err
	}
	name := opts.Name
	if name == "" {
		name = "preview"
	}
	return Preview{
		name:      name,
		cfg:       cfg,
		scene:     scene,
		computer:  computer,
		comp:      comp,
		store:     opts.Store,
		logger:    logger,
		jobs:      &jobs{},
		step:      defaultStep,
		cols:      defaultCols,
		rows:      defaultRows,
		computing: true,
	}, nil
}

func (m Preview) Init() tea.Cmd {
	return m.compute(m.scene.Snapshot())
}

func (m Preview) compute(set *physics.AttractorSet) tea.Cmd {
	ctx := m.jobs.start()
	computer := m.computer
	domain := m.cfg.DomainSize()
	return func() tea.Msg {
		start := time.Now()
		buf, err := computer.Compute(ctx, domain, set)
		return fieldMsg{
			buf:        buf,
			err:        err,
			elapsed:    time.Since(start),
			generation: set.Generation(),
			computer:   computer,
		}
	}
}

func (m Preview) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.cols, m.rows = msg.Width, msg.Height
		m.redraw()
		return m, nil
	case fieldMsg:
		return m.handleField(msg), nil
	}
	return m, nil
}

func (m Preview) handleField(msg fieldMsg) Preview {
	if msg.computer != m.computer || msg.generation != m.scene.Snapshot().Generation() {
		return m
	}
	m.computing = false
	if msg.err != nil {
		if !errors.Is(msg.err, context.Canceled) {
			m.err = msg.err
		}
		return m
	}
	m.err = nil
	m.field = msg.buf
	m.elapsed = msg.elapsed
	m.summary = analysis.Summarize(msg.buf, m.scene.Snapshot())
	m.redraw()
	return m
}

func (m Preview) handleKey(msg tea.KeyMsg) (Preview, tea.Cmd) {
	n := m.scene.Snapshot().Len()
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		m.jobs.stop()
		return m, tea.Quit
	case "tab":
		m.selected = (m.selected + 1) % n
	case "shift+tab":
		m.selected = (m.selected + n - 1) % n
	case "up", "k":
		return m.move(0, -m.step)
	case "down", "j":
		return m.move(0, m.step)
	case "left", "h":
		return m.move(-m.step, 0)
	case "right", "l":
		return m.move(m.step, 0)
	case "+", "=":
		m.step = min(m.step*2, maxStep)
	case "-", "_":
		m.step = max(m.step/2, minStep)
	case "p":
		return m.cycleProfile()
	case "f":
		m.toggleFilter()
	case "s":
		m.save()
	}
	return m, nil
}

func (m Preview) move(dx, dy float32) (Preview, tea.Cmd) {
	sel := m.selected
	set, err := m.scene.Edit(func(as []physics.Attractor) []physics.Attractor {
		if sel < len(as) {
			as[sel].X += dx
			as[sel].Y += dy
		}
		return as
	})
	if err != nil {
		m.err = err
		return m, nil
	}
	m.computing = true
	m.status = ""
	return m, m.compute(set)
}

func (m Preview) cycleProfile() (Preview, tea.Cmd) {
	profiles := integrators.Profiles()
	next := profiles[0]
	for i, p := range profiles {
		if p == m.computer.Profile() {
			next = profiles[(i+1)%len(profiles)]
		}
	}
	cfg := m.cfg.Clone()
	cfg.Integrator = string(next)
	computer, err := cfg.NewComputer(m.logger)
	if err != nil {
		m.err = err
		return m, nil
	}
	m.cfg, m.computer = cfg, computer
	m.computing = true
	m.status = "profile " + string(next)
	return m, m.compute(m.scene.Snapshot())
}

func (m *Preview) toggleFilter() {
	cfg := m.cfg.Clone()
	if m.comp.Filter() == compositor.FilterNearest {
		cfg.Filter = string(compositor.FilterLinear)
	} else {
		cfg.Filter = string(compositor.FilterNearest)
	}
	comp, err := cfg.NewCompositor()
	if err != nil {
		m.err = err
		return
	}
	m.cfg, m.comp = cfg, comp
	m.status = "filter " + cfg.Filter
	m.redraw()
}

func (m *Preview) save() {
	if m.store == nil {
		m.status = "no run directory configured"
		return
	}
	if m.field == nil || m.computing {
		m.status = "nothing to save yet"
		return
	}
	set := m.scene.Snapshot()
	cfg := m.cfg.Clone()
	cfg.SetAttractors(set.Attractors())
	id, err := m.store.Save(storage.Run{
		Name:    m.name,
		Config:  cfg,
		Set:     set,
		Field:   m.field,
		Elapsed: m.elapsed,
	})
	if err != nil {
		m.err = err
		return
	}
	m.logger.Info("run saved", "id", id)
	m.status = "saved " + id
}

// canvasSize fits the field into the terminal area left for the canvas,
// keeping its aspect ratio. Each terminal row holds two pixels.
func (m Preview) canvasSize() image.Point {
	domain := m.cfg.DomainSize()
	w := max(m.cols, 1)
	h := max(m.rows-chromeRows, 1) * 2
	scale := min(float64(w)/float64(domain.X), float64(h)/float64(domain.Y))
	return image.Pt(max(int(float64(domain.X)*scale), 1), max(int(float64(domain.Y)*scale), 1))
}

func (m *Preview) redraw() {
	if m.field == nil {
		return
	}
	img, err := m.comp.Present(m.field, m.canvasSize())
	if err != nil {
		m.err = err
		return
	}
	m.frame = RenderHalfBlocks(img)
}

func (m Preview) View() string {
	var sb strings.Builder
	set := m.scene.Snapshot()

	title := headerStyle.Render("basins")
	meta := labelStyle.Render(fmt.Sprintf("  %s · %s · %dx%d",
		m.computer.Profile(), m.comp.Filter(), m.cfg.Domain.Width, m.cfg.Domain.Height))
	sb.WriteString(title + meta + "\n")
	sb.WriteString(separator(min(m.cols, 60)) + "\n")

	if m.frame != "" {
		sb.WriteString(m.frame + "\n")
	} else {
		sb.WriteString(labelStyle.Render("computing...") + "\n")
	}

	sb.WriteString(m.attractorLine(set) + "\n")
	sb.WriteString(m.statusLine() + "\n")
	sb.WriteString(helpStyle.Render("tab select · arrows move · +/- step · p profile · f filter · s save · q quit"))
	return sb.String()
}

func (m Preview) attractorLine(set *physics.AttractorSet) string {
	if set.Empty() {
		return ""
	}
	sel := min(m.selected, set.Len()-1)
	a := set.At(sel)
	share := 0.0
	if sel < len(m.summary.Shares) {
		share = m.summary.Shares[sel].Fraction
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		swatch(a.RGBA()), " ",
		activeStyle.Render(fmt.Sprintf("[%d/%d]", sel+1, set.Len())), " ",
		valueStyle.Render(fmt.Sprintf("(%.1f, %.1f) mass %g", a.X, a.Y, a.Mass)), " ",
		labelStyle.Render(fmt.Sprintf("share %.1f%% step %g", 100*share, m.step)),
	)
}

func (m Preview) statusLine() string {
	switch {
	case m.err != nil:
		return errorStyle.Render("error: " + m.err.Error())
	case m.computing:
		return labelStyle.Render("computing...")
	case m.status != "":
		return valueStyle.Render(m.status)
	}
	return labelStyle.Render(fmt.Sprintf("gen %d · captured %.1f%% · mean iter %.1f · %s",
		m.summary.Generation, 100*m.summary.CaptureRate(), m.summary.MeanIter, m.elapsed.Round(time.Millisecond)))
}
