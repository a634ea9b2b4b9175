package main

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/basins/internal/analysis"
	"github.com/san-kum/basins/internal/basin"
	"github.com/san-kum/basins/internal/compute"
	"github.com/san-kum/basins/internal/config"
	"github.com/san-kum/basins/internal/physics"
	"github.com/san-kum/basins/internal/storage"
	"github.com/san-kum/basins/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	verbose    bool

	integrator  string
	filter      string
	fallback    string
	width       int
	height      int
	outWidth    int
	outHeight   int
	workers     int
	pixelCenter bool
	viewX       float64
	viewY       float64
	zoom        float64
	maxIter     int

	outFile  string
	saveRun  bool
	bins     int
	showCols int
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "basins",
		Short:         "gravitational basin fractal renderer",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runPreview,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".basins", "run directory")
	pf.StringVar(&configFile, "config", "", "scene file (yaml), overrides --preset")
	pf.StringVar(&preset, "preset", "", "start from a named preset")
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	pf.StringVar(&integrator, "integrator", "rk4", "integration profile (rk4, euler, nearest)")
	pf.StringVar(&filter, "filter", "nearest", "viewport filter (nearest, linear)")
	pf.StringVar(&fallback, "fallback", "nearest", "color for uncaptured pixels (nearest, sentinel)")
	pf.IntVar(&width, "width", config.DefaultWidth, "domain width")
	pf.IntVar(&height, "height", config.DefaultHeight, "domain height")
	pf.IntVar(&workers, "workers", 0, "worker count (0 = all cpus)")
	pf.BoolVar(&pixelCenter, "pixel-center", false, "sample at pixel centers")
	pf.Float64Var(&viewX, "view-x", 0, "world x of the top-left pixel")
	pf.Float64Var(&viewY, "view-y", 0, "world y of the top-left pixel")
	pf.Float64Var(&zoom, "zoom", config.DefaultZoom, "pixels per world unit")
	pf.IntVar(&maxIter, "max-iter", 0, "iteration cap")

	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "compute a basin field and write it as png",
		RunE:  runRender,
	}
	renderCmd.Flags().StringVarP(&outFile, "out", "o", "basin.png", "output png")
	renderCmd.Flags().IntVar(&outWidth, "viewport-width", 0, "viewport width (0 = domain)")
	renderCmd.Flags().IntVar(&outHeight, "viewport-height", 0, "viewport height (0 = domain)")
	renderCmd.Flags().BoolVar(&saveRun, "save", true, "persist the run under --data")

	previewCmd := &cobra.Command{
		Use:   "preview",
		Short: "interactive terminal preview",
		RunE:  runPreview,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}
	showCmd.Flags().IntVar(&showCols, "cols", 64, "terminal columns for the frame (0 = none)")

	statsCmd := &cobra.Command{
		Use:   "stats [run_id]",
		Short: "basin shares and iteration histogram of a saved run or the current scene",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runStats,
	}
	statsCmd.Flags().IntVar(&bins, "bins", 40, "histogram bins")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE:  listPresets,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark field computation across worker counts",
		RunE:  runBench,
	}

	rootCmd.AddCommand(renderCmd, previewCmd, listCmd, showCmd, statsCmd, presetsCmd, benchCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// loadConfig resolves the scene: defaults, then preset, then config file,
// then any flag set on the command line.
func loadConfig(cmd *cobra.Command) (*config.Config, string, error) {
	cfg := config.DefaultConfig()
	name := "three-body"

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, "", fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		name = preset
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		name = strings.TrimSuffix(filepath.Base(configFile), filepath.Ext(configFile))
	}

	flags := cmd.Flags()
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("filter") {
		cfg.Filter = filter
	}
	if flags.Changed("fallback") {
		cfg.Fallback = fallback
	}
	if flags.Changed("width") {
		cfg.Domain.Width = width
	}
	if flags.Changed("height") {
		cfg.Domain.Height = height
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("pixel-center") {
		cfg.PixelCenter = pixelCenter
	}
	if flags.Changed("view-x") {
		cfg.View.X = viewX
	}
	if flags.Changed("view-y") {
		cfg.View.Y = viewY
	}
	if flags.Changed("zoom") {
		cfg.View.Zoom = zoom
	}
	if flags.Changed("max-iter") {
		cfg.Params.MaxIterations = maxIter
	}
	if flags.Changed("viewport-width") {
		cfg.Viewport.Width = outWidth
	}
	if flags.Changed("viewport-height") {
		cfg.Viewport.Height = outHeight
	}
	if cfg.Viewport.Width != 0 && cfg.Viewport.Height == 0 && cfg.Domain.Width > 0 {
		cfg.Viewport.Height = cfg.Domain.Height * cfg.Viewport.Width / cfg.Domain.Width
	}
	if cfg.Viewport.Height != 0 && cfg.Viewport.Width == 0 && cfg.Domain.Height > 0 {
		cfg.Viewport.Width = cfg.Domain.Width * cfg.Viewport.Height / cfg.Domain.Height
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return cfg, name, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func computeField(ctx context.Context, cfg *config.Config, set *physics.AttractorSet, logger *slog.Logger) (*basin.FieldBuffer, time.Duration, error) {
	c, err := cfg.NewComputer(logger)
	if err != nil {
		return nil, 0, err
	}
	start := time.Now()
	buf, err := c.Compute(ctx, cfg.DomainSize(), set)
	return buf, time.Since(start), err
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger()
	ctx, cancel := signalContext()
	defer cancel()

	set, err := cfg.AttractorSet()
	if err != nil {
		return err
	}
	fmt.Printf("rendering %s (%s, %dx%d, %d attractors)...\n",
		name, cfg.Integrator, cfg.Domain.Width, cfg.Domain.Height, set.Len())

	buf, elapsed, err := computeField(ctx, cfg, set, logger)
	if err != nil {
		return err
	}

	comp, err := cfg.NewCompositor()
	if err != nil {
		return err
	}
	frame, err := comp.Present(buf, cfg.ViewportSize())
	if err != nil {
		return err
	}
	if err := storage.WritePNG(outFile, frame); err != nil {
		return err
	}

	summary := analysis.Summarize(buf, set)
	fmt.Printf("completed in %v\n", elapsed.Round(time.Millisecond))
	fmt.Printf("wrote %s (%dx%d)\n", outFile, frame.Bounds().Dx(), frame.Bounds().Dy())
	fmt.Printf("captured: %.2f%%  mean iterations: %.1f\n", 100*summary.CaptureRate(), summary.MeanIter)

	if saveRun {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(storage.Run{Name: name, Config: cfg, Set: set, Field: buf, Frame: frame, Elapsed: elapsed})
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}
	return nil
}

func runPreview(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	// the alt screen owns stdout, so only warnings reach stderr
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	m, err := viz.NewPreview(cfg, viz.PreviewOptions{Name: name, Store: st, Logger: logger})
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTIME\tPROFILE\tSIZE\tATTRACTORS\tCAPTURED\tELAPSED")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%dx%d\t%d\t%.1f%%\t%v\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Profile,
			run.Width, run.Height,
			run.Attractors,
			100*run.CaptureRate,
			run.Elapsed.Round(time.Millisecond),
		)
	}

	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	shares, err := st.LoadShares(runID)
	if err != nil {
		return err
	}

	fmt.Printf("run %s (%s)\n", meta.ID, meta.Name)
	fmt.Printf("  profile:  %s  filter: %s  fallback: %s\n", meta.Profile, meta.Filter, meta.Fallback)
	fmt.Printf("  domain:   %dx%d  generation: %d\n", meta.Width, meta.Height, meta.Generation)
	fmt.Printf("  captured: %.2f%%  mean iterations: %.1f  max: %d\n", 100*meta.CaptureRate, meta.MeanIterations, meta.MaxIterations)
	fmt.Printf("  elapsed:  %v\n\n", meta.Elapsed)

	printShares(shares)

	if showCols <= 0 {
		return nil
	}
	img, err := st.LoadFrame(runID)
	if err != nil {
		return err
	}
	preview, err := terminalFrame(img, showCols)
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Println(preview)
	return nil
}

// terminalFrame scales a stored frame to cols terminal columns.
func terminalFrame(img image.Image, cols int) (string, error) {
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)

	buf := &basin.FieldBuffer{Width: b.Dx(), Height: b.Dy(), Image: rgba}
	rows := max(b.Dy()*cols/b.Dx(), 1)

	cfg := config.DefaultConfig()
	comp, err := cfg.NewCompositor()
	if err != nil {
		return "", err
	}
	frame, err := comp.Present(buf, image.Pt(cols, rows))
	if err != nil {
		return "", err
	}
	return viz.RenderHalfBlocks(frame), nil
}

func printShares(shares []analysis.Share) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INDEX\tX\tY\tPIXELS\tSHARE\tCAPTURED\tMEAN ITER")
	for _, sh := range shares {
		fmt.Fprintf(w, "%d\t%.1f\t%.1f\t%d\t%.2f%%\t%d\t%.1f\n",
			sh.Index, sh.X, sh.Y, sh.Pixels, 100*sh.Fraction, sh.Captured, sh.MeanIterations)
	}
	w.Flush()
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, name, err := statsConfig(cmd, args)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	set, err := cfg.AttractorSet()
	if err != nil {
		return err
	}
	buf, elapsed, err := computeField(ctx, cfg, set, newLogger())
	if err != nil {
		return err
	}

	summary := analysis.Summarize(buf, set)
	fmt.Printf("%s computed in %v\n", name, elapsed.Round(time.Millisecond))
	fmt.Print(summary.String())
	fmt.Println()
	printShares(summary.Ranked())

	hist := analysis.IterationHistogram(buf, bins, cfg.Params.MaxIterations)
	if hist.Total() == 0 {
		fmt.Println("\nno captured pixels")
		return nil
	}
	fmt.Println()
	graph := asciigraph.Plot(hist.Counts,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("captured pixels by iterations (bin width %d)", hist.BinWidth)),
	)
	fmt.Println(graph)
	return nil
}

// statsConfig recomputes a saved run from its scene file, or falls back to
// the scene given by flags.
func statsConfig(cmd *cobra.Command, args []string) (*config.Config, string, error) {
	if len(args) == 0 {
		return loadConfig(cmd)
	}
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return nil, "", err
	}
	cfg, err := st.LoadConfig(args[0])
	if err != nil {
		return nil, "", err
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = workers
	}
	return cfg, meta.ID, nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tPROFILE\tATTRACTORS\tCAPTURE RADIUS\tMAX ITER")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%s\t%d\t%g\t%d\n",
			name, p.Integrator, len(p.Attractors), p.Params.CaptureRadius, p.Params.MaxIterations)
	}
	return w.Flush()
}

func runBench(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	counts := []int{1, 2, 4, runtime.NumCPU()}
	if cmd.Flags().Changed("workers") {
		counts = []int{cfg.Workers}
	}

	domain := cfg.DomainSize()
	pixels := float64(domain.X * domain.Y)
	fmt.Printf("benchmarking %s (%s, %dx%d)\n\n", name, cfg.Integrator, domain.X, domain.Y)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BACKEND\tTIME\tPIXELS/SEC\tCAPTURED")

	seen := make(map[int]bool)
	for _, n := range counts {
		if seen[n] {
			continue
		}
		seen[n] = true

		run := cfg.Clone()
		run.Workers = n
		set, err := run.AttractorSet()
		if err != nil {
			return err
		}
		buf, elapsed, err := computeField(ctx, run, set, newLogger())
		if err != nil {
			return err
		}
		summary := analysis.Summarize(buf, set)
		fmt.Fprintf(w, "%s\t%v\t%.0f\t%.1f%%\n",
			compute.NewCPUBackend(n).Name(),
			elapsed.Round(time.Millisecond),
			pixels/elapsed.Seconds(),
			100*summary.CaptureRate(),
		)
	}
	return w.Flush()
}
