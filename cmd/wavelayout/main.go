package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/driftlab/wavelayout/internal/analysis"
	"github.com/driftlab/wavelayout/internal/automation"
	"github.com/driftlab/wavelayout/internal/cache"
	"github.com/driftlab/wavelayout/internal/config"
	"github.com/driftlab/wavelayout/internal/export"
	"github.com/driftlab/wavelayout/internal/layout"
	"github.com/driftlab/wavelayout/internal/optim"
	"github.com/driftlab/wavelayout/internal/storage"
	"github.com/driftlab/wavelayout/internal/tui"
	"github.com/driftlab/wavelayout/internal/validate"
	"github.com/driftlab/wavelayout/internal/viz"
	"github.com/driftlab/wavelayout/internal/wavefield"
)

var (
	dataDir    string
	configFile string
	preset     string
	elements   int
	columns    int
	duration   float64
	tickRate   float64
	verbose    bool

	sweepFrom  float64
	sweepTo    float64
	sweepSteps int
	svgField   bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "wavelayout",
		Short: "procedural wave-field spatial layout engine",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Default to the interactive session when no command is given.
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return tui.RunLive(cfg)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".wavelayout", "data directory")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "simulate a layout session and record it",
		RunE:  runSession,
	}
	addSessionFlags(runCmd)

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "check field parameters against the configured bounds",
		RunE:  validateParams,
	}
	addSessionFlags(validateCmd)

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark tick cost across element counts",
		RunE:  benchEngine,
	}
	addSessionFlags(benchCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of a recorded run's field",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "interactive session with live field view",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return tui.RunLive(cfg)
		},
	}
	addSessionFlags(liveCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				cfg := config.GetPreset(name)
				fmt.Printf("  %-10s %d elements, %.1f ms budget, %.0f Hz\n",
					name,
					cfg.Engine.Context.TargetElementCount,
					cfg.Engine.Context.FrameBudgetMillis,
					cfg.Session.TickRate)
			}
			return nil
		},
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run frames to CSV on stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata and frames to JSON on stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export a run as SVG on stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().BoolVar(&svgField, "field", false, "render a field snapshot instead of the probe trace")

	batchCmd := &cobra.Command{
		Use:   "batch [scenario.yaml]",
		Short: "run a scripted scenario of sessions",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [field]",
		Short: "sweep one field parameter and report validity and motion metrics",
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	addSessionFlags(sweepCmd)
	sweepCmd.Flags().Float64Var(&sweepFrom, "from", 0.05, "first value")
	sweepCmd.Flags().Float64Var(&sweepTo, "to", 0.5, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 10, "number of values")

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid-search primary wave settings for calm, visible motion",
		RunE:  tuneParams,
	}
	addSessionFlags(tuneCmd)

	rootCmd.AddCommand(runCmd, validateCmd, benchCmd, listCmd, plotCmd,
		analyzeCmd, liveCmd, presetsCmd, exportCSVCmd, exportJSONCmd,
		exportSVGCmd, batchCmd, sweepCmd, tuneCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSessionFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "preset configuration")
	cmd.Flags().IntVar(&elements, "elements", 0, "element count override")
	cmd.Flags().IntVar(&columns, "columns", 0, "grid columns override")
	cmd.Flags().Float64Var(&duration, "time", 0, "session duration override (s)")
	cmd.Flags().Float64Var(&tickRate, "rate", 0, "tick rate override (Hz)")
}

// loadConfig resolves preset, config file, and flag overrides, in that
// order of precedence (later wins).
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if elements > 0 {
		cfg.Session.Elements = elements
	}
	if columns > 0 {
		cfg.Session.Columns = columns
	}
	if duration > 0 {
		cfg.Session.Duration = duration
	}
	if tickRate > 0 {
		cfg.Session.TickRate = tickRate
	}

	return cfg, nil
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// registerGrid places the session's elements on a columns-wide block of
// grid coordinates.
func registerGrid(eng *layout.Engine, count, cols int) []cache.ID {
	if cols < 1 {
		cols = 1
	}
	ids := make([]cache.ID, 0, count)
	for i := 0; i < count; i++ {
		ids = append(ids, eng.Register(cache.GridCoord{X: int32(i % cols), Z: int32(i / cols)}))
	}
	return ids
}

func runSession(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := newLogger()

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	presetName := preset
	if presetName == "" {
		presetName = "default"
	}

	log.Info("session start",
		"elements", cfg.Session.Elements,
		"duration", cfg.Session.Duration,
		"rate", cfg.Session.TickRate)

	start := time.Now()
	res, err := automation.RunSession(cfg, presetName)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	if res.Meta.Degraded {
		log.Warn("budget overrun, recompute interval was stretched")
	}

	runID, err := st.Save(res.Meta, res.Frames)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("ticks: %d\n", len(res.Frames))
	fmt.Printf("avg tick: %.0fµs  p95: %.0fµs\n", res.Meta.AvgTickMicros, res.Meta.P95TickMicros)
	if res.Meta.Degraded {
		fmt.Println(viz.StatusWarn.Render("session degraded under budget pressure"))
	}

	return nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	runIDs, err := automation.RunScenario(sc, st)
	for _, id := range runIDs {
		fmt.Printf("saved: %s\n", id)
	}
	return err
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if sweepSteps < 2 {
		sweepSteps = 2
	}
	values := make([]float64, sweepSteps)
	for i := range values {
		values[i] = sweepFrom + (sweepTo-sweepFrom)*float64(i)/float64(sweepSteps-1)
	}

	points, err := automation.RunSweep(cfg, args[0], values)
	if err != nil {
		return err
	}

	fmt.Printf("sweep of %s\n\n", args[0])
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "VALUE\tVALID\tBAND 0.2-1.1Hz\tPEAK-TO-PEAK")
	for _, p := range points {
		fmt.Fprintf(w, "%.4g\t%v\t%.1f%%\t%.3fm\n", p.Value, p.Valid, p.BandEnergy*100, p.PeakToPeak)
	}
	return w.Flush()
}

// tuneParams searches primary amplitude and speed for the largest calm
// motion: maximize amplitude while penalizing energy in the 0.2-1.1 Hz
// band, considering only candidates that pass validation.
func tuneParams(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx := cfg.Engine.Context
	if cfg.Session.Elements > ctx.TargetElementCount {
		ctx.TargetElementCount = cfg.Session.Elements
	}

	gs := optim.NewGridSearch(
		[]string{"primary.amplitude", "primary.speed"},
		[][]float64{
			{0.05, 0.1, 0.15, 0.2, 0.25, 0.3},
			{0.2, 0.4, 0.6, 0.8, 1.0},
		},
	)

	probe := wavefield.Vec2{X: 0.4, Y: 0.4}
	best, score, ok := gs.Search(func(assign map[string]float64) (float64, bool) {
		candidate := cfg.Params
		for field, v := range assign {
			var err error
			candidate, err = automation.SetField(candidate, field, v)
			if err != nil {
				return 0, false
			}
		}

		if !validate.Validate(candidate, ctx, cfg.Engine.Bounds).Valid {
			return 0, false
		}

		ps := analysis.Spectrum(probe, candidate, cfg.Session.TickRate, 512)
		band := analysis.BandEnergy(ps, cfg.Session.TickRate, 0.2, 1.1)
		return band - 2*candidate.AmplitudeSum(), true
	})
	if !ok {
		return fmt.Errorf("no feasible parameter combination found")
	}

	fmt.Println(viz.StatusOK.Render("best settings:"))
	for field, v := range best {
		fmt.Printf("  %s = %.3g\n", field, v)
	}
	fmt.Printf("  score: %.4f\n", score)
	return nil
}

func validateParams(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx := cfg.Engine.Context
	if cfg.Session.Elements > ctx.TargetElementCount {
		ctx.TargetElementCount = cfg.Session.Elements
	}

	res := validate.Validate(cfg.Params, ctx, cfg.Engine.Bounds)
	if res.Valid {
		fmt.Println(viz.StatusOK.Render("parameters valid"))
		fmt.Printf("  combined angular velocity: %.3f rad/s (limit %.1f)\n",
			validate.CombinedAngularVelocity(cfg.Params), cfg.Engine.Bounds.MaxCombinedAngular)
		fmt.Printf("  amplitude sum: %.3f m\n", cfg.Params.AmplitudeSum())
		return nil
	}

	fmt.Println(viz.StatusBad.Render("parameters rejected"))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KIND\tFIELD\tVALUE\tLIMIT")
	for _, v := range res.Violations {
		fmt.Fprintf(w, "%s\t%s\t%.4g\t%.4g\n", v.Kind, v.Field, v.Value, v.Limit)
	}
	w.Flush()

	if res.Suggested != nil {
		fmt.Println("\nsuggested correction:")
		fmt.Printf("  primary:   f=%.2f a=%.3f s=%.2f\n",
			res.Suggested.Primary.Frequency, res.Suggested.Primary.Amplitude, res.Suggested.Primary.Speed)
		fmt.Printf("  secondary: f=%.2f a=%.3f s=%.2f\n",
			res.Suggested.Secondary.Frequency, res.Suggested.Secondary.Amplitude, res.Suggested.Secondary.Speed)
		fmt.Printf("  tertiary:  f=%.2f a=%.3f s=%.2f\n",
			res.Suggested.Tertiary.Frequency, res.Suggested.Tertiary.Amplitude, res.Suggested.Tertiary.Speed)
	}

	return fmt.Errorf("validation failed with %d violation(s)", len(res.Violations))
}

func benchEngine(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	counts := []int{50, 100, 250, 500, 1000}
	const ticks = 200

	fmt.Printf("benchmarking engine (%d ticks per count)\n\n", ticks)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ELEMENTS\tAVG TICK\tP95\tTICKS/SEC")

	for _, count := range counts {
		bc := cfg.Engine
		bc.Context.TargetElementCount = count
		bc.Degrade.Enabled = false

		eng, err := layout.NewWithParams(bc, cfg.Params)
		if err != nil {
			return err
		}
		registerGrid(eng, count, cfg.Session.Columns)

		dt := 1.0 / cfg.Session.TickRate
		start := time.Now()
		for i := 0; i < ticks; i++ {
			// Force a full recompute per tick so the numbers reflect the
			// worst case, not the dirty-tracking fast path.
			eng.SetParams(eng.Params())
			eng.Tick(float64(i) * dt)
		}
		elapsed := time.Since(start)

		perf := eng.Perf()
		fmt.Fprintf(w, "%d\t%v\t%v\t%.0f\n",
			count,
			perf.AvgTick.Round(time.Microsecond),
			perf.P95Tick.Round(time.Microsecond),
			float64(ticks)/elapsed.Seconds())
	}

	return w.Flush()
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
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tELEMENTS\tDURATION\tAVG TICK\tDEGRADED")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.1fs\t%.0fµs\t%v\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Elements,
			run.Duration,
			run.AvgTickMicros,
			run.Degraded)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("elements: %d, %.0f Hz, %.1fs\n\n", meta.Elements, meta.TickRate, meta.Duration)

	heights := make([]float64, len(frames))
	scales := make([]float64, len(frames))
	micros := make([]float64, len(frames))
	for i, f := range frames {
		heights[i] = f.ProbeHeight
		scales[i] = f.ProbeScale
		micros[i] = float64(f.ElapsedMicros)
	}

	fmt.Println(plotSeries(heights, "probe element height (m)"))
	fmt.Println()
	fmt.Println(plotSeries(scales, "probe breathing scale"))
	fmt.Println()
	fmt.Println(plotSeries(micros, "recompute cost per tick (µs)"))
	fmt.Println()
	fmt.Println(viz.FieldProfile(meta.Params, 0, 0, -2, 2, 80))

	return nil
}

func plotSeries(data []float64, caption string) string {
	return asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(caption),
	)
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	probePoint := wavefield.Vec2{X: 0.4, Y: 0.4}
	ps := analysis.Spectrum(probePoint, meta.Params, meta.TickRate, 1024)

	fmt.Printf("frequency analysis: %s\n\n", meta.ID)
	fmt.Println(viz.SpectrumPlot(ps, meta.TickRate))
	fmt.Println()

	freq, power := analysis.DominantFrequency(ps, meta.TickRate)
	fmt.Printf("dominant frequency: %.3f Hz (power %.4g)\n", freq, power)
	if freq > 0 {
		fmt.Printf("period: %.3f s\n", 1.0/freq)
	}

	// The 0.2-1.1 Hz band is where sustained peripheral motion reads as
	// restless rather than calm.
	band := analysis.BandEnergy(ps, meta.TickRate, 0.2, 1.1)
	fmt.Printf("energy in 0.2-1.1 Hz band: %.1f%%\n", band*100)

	lo, hi := analysis.PeakToPeak(
		[]wavefield.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0.4, Y: 0.4}},
		meta.Params, 10, meta.TickRate)
	fmt.Printf("height envelope over 10s: [%.3f, %.3f] m\n", lo, hi)

	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	frames, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}
	return gocsv.Marshal(&frames, os.Stdout)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)

	if svgField {
		meta, err := st.Load(args[0])
		if err != nil {
			return err
		}
		fmt.Println(export.FieldSVG(meta.Params, 0, -2, 2, -2, 2, 64, 8))
		return nil
	}

	frames, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}
	times := make([]float64, len(frames))
	heights := make([]float64, len(frames))
	for i, f := range frames {
		times[i] = f.Time
		heights[i] = f.ProbeHeight
	}
	fmt.Println(export.TraceSVG(times, heights, 800, 300, "#00ccff"))
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}

	out := struct {
		Metadata *storage.RunMetadata  `json:"metadata"`
		Frames   []storage.FrameRecord `json:"frames"`
	}{meta, frames}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
