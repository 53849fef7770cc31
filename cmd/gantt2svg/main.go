package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/fatih/color"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"gantt2svg/internal/cache"
	"gantt2svg/internal/config"
	"gantt2svg/internal/gantt"
	"gantt2svg/internal/input"
	"gantt2svg/internal/server"
	"gantt2svg/internal/svg"
)

var (
	flagDebug     bool
	flagConfig    string
	flagProject   string
	flagTasks     string
	flagDeps      string
	flagOutput    string
	flagView      string
	flagToday     string
	flagCritical  string
	flagConflicts string
)

var (
	bold  = color.New(color.Bold).SprintFunc()
	green = color.New(color.FgGreen).SprintFunc()
	red   = color.New(color.Bold, color.FgRed).SprintFunc()
	cyan  = color.New(color.FgCyan).SprintFunc()
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gantt2svg",
		Short: "Lay out Gantt charts and render them as SVG",
		Long: `gantt2svg reads tasks and typed dependencies from a project document or
CSV files, computes the chart layout (timeline, bars and routed dependency
connectors) and writes it as SVG or JSON, or serves it over HTTP.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if flagDebug {
				log.SetLevel(log.DebugLevel)
			}
		},
	}

	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug mode for verbose output")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "YAML configuration file (optional)")

	rootCmd.AddCommand(renderCmd())
	rootCmd.AddCommand(layoutCmd())
	rootCmd.AddCommand(serveCmd())
	return rootCmd
}

// addInputFlags registers the flags shared by render and layout.
func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagProject, "project", "", "Project document (YAML, or JSON when ending in .json)")
	cmd.Flags().StringVar(&flagTasks, "tasks", "", "CSV file with tasks")
	cmd.Flags().StringVar(&flagDeps, "deps", "", "CSV file with dependencies (optional)")
	cmd.Flags().StringVar(&flagOutput, "output", "", "Output filename (optional)")
	cmd.Flags().StringVar(&flagView, "view", "", "Zoom level: day, week or month")
	cmd.Flags().StringVar(&flagToday, "today", "", "Date to treat as today (default: current date)")
	cmd.Flags().StringVar(&flagCritical, "critical", "", "Comma separated ids of critical path tasks")
	cmd.Flags().StringVar(&flagConflicts, "conflicts", "", "Comma separated ids of conflicting tasks")
}

// loadInput reads the project named by the flags and applies the overrides.
// It returns the input file the output name is derived from.
func loadInput(cfg config.Config) (gantt.Input, string, error) {
	var (
		p      input.Project
		source string
		err    error
	)
	switch {
	case flagProject != "":
		source = flagProject
		p, err = input.LoadProject(flagProject)
	case flagTasks != "":
		source = flagTasks
		p, err = input.LoadCSV(flagTasks, flagDeps)
	default:
		return gantt.Input{}, "", errors.New("either --project or --tasks is required")
	}
	if err != nil {
		return gantt.Input{}, "", err
	}

	if flagView != "" {
		p.ViewMode = flagView
	}
	if p.ViewMode == "" {
		p.ViewMode = string(cfg.ViewMode())
	}
	if flagToday != "" {
		p.Today = flagToday
	}
	p.CriticalPathIDs = append(p.CriticalPathIDs, input.SplitIDs(flagCritical)...)
	p.ConflictTaskIDs = append(p.ConflictTaskIDs, input.SplitIDs(flagConflicts)...)

	in, err := p.Input(time.Now())
	if err != nil {
		return gantt.Input{}, "", fmt.Errorf("%s: %w", source, err)
	}
	log.WithFields(log.Fields{
		"source": source,
		"tasks":  len(in.Tasks),
		"deps":   len(in.Dependencies),
		"view":   in.ViewMode,
		"today":  in.Today.Format("2006-01-02"),
	}).Debug("input loaded")
	return in, source, nil
}

// outputFilename determines the output filename. If output is provided it
// is used as is; otherwise the input's base name with ext is used (e.g.
// "plan.yaml" becomes "plan.svg").
func outputFilename(source, output, ext string) string {
	if output != "" {
		return output
	}
	base := filepath.Base(source)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ext
}

func renderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a chart as SVG",
		Example: `  gantt2svg render --project plan.yaml --view day
  gantt2svg render --tasks tasks.csv --deps deps.csv --critical 1,4 --output chart.svg`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flagConfig)
			if err != nil {
				return err
			}
			in, source, err := loadInput(cfg)
			if err != nil {
				return err
			}

			chart := gantt.Layout(in, cfg.LayoutOptions(log.StandardLogger()))
			doc := svg.New(cfg).Render(chart, in.Tasks)

			path := outputFilename(source, flagOutput, ".svg")
			if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
				return fmt.Errorf("error writing SVG file: %w", err)
			}
			printSummary(path, chart)
			return nil
		},
	}
	addInputFlags(cmd)
	return cmd
}

func layoutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Compute the chart layout and write it as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flagConfig)
			if err != nil {
				return err
			}
			in, _, err := loadInput(cfg)
			if err != nil {
				return err
			}

			chart := gantt.Layout(in, cfg.LayoutOptions(log.StandardLogger()))
			data, err := sonic.ConfigStd.MarshalIndent(chart, "", "  ")
			if err != nil {
				return fmt.Errorf("encode layout: %w", err)
			}
			data = append(data, '\n')

			if flagOutput == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(flagOutput, data, 0644); err != nil {
				return fmt.Errorf("error writing layout file: %w", err)
			}
			printSummary(flagOutput, chart)
			return nil
		},
	}
	addInputFlags(cmd)
	return cmd
}

func serveCmd() *cobra.Command {
	var (
		addr     string
		redisURL string
		cacheTTL time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve layouts and renders over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flagConfig)
			if err != nil {
				return err
			}

			logger := log.StandardLogger()
			var opts []server.Option
			if redisURL != "" {
				redisOpts, err := redis.ParseURL(redisURL)
				if err != nil {
					return fmt.Errorf("invalid --redis: %w", err)
				}
				client := redis.NewClient(redisOpts)
				defer client.Close()

				pingCtx, cancel := context.WithTimeout(cmd.Context(), 2*time.Second)
				if err := client.Ping(pingCtx).Err(); err != nil {
					logger.WithError(err).Warn("redis unreachable, renders will not be cached until it recovers")
				}
				cancel()
				opts = append(opts, server.WithCache(cache.NewRedisCache(client, cacheTTL)))
			}

			e := server.New(server.NewService(cfg, logger, opts...))

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				logger.WithField("addr", addr).Info("listening")
				errCh <- e.Start(addr)
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			logger.Info("shutting down")
			return e.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	cmd.Flags().StringVar(&redisURL, "redis", "", "Redis URL for the render cache, e.g. redis://localhost:6379/0 (optional)")
	cmd.Flags().DurationVar(&cacheTTL, "cache-ttl", time.Hour, "Lifetime of cached renders")
	return cmd
}

// printSummary writes a one line result to stderr.
func printSummary(path string, chart gantt.Chart) {
	conflicts := fmt.Sprint(chart.ConflictCount)
	if chart.ConflictCount > 0 {
		conflicts = red(conflicts)
	}
	fmt.Fprintf(os.Stderr, "%s %s: %s bars, %s connectors, %s conflicts (%s view, %d days)\n",
		green("✓"), cyan(path), bold(len(chart.Bars)), bold(len(chart.Paths)), conflicts,
		chart.Timeline.ViewMode, len(chart.Timeline.Columns))
}
