// Command fern-demo shows a small fern UI, either in a window or as a
// headless dump of the primitive list.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	charmlog "github.com/charmbracelet/log"
	"github.com/phanxgames/fern"
	"github.com/phanxgames/fern/ebitenui"
	"github.com/phanxgames/fern/widgets"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/yohamta/donburi"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// globalOpts are the flags shared by every subcommand.
type globalOpts struct {
	configPath string
	verbose    bool
	width      float64
	height     float64
}

func newRootCmd() *cobra.Command {
	var opts globalOpts
	root := &cobra.Command{
		Use:          "fern-demo",
		Short:        "Demo of the fern retained-mode UI",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "TOML or YAML config file")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().Float64Var(&opts.width, "width", 640, "window width in pixels")
	root.PersistentFlags().Float64Var(&opts.height, "height", 480, "window height in pixels")

	root.AddCommand(newDumpCmd(&opts))
	root.AddCommand(newRunCmd(&opts))
	return root
}

// newUI builds a context with the widget catalog, the default TTF font and
// the demo scene mounted. reg may be nil.
func newUI(opts *globalOpts, reg prometheus.Registerer) (*fern.Context, *scene, error) {
	cfg := fern.DefaultConfig()
	if opts.configPath != "" {
		var err error
		if cfg, err = fern.LoadConfig(opts.configPath); err != nil {
			return nil, nil, err
		}
	}
	if cfg.WindowWidth == 0 {
		cfg.WindowWidth = opts.width
	}
	if cfg.WindowHeight == 0 {
		cfg.WindowHeight = opts.height
	}

	level, err := charmlog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = charmlog.WarnLevel
	}
	if opts.verbose {
		level = charmlog.DebugLevel
		cfg.Debug = true
	}

	font, err := ebitenui.DefaultFont()
	if err != nil {
		return nil, nil, err
	}
	fonts := fern.NewFontMapping()
	fonts.Add(fern.DefaultFont, font)
	fonts.Add(cfg.DefaultFont, font)

	var metrics *fern.StatsCollector
	if reg != nil {
		metrics = fern.NewStatsCollector(reg)
	}

	ctx := fern.NewContext(donburi.NewWorld(), fern.Options{
		Config:  cfg,
		Logger:  fern.NewLogger(os.Stderr, level),
		Fonts:   fonts,
		Metrics: metrics,
	})
	widgets.Register(ctx)
	return ctx, newScene(ctx), nil
}
