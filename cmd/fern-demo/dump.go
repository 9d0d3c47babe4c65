package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/phanxgames/fern"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

const (
	maxScriptFrames = 600
	frameDelta      = float32(1.0 / 60)
)

// dumpOpts holds the flags of the dump command.
type dumpOpts struct {
	frames  int
	script  string
	all     bool
	metrics bool
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5599FF")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).Padding(0, 1)
	titleStyle  = lipgloss.NewStyle().Bold(true).MarginTop(1)
)

func newDumpCmd(g *globalOpts) *cobra.Command {
	opts := dumpOpts{frames: 1}
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Run frames headlessly and print the primitive list",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(cmd, g, &opts)
		},
	}
	cmd.Flags().IntVarP(&opts.frames, "frames", "n", opts.frames, "frames to run when no script is given")
	cmd.Flags().StringVarP(&opts.script, "script", "s", "", "JSON or YAML input script to drive the frames")
	cmd.Flags().BoolVar(&opts.all, "all", false, "include empty layout-only primitives")
	cmd.Flags().BoolVar(&opts.metrics, "metrics", false, "print collected frame metrics")
	return cmd
}

func runDump(cmd *cobra.Command, g *globalOpts, opts *dumpOpts) error {
	reg := prometheus.NewRegistry()
	ctx, sc, err := newUI(g, reg)
	if err != nil {
		return err
	}

	if opts.script != "" {
		s, err := loadScript(opts.script)
		if err != nil {
			return err
		}
		ctx.SetScript(s)
		frames := 0
		for ; !s.Done() && frames < maxScriptFrames; frames++ {
			if err := cmd.Context().Err(); err != nil {
				return err
			}
			sc.tick(frameDelta)
			ctx.Update()
		}
		if !s.Done() {
			return fmt.Errorf("script did not finish within %d frames", maxScriptFrames)
		}
	} else {
		for i := 0; i < max(opts.frames, 1); i++ {
			sc.tick(frameDelta)
			ctx.Update()
		}
	}

	prims := ctx.DrawablePrimitives()
	if opts.all {
		prims = ctx.Primitives()
	}
	out := cmd.OutOrStdout()
	printPrimitives(out, prims)
	printStats(out, ctx.Stats())
	if opts.metrics {
		return printMetrics(out, reg)
	}
	return nil
}

func loadScript(path string) (*fern.Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return fern.ParseScript(data, strings.TrimPrefix(filepath.Ext(path), "."))
}

func printPrimitives(w io.Writer, prims []fern.Primitive) {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("#", "KIND", "ENTITY", "X", "Y", "W", "H", "Z", "DETAIL").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 8 {
				return dimStyle
			}
			return cellStyle
		})
	for i, p := range prims {
		r := p.Layout
		t.Row(
			fmt.Sprint(i),
			p.Kind.String(),
			fmt.Sprint(p.Entity),
			fmt.Sprintf("%.1f", r.X), fmt.Sprintf("%.1f", r.Y),
			fmt.Sprintf("%.1f", r.Width), fmt.Sprintf("%.1f", r.Height),
			fmt.Sprintf("%.1f", r.Z),
			detail(p),
		)
	}
	fmt.Fprintln(w, t.Render())
}

func detail(p fern.Primitive) string {
	switch p.Kind {
	case fern.PrimitiveQuad:
		c := p.BackgroundColor
		return fmt.Sprintf("bg rgba(%.2f, %.2f, %.2f, %.2f)", c.R, c.G, c.B, c.A)
	case fern.PrimitiveText:
		return fmt.Sprintf("%q %s %.0fpx", p.Content, p.Font, p.Properties.FontSize)
	case fern.PrimitiveImage, fern.PrimitiveNinePatch:
		return string(p.Handle)
	case fern.PrimitiveTextureAtlas:
		return fmt.Sprintf("%s @ %.0f,%.0f", p.Handle, p.TilePosition.X, p.TilePosition.Y)
	}
	return ""
}

func printStats(w io.Writer, s fern.FrameStats) {
	fmt.Fprintln(w, titleStyle.Render("Last frame"))
	fmt.Fprintf(w, "  visited %d, routines %d, changes %d, iterations %d, primitives %d, took %s\n",
		s.Visited, s.RoutineCalls, s.DiffChanges, s.LayoutIterations, s.Primitives, s.Total())
}

func printMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	fmt.Fprintln(w, titleStyle.Render("Metrics"))
	for _, f := range families {
		for _, m := range f.GetMetric() {
			var v float64
			switch {
			case m.GetCounter() != nil:
				v = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				v = m.GetGauge().GetValue()
			case m.GetHistogram() != nil:
				v = float64(m.GetHistogram().GetSampleCount())
			}
			fmt.Fprintf(w, "  %s %g\n", f.GetName(), v)
		}
	}
	return nil
}
