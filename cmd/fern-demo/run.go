package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/phanxgames/fern/ebitenui"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

func newRunCmd(g *globalOpts) *cobra.Command {
	var metricsAddr string
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Open the demo in a window",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := prometheus.NewRegistry()
			ctx, sc, err := newUI(g, reg)
			if err != nil {
				return err
			}

			if metricsAddr != "" {
				srv := &http.Server{
					Addr:              metricsAddr,
					Handler:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
					ReadHeaderTimeout: 5 * time.Second,
				}
				go func() {
					if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						ctx.Logger().Error("metrics server stopped", "err", err)
					}
				}()
				defer srv.Close()
				ctx.Logger().Info("serving metrics", "addr", metricsAddr)
			}

			game := ebitenui.NewGame(ctx, nil)
			game.OnUpdate = func() error {
				if cmd.Context().Err() != nil {
					return ebiten.Termination
				}
				sc.tick(float32(1 / float64(ebiten.TPS())))
				return nil
			}
			size := ctx.WindowSize()
			return ebitenui.Run(game, ebitenui.RunConfig{
				Title:     "fern demo",
				Width:     int(size.X),
				Height:    int(size.Y),
				Resizable: true,
			})
		},
	}
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address")
	return cmd
}
