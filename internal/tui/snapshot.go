package tui

import (
	"context"
	"fmt"
	"io"
	"time"

	"geomap3d/internal/choropleth"
	"geomap3d/internal/config"
	"geomap3d/internal/frame"
	"geomap3d/internal/geom"
)

// Snapshot renders one frame of cfg's data to out without a terminal.
func Snapshot(ctx context.Context, cfg *config.Config, out io.Writer) error {
	loop := frame.NewLoop()
	ctl := choropleth.New(loop, cfg.ControllerOptions(), cfg.ViewOptions()...)
	defer ctl.Close()
	ctl.AddMap().Resize(cfg.Render.Width*2, cfg.Render.Height*4)

	err := frame.Await(ctx, loop, time.Millisecond, func() error {
		_, err := ctl.Init(ctx)
		return err
	})
	if err != nil {
		return err
	}
	if cfg.Data != "" {
		fc, err := geom.Load(cfg.Data)
		if err != nil {
			return err
		}
		if _, err := ctl.Draw(fc); err != nil {
			return err
		}
		if cfg.Map.FitData {
			ctl.FitData(fitPadding)
		}
	}
	ov := ctl.Overlay()
	if ov.NeedsUpdate() {
		ov.Redraw()
	}
	if _, err := fmt.Fprintln(out, ov.Frame()); err != nil {
		return err
	}
	if l := ctl.View().BaseLayer(); l != nil {
		_, err = fmt.Fprintln(out, l.AttributionText())
	}
	return err
}
