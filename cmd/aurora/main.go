// Command aurora renders the aurora gradient in a terminal or to a PNG file.
//
// Usage:
//
//	aurora                       # live preview in the terminal (q or Esc quits)
//	aurora -png out.png          # headless snapshot
//	aurora -listen :8080         # accept websocket props updates while running
//	aurora -telemetry run1       # write run1/frames.csv
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"image/png"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"

	"github.com/gdamore/tcell/v2"

	"github.com/gogpu/aurora"
	"github.com/gogpu/aurora/gpu"
	"github.com/gogpu/aurora/host/headless"
	"github.com/gogpu/aurora/host/term"
	"github.com/gogpu/aurora/propsync"
	"github.com/gogpu/aurora/render"
	"github.com/gogpu/aurora/telemetry"
)

// frameIntervalMS is the simulated refresh interval for snapshots.
const frameIntervalMS = 1000.0 / 60

func main() {
	var (
		configPath  = flag.String("config", "", "YAML config file (defaults are embedded)")
		writeConfig = flag.String("write-config", "", "write the effective config to this file and exit")
		pngPath     = flag.String("png", "", "render a snapshot to this PNG file instead of the terminal")
		frames      = flag.Int("frames", 1, "frames to render before the snapshot")
		width       = flag.Int("width", 800, "snapshot width in layout pixels")
		height      = flag.Int("height", 600, "snapshot height in layout pixels")
		dpr         = flag.Float64("dpr", 0, "device pixel ratio (0 uses the config value)")
		telemetryTo = flag.String("telemetry", "", "directory for frames.csv (overrides config)")
		listen      = flag.String("listen", "", "address for the websocket props feed (overrides config)")
		software    = flag.Bool("software", false, "force the software renderer")
		logPath     = flag.String("log", "", "write debug logs to this file")
	)
	flag.Parse()

	cfg, err := aurora.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *dpr > 0 {
		cfg.Renderer.DevicePixelRatio = *dpr
	}
	if *telemetryTo != "" {
		cfg.Telemetry.Dir = *telemetryTo
	}
	if *listen != "" {
		cfg.PropSync.Listen = *listen
	}
	if *software {
		cfg.Renderer.Tier = aurora.TierSoftware
	}
	if *writeConfig != "" {
		if err := cfg.WriteYAML(*writeConfig); err != nil {
			log.Fatal(err)
		}
		return
	}

	if *logPath != "" {
		f, err := os.Create(*logPath)
		if err != nil {
			log.Fatalf("log: %v", err)
		}
		defer f.Close()
		aurora.SetLogger(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, *pngPath, *frames, *width, *height); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cfg *aurora.Config, pngPath string, frames, width, height int) error {
	cell := aurora.NewPropsCell(cfg.Props)
	opts := []aurora.Option{aurora.WithPropsCell(cell)}

	modern, baseline := acquirers(cfg.Renderer.Tier)
	opts = append(opts, aurora.WithAcquirers(modern, baseline))

	tw, err := telemetry.Create(cfg.Telemetry.Dir)
	if err != nil {
		return err
	}
	if tw != nil {
		defer func() {
			if err := tw.Close(); err != nil {
				log.Printf("telemetry: %v", err)
			}
		}()
		opts = append(opts, aurora.WithFrameObserver(tw))
	}

	if cfg.PropSync.Listen != "" {
		srv, err := serveProps(cfg.PropSync.Listen, cell)
		if err != nil {
			return err
		}
		defer srv.Close()
	}

	if pngPath != "" {
		return snapshot(cfg, opts, pngPath, frames, width, height)
	}
	return live(ctx, cfg, opts)
}

func acquirers(tier string) (modern, baseline render.Acquirer) {
	switch tier {
	case aurora.TierGPU:
		return gpu.Acquirer(nil), nil
	case aurora.TierSoftware:
		return nil, render.SoftwareAcquirer
	default:
		return gpu.Acquirer(nil), render.SoftwareAcquirer
	}
}

func serveProps(addr string, cell *aurora.PropsCell) (*http.Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("propsync: %w", err)
	}
	srv := &http.Server{Handler: propsync.Handler(cell)}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			aurora.Logger().Warn("propsync: server stopped", "err", err)
		}
	}()
	aurora.Logger().Info("propsync: listening", "addr", ln.Addr().String())
	return srv, nil
}

func snapshot(cfg *aurora.Config, opts []aurora.Option, path string, frames, width, height int) error {
	h := headless.New(float64(width), float64(height))
	h.Container.SetDevicePixelRatio(cfg.Renderer.DevicePixelRatio)

	a := aurora.Mount(h.Container, h.Window, h.Scheduler, opts...)
	defer a.Unmount()

	for i := 0; i < max(frames, 1); i++ {
		h.Scheduler.Step(float64(i) * frameIntervalMS)
		if a.State() != aurora.StateRunning {
			break
		}
	}

	var img *image.RGBA
	if s := h.Container.Surface(); a.State() == aurora.StateRunning && s != nil {
		img = s.Image()
	} else {
		w := int(float64(width) * max(cfg.Renderer.DevicePixelRatio, 1))
		hh := int(float64(height) * max(cfg.Renderer.DevicePixelRatio, 1))
		img = image.NewRGBA(image.Rect(0, 0, w, hh))
		aurora.DefaultFallback.Draw(img)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	log.Printf("aurora: %s (%dx%d, %s, %v tier)", path, img.Bounds().Dx(), img.Bounds().Dy(), a.State(), a.Tier())
	return nil
}

func live(ctx context.Context, cfg *aurora.Config, opts []aurora.Option) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	th := term.New(screen,
		term.WithFPS(cfg.Terminal.FPS),
		term.WithDevicePixelRatio(cfg.Renderer.DevicePixelRatio),
	)
	a := aurora.Mount(th, th, th, opts...)
	defer a.Unmount()

	if err := th.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
