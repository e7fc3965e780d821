// Command infiniteroad rides a camera down an endless winding road. Segments
// are generated ahead of the camera and dropped behind it by a segment
// stream; a growing ball rolls ahead collecting roadside props.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl32"

	"infiniteroad/collector"
	"infiniteroad/config"
	"infiniteroad/core"
	"infiniteroad/logger"
	"infiniteroad/opengl"
	"infiniteroad/road"
	"infiniteroad/scene"
	"infiniteroad/stream"
)

const (
	// maxStep caps a frame's time step. config.Validate guarantees that one
	// step at full speed stays within a segment, so no segment is skipped.
	maxStep = float32(1.0 / 30)

	ballLead    = 15 // how far ahead of the camera the ball rolls
	orbitDrag   = 0.005
	orbitZoom   = 2
	speedStep   = 5
	lightAhead  = 5 // point light distance in front of the camera
)

func main() {
	var (
		configPath = flag.String("config", "", "path to a YAML config (built-in defaults when empty)")
		watch      = flag.Bool("watch", false, "reload camera and collector tuning when the config file changes")
	)
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "infiniteroad: %v\n", err)
			os.Exit(1)
		}
	}

	log := logger.New(cfg.LogLevel, os.Stderr)
	if err := run(cfg, *configPath, *watch, log); err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
	log.Infof("exiting")
}

func run(cfg config.Config, configPath string, watch bool, log logger.Logger) error {
	wc := core.DefaultWindowConfig()
	wc.Width, wc.Height = cfg.Window.Width, cfg.Window.Height
	if cfg.Window.Title != "" {
		wc.Title = cfg.Window.Title
	}
	wc.VSync = cfg.Window.VSync
	wc.Fullscreen = cfg.Window.Fullscreen
	wc.Samples = cfg.Window.Samples
	window, err := core.NewWindow(wc)
	if err != nil {
		return err
	}
	defer window.Destroy()

	renderer, err := opengl.NewRenderer(log)
	if err != nil {
		return err
	}
	defer renderer.Destroy()
	renderer.SetViewport(window.Width, window.Height)

	s := scene.NewRoadScene(window.Aspect())
	s.Camera.FOV = mgl32.DegToRad(cfg.Camera.FOVDegrees)

	var template *scene.Node
	if cfg.Road.PropModel != "" {
		template, err = scene.LoadGLTF(cfg.Road.PropModel)
		if err != nil {
			log.Warnf("prop model: %v; falling back to boxes", err)
			template = nil
		}
	}

	path := road.Path{Amplitude: cfg.Path.Amplitude, Wavelength: cfg.Path.Wavelength}
	builder, err := road.NewBuilder(cfg.Road, path, cfg.Stream.SegmentLength, template)
	if err != nil {
		return err
	}
	sink := road.NewSink(s, renderer.ReleaseNode, logger.Component(log, "road"))
	st, err := stream.New[*road.Segment](cfg.StreamConfig(), builder.Build, sink)
	if err != nil {
		return fmt.Errorf("start road: %w", err)
	}
	defer st.Dispose()

	rider := road.NewRider(path, cfg.Camera.Speed, st)
	rig := road.NewRig(cfg.Camera, window.Aspect())

	var ball *collector.Ball
	if cfg.Collector.Enabled {
		ball = collector.New(cfg.Collector, renderer.ReleaseNode, logger.Component(log, "collector"))
		s.Add(ball.Node)
	}

	var guide *guideLine
	if cfg.Road.PathLine {
		guide = newGuideLine(path, s, renderer.ReleaseNode)
		defer guide.Clear()
	}

	sky := newSkyCycle()

	var updates <-chan config.Config
	if watch {
		if configPath == "" {
			log.Warnf("-watch needs -config; ignoring")
		} else {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			updates, err = config.Watch(ctx, configPath, logger.Component(log, "config"))
			if err != nil {
				log.Warnf("watch config: %v", err)
			}
		}
	}

	window.SetScrollCallback(func(_, yoff float64) {
		if rig.Mode == road.ModeOrbit {
			rig.Orbit.Zoom(float32(-yoff) * orbitZoom)
		}
	})

	log.Infof("road: segment length %.0f, %d resident, threshold %.0f",
		cfg.Stream.SegmentLength, cfg.Stream.Capacity, cfg.Stream.ProximityThreshold)
	log.Infof("keys: o=orbit v=view p=pause f=wire c=day/night -/= speed esc=quit")

	var (
		hud          titleHUD
		stats        opengl.FrameStats
		dragX, dragY float64
		dragging     bool
		last         = core.Time()
		fpsStart     = last
		frames, fps  int
	)

	for !window.ShouldClose() {
		window.PollEvents()

		now := core.Time()
		dt := float32(now - last)
		last = now
		if dt > maxStep {
			dt = maxStep
		}

		select {
		case c := <-updates:
			rig.Camera = c.Camera
			rider.Speed = c.Camera.Speed
			if ball != nil {
				ball.Growth = c.Collector.Growth
				ball.MaxRadius = c.Collector.MaxRadius
			}
			log.Infof("config reloaded: speed %.1f", c.Camera.Speed)
		default:
		}

		if window.Resized() {
			renderer.SetViewport(window.Width, window.Height)
			s.Camera.UpdateAspectRatio(float32(window.Width), float32(window.Height))
			rig.Orbit.UpdateAspectRatio(float32(window.Width), float32(window.Height))
		}

		switch {
		case window.KeyPressed(core.KeyEscape):
			window.SetShouldClose()
		case window.KeyPressed(core.KeyO):
			rig.ToggleOrbit()
			log.Infof("camera: %s", rig.Mode)
		case window.KeyPressed(core.KeyV):
			rig.CycleView()
			log.Infof("camera: %s", rig.Mode)
		case window.KeyPressed(core.KeyP):
			rider.Paused = !rider.Paused
		case window.KeyPressed(core.KeyF):
			renderer.Wireframe = !renderer.Wireframe
		case window.KeyPressed(core.KeyC):
			sky.Active = !sky.Active
		}
		maxSpeed := float32(cfg.Stream.SegmentLength) / maxStep * 0.9
		if window.IsKeyPressed(core.KeyMinus) {
			rider.Speed = mgl32.Clamp(rider.Speed-speedStep*dt, 0, maxSpeed)
		}
		if window.IsKeyPressed(core.KeyEqual) {
			rider.Speed = mgl32.Clamp(rider.Speed+speedStep*dt, 0, maxSpeed)
		}

		if rig.Mode == road.ModeOrbit && window.IsMouseButtonPressed(core.MouseLeft) {
			x, y := window.GetCursorPos()
			if dragging {
				rig.Orbit.Orbit(-float32(x-dragX)*orbitDrag, float32(y-dragY)*orbitDrag)
			}
			dragX, dragY, dragging = x, y, true
		} else {
			dragging = false
		}

		step := dt
		if !rig.Travelling() {
			step = 0
		}
		if err := rider.Update(step); err != nil {
			// The stream is unchanged; the next frame retries.
			log.Warnf("extend road: %v", err)
		}

		px, py := window.CursorNDC()
		rig.Apply(s.Camera, rider, px, py)
		if pt := s.FirstLight(scene.LightTypePoint); pt != nil {
			pt.Position = s.Camera.Position.Add(s.Camera.GetForward().Mul(lightAhead))
		}

		if ball != nil {
			ball.Follow(path.PointAt(rider.Distance + ballLead))
			ball.Collect(sink.Props())
		}
		if guide != nil {
			segs := st.Segments()
			half := cfg.Stream.SegmentLength / 2
			guide.Update(segs[0].Position+half, segs[len(segs)-1].Position-half)
		}

		sky.Update(dt)
		sky.Apply(s)

		stats = renderer.RenderScene(s)
		window.SwapBuffers()

		frames++
		if now-fpsStart >= 1 {
			fps, frames, fpsStart = frames, 0, now

			front, _ := st.Frontier()
			hud.Clear()
			hud.Add("%s", cfg.Window.Title)
			hud.Add("FPS %d", fps)
			hud.Add("z %.0f", -rider.Distance)
			hud.Add("segments %d..%d", front.Index-st.Len()+1, front.Index)
			hud.Add("drawn %d culled %d", stats.Drawn, stats.Culled)
			hud.Add("%s", rig.Mode)
			if ball != nil {
				hud.Add("ball r=%.2f (%d)", ball.Radius, ball.Absorbed)
			}
			if sky.Active {
				hud.Add("%s", sky.Label())
			}
			if rider.Paused {
				hud.Add("PAUSED")
			}
			window.SetTitle(hud.String())
		}
	}
	return nil
}
