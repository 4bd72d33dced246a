// Command demo renders a small scene through the shader registry in a GL
// 2.1 window.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"render-backend/config"
	"render-backend/editor"
	"render-backend/internal/opengl"
	"render-backend/internal/platform"
	"render-backend/materials"
	"render-backend/render"
	"render-backend/scene"
	"render-backend/textures"
)

type options struct {
	configPath string
	modelPath  string
	frames     int
	hidden     bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:          "demo",
		Short:        "Render a scene through the shader registry",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts)
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "TOML settings file")
	flags.StringVarP(&opts.modelPath, "model", "m", "", "glTF model to add to the scene")
	flags.IntVar(&opts.frames, "frames", 0, "exit after this many frames (0 runs until closed)")
	flags.BoolVar(&opts.hidden, "hidden", false, "create an invisible window")
	return cmd
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// newLogHandler writes text to a terminal and JSON lines otherwise.
func newLogHandler(f *os.File, level slog.Level) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	if isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()) {
		return slog.NewTextHandler(f, opts)
	}
	return slog.NewJSONHandler(f, opts)
}

func run(ctx context.Context, opts options) error {
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(newLogHandler(os.Stderr, cfg.LogLevel())))

	wcfg := platform.DefaultWindowConfig()
	wcfg.Title = "Shader registry demo"
	wcfg.Hidden = opts.hidden
	window, err := platform.NewWindow(wcfg)
	if err != nil {
		return err
	}
	defer window.Destroy()

	backend, err := opengl.NewBackend()
	if err != nil {
		return err
	}

	tm := textures.NewManager(backend)
	defer tm.DestroyAll()
	if cfg.Materials.Textures != "" {
		n, err := tm.LoadDir(cfg.Materials.Textures)
		if err != nil {
			return err
		}
		slog.Info("loaded textures", "dir", cfg.Materials.Textures, "count", n)
	}
	if err := registerDemoTextures(tm); err != nil {
		return err
	}

	lib := materials.NewLibrary(tm)
	if cfg.Materials.Path != "" {
		if err := lib.LoadLibrary(cfg.Materials.Path); err != nil {
			return err
		}
		slog.Info("loaded materials", "path", cfg.Materials.Path, "count", len(lib.Names()))
	}

	filterSystem, err := cfg.FilterSystem()
	if err != nil {
		return err
	}
	regOpts := []render.RegistryOption{
		render.WithFilters(filterSystem),
		render.WithColourScheme(cfg.ColourScheme()),
	}
	if cfg.Render.Lighting && !backend.SupportsPrograms() {
		slog.Warn("GLSL 1.20 unavailable, lighting disabled")
		cfg.Render.Lighting = false
	}
	if cfg.Render.Lighting {
		programs := opengl.NewProgramRegistry()
		defer programs.Destroy()
		if cfg.Render.Programs != "" {
			if err := programs.LoadSources(cfg.Render.Programs); err != nil {
				return err
			}
		}
		regOpts = append(regOpts, render.WithPrograms(programs))
	}
	registry := render.NewRegistry(lib, regOpts...)
	if cfg.Render.Lighting {
		if err := registry.SetShaderProgram(render.ShaderProgramInteraction); err != nil {
			slog.Warn("lighting disabled", "error", err)
		}
	}

	s, sun := buildScene()
	if opts.modelPath != "" {
		model, err := scene.LoadGLTF(opts.modelPath, tm, lib)
		if err != nil {
			return err
		}
		for _, root := range model.Roots {
			s.AddNode(root)
		}
	}

	ed := editor.NewEditor(s, registry, window, window.Width, window.Height)
	defer ed.Close()
	ed.ShaderCycle = append(lib.Names(), "$WIREFRAME", "(1 0.5 0)")

	reload := func() error {
		if cfg.Materials.Path == "" {
			return nil
		}
		if err := lib.LoadLibrary(cfg.Materials.Path); err != nil {
			return err
		}
		registry.ReloadMaterials()
		return nil
	}
	ed.Reload = reload

	var changes <-chan struct{}
	if cfg.Materials.Watch && cfg.Materials.Path != "" {
		watchCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		if changes, err = materials.Watch(watchCtx, cfg.Materials.Path); err != nil {
			slog.Warn("material hot reload disabled", "error", err)
		}
	}

	printControls()
	frames, err := loop(ctx, opts, window, backend, registry, ed, changes, reload, sun)
	slog.Info("exiting", "frames", frames)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func loop(
	ctx context.Context,
	opts options,
	window *platform.Window,
	backend *opengl.Backend,
	registry *render.Registry,
	ed *editor.Editor,
	changes <-chan struct{},
	reload func() error,
	sun *scene.PointLight,
) (int, error) {
	dayNight := NewDayNight()
	var status StatusLine

	last := window.Time()
	frame, framesThisSecond := 0, 0
	var lastStats render.FrameStats
	var lastSubmit scene.SubmitStats
	titleTimer := time.Now()

	for !window.ShouldClose() {
		if err := ctx.Err(); err != nil {
			return frame, err
		}
		if opts.frames > 0 && frame >= opts.frames {
			break
		}
		window.PollEvents()

		select {
		case _, ok := <-changes:
			if !ok {
				changes = nil
				break
			}
			if err := reload(); err != nil {
				slog.Error("material reload failed", "error", err)
			} else {
				slog.Info("materials reloaded")
			}
		default:
		}

		now := window.Time()
		dt := float32(now-last) / 1000
		last = now

		dayNight.Update(dt)
		dayNight.Apply(ed.Scene, sun)

		w, h := window.GetFramebufferSize()
		backend.SetViewport(w, h)
		ed.SetViewport(w, h)
		ed.Update()

		registry.SetTime(now)
		cam := ed.Camera
		backend.BeginFrame(ed.Scene.Background, cam.ProjectionMatrix(), cam.ViewMatrix())
		lastSubmit = ed.Submit(backend)
		lastStats = registry.Render(backend, render.RenderAll, cam.Position())
		window.SwapBuffers()

		frame++
		framesThisSecond++
		if elapsed := time.Since(titleTimer); elapsed >= time.Second {
			status.Clear()
			status.Add("%.0f fps", float64(framesThisSecond)/elapsed.Seconds())
			status.Add("%d passes, %d draws, %d state changes", lastStats.Passes, lastStats.Submissions, lastStats.StateChanges)
			status.Add("%d submitted, %d culled, %d filtered", lastSubmit.Submitted, lastSubmit.Culled, lastSubmit.Filtered)
			status.Add("lighting %s", registry.ShaderProgram())
			status.Add("%s", dayNight.TimeOfDay())
			status.Add("%s", ed.StatusText)
			window.SetTitle(status.String())
			slog.Debug("frame stats", "passes", lastStats.Passes, "submissions", lastStats.Submissions,
				"state_changes", lastStats.StateChanges, "culled", lastSubmit.Culled)
			titleTimer = time.Now()
			framesThisSecond = 0
		}
	}
	return frame, nil
}

func printControls() {
	fmt.Println("Controls:")
	fmt.Println("  Left click          select (Shift toggles)")
	fmt.Println("  Middle/right drag   orbit (Shift pans), wheel zooms")
	fmt.Println("  L                   toggle lighting mode")
	fmt.Println("  H / Shift+H         hide selection / show all")
	fmt.Println("  Delete              delete selection")
	fmt.Println("  1 2 3               entity colour white / red / green")
	fmt.Println("  Tab                 cycle the active node's shader")
	fmt.Println("  F                   show light volumes")
	fmt.Println("  R                   reload materials")
	fmt.Println("  Ctrl+Z / Ctrl+Y     undo / redo")
}
