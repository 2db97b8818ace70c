// Command bounce renders a field of bodies bouncing around the terminal.
// Simulation state lives in a silo world driven by a staged scheduler; the
// renderer reads the world after each tick.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/TheBitDrifter/silo"
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Position struct {
	X, Y float64
}

type Velocity struct {
	X, Y float64
}

type Glyph struct {
	Char string
}

// Viewport is the drawable region, refreshed from the terminal on resize.
type Viewport struct {
	W, H int
}

// Kinematics integrates one body per Step and reflects it off the viewport
// edges. Initialize supplies defaults when no config inserted one.
type Kinematics struct {
	Gravity float64
	Damping float64
	Steps   uint64
}

func (k *Kinematics) Initialize(w *silo.World) {
	k.Gravity = 0.12
	k.Damping = 0.995
}

// Step advances one body by one tick within a width x height box.
func (k *Kinematics) Step(p *Position, v *Velocity, width, height float64) {
	v.Y += k.Gravity
	v.X *= k.Damping
	v.Y *= k.Damping
	p.X += v.X
	p.Y += v.Y

	if p.X < 0 {
		p.X, v.X = -p.X, -v.X
	}
	if limit := width - 1; p.X > limit {
		p.X, v.X = 2*limit-p.X, -v.X
	}
	if p.Y < 0 {
		p.Y, v.Y = -p.Y, -v.Y
	}
	if limit := height - 1; p.Y > limit {
		p.Y, v.Y = 2*limit-p.Y, -v.Y
	}
}

type Config struct {
	Simulation SimulationConfig `toml:"simulation"`
	Logging    LoggingConfig    `toml:"logging"`
}

type SimulationConfig struct {
	Bodies  int      `toml:"bodies"`
	TickMS  int      `toml:"tick_ms"`
	Gravity float64  `toml:"gravity"`
	Damping float64  `toml:"damping"`
	Glyphs  []string `toml:"glyphs"`
	Seed    int64    `toml:"seed"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
	File   string `toml:"file"`
}

func loadConfig(path string) (*Config, error) {
	cfg := defaults()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Simulation.Bodies < 1 {
		cfg.Simulation.Bodies = 1
	}
	if cfg.Simulation.TickMS < 1 {
		cfg.Simulation.TickMS = 1
	}
	if len(cfg.Simulation.Glyphs) == 0 {
		cfg.Simulation.Glyphs = defaults().Simulation.Glyphs
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Simulation: SimulationConfig{
			Bodies:  48,
			TickMS:  33,
			Gravity: 0.12,
			Damping: 0.995,
			Glyphs:  []string{"o", "*", "+"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			File:   "bounce.log",
		},
	}
}

func newLogger(cfg LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	// The terminal belongs to tcell while the demo runs.
	zapCfg.OutputPaths = []string{cfg.File}
	zapCfg.ErrorOutputPaths = []string{cfg.File}

	return zapCfg.Build()
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to a TOML config file")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer logger.Sync()

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()

	world := silo.Factory.NewWorld(silo.WithLogger(logger))
	w, h := screen.Size()
	silo.AddResource(world, &Viewport{W: w, H: h})
	silo.AddResource(world, &Kinematics{
		Gravity: cfg.Simulation.Gravity,
		Damping: cfg.Simulation.Damping,
	})

	sched := silo.Factory.NewDefaultScheduler(silo.WithSchedulerLogger(logger))
	sched.AddStartupSystem(spawnSystem(cfg.Simulation))
	sched.AddSystem(silo.StageUpdate, physicsSystem())

	logger.Info("starting",
		zap.Int("bodies", cfg.Simulation.Bodies),
		zap.Int("tick_ms", cfg.Simulation.TickMS),
	)

	events := make(chan tcell.Event, 8)
	quit := make(chan struct{})
	go screen.ChannelEvents(events, quit)

	ticker := time.NewTicker(time.Duration(cfg.Simulation.TickMS) * time.Millisecond)
	defer ticker.Stop()

	kin, _ := silo.GetResource[Kinematics](world)
	for {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventResize:
				screen.Sync()
				if vp, ok := silo.GetResource[Viewport](world); ok {
					vp.W, vp.H = screen.Size()
				}
			case *tcell.EventKey:
				if shouldQuit(ev) {
					close(quit)
					logger.Info("quitting", zap.Uint64("steps", kin.Steps))
					return nil
				}
			}
		case <-ticker.C:
			if err := sched.Run(world); err != nil {
				close(quit)
				return fmt.Errorf("tick %d: %w", sched.Tick(), err)
			}
			drawWorld(screen, world)
			drawHUD(screen, world, kin)
			screen.Show()
		}
	}
}

func shouldQuit(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return ev.Rune() == 'q' || ev.Rune() == 'Q'
	}
	return false
}

func spawnSystem(cfg SimulationConfig) silo.System {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	return silo.NewSystem(func(f *silo.Frame) error {
		vp := silo.ResourceOf[Viewport](f)
		en := f.Entities()
		pos := silo.StoreOf[Position](f)
		vel := silo.StoreOf[Velocity](f)
		glyphs := silo.StoreOf[Glyph](f)

		for i := 0; i < cfg.Bodies; i++ {
			e := en.Create()
			pos.Insert(e, Position{
				X: rng.Float64() * float64(vp.W-1),
				Y: rng.Float64() * float64(vp.H-2),
			})
			vel.Insert(e, Velocity{
				X: rng.Float64()*2 - 1,
				Y: rng.Float64()*2 - 1,
			})
			glyphs.Insert(e, Glyph{Char: cfg.Glyphs[i%len(cfg.Glyphs)]})
		}
		return nil
	}, silo.WritesEntities(), silo.Writes[Position](), silo.Writes[Velocity](),
		silo.Writes[Glyph](), silo.ReadsResource[Viewport]())
}

func physicsSystem() silo.System {
	return silo.NewSystem(func(f *silo.Frame) error {
		kin := silo.ResourceOf[Kinematics](f)
		vp := silo.ResourceOf[Viewport](f)
		pos := silo.StoreOf[Position](f)
		vel := silo.StoreOf[Velocity](f)

		kin.Steps++
		width, height := float64(vp.W), float64(vp.H-1) // bottom row is the HUD
		for e, v := range vel.IterWithBitset(pos.Bitset()) {
			p, ok := pos.Get(e)
			if !ok {
				continue
			}
			kin.Step(p, v, width, height)
		}
		return nil
	}, silo.WritesResource[Kinematics](), silo.ReadsResource[Viewport](),
		silo.Writes[Position](), silo.Writes[Velocity]())
}

func drawWorld(screen tcell.Screen, world *silo.World) {
	screen.Clear()
	style := tcell.StyleDefault
	silo.Each2(world, func(e silo.Entity, p *Position, g *Glyph) {
		putGlyph(screen, int(p.X), int(p.Y), g.Char, style)
	})
}

func drawHUD(screen tcell.Screen, world *silo.World, kin *Kinematics) {
	w, h := screen.Size()
	hud := fmt.Sprintf(" silo bounce | bodies %d | step %d | [q]uit ",
		world.Entities().Count(), kin.Steps)

	style := tcell.StyleDefault.Reverse(true)
	x := (w - runewidth.StringWidth(hud)) / 2
	if x < 0 {
		x = 0
	}
	for _, r := range hud {
		screen.SetContent(x, h-1, r, nil, style)
		x += runewidth.RuneWidth(r)
	}
}

// putGlyph draws a single glyph (ASCII or multi-rune emoji) at (x, y).
func putGlyph(screen tcell.Screen, x, y int, glyph string, style tcell.Style) {
	runes := []rune(glyph)
	if len(runes) == 0 {
		return
	}
	var combc []rune
	if len(runes) > 1 {
		combc = runes[1:]
	}
	screen.SetContent(x, y, runes[0], combc, style)
	if runewidth.StringWidth(glyph) == 2 {
		// Fill the second column to avoid rendering artifacts.
		screen.SetContent(x+1, y, ' ', nil, style)
	}
}
