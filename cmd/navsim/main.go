// Command navsim runs a headless navigation simulation: it builds the
// traversal graph for a level, then steps a kinematic agent pursuing a
// moving goal, logging repaths and arrivals. The integrator here is a toy;
// it exists to exercise the navigation loop, not to model real physics.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/jakecoffman/cp"
	"go.uber.org/zap"

	"github.com/milk9111/platformnav/level"
	"github.com/milk9111/platformnav/logger"
	"github.com/milk9111/platformnav/nav"
	"github.com/milk9111/platformnav/tuning"
)

const agentRadius = 8.0

func main() {
	levelPath := flag.String("level", "levels/demo.json", "level geometry file")
	tuningPath := flag.String("tuning", "", "optional tuning yaml")
	scriptPath := flag.String("goal-script", "", "optional tengo script driving the goal point")
	ticks := flag.Int("ticks", 600, "simulation ticks to run")
	watch := flag.Bool("watch", false, "hot-reload the tuning file between ticks")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	logFile := flag.String("log-file", "", "optional rotated log file")
	flag.Parse()

	log := logger.New(*logLevel, *logFile)
	defer log.Sync()

	if err := run(log, *levelPath, *tuningPath, *scriptPath, *ticks, *watch); err != nil {
		log.Error("navsim failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(log *zap.Logger, levelPath, tuningPath, scriptPath string, ticks int, watch bool) error {
	lvl, err := level.Load(levelPath)
	if err != nil {
		return err
	}

	cfg := nav.DefaultConfig()
	if tuningPath != "" {
		spec, err := tuning.Load(tuningPath)
		if err != nil {
			return err
		}
		cfg = spec.Apply(cfg)
	}

	graph := nav.Build(lvl, agentRadius, cfg)
	log.Info("graph built",
		zap.Int("polygons", len(lvl.Polygons)),
		zap.Int("nodes", len(graph.Nodes)),
		zap.Int("jumpable", countConnections(graph, nav.Jumpable)),
		zap.Int("droppable", countConnections(graph, nav.Droppable)),
	)
	if len(graph.Nodes) == 0 {
		return fmt.Errorf("navsim: level %s produced an empty graph", levelPath)
	}

	goalAt, err := goalProvider(scriptPath, lvl)
	if err != nil {
		return err
	}

	var watcher *tuning.Watcher
	if watch && tuningPath != "" {
		watcher, err = tuning.NewWatcher(filepath.Dir(tuningPath))
		if err != nil {
			return err
		}
		defer watcher.Close()
	}

	navigator := nav.NewNavigator(graph, cfg)
	repaths := 0
	navigator.OnRepath(func() { repaths++ })

	agent := newSimAgent(graph.Nodes[0].Position.Add(cp.Vector{Y: agentRadius}))

	arrivals := 0
	for tick := 0; tick < ticks; tick++ {
		if watcher != nil {
			reloadTuning(log, navigator, watcher, tuningPath)
		}

		goal, err := goalAt(tick)
		if err != nil {
			return err
		}

		steering, ok := navigator.Update(agent.state(), goal)
		if !ok {
			log.Debug("no route this tick", zap.Int("tick", tick))
			agent.hold(navigator.Config())
			continue
		}

		agent.step(steering, navigator.Config())

		if agent.position.DistanceSq(goal) <= navigator.Config().NodeReachedThresholdSq {
			arrivals++
			log.Info("goal reached",
				zap.Int("tick", tick),
				zap.Float64("x", agent.position.X),
				zap.Float64("y", agent.position.Y),
			)
		}
	}

	log.Info("simulation done",
		zap.Int("ticks", ticks),
		zap.Int("repaths", repaths),
		zap.Int("arrival_ticks", arrivals),
	)
	return nil
}

func countConnections(g *nav.Graph, kind nav.ConnectionType) int {
	total := 0
	for i := range g.Nodes {
		switch kind {
		case nav.Jumpable:
			total += len(g.Nodes[i].Jumpable)
		case nav.Droppable:
			total += len(g.Nodes[i].Droppable)
		default:
			total += len(g.Nodes[i].Walkable)
		}
	}
	return total
}

// goalProvider returns a tick-indexed goal position. With a script, the
// script runs once per tick with `t` bound and must assign goal_x/goal_y;
// without one the goal patrols the level bounds.
func goalProvider(scriptPath string, lvl *level.Level) (func(tick int) (cp.Vector, error), error) {
	if scriptPath == "" {
		bounds := lvl.Bounds()
		left := cp.Vector{X: bounds.L + 40, Y: bounds.B + 40}
		right := cp.Vector{X: bounds.R - 40, Y: bounds.B + 40}
		return func(tick int) (cp.Vector, error) {
			if (tick/300)%2 == 0 {
				return right, nil
			}
			return left, nil
		}, nil
	}

	src, err := os.ReadFile(scriptPath)
	if err != nil {
		return nil, fmt.Errorf("navsim: read goal script: %w", err)
	}

	script := tengo.NewScript(src)
	script.SetImports(stdlib.GetModuleMap("math", "rand"))
	if err := script.Add("t", 0); err != nil {
		return nil, fmt.Errorf("navsim: bind goal script: %w", err)
	}

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("navsim: compile goal script: %w", err)
	}

	return func(tick int) (cp.Vector, error) {
		if err := compiled.Set("t", tick); err != nil {
			return cp.Vector{}, fmt.Errorf("navsim: goal script tick %d: %w", tick, err)
		}
		if err := compiled.Run(); err != nil {
			return cp.Vector{}, fmt.Errorf("navsim: goal script tick %d: %w", tick, err)
		}
		return cp.Vector{
			X: compiled.Get("goal_x").Float(),
			Y: compiled.Get("goal_y").Float(),
		}, nil
	}, nil
}

func reloadTuning(log *zap.Logger, navigator *nav.Navigator, watcher *tuning.Watcher, path string) {
	select {
	case changed, ok := <-watcher.Events:
		if !ok {
			return
		}
		spec, err := tuning.Load(path)
		if err != nil {
			log.Warn("tuning reload failed", zap.String("file", changed), zap.Error(err))
			return
		}
		navigator.SetConfig(spec.Apply(navigator.Config()))
		log.Info("tuning reloaded", zap.String("file", changed))
	case err, ok := <-watcher.Errors:
		if ok {
			log.Warn("tuning watcher error", zap.Error(err))
		}
	default:
	}
}

// simAgent is a minimal kinematic body: steered on the ground, ballistic
// during jumps, snapped down when a jump arc completes.
type simAgent struct {
	position cp.Vector
	velocity cp.Vector
	grounded bool
	jumpTo   cp.Vector
	jumping  bool
}

func newSimAgent(pos cp.Vector) *simAgent {
	return &simAgent{position: pos, grounded: true}
}

func (a *simAgent) state() nav.AgentState {
	normal := cp.Vector{}
	if a.grounded {
		normal = cp.Vector{Y: 1}
	}
	return nav.AgentState{
		Position: a.position,
		Velocity: a.velocity,
		Normal:   normal,
		Radius:   agentRadius,
		Grounded: a.grounded,
	}
}

func (a *simAgent) hold(cfg nav.Config) {
	if !a.grounded {
		a.fall(cfg)
		return
	}
	a.velocity = cp.Vector{}
}

func (a *simAgent) step(steering nav.Steering, cfg nav.Config) {
	if !a.grounded {
		a.fall(cfg)
		return
	}

	if steering.HasJump {
		a.velocity = steering.Jump
		a.grounded = false
		a.jumping = true
		a.jumpTo = steering.JumpTo
		a.position = a.position.Add(a.velocity)
		return
	}

	a.velocity = steering.Move.Mult(cfg.MaxSpeed)
	a.position = a.position.Add(a.velocity)
}

func (a *simAgent) fall(cfg nav.Config) {
	a.velocity.Y -= cfg.Gravity
	a.position = a.position.Add(a.velocity)

	landing := a.jumping && a.velocity.Y < 0 && a.position.Y <= a.jumpTo.Y
	if landing {
		a.position.Y = a.jumpTo.Y
		a.velocity = cp.Vector{}
		a.grounded = true
		a.jumping = false
	}
}
