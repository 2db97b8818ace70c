package silo

import (
	"fmt"

	"go.uber.org/zap"
)

// Conventional stage names wired up by Factory.NewDefaultScheduler. Callers
// configure their own names and order through AddStage.
const (
	StageStartup    = "startup"
	StagePreUpdate  = "pre_update"
	StageUpdate     = "update"
	StagePostUpdate = "post_update"
)

// Stage is a named, ordered sequence of systems. A startup stage runs
// exactly once, on the first scheduler invocation that reaches it.
type Stage struct {
	name    string
	startup bool
	ran     bool
	systems []System
}

func (s *Stage) Name() string { return s.name }

func (s *Stage) Startup() bool { return s.startup }

// Scheduler runs ordered stages of systems against one world. Stages and
// systems execute in strict declared order; nothing is reordered, and
// nothing is removed once added.
type Scheduler struct {
	stages []*Stage
	byName map[string]*Stage
	tick   uint64
	logger *zap.Logger
}

type SchedulerOption func(*Scheduler)

// WithSchedulerLogger installs a logger on the scheduler. The default is a
// no-op logger.
func WithSchedulerLogger(logger *zap.Logger) SchedulerOption {
	return func(s *Scheduler) {
		s.logger = logger
	}
}

func newScheduler(opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		byName: make(map[string]*Stage),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func newDefaultScheduler(opts ...SchedulerOption) *Scheduler {
	s := newScheduler(opts...)
	s.AddStartupStage(StageStartup)
	s.AddStage(StagePreUpdate)
	s.AddStage(StageUpdate)
	s.AddStage(StagePostUpdate)
	return s
}

// AddStage appends a stage that runs every invocation. Re-adding an
// existing name returns the existing stage unchanged.
func (s *Scheduler) AddStage(name string) *Stage {
	return s.addStage(name, false)
}

// AddStartupStage appends a stage that runs once, on the first invocation.
func (s *Scheduler) AddStartupStage(name string) *Stage {
	return s.addStage(name, true)
}

func (s *Scheduler) addStage(name string, startup bool) *Stage {
	if st, ok := s.byName[name]; ok {
		return st
	}
	st := &Stage{name: name, startup: startup}
	s.stages = append(s.stages, st)
	s.byName[name] = st
	return st
}

// AddSystem appends sys to the named stage.
func (s *Scheduler) AddSystem(stage string, sys System) error {
	st, ok := s.byName[stage]
	if !ok {
		return UnknownStageError{Stage: stage}
	}
	st.systems = append(st.systems, sys)
	return nil
}

// AddStartupSystem appends sys to the conventional startup stage.
func (s *Scheduler) AddStartupSystem(sys System) error {
	return s.AddSystem(StageStartup, sys)
}

// Tick reports how many invocations have started.
func (s *Scheduler) Tick() uint64 { return s.tick }

// Run executes one tick: each stage in declared order (startup stages only
// the first time they are reached), each system in declared order, all
// against w. Deferred kills flush at every stage boundary. A resolution or
// system failure aborts the tick and is returned; later systems do not run
// on a failed tick.
func (s *Scheduler) Run(w *World) error {
	s.tick++
	for _, st := range s.stages {
		if st.startup && st.ran {
			continue
		}
		if err := s.runStage(w, st); err != nil {
			s.logger.Error("tick aborted",
				zap.Uint64("tick", s.tick),
				zap.String("stage", st.name),
				zap.Error(err),
			)
			return err
		}
		st.ran = true
		w.flushKills()
	}
	return nil
}

func (s *Scheduler) runStage(w *World, st *Stage) error {
	s.logger.Debug("running stage",
		zap.Uint64("tick", s.tick),
		zap.String("stage", st.name),
		zap.Int("systems", len(st.systems)),
	)
	for _, sys := range st.systems {
		frame, err := resolveFrame(w, sys)
		if err != nil {
			return fmt.Errorf("resolving %T in stage %q: %w", sys, st.name, err)
		}
		frame.tick = s.tick
		if err := sys.Execute(frame); err != nil {
			return fmt.Errorf("executing %T in stage %q: %w", sys, st.name, err)
		}
	}
	return nil
}

// NewSystem wraps a plain function and its declared accesses as a System.
func NewSystem(fn func(f *Frame) error, accesses ...Access) System {
	return &systemFunc{fn: fn, accesses: accesses}
}

type systemFunc struct {
	fn       func(f *Frame) error
	accesses []Access
}

func (s *systemFunc) Accesses() []Access { return s.accesses }

func (s *systemFunc) Execute(f *Frame) error { return s.fn(f) }
