// Command posvel runs a minimal two-body simulation, snapshots it mid-flight,
// transplants the snapshot into a second world, and resumes both side by side.
// The printed trajectories are identical when the transplant is faithful.
package main

import (
	"fmt"
	"os"

	"github.com/TheBitDrifter/silo"
	"go.uber.org/zap"
)

type Position struct {
	X, Y float64
}

type Velocity struct {
	X, Y float64
}

const ticksPerPhase = 10

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	logger, err := zap.NewDevelopment()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer logger.Sync()

	world := silo.Factory.NewWorld(silo.WithLogger(logger))
	sched := newSimScheduler("primary", logger)
	sched.AddStartupSystem(spawnSystem())

	for i := 0; i < ticksPerPhase; i++ {
		if err := sched.Run(world); err != nil {
			return fmt.Errorf("primary tick %d: %w", i+1, err)
		}
	}

	clone, err := transplant(world, logger)
	if err != nil {
		return fmt.Errorf("transplant: %w", err)
	}
	// The clone resumes from the snapshot; its scheduler carries no spawn
	// stage since the entities already exist.
	cloneSched := newSimScheduler("clone", logger)

	for i := 0; i < ticksPerPhase; i++ {
		if err := sched.Run(world); err != nil {
			return fmt.Errorf("primary tick %d: %w", ticksPerPhase+i+1, err)
		}
		if err := cloneSched.Run(clone); err != nil {
			return fmt.Errorf("clone tick %d: %w", i+1, err)
		}
	}
	return nil
}

func newSimScheduler(label string, logger *zap.Logger) *silo.Scheduler {
	sched := silo.Factory.NewDefaultScheduler(
		silo.WithSchedulerLogger(logger.Named(label)),
	)
	sched.AddSystem(silo.StageUpdate, moveSystem())
	sched.AddSystem(silo.StagePostUpdate, printSystem(label))
	return sched
}

func spawnSystem() silo.System {
	return silo.NewSystem(func(f *silo.Frame) error {
		en := f.Entities()
		pos := silo.StoreOf[Position](f)
		vel := silo.StoreOf[Velocity](f)

		drifter := en.Create()
		pos.Insert(drifter, Position{X: 0, Y: 0})
		vel.Insert(drifter, Velocity{X: 3, Y: 1})

		faller := en.Create()
		pos.Insert(faller, Position{X: 0, Y: 100})
		vel.Insert(faller, Velocity{X: 0, Y: -1})
		return nil
	}, silo.WritesEntities(), silo.Writes[Position](), silo.Writes[Velocity]())
}

func moveSystem() silo.System {
	return silo.NewSystem(func(f *silo.Frame) error {
		pos := silo.StoreOf[Position](f)
		vel := silo.StoreOf[Velocity](f)
		for e, v := range vel.IterWithBitset(pos.Bitset()) {
			p, ok := pos.Get(e)
			if !ok {
				continue
			}
			p.X += v.X
			p.Y += v.Y
		}
		return nil
	}, silo.Writes[Position](), silo.Reads[Velocity]())
}

func printSystem(label string) silo.System {
	return silo.NewSystem(func(f *silo.Frame) error {
		pos := silo.StoreOf[Position](f)
		for e, p := range pos.IterWithBitset(f.Entities().Bitset()) {
			fmt.Printf("[%s] tick %2d  %v at (%.0f, %.0f)\n", label, f.Tick(), e, p.X, p.Y)
		}
		return nil
	}, silo.ReadsEntities(), silo.Reads[Position]())
}

// transplant snapshots the world's allocator and component stores and decodes
// them into a fresh world.
func transplant(src *silo.World, logger *zap.Logger) (*silo.World, error) {
	allocData, err := src.Entities().MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("encode allocator: %w", err)
	}
	posData, err := silo.UntypedStoreFor[Position](src).MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("encode positions: %w", err)
	}
	velData, err := silo.UntypedStoreFor[Velocity](src).MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("encode velocities: %w", err)
	}
	logger.Info("snapshot taken",
		zap.Int("allocator_bytes", len(allocData)),
		zap.Int("position_bytes", len(posData)),
		zap.Int("velocity_bytes", len(velData)),
	)

	dst := silo.Factory.NewWorld(silo.WithLogger(logger.Named("clone")))
	if err := dst.Entities().UnmarshalBinary(allocData); err != nil {
		return nil, fmt.Errorf("decode allocator: %w", err)
	}
	if err := silo.UntypedStoreFor[Position](dst).UnmarshalBinary(posData); err != nil {
		return nil, fmt.Errorf("decode positions: %w", err)
	}
	if err := silo.UntypedStoreFor[Velocity](dst).UnmarshalBinary(velData); err != nil {
		return nil, fmt.Errorf("decode velocities: %w", err)
	}
	return dst, nil
}
