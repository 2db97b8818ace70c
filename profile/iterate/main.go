// Profiling:
// go build ./profile/iterate
// go tool pprof -http=":8000" -nodefraction=0.001 iterate cpu.pprof
package main

import (
	"github.com/TheBitDrifter/silo"
	"github.com/pkg/profile"
)

type position struct {
	X, Y float64
}

type velocity struct {
	X, Y float64
}

func main() {
	entities := 100_000
	iters := 1_000

	world := silo.Factory.NewWorld()
	pos := silo.StoreFor[position](world)
	vel := silo.StoreFor[velocity](world)
	for i := 0; i < entities; i++ {
		e := world.Entities().Create()
		pos.Insert(e, position{X: float64(i)})
		// Every other entity moves.
		if i%2 == 0 {
			vel.Insert(e, velocity{X: 1, Y: 2})
		}
	}

	p := profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook)
	run(world, iters)
	p.Stop()
}

func run(world *silo.World, iters int) {
	for i := 0; i < iters; i++ {
		silo.Each2(world, func(e silo.Entity, p *position, v *velocity) {
			p.X += v.X
			p.Y += v.Y
		})
	}
}
