// Profiling:
// go build ./profile/spawn
// go tool pprof -http=":8000" -nodefraction=0.001 spawn mem.pprof
package main

import (
	"github.com/TheBitDrifter/silo"
	"github.com/pkg/profile"
)

type position struct {
	X, Y float64
}

type health struct {
	HP int32
}

func main() {
	rounds := 100
	entities := 10_000

	p := profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook)
	run(rounds, entities)
	p.Stop()
}

// run churns entities through create, insert, and kill so index reuse and
// column growth both show up in the allocation profile.
func run(rounds, entities int) {
	world := silo.Factory.NewWorld()
	pos := silo.StoreFor[position](world)
	hp := silo.StoreFor[health](world)

	handles := make([]silo.Entity, 0, entities)
	for r := 0; r < rounds; r++ {
		handles = handles[:0]
		for i := 0; i < entities; i++ {
			e := world.Entities().Create()
			pos.Insert(e, position{X: float64(i), Y: float64(r)})
			hp.Insert(e, health{HP: 100})
			handles = append(handles, e)
		}
		// Kill the back half; the next round reuses those indexes.
		for _, e := range handles[entities/2:] {
			world.Kill(e)
		}
	}
}
