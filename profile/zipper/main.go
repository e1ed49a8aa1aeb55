// Profiling:
// go build ./profile/zipper
// ./zipper && go tool pprof -http=":8000" -nodefraction=0.001 ./zipper cpu.pprof

package main

import (
	"flag"

	"github.com/pkg/profile"

	"github.com/zeusync/zeusecs/pkg/ecs"
)

type position struct {
	X int64
	Y int64
}

type velocity struct {
	X int64
	Y int64
}

func main() {
	mode := flag.String("mode", "cpu", "profile to record: cpu or mem")
	flag.Parse()

	rounds := 50
	iters := 1000
	entities := 10000

	var p interface{ Stop() }
	if *mode == "mem" {
		p = profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook)
	} else {
		p = profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook)
	}
	run(rounds, iters, entities)
	p.Stop()
}

func run(rounds, iters, numEntities int) {
	for range rounds {
		r := ecs.NewRegistry()
		ecs.MustRegisterComponent[position](r)
		ecs.MustRegisterComponent[velocity](r)

		err := ecs.AddSystem2(r, func(_ *ecs.Registry, _ *ecs.EntityList, pos *ecs.SparseArray[position], vel *ecs.SparseArray[velocity]) error {
			z := ecs.NewZip2(pos, vel)
			for z.Next() {
				p, v := z.Get()
				p.X += v.X
				p.Y += v.Y
			}
			return nil
		})
		if err != nil {
			panic(err)
		}

		for i := range numEntities {
			e := r.SpawnEntity()
			_, _ = ecs.AddComponent(r, e, position{})
			// every third entity is static
			if i%3 != 0 {
				_, _ = ecs.AddComponent(r, e, velocity{X: 1, Y: 1})
			}
		}

		for range iters {
			_ = r.RunSystems(nil)
		}

		// churn the free list
		for i := range numEntities / 2 {
			_ = r.KillEntity(r.EntityFromIndex(i * 2))
		}
		for range numEntities / 2 {
			r.SpawnEntity()
		}
	}
}
