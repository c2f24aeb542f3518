// Profile harness for the storage core: a dense insert/iterate workload
// run under CPU profiling.
package main

import (
	"fmt"

	"github.com/TheBitDrifter/cellar"
	iter_util "github.com/TheBitDrifter/util/iter"
	"github.com/pkg/profile"
)

type position struct{ X, Y float64 }

type velocity struct{ X, Y float64 }

const (
	entityCount = 1 << 16
	passes      = 1000
)

func main() {
	defer profile.Start(profile.ProfilePath(".")).Stop()

	posComp := cellar.FactoryNewComponent[position]()
	velComp := cellar.FactoryNewComponent[velocity]()

	registry := cellar.Factory.NewRegistry()
	positions, err := cellar.StoreFor(registry, posComp)
	if err != nil {
		panic(err)
	}
	velocities, err := cellar.StoreFor(registry, velComp)
	if err != nil {
		panic(err)
	}

	for i := uint32(0); i < entityCount; i++ {
		e := cellar.NewEntity(i, 0)
		positions.Insert(e, position{})
		if i%2 == 0 {
			velocities.Insert(e, velocity{X: 1, Y: 1})
		}
	}

	for pass := 0; pass < passes; pass++ {
		it := positions.IterMut(velocities.Bitset())
		for it.Next() {
			pos := it.Value()
			pos.X++
			pos.Y++
		}
	}

	for _, s := range iter_util.Collect(registry.Stores()) {
		fmt.Printf("store %s: %d/%d slots\n", s.ID(), s.Len(), s.Capacity())
	}
}
