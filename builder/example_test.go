// SPDX-License-Identifier: MIT

package builder_test

import (
	"fmt"

	"github.com/katalvlaran/connectome/builder"
	"github.com/katalvlaran/connectome/fiber"
	"github.com/katalvlaran/connectome/matrix"
	"github.com/katalvlaran/connectome/morton"
	"github.com/katalvlaran/connectome/volume"
)

// ExampleBuilder builds a region graph from two streamlines over a
// 3-voxel atlas with regions 10, 20, 30.
func ExampleBuilder() {
	labels, _ := volume.New("atlas", morton.Shape{NX: 3, NY: 1, NZ: 1}, []uint32{10, 20, 30})
	b, _ := builder.New(labels, builder.WithMode(builder.ModeRegion))
	_ = b.Add(fiber.Streamline{{X: 0}, {X: 1}})
	_ = b.Add(fiber.Streamline{{X: 0}, {X: 1}, {X: 2}})

	upper, _ := b.Complete()
	g, _ := matrix.Symmetrize(upper)
	w, _ := g.At(1, 0)
	fmt.Println(b.RegionLabels(), g.NNZ(), w)
	// Output: [10 20 30] 6 2
}

func ExampleBuildCSR() {
	a, _ := builder.BuildCSR(builder.Ring(5), builder.Complete(4))
	fmt.Println(a.Dim(), a.NNZ()/2)
	// Output: 9 11
}
