// SPDX-License-Identifier: MIT

package builder_test

import (
	"io"
	"log/slog"
	"testing"

	"github.com/katalvlaran/connectome/builder"
	"github.com/katalvlaran/connectome/fiber"
	"github.com/katalvlaran/connectome/morton"
	"github.com/katalvlaran/connectome/volume"
)

func BenchmarkBuilder_AddVoxel(b *testing.B) {
	shape := morton.Shape{NX: 32, NY: 32, NZ: 32}
	data := make([]uint32, shape.Voxels())
	for i := range data {
		data[i] = 1
	}
	labels, _ := volume.New("", shape, data)
	s := make(fiber.Streamline, 64)
	for i := range s {
		s[i] = morton.Coord{X: uint32(i % 32), Y: uint32(i / 2 % 32), Z: uint32(i / 4 % 32)}
	}
	bld, _ := builder.New(labels, builder.WithMode(builder.ModeVoxel), builder.WithWindow(8),
		builder.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = bld.Add(s)
	}
}

func BenchmarkBuildCSR_Grid(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = builder.BuildCSR(builder.Grid(100, 100))
	}
}
