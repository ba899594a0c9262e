// SPDX-License-Identifier: MIT

// Package fiber reads and writes streamline containers.
//
// Layout (little-endian), optionally wrapped in a single zstd frame:
//
//	magic   [4]byte  "CBFB"
//	version uint32   (1)
//	shape   [3]uint32
//	count   uint64   number of fibers, or 0 when unknown
//	fibers: n uint32, then n × (x, y, z uint32)
//
// Fibers are decoded lazily, one per Next call, so a tractogram is never
// held in memory. A Source is consumed once per pass.
package fiber
