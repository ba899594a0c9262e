// SPDX-License-Identifier: MIT

// Package volume loads anatomical label volumes (ROI atlases and masks).
//
// A volume is described by a small TOML file next to its voxel data:
//
//	name       = "desikan"
//	dims       = [182, 218, 182]
//	dtype      = "uint16"        # uint8, uint16, uint32, int16, int32
//	byte_order = "little"        # or "big"
//	data       = "desikan.raw"   # raw or zstd-compressed, path relative to the TOML
//
// Voxels are stored x-fastest: offset = x + nx·(y + ny·z). A label of 0 is
// background; any other value names a region and places the voxel in the
// brain mask.
package volume
