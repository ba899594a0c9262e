// Package morton provides the spatial indexer: an exact bijection between
// voxel coordinates (x,y,z) of a declared volume and scalar Morton (Z-order)
// codes.
//
// Bits of x, y and z are interleaved (x in bit 0, y in bit 1, z in bit 2 of
// every triple), so voxels that are close in space get close codes and a
// sparse matrix indexed by code keeps neighbouring voxels in neighbouring
// rows.
//
// The code space of a volume is the Morton space of the smallest power-of-two
// cube enclosing it: Capacity() == 8^b with 2^b ≥ max(nx,ny,nz). Codes that
// decode to a coordinate outside the declared volume are rejected, which
// keeps Encode/Decode a bijection between the volume and its image.
//
// Both directions are O(1) and allocation-free.
package morton
