// Package serialization saves and restores trained variables.
//
// File layout (little-endian):
//
//	offset  size  field
//	0       4     magic "MGRD"
//	4       4     format version (uint32)
//	8       4     flags (uint32)
//	12      8     header size N (uint64)
//	20      N     header JSON
//	20+N    pad   zero padding to a 64-byte boundary
//	...           tensor data, row-major float32, in header order
//
// The header records every tensor's name, shape, offset and size, plus a
// SHA-256 checksum of the data section that Read verifies.
package serialization
