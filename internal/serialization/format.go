package serialization

import (
	"time"
)

// Format constants.
const (
	MagicBytes      = "MGRD"
	FormatVersion   = 1
	HeaderAlignment = 64 // tensor data starts on a 64-byte boundary
	fixedHeaderSize = 4 + 4 + 4 + 8
	float32Size     = 4
)

// Flags stored after the version.
const (
	FlagHasMetadata   uint32 = 1 << 0
	FlagHasCheckpoint uint32 = 1 << 1
)

// Header is the JSON header of a file.
type Header struct {
	FormatVersion  int               `json:"format_version"`
	MatgradVersion string            `json:"matgrad_version"`
	ModelType      string            `json:"model_type"`
	CreatedAt      time.Time         `json:"created_at"`
	Tensors        []TensorMeta      `json:"tensors"`
	Checksum       string            `json:"checksum"` // hex SHA-256 of the data section
	Metadata       map[string]string `json:"metadata,omitempty"`
	CheckpointMeta *CheckpointMeta   `json:"checkpoint,omitempty"`
}

// CheckpointMeta contains training state information for checkpoints.
type CheckpointMeta struct {
	Epoch         int     `json:"epoch"`
	Loss          float64 `json:"loss"`
	OptimizerType string  `json:"optimizer_type"`
}

// TensorMeta describes one tensor in the data section.
type TensorMeta struct {
	Name   string `json:"name"`
	Rows   int    `json:"rows"`
	Cols   int    `json:"cols"`
	Offset int64  `json:"offset"` // bytes from the start of the data section
	Size   int64  `json:"size"`   // bytes
}

// padding returns the zero bytes between a header of n bytes and the data.
func padding(n uint64) int64 {
	//nolint:gosec // G115: n is bounded by MaxHeaderSize
	pos := int64(fixedHeaderSize) + int64(n)
	return (HeaderAlignment - pos%HeaderAlignment) % HeaderAlignment
}
