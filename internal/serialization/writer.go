package serialization

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/born-ml/matgrad/internal/autograd"
)

// Version is written into every header.
const Version = "0.1.0"

// Write stores the origin values of params, in order, under their names.
// Format fields of header are filled in; ModelType, Metadata and
// CheckpointMeta are kept.
func Write(w io.Writer, params []*autograd.Variable, header Header) error {
	header.FormatVersion = FormatVersion
	header.MatgradVersion = Version
	if header.CreatedAt.IsZero() {
		header.CreatedAt = time.Now().UTC()
	}
	header.Tensors = make([]TensorMeta, 0, len(params))

	var data bytes.Buffer
	seen := make(map[string]bool, len(params))
	for _, p := range params {
		if err := ValidateTensorName(p.Name()); err != nil {
			return err
		}
		if seen[p.Name()] {
			return fmt.Errorf("%w: %q", ErrDuplicateTensor, p.Name())
		}
		seen[p.Name()] = true

		origin := p.Origin()
		values := origin.Data()
		header.Tensors = append(header.Tensors, TensorMeta{
			Name:   p.Name(),
			Rows:   origin.Rows(),
			Cols:   origin.Cols(),
			Offset: int64(data.Len()),
			Size:   int64(len(values) * float32Size),
		})
		var buf [float32Size]byte
		for _, v := range values {
			binary.LittleEndian.PutUint32(buf[:], math.Float32bits(v))
			data.Write(buf[:])
		}
	}

	sum := sha256.Sum256(data.Bytes())
	header.Checksum = hex.EncodeToString(sum[:])

	flags := uint32(0)
	if len(header.Metadata) > 0 {
		flags |= FlagHasMetadata
	}
	if header.CheckpointMeta != nil {
		flags |= FlagHasCheckpoint
	}

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("failed to marshal header: %w", err)
	}

	if _, err := io.WriteString(w, MagicBytes); err != nil {
		return fmt.Errorf("failed to write magic bytes: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(FormatVersion)); err != nil {
		return fmt.Errorf("failed to write version: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, flags); err != nil {
		return fmt.Errorf("failed to write flags: %w", err)
	}
	headerSize := uint64(len(headerJSON))
	if err := binary.Write(w, binary.LittleEndian, headerSize); err != nil {
		return fmt.Errorf("failed to write header size: %w", err)
	}
	if _, err := w.Write(headerJSON); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if pad := padding(headerSize); pad > 0 {
		if _, err := w.Write(make([]byte, pad)); err != nil {
			return fmt.Errorf("failed to write padding: %w", err)
		}
	}
	if _, err := w.Write(data.Bytes()); err != nil {
		return fmt.Errorf("failed to write tensor data: %w", err)
	}
	return nil
}

// Save writes params to path.
func Save(path string, params []*autograd.Variable, header Header) error {
	//nolint:gosec // G304: File path comes from user input, which is expected for model saving
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if err := Write(f, params, header); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
