package serialization

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/born-ml/matgrad/internal/autograd"
)

// Entry is one decoded tensor.
type Entry struct {
	Rows int
	Cols int
	Data []float32 // row-major
}

// StateDict is a decoded file.
type StateDict struct {
	Header  Header
	Tensors map[string]Entry
}

// Read decodes and verifies a file produced by Write.
//
//nolint:gocyclo,cyclop // Linear sequence of format checks
func Read(r io.Reader) (*StateDict, error) {
	magic := make([]byte, len(MagicBytes))
	if _, err := io.ReadFull(r, magic); err != nil {
		return nil, fmt.Errorf("failed to read magic bytes: %w", err)
	}
	if string(magic) != MagicBytes {
		return nil, fmt.Errorf("%w: got %q, expected %q", ErrInvalidMagic, string(magic), MagicBytes)
	}

	var version, flags uint32
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, fmt.Errorf("failed to read version: %w", err)
	}
	if version != FormatVersion {
		return nil, fmt.Errorf("%w: got %d, expected %d", ErrUnsupportedVersion, version, FormatVersion)
	}
	if err := binary.Read(r, binary.LittleEndian, &flags); err != nil {
		return nil, fmt.Errorf("failed to read flags: %w", err)
	}

	var headerSize uint64
	if err := binary.Read(r, binary.LittleEndian, &headerSize); err != nil {
		return nil, fmt.Errorf("failed to read header size: %w", err)
	}
	if headerSize > MaxHeaderSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrHeaderTooLarge, headerSize)
	}

	headerBytes := make([]byte, headerSize)
	if _, err := io.ReadFull(r, headerBytes); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	var header Header
	if err := json.Unmarshal(headerBytes, &header); err != nil {
		return nil, fmt.Errorf("failed to parse header JSON: %w", err)
	}

	if _, err := io.CopyN(io.Discard, r, padding(headerSize)); err != nil {
		return nil, fmt.Errorf("failed to read padding: %w", err)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read tensor data: %w", err)
	}
	if err := ValidateHeader(&header, int64(len(data))); err != nil {
		return nil, err
	}
	sum := sha256.Sum256(data)
	if hex.EncodeToString(sum[:]) != header.Checksum {
		return nil, ErrChecksumMismatch
	}

	sd := &StateDict{
		Header:  header,
		Tensors: make(map[string]Entry, len(header.Tensors)),
	}
	for _, meta := range header.Tensors {
		raw := data[meta.Offset : meta.Offset+meta.Size]
		values := make([]float32, meta.Size/float32Size)
		for i := range values {
			values[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[i*float32Size:]))
		}
		sd.Tensors[meta.Name] = Entry{Rows: meta.Rows, Cols: meta.Cols, Data: values}
	}
	return sd, nil
}

// Open reads the file at path.
func Open(path string) (*StateDict, error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for model loading
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// LoadInto copies stored values into the origin of each param, matched by
// name. Nothing is written unless every param has a tensor of its shape.
func (s *StateDict) LoadInto(params []*autograd.Variable) error {
	for _, p := range params {
		e, ok := s.Tensors[p.Name()]
		if !ok {
			return fmt.Errorf("%w: %q", ErrMissingTensor, p.Name())
		}
		rows, cols := p.Origin().Shape()
		if e.Rows != rows || e.Cols != cols {
			return fmt.Errorf("load %q: stored %d×%d, parameter %d×%d: %w",
				p.Name(), e.Rows, e.Cols, rows, cols, autograd.ErrShapeMismatch)
		}
	}
	for _, p := range params {
		e := s.Tensors[p.Name()]
		p.Origin().Apply(func(value, _ []float32) {
			copy(value, e.Data)
		})
	}
	return nil
}
