package serialization_test

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/matgrad/internal/autograd"
	"github.com/born-ml/matgrad/internal/serialization"
)

func variable(t *testing.T, g *autograd.Graph, name string, rows, cols int, data []float32) *autograd.Variable {
	t.Helper()
	x, err := g.Leaf(rows, cols, data, name)
	require.NoError(t, err)
	v := autograd.NewVariable(name, x)
	t.Cleanup(v.Release)
	return v
}

func TestWriteRead_RoundTrip(t *testing.T) {
	g := autograd.New(autograd.Config{})
	w1 := variable(t, g, "W1", 2, 3, []float32{1, -2, 3.5, 0, 1e-7, -0.25})
	w2 := variable(t, g, "W2", 3, 1, []float32{0.5, 0.25, -8})

	var buf bytes.Buffer
	err := serialization.Write(&buf, []*autograd.Variable{w1, w2}, serialization.Header{
		ModelType:      "sine",
		Metadata:       map[string]string{"seed": "42"},
		CheckpointMeta: &serialization.CheckpointMeta{Epoch: 999, Loss: 0.0123, OptimizerType: "sgd"},
	})
	require.NoError(t, err)
	assert.Equal(t, "MGRD", buf.String()[:4])

	sd, err := serialization.Read(&buf)
	require.NoError(t, err)

	assert.Equal(t, serialization.FormatVersion, sd.Header.FormatVersion)
	assert.Equal(t, "sine", sd.Header.ModelType)
	assert.Equal(t, "42", sd.Header.Metadata["seed"])
	require.NotNil(t, sd.Header.CheckpointMeta)
	assert.Equal(t, 999, sd.Header.CheckpointMeta.Epoch)
	require.Len(t, sd.Header.Tensors, 2)
	assert.Equal(t, "W1", sd.Header.Tensors[0].Name, "params order is kept")

	assert.Equal(t, serialization.Entry{Rows: 2, Cols: 3, Data: w1.Origin().Data()}, sd.Tensors["W1"])
	assert.Equal(t, serialization.Entry{Rows: 3, Cols: 1, Data: w2.Origin().Data()}, sd.Tensors["W2"])
}

func TestLoadInto(t *testing.T) {
	g := autograd.New(autograd.Config{})
	src := variable(t, g, "W", 1, 2, []float32{3, 4})

	path := filepath.Join(t.TempDir(), "model.mgrd")
	require.NoError(t, serialization.Save(path, []*autograd.Variable{src}, serialization.Header{}))

	sd, err := serialization.Open(path)
	require.NoError(t, err)

	dst := variable(t, g, "W", 1, 2, nil)
	require.NoError(t, sd.LoadInto([]*autograd.Variable{dst}))
	assert.Equal(t, []float32{3, 4}, dst.Origin().Data())

	wrongShape := variable(t, g, "W", 2, 1, nil)
	assert.ErrorIs(t, sd.LoadInto([]*autograd.Variable{wrongShape}), autograd.ErrShapeMismatch)

	other := variable(t, g, "V", 1, 2, []float32{9, 9})
	err = sd.LoadInto([]*autograd.Variable{dst, other})
	assert.ErrorIs(t, err, serialization.ErrMissingTensor)
	assert.Equal(t, []float32{9, 9}, other.Origin().Data(), "nothing written on failure")
}

func TestRead_DetectsCorruption(t *testing.T) {
	g := autograd.New(autograd.Config{})
	w := variable(t, g, "W", 2, 2, []float32{1, 2, 3, 4})

	var buf bytes.Buffer
	require.NoError(t, serialization.Write(&buf, []*autograd.Variable{w}, serialization.Header{}))
	raw := buf.Bytes()

	t.Run("flipped data byte", func(t *testing.T) {
		bad := bytes.Clone(raw)
		bad[len(bad)-1] ^= 0xff
		_, err := serialization.Read(bytes.NewReader(bad))
		assert.ErrorIs(t, err, serialization.ErrChecksumMismatch)
	})

	t.Run("truncated data", func(t *testing.T) {
		_, err := serialization.Read(bytes.NewReader(raw[:len(raw)-4]))
		var verr *serialization.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "out_of_bounds", verr.Type)
	})

	t.Run("bad magic", func(t *testing.T) {
		bad := bytes.Clone(raw)
		copy(bad, "BORN")
		_, err := serialization.Read(bytes.NewReader(bad))
		assert.ErrorIs(t, err, serialization.ErrInvalidMagic)
	})

	t.Run("bad version", func(t *testing.T) {
		bad := bytes.Clone(raw)
		bad[4] = 9
		_, err := serialization.Read(bytes.NewReader(bad))
		assert.ErrorIs(t, err, serialization.ErrUnsupportedVersion)
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := serialization.Read(bytes.NewReader(nil))
		assert.Error(t, err)
	})
}

func TestWrite_RejectsBadNames(t *testing.T) {
	g := autograd.New(autograd.Config{})
	a := variable(t, g, "W", 1, 1, nil)
	b := variable(t, g, "W", 1, 1, nil)
	c := variable(t, g, "../etc", 1, 1, nil)

	var buf bytes.Buffer
	assert.ErrorIs(t, serialization.Write(&buf, []*autograd.Variable{a, b}, serialization.Header{}), serialization.ErrDuplicateTensor)

	var verr *serialization.ValidationError
	assert.True(t, errors.As(serialization.Write(&buf, []*autograd.Variable{c}, serialization.Header{}), &verr))
}

func TestValidateTensorOffsets(t *testing.T) {
	tests := []struct {
		name    string
		tensors []serialization.TensorMeta
		want    string
	}{
		{
			name:    "negative",
			tensors: []serialization.TensorMeta{{Name: "a", Rows: 1, Cols: 1, Offset: -4, Size: 4}},
			want:    "negative_offset",
		},
		{
			name:    "shape",
			tensors: []serialization.TensorMeta{{Name: "a", Rows: 2, Cols: 2, Offset: 0, Size: 4}},
			want:    "bad_shape",
		},
		{
			name:    "offset overflow",
			tensors: []serialization.TensorMeta{{Name: "a", Rows: 1, Cols: 1, Offset: math.MaxInt64 - 1, Size: 4}},
			want:    "out_of_bounds",
		},
		{
			name:    "oversized",
			tensors: []serialization.TensorMeta{{Name: "a", Rows: 1, Cols: 1, Offset: 0, Size: 4 << 20}},
			want:    "bad_shape",
		},
		{
			name:    "shape overflow",
			tensors: []serialization.TensorMeta{{Name: "a", Rows: math.MaxInt / 2, Cols: 4, Offset: 0, Size: 16}},
			want:    "bad_shape",
		},
		{
			name: "overlap",
			tensors: []serialization.TensorMeta{
				{Name: "a", Rows: 1, Cols: 2, Offset: 0, Size: 8},
				{Name: "b", Rows: 1, Cols: 1, Offset: 4, Size: 4},
			},
			want: "offset_overlap",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := serialization.ValidateTensorOffsets(tt.tensors, 64)
			var verr *serialization.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.want, verr.Type)
		})
	}

	assert.NoError(t, serialization.ValidateTensorOffsets([]serialization.TensorMeta{
		{Name: "a", Rows: 1, Cols: 2, Offset: 0, Size: 8},
		{Name: "b", Rows: 1, Cols: 1, Offset: 8, Size: 4},
	}, 12))
}

// encode builds a stream by hand so the header can say anything while the
// checksum still matches.
func encode(t *testing.T, header serialization.Header, data []byte) []byte {
	t.Helper()
	sum := sha256.Sum256(data)
	header.FormatVersion = serialization.FormatVersion
	header.Checksum = hex.EncodeToString(sum[:])
	headerJSON, err := json.Marshal(header)
	require.NoError(t, err)

	var buf bytes.Buffer
	buf.WriteString(serialization.MagicBytes)
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint32(serialization.FormatVersion)))
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint32(0)))
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint64(len(headerJSON))))
	buf.Write(headerJSON)
	for buf.Len()%serialization.HeaderAlignment != 0 {
		buf.WriteByte(0)
	}
	buf.Write(data)
	return buf.Bytes()
}

func TestRead_RejectsOverflowingOffsets(t *testing.T) {
	tests := []struct {
		name string
		meta serialization.TensorMeta
		want string
	}{
		{"offset near max", serialization.TensorMeta{Name: "W", Rows: 1, Cols: 1, Offset: math.MaxInt64 - 1, Size: 4}, "out_of_bounds"},
		{"size near max", serialization.TensorMeta{Name: "W", Rows: 1, Cols: 1, Offset: 4, Size: math.MaxInt64 - 2}, "bad_shape"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := encode(t, serialization.Header{Tensors: []serialization.TensorMeta{tt.meta}}, make([]byte, 8))

			var sd *serialization.StateDict
			var err error
			require.NotPanics(t, func() {
				sd, err = serialization.Read(bytes.NewReader(raw))
			})
			assert.Nil(t, sd)
			var verr *serialization.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.want, verr.Type)
		})
	}

	raw := encode(t, serialization.Header{Tensors: []serialization.TensorMeta{
		{Name: "W", Rows: 1, Cols: 2, Offset: 0, Size: 8},
	}}, make([]byte, 8))
	sd, err := serialization.Read(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 0}, sd.Tensors["W"].Data)
}
