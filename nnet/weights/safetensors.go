// Package weights reads and writes weight files in the safetensors format: an 8-byte little-endian
// header length, a JSON header mapping each tensor name to its dtype, shape and byte range, and
// then the raw tensor data. Only F32 tensors are supported.
package weights

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"io"
	"math"
	"os"
	"sort"

	"github.com/pkg/errors"
)

const metadataKey = "__metadata__"

// Tensor is a named block of weights. Data is stored row-major in Shape.
type Tensor struct {
	Shape []int
	Data  []float32
}

// File is the decoded contents of a weights file
type File struct {
	Tensors  map[string]Tensor
	Metadata map[string]string
}

// NewFile returns an empty File
func NewFile() *File {
	return &File{
		Tensors:  make(map[string]Tensor),
		Metadata: make(map[string]string),
	}
}

// Names returns the names of all of the tensors in the file, sorted.
func (f *File) Names() []string {
	names := make([]string, 0, len(f.Tensors))
	for n := range f.Tensors {
		names = append(names, n)
	}

	sort.Strings(names)
	return names
}

type tensorInfo struct {
	Dtype       string `json:"dtype"`
	Shape       []int  `json:"shape"`
	DataOffsets [2]int `json:"data_offsets"`
}

// ReadFile reads and decodes the weights file at the given path
func ReadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Can't read weights")
	}

	f, err := Decode(data)
	if err != nil {
		return nil, errors.Wrapf(err, "Can't read weights from %s", path)
	}

	return f, nil
}

// Decode decodes the full contents of a weights file
func Decode(data []byte) (*File, error) {
	if len(data) < 8 {
		return nil, errors.Errorf("File too small: %d bytes", len(data))
	}

	headerLen := binary.LittleEndian.Uint64(data[:8])
	if uint64(len(data))-8 < headerLen {
		return nil, errors.Errorf("Header length %d exceeds file size", headerLen)
	}

	var header map[string]json.RawMessage
	if err := json.Unmarshal(data[8:8+headerLen], &header); err != nil {
		return nil, errors.Wrapf(err, "Failed to parse header")
	}

	body := data[8+headerLen:]
	f := NewFile()

	for name, raw := range header {
		if name == metadataKey {
			if err := json.Unmarshal(raw, &f.Metadata); err != nil {
				return nil, errors.Wrapf(err, "Failed to parse metadata")
			}
			continue
		}

		var info tensorInfo
		if err := json.Unmarshal(raw, &info); err != nil {
			return nil, errors.Wrapf(err, "Failed to parse metadata of tensor %q", name)
		}

		if info.Dtype != "F32" {
			return nil, errors.Errorf("Tensor %q has dtype %s, only F32 is supported", name, info.Dtype)
		}

		size := 1
		for _, d := range info.Shape {
			if d == 0 {
				size = 0
			}
		}

		for _, d := range info.Shape {
			if d < 0 {
				return nil, errors.Errorf("Tensor %q has negative dimension in shape %v", name, info.Shape)
			} else if size != 0 && size > len(body)/4/d {
				return nil, errors.Errorf("Tensor %q has shape %v, larger than data of size %d", name, info.Shape, len(body))
			}
			size *= d
		}

		start, end := info.DataOffsets[0], info.DataOffsets[1]
		if start < 0 || end < start || end > len(body) {
			return nil, errors.Errorf("Tensor %q has data range [%d:%d] outside of data of size %d",
				name, start, end, len(body))
		} else if end-start != size*4 {
			return nil, errors.Errorf("Tensor %q has data size %d, which doesn't match shape %v",
				name, end-start, info.Shape)
		}

		t := Tensor{
			Shape: info.Shape,
			Data:  make([]float32, size),
		}

		for i := range t.Data {
			bits := binary.LittleEndian.Uint32(body[start+i*4:])
			t.Data[i] = math.Float32frombits(bits)
		}

		f.Tensors[name] = t
	}

	return f, nil
}

// Encode writes the File to w. Tensors are laid out in order of their names.
func (f *File) Encode(w io.Writer) error {
	names := f.Names()
	header := make(map[string]interface{}, len(names)+1)
	if len(f.Metadata) != 0 {
		header[metadataKey] = f.Metadata
	}

	offset := 0
	for _, name := range names {
		t := f.Tensors[name]

		size := 1
		for _, d := range t.Shape {
			size *= d
		}

		if size != len(t.Data) {
			return errors.Errorf("Tensor %q has %d values, but shape %v", name, len(t.Data), t.Shape)
		}

		shape := t.Shape
		if shape == nil {
			shape = []int{}
		}

		header[name] = tensorInfo{Dtype: "F32", Shape: shape, DataOffsets: [2]int{offset, offset + 4*size}}
		offset += 4 * size
	}

	h, err := json.Marshal(header)
	if err != nil {
		return errors.Wrapf(err, "Failed to encode header")
	}

	// the data should start on an 8-byte boundary
	if pad := len(h) % 8; pad != 0 {
		h = append(h, bytes.Repeat([]byte(" "), 8-pad)...)
	}

	buf := make([]byte, 8, 8+len(h)+offset)
	binary.LittleEndian.PutUint64(buf, uint64(len(h)))
	buf = append(buf, h...)

	var word [4]byte
	for _, name := range names {
		for _, v := range f.Tensors[name].Data {
			binary.LittleEndian.PutUint32(word[:], math.Float32bits(v))
			buf = append(buf, word[:]...)
		}
	}

	_, err = w.Write(buf)
	return err
}

// WriteFile encodes the File to the given path, replacing any file that is already there
func (f *File) WriteFile(path string) error {
	out, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "Can't write weights")
	}

	if err = f.Encode(out); err != nil {
		out.Close()
		return errors.Wrapf(err, "Can't write weights to %s", path)
	}

	return out.Close()
}
