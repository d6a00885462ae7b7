package weights

import (
	"bytes"
	"encoding/binary"
	"path/filepath"
	"testing"
)

func TestEncodeDecode(t *testing.T) {
	f := NewFile()
	f.Metadata["network"] = "c3d"
	f.Tensors["conv1/kernel"] = Tensor{Shape: []int{2, 3}, Data: []float32{1, 2, 3, 4, 5, 6}}
	f.Tensors["conv1/bias"] = Tensor{Shape: []int{3}, Data: []float32{-1, 0, 0.5}}

	var b bytes.Buffer
	if err := f.Encode(&b); err != nil {
		t.Fatal(err)
	}

	data := b.Bytes()
	headerLen := binary.LittleEndian.Uint64(data[:8])
	if headerLen%8 != 0 {
		t.Errorf("expected header padded to 8 bytes, got length %d", headerLen)
	}
	if want := 8 + int(headerLen) + 4*9; len(data) != want {
		t.Errorf("expected %d bytes, got %d", want, len(data))
	}

	g, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if g.Metadata["network"] != "c3d" {
		t.Errorf("metadata lost: %v", g.Metadata)
	}
	if names := g.Names(); len(names) != 2 || names[0] != "conv1/bias" || names[1] != "conv1/kernel" {
		t.Fatalf("unexpected tensors %v", names)
	}

	for name, want := range f.Tensors {
		got := g.Tensors[name]
		if len(got.Shape) != len(want.Shape) || len(got.Data) != len(want.Data) {
			t.Fatalf("%s: expected %v, got %v", name, want, got)
		}
		for i := range want.Data {
			if got.Data[i] != want.Data[i] {
				t.Fatalf("%s: expected %v, got %v", name, want.Data, got.Data)
			}
		}
	}
}

func TestDecode_Errors(t *testing.T) {
	header := func(h string, body int) []byte {
		b := make([]byte, 8, 8+len(h)+body)
		binary.LittleEndian.PutUint64(b, uint64(len(h)))
		b = append(b, h...)
		return append(b, make([]byte, body)...)
	}

	cases := map[string][]byte{
		"too small":     {1, 2, 3},
		"header length": header("{}", 0)[:9],
		"bad json":      header("{", 0),
		"dtype":         header(`{"a":{"dtype":"F16","shape":[2],"data_offsets":[0,4]}}`, 4),
		"out of range":  header(`{"a":{"dtype":"F32","shape":[2],"data_offsets":[0,8]}}`, 4),
		"shape":         header(`{"a":{"dtype":"F32","shape":[3],"data_offsets":[0,8]}}`, 8),
		"huge shape":    header(`{"a":{"dtype":"F32","shape":[4611686018427387904],"data_offsets":[0,0]}}`, 0),
		"shape product": header(`{"a":{"dtype":"F32","shape":[2147483648,2147483648,4],"data_offsets":[0,0]}}`, 8),
	}

	for name, data := range cases {
		if _, err := Decode(data); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestEncode_BadTensor(t *testing.T) {
	f := NewFile()
	f.Tensors["a"] = Tensor{Shape: []int{2, 2}, Data: []float32{1, 2, 3}}

	var b bytes.Buffer
	if err := f.Encode(&b); err == nil {
		t.Fatal("expected error for tensor with wrong number of values")
	}
}

func TestWriteReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "w.safetensors")

	f := NewFile()
	f.Tensors["fc6/bias"] = Tensor{Shape: []int{4}, Data: []float32{1, 2, 3, 4}}
	if err := f.WriteFile(path); err != nil {
		t.Fatal(err)
	}

	g, err := ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := g.Tensors["fc6/bias"].Data; len(got) != 4 || got[3] != 4 {
		t.Errorf("unexpected data %v", got)
	}

	if _, err = ReadFile(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for missing file")
	}
}
