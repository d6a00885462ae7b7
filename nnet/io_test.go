package nnet_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"

	"github.com/0xqq/five-video-classification-methods/nnet"
	"github.com/0xqq/five-video-classification-methods/nnet/weights"
)

func TestSaveLoad(t *testing.T) {
	net := small(t, 5)

	xs := [][]float32{random(4, 1), random(4, 2)}
	ys := [][]float32{{1, 0, 0}, {0, 0, 1}}
	for i := 0; i < 3; i++ {
		if _, err := net.TrainBatch(xs, ys); err != nil {
			t.Fatal(err)
		}
	}

	dir := filepath.Join(t.TempDir(), "checkpoint")
	if err := net.Save(dir, false); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := nnet.Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if loaded.Name() != net.Name() || loaded.ID() != net.ID() || loaded.Seed() != net.Seed() {
		t.Errorf("loaded network %q (%v, seed %d) differs from %q (%v, seed %d)",
			loaded.Name(), loaded.ID(), loaded.Seed(), net.Name(), net.ID(), net.Seed())
	}
	if !loaded.IsCompiled() {
		t.Fatal("expected loaded network to be compiled")
	}
	if loaded.Iter() != 3 {
		t.Errorf("expected iteration 3, got %d", loaded.Iter())
	}

	a, b := net.Nodes(), loaded.Nodes()
	if len(a) != len(b) {
		t.Fatalf("expected %d nodes, got %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Name() != b[i].Name() || a[i].TypeString() != b[i].TypeString() {
			t.Errorf("node %d: expected %v, got %v", i, a[i], b[i])
		}
	}

	optA, _ := json.Marshal(net.Optimizer())
	optB, _ := json.Marshal(loaded.Optimizer())
	if string(optA) != string(optB) {
		t.Errorf("optimizer %s was loaded as %s", optA, optB)
	}

	for _, x := range xs {
		pa, err := net.Predict(x)
		if err != nil {
			t.Fatal(err)
		}
		pb, err := loaded.Predict(x)
		if err != nil {
			t.Fatal(err)
		}
		if !equal(pa, pb) {
			t.Errorf("loaded network predicts %v, expected %v", pb, pa)
		}
	}
}

func TestSave_Overwrite(t *testing.T) {
	net := small(t, 1)
	dir := t.TempDir()

	if err := net.Save(dir, false); err == nil {
		t.Fatal("expected error saving over an existing directory")
	}
	if err := net.Save(dir, true); err != nil {
		t.Fatalf("Save with overwrite: %v", err)
	}
	if _, err := nnet.Load(dir); err != nil {
		t.Fatalf("Load: %v", err)
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := nnet.Load(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error loading missing checkpoint")
	}

	dir := filepath.Join(t.TempDir(), "checkpoint")
	if err := small(t, 1).Save(dir, false); err != nil {
		t.Fatal(err)
	}

	if err := os.Remove(filepath.Join(dir, "weights.safetensors")); err != nil {
		t.Fatal(err)
	}
	if _, err := nnet.Load(dir); err == nil {
		t.Error("expected error loading checkpoint without weights")
	}

	if err := os.WriteFile(filepath.Join(dir, "network.json"), []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := nnet.Load(dir); err == nil {
		t.Error("expected error loading corrupt checkpoint")
	}
}

func TestLoadWeights_ByName(t *testing.T) {
	src, dst := small(t, 1), small(t, 2)

	path := filepath.Join(t.TempDir(), "w.safetensors")
	if err := src.SaveWeights(path); err != nil {
		t.Fatal(err)
	}

	f, err := weights.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	// keep only the hidden layer, and add something the network doesn't have
	for _, name := range f.Names() {
		if name != "hidden/kernel" && name != "hidden/bias" {
			delete(f.Tensors, name)
		}
	}
	f.Tensors["fc8/kernel"] = weights.Tensor{Shape: []int{1}, Data: []float32{1}}

	logitsBefore := append([]float32(nil), dst.Node("logits").Param(0).Values()...)

	rep, err := dst.SetWeights(f, true)
	if err != nil {
		t.Fatalf("SetWeights: %v", err)
	}

	if len(rep.Matched) != 2 || len(rep.Skipped) != 1 || len(rep.Untouched) != 2 {
		t.Errorf("unexpected report %+v", rep)
	}
	if !equal(dst.Node("hidden").Param(0).Values(), src.Node("hidden").Param(0).Values()) {
		t.Error("hidden/kernel was not copied")
	}
	if !equal(dst.Node("logits").Param(0).Values(), logitsBefore) {
		t.Error("logits/kernel was changed")
	}

	if _, err = dst.SetWeights(f, false); err == nil {
		t.Error("expected strict restore of a partial file to fail")
	}
}

func TestLoadWeights_ShapeMismatch(t *testing.T) {
	net := small(t, 1)
	before := append([]float32(nil), net.Node("hidden").Param(0).Values()...)

	f := weights.NewFile()
	f.Tensors["hidden/kernel"] = weights.Tensor{Shape: []int{4, 6}, Data: make([]float32, 24)}
	f.Tensors["logits/bias"] = weights.Tensor{Shape: []int{4}, Data: make([]float32, 4)}

	_, err := net.SetWeights(f, true)
	sm, ok := errors.Cause(err).(nnet.ShapeMismatchError)
	if !ok {
		t.Fatalf("expected ShapeMismatchError, got %v", err)
	}
	if sm.Name != "logits/bias" {
		t.Errorf("expected mismatch on logits/bias, got %s", sm.Name)
	}

	if !equal(net.Node("hidden").Param(0).Values(), before) {
		t.Error("expected no weights to change when a shape mismatches")
	}
}

func TestLoadWeights_Strict(t *testing.T) {
	src, dst := small(t, 1), small(t, 2)

	path := filepath.Join(t.TempDir(), "w.safetensors")
	if err := src.SaveWeights(path); err != nil {
		t.Fatal(err)
	}

	rep, err := dst.LoadWeights(path, false)
	if err != nil {
		t.Fatalf("LoadWeights: %v", err)
	}
	if len(rep.Matched) != len(dst.Params()) {
		t.Errorf("expected all %d params matched, got %d", len(dst.Params()), len(rep.Matched))
	}

	x := random(4, 3)
	a, _ := src.Predict(x)
	b, _ := dst.Predict(x)
	if !equal(a, b) {
		t.Errorf("expected identical predictions after restore: %v != %v", a, b)
	}

	if _, err = dst.LoadWeights(filepath.Join(t.TempDir(), "missing"), true); err == nil {
		t.Error("expected error for missing weights file")
	}
}
