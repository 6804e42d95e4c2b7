package model

import (
	"errors"
	"sort"
	"testing"

	"github.com/Alkhaddour/tensorflow-image-models/ml"
)

type fakeModel struct{}

func (fakeModel) Forward(ctx ml.Context, pixels *ml.Tensor) (*ml.Tensor, error) {
	return pixels, nil
}

func TestRegistry(t *testing.T) {
	Register("test_zebra", func() (Model, error) { return fakeModel{}, nil })
	Register("test_aardvark", func() (Model, error) { return fakeModel{}, nil })

	if _, err := New("test_zebra"); err != nil {
		t.Fatal(err)
	}

	_, err := New("no_such_model")
	if !errors.Is(err, ErrModelNotFound) {
		t.Errorf("expected ErrModelNotFound, got %v", err)
	}

	names := List()
	if !sort.StringsAreSorted(names) {
		t.Error("List must return sorted names")
	}

	var found int
	for _, name := range names {
		if name == "test_zebra" || name == "test_aardvark" {
			found++
		}
	}
	if found != 2 {
		t.Errorf("expected both registered names in List, found %d", found)
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected a panic on duplicate registration")
		}
	}()

	Register("test_duplicate", func() (Model, error) { return fakeModel{}, nil })
	Register("test_duplicate", func() (Model, error) { return fakeModel{}, nil })
}
