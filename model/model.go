// Package model defines the interface implemented by every architecture and
// the catalog mapping pretrained-configuration names to constructors.
package model

import (
	"errors"
	"fmt"
	"sort"

	"github.com/Alkhaddour/tensorflow-image-models/ml"
)

var ErrModelNotFound = errors.New("model: model not found")

// Model implements a specific architecture, defining the forward pass from a
// preprocessed image batch to logits.
type Model interface {
	// Forward computes logits for a batch of images of shape
	// (batch, height, width, channels). The result is (batch, classes),
	// or (batch, 2, classes) for architectures with a distillation head.
	Forward(ctx ml.Context, pixels *ml.Tensor) (*ml.Tensor, error)
}

var models = make(map[string]func() (Model, error))

// Register registers a model constructor for the given configuration name.
// Architectures register their catalogs with explicit calls at process
// start; registering the same name twice is a programmer error and panics.
func Register(name string, f func() (Model, error)) {
	if _, ok := models[name]; ok {
		panic("model: model already registered")
	}

	models[name] = f
}

// New builds the model registered under name with zero-initialized
// parameters.
func New(name string) (Model, error) {
	f, ok := models[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrModelNotFound, name)
	}

	return f()
}

// List returns the registered configuration names in sorted order.
func List() []string {
	names := make([]string, 0, len(models))
	for name := range models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
