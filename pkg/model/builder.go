package model

import (
	"github.com/goliatone/go-projection-editor/internal/model"
	"github.com/goliatone/go-projection-editor/pkg/variant"
)

// Builder converts schema variants into form models.
type Builder interface {
	Build(v variant.Variant) (FormModel, error)
}

// BuilderOption configures the builder behaviour.
type BuilderOption func(*builderOptions)

type builderOptions struct {
	labeler     func(string) string
	emptyOption string
}

// WithLabeler overrides the default label generation function.
func WithLabeler(labeler func(string) string) BuilderOption {
	return func(opts *builderOptions) {
		opts.labeler = labeler
	}
}

// WithEmptyOption changes the label of the blank choice offered by selects.
func WithEmptyOption(label string) BuilderOption {
	return func(opts *builderOptions) {
		opts.emptyOption = label
	}
}

// NewBuilder returns a Builder backed by the internal implementation.
func NewBuilder(options ...BuilderOption) Builder {
	cfg := builderOptions{}
	for _, opt := range options {
		opt(&cfg)
	}

	return model.New(model.Options{
		Labeler:     cfg.labeler,
		EmptyOption: cfg.emptyOption,
	})
}

// Build lays out v with the default builder.
func Build(v variant.Variant) (FormModel, error) {
	return NewBuilder().Build(v)
}
