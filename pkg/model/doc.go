// Package model defines the form model consumed by renderers. A FormModel
// lists one Field per editor control in display order; the builder in
// internal/model derives it from a schema variant. Fields carry the dotted
// document path they bind to, the closed vocabulary (Enum) for choice
// controls, and Metadata such as the handler scope of tag lists
// (MetaHandlers) or the repeater label of the dynamics group. Decorators,
// notably the widget registry, annotate fields after building.
package model
