// Package template defines the renderer-agnostic template contract. The
// gotemplate subpackage implements it on top of pongo2.
package template
