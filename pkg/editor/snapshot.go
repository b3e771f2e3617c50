package editor

import "github.com/goliatone/go-projection-editor/pkg/variant"

// Snapshot is a read-only view of an editor for renderers. Every value is
// derived from the document at the time Snapshot was called.
type Snapshot struct {
	Variant          variant.Variant
	Document         any
	Scalars          map[string]string
	Multi            map[string][]string
	Flags            map[string]bool
	SharedHandlers   []string
	Dynamics         []Dynamic
	CanRemoveDynamic bool
	Export           string
}

// Snapshot captures the current document state.
func (e *Editor) Snapshot() Snapshot {
	snap := Snapshot{
		Variant:          e.variant,
		Document:         e.Document(),
		Scalars:          make(map[string]string),
		Multi:            make(map[string][]string),
		Flags:            make(map[string]bool),
		Dynamics:         e.Dynamics(),
		CanRemoveDynamic: e.CanRemoveDynamic(),
		Export:           e.Export(),
	}
	for _, field := range e.variant.ScalarFields() {
		snap.Scalars[field] = e.Scalar(field)
	}
	for _, field := range e.variant.MultiFields() {
		snap.Multi[field] = e.Multi(field)
	}
	for _, flag := range e.variant.Flags {
		snap.Flags[flag.Name] = e.Flag(flag.Name)
	}
	if e.variant.SharedHandlers() {
		snap.SharedHandlers = e.Handlers(SharedScope())
	}
	return snap
}
