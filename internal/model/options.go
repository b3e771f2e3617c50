package model

// Options tune labels and the blank choice of selects. The public adapter in
// pkg/model builds them from functional options.
type Options struct {
	// Labeler derives control labels from document keys.
	Labeler func(string) string
	// EmptyOption labels the choice that clears a single-choice field.
	EmptyOption string
}

func defaultOptions() Options {
	return Options{Labeler: DefaultLabeler, EmptyOption: "NONE"}
}
