package components

// Option is one choice of a select or multi-select.
type Option struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

// Tag is one entry of a tag list. Index is the position used by the remove
// button, kept as text so templates print it verbatim.
type Tag struct {
	Index string `json:"index"`
	Text  string `json:"text"`
}

// Record is one entry of a repeatable group with its nested controls already
// rendered.
type Record struct {
	Index    string   `json:"index"`
	Title    string   `json:"title"`
	Controls []string `json:"controls"`
}

// Control is the view model a component template renders. Every value is
// read from the editor document when the page is built.
type Control struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Path         string   `json:"path"`
	Label        string   `json:"label"`
	Description  string   `json:"description,omitempty"`
	Widget       string   `json:"widget"`
	Action       string   `json:"action"`
	Value        string   `json:"value"`
	Checked      bool     `json:"checked"`
	Placeholder  string   `json:"placeholder,omitempty"`
	Options      []Option `json:"options,omitempty"`
	Tags         []Tag    `json:"tags,omitempty"`
	Scope        string   `json:"scope,omitempty"`
	Field        string   `json:"field,omitempty"`
	Records      []Record `json:"records,omitempty"`
	CanRemove    bool     `json:"canRemove"`
	AddAction    string   `json:"addAction,omitempty"`
	RemoveAction string   `json:"removeAction,omitempty"`
	Warnings     []string `json:"warnings,omitempty"`
}
