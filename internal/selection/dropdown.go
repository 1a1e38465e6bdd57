// Package selection models searchable dropdowns as a small state machine
// instead of independent open/filter/selected flags.
package selection

import (
	"fmt"

	dErrors "realtyref/pkg/domain-errors"
	strutil "realtyref/pkg/platform/strings"
)

// State of a Dropdown.
type State int

const (
	Closed State = iota
	Searching
	Selected
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Searching:
		return "searching"
	case Selected:
		return "selected"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Dropdown holds a list of options, a search query and at most one selection.
// label renders an option for display and search. A Dropdown is not safe for
// concurrent use; it belongs to one screen.
type Dropdown[T any] struct {
	options  []T
	label    func(T) string
	state    State
	query    string
	filtered []T
	selected *T
}

// NewDropdown returns a closed dropdown over options.
func NewDropdown[T any](options []T, label func(T) string) *Dropdown[T] {
	d := &Dropdown[T]{label: label}
	d.SetOptions(options)
	return d
}

// Strings is a dropdown over plain string options.
func Strings(options []string) *Dropdown[string] {
	return NewDropdown(options, func(s string) string { return s })
}

func (d *Dropdown[T]) State() State { return d.state }

func (d *Dropdown[T]) Query() string { return d.query }

// Open starts a search with an empty query. Opening a dropdown that already
// has a selection keeps the selection until another option is chosen.
func (d *Dropdown[T]) Open() {
	d.state = Searching
	d.query = ""
	d.filtered = d.options
}

// Search filters options by case-insensitive substring of their label.
// Searching implicitly opens the dropdown.
func (d *Dropdown[T]) Search(query string) []T {
	d.state = Searching
	d.query = query
	d.filtered = d.filtered[:0:0]
	for _, o := range d.options {
		if strutil.ContainsFold(d.label(o), query) {
			d.filtered = append(d.filtered, o)
		}
	}
	return d.Visible()
}

// Visible returns the options currently offered: the filtered list while
// searching, every option otherwise.
func (d *Dropdown[T]) Visible() []T {
	if d.state == Searching {
		return append([]T(nil), d.filtered...)
	}
	return append([]T(nil), d.options...)
}

// Select picks the option whose label equals label. Only options in the
// current option list are accepted.
func (d *Dropdown[T]) Select(label string) (T, error) {
	for i := range d.options {
		if d.label(d.options[i]) == label {
			v := d.options[i]
			d.selected = &v
			d.state = Selected
			d.query = ""
			return v, nil
		}
	}
	var zero T
	return zero, dErrors.Newf(dErrors.CodeInvalidSelection, "%q is not one of the available options", label)
}

// Label renders an option the way Select matches it.
func (d *Dropdown[T]) Label(v T) string {
	return d.label(v)
}

// Close ends a search without changing the selection.
func (d *Dropdown[T]) Close() {
	d.query = ""
	if d.selected != nil {
		d.state = Selected
		return
	}
	d.state = Closed
}

// Reset clears the selection and closes the dropdown.
func (d *Dropdown[T]) Reset() {
	d.selected = nil
	d.state = Closed
	d.query = ""
	d.filtered = nil
}

// SetOptions replaces the option list. Any selection and search are dropped,
// so a value chosen from the old list can never outlive it.
func (d *Dropdown[T]) SetOptions(options []T) {
	d.options = append([]T(nil), options...)
	d.Reset()
}

// Selection returns the selected option, if any.
func (d *Dropdown[T]) Selection() (T, bool) {
	if d.selected == nil {
		var zero T
		return zero, false
	}
	return *d.selected, true
}

// SelectedLabel returns the label of the selection or "".
func (d *Dropdown[T]) SelectedLabel() string {
	if d.selected == nil {
		return ""
	}
	return d.label(*d.selected)
}
