package selection

import (
	"realtyref/internal/catalog"
	dErrors "realtyref/pkg/domain-errors"
)

// LocationPicker pairs the parliament and assembly dropdowns of a
// registration form. The assembly options always belong to the selected
// parliament.
type LocationPicker struct {
	Parliament *Dropdown[catalog.Parliament]
	Assembly   *Dropdown[catalog.Assembly]
}

func NewLocationPicker(parliaments []catalog.Parliament) *LocationPicker {
	return &LocationPicker{
		Parliament: NewDropdown(parliaments, func(p catalog.Parliament) string { return p.Name }),
		Assembly:   NewDropdown[catalog.Assembly](nil, func(a catalog.Assembly) string { return a.Name }),
	}
}

// SelectParliament picks a parliament and swaps in its assemblies, which
// clears any previously selected assembly.
func (l *LocationPicker) SelectParliament(name string) error {
	p, err := l.Parliament.Select(name)
	if err != nil {
		return err
	}
	l.Assembly.SetOptions(p.Assemblies)
	return nil
}

// SelectAssembly picks an assembly of the current parliament.
func (l *LocationPicker) SelectAssembly(name string) error {
	if _, ok := l.Parliament.Selection(); !ok {
		return dErrors.New(dErrors.CodeInvalidSelection, "Please select a parliament first")
	}
	_, err := l.Assembly.Select(name)
	return err
}

// Names returns the selected parliament and assembly names; either may be
// empty.
func (l *LocationPicker) Names() (parliament, assembly string) {
	return l.Parliament.SelectedLabel(), l.Assembly.SelectedLabel()
}
