package catalog

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Assembly is a constituency nested under exactly one Parliament.
type Assembly struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// Parliament is the upper level of the location hierarchy. The backend sends
// its display name under "parliament".
type Parliament struct {
	Name       string     `json:"parliament"`
	Code       string     `json:"parliamentCode"`
	Assemblies []Assembly `json:"assemblies"`
}

// Codes may arrive as JSON strings or numbers. Strings are kept verbatim so
// leading zeros survive.
func (a *Assembly) UnmarshalJSON(data []byte) error {
	var aux struct {
		Name string          `json:"name"`
		Code json.RawMessage `json:"code"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	a.Name = strings.TrimSpace(aux.Name)
	a.Code = flexString(aux.Code)
	return nil
}

func (p *Parliament) UnmarshalJSON(data []byte) error {
	var aux struct {
		Name       string          `json:"parliament"`
		Code       json.RawMessage `json:"parliamentCode"`
		Assemblies []Assembly      `json:"assemblies"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	p.Name = strings.TrimSpace(aux.Name)
	p.Code = flexString(aux.Code)
	p.Assemblies = aux.Assemblies
	return nil
}

func flexString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return strings.TrimSpace(s)
		}
		return ""
	}
	return string(raw)
}

// FindParliament returns the parliament whose display name equals name.
func FindParliament(list []Parliament, name string) (Parliament, bool) {
	name = strings.TrimSpace(name)
	for _, p := range list {
		if p.Name == name {
			return p, true
		}
	}
	return Parliament{}, false
}

// Assembly returns the assembly of p named name.
func (p Parliament) Assembly(name string) (Assembly, bool) {
	name = strings.TrimSpace(name)
	for _, a := range p.Assemblies {
		if a.Name == name {
			return a, true
		}
	}
	return Assembly{}, false
}

// AssemblyNames lists the assembly display names of p in backend order.
func (p Parliament) AssemblyNames() []string {
	names := make([]string, len(p.Assemblies))
	for i, a := range p.Assemblies {
		names[i] = a.Name
	}
	return names
}

// ParliamentNames lists display names in backend order.
func ParliamentNames(list []Parliament) []string {
	names := make([]string, len(list))
	for i, p := range list {
		names[i] = p.Name
	}
	return names
}

// Lookups is the reference data a registration screen needs.
type Lookups struct {
	Parliaments []Parliament
	Occupations []string
	Expertise   []string
	Skills      []string
}
