package stub

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"realtyref/pkg/domain"
)

//go:embed seed.yaml
var defaultSeed []byte

// Seed holds the lookup lists and the staff accounts the stub starts with.
type Seed struct {
	Parliaments []SeedParliament `yaml:"parliaments"`
	Occupations []string         `yaml:"occupations"`
	Expertise   []string         `yaml:"expertise"`
	Skills      []string         `yaml:"skills"`
	Staff       []SeedUser       `yaml:"staff"`
}

type SeedParliament struct {
	Parliament     string         `yaml:"parliament" json:"parliament"`
	ParliamentCode string         `yaml:"parliamentCode" json:"parliamentCode"`
	Assemblies     []SeedAssembly `yaml:"assemblies" json:"assemblies"`
}

type SeedAssembly struct {
	Name string `yaml:"name" json:"name"`
	Code string `yaml:"code" json:"code"`
}

type SeedUser struct {
	Role     domain.Role `yaml:"role"`
	Name     string      `yaml:"name"`
	Mobile   string      `yaml:"mobile"`
	Password string      `yaml:"password"`
}

// DefaultSeed returns the embedded seed.
func DefaultSeed() (*Seed, error) {
	return parseSeed(defaultSeed)
}

// LoadSeed reads a seed file. An empty path returns the embedded seed.
func LoadSeed(path string) (*Seed, error) {
	if path == "" {
		return DefaultSeed()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	seed, err := parseSeed(raw)
	if err != nil {
		return nil, fmt.Errorf("seed file %s: %w", path, err)
	}
	return seed, nil
}

func parseSeed(raw []byte) (*Seed, error) {
	var s Seed
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}
	for i, u := range s.Staff {
		if !u.Role.IsStaff() {
			return nil, fmt.Errorf("staff[%d]: role %q is not a staff role", i, u.Role)
		}
		if u.Mobile == "" || u.Password == "" {
			return nil, fmt.Errorf("staff[%d]: mobile and password are required", i)
		}
	}
	return &s, nil
}
