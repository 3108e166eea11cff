package office

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

var validAreaTypes = map[string]bool{
	TypeCubicle: true, TypeMeeting: true, TypeManager: true,
	TypeKitchen: true, TypeAnnex: true, TypeReception: true,
	TypeLounge: true, TypeBathroom: true, TypeSupply: true,
	TypeWarehouse: true, TypeHallway: true,
}

type layoutFile struct {
	Canvas struct {
		W float64 `yaml:"w"`
		H float64 `yaml:"h"`
	} `yaml:"canvas"`
	Areas []*Area `yaml:"areas"`
}

// Validate checks one area's invariants.
func (a *Area) Validate() error {
	if a.ID == "" {
		return fmt.Errorf("office area: id must not be empty")
	}
	if !validAreaTypes[a.Type] {
		return fmt.Errorf("office area %q: unknown type %q", a.ID, a.Type)
	}
	if a.W <= 0 || a.H <= 0 {
		return fmt.Errorf("office area %q: dimensions must be positive, got %vx%v", a.ID, a.W, a.H)
	}
	return nil
}

// LoadLayoutFromBytes parses and validates an office layout from YAML bytes.
//
// Postcondition: Returns a layout with a positive canvas extent and unique
// area IDs, or a non-nil error.
func LoadLayoutFromBytes(data []byte) (*Layout, error) {
	var file layoutFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing office layout YAML: %w", err)
	}
	if file.Canvas.W <= 0 || file.Canvas.H <= 0 {
		return nil, fmt.Errorf("office layout: canvas extent must be positive, got %vx%v", file.Canvas.W, file.Canvas.H)
	}
	if len(file.Areas) == 0 {
		return nil, fmt.Errorf("office layout: no areas defined")
	}

	seen := make(map[string]bool, len(file.Areas))
	for _, a := range file.Areas {
		if err := a.Validate(); err != nil {
			return nil, err
		}
		if seen[a.ID] {
			return nil, fmt.Errorf("office layout: duplicate area id %q", a.ID)
		}
		seen[a.ID] = true
	}

	return &Layout{
		Areas:   file.Areas,
		CanvasW: file.Canvas.W,
		CanvasH: file.Canvas.H,
	}, nil
}

// LoadLayoutFromFile reads and validates the office layout file at path.
func LoadLayoutFromFile(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading office layout file %s: %w", path, err)
	}
	return LoadLayoutFromBytes(data)
}
