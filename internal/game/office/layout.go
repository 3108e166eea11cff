// Package office provides the immutable office floor-plan: typed areas that
// gate which actions are performable where. Loaded once at startup and
// injected into rooms and AI engines.
package office

import "github.com/finishlast/officesim/internal/game/rng"

// Area types.
const (
	TypeCubicle   = "cubicle"
	TypeMeeting   = "meeting"
	TypeManager   = "manager"
	TypeKitchen   = "kitchen"
	TypeAnnex     = "annex"
	TypeReception = "reception"
	TypeLounge    = "lounge"
	TypeBathroom  = "bathroom"
	TypeSupply    = "supply"
	TypeWarehouse = "warehouse"
	TypeHallway   = "hallway"
)

// areaAliases maps a required area type to the set of concrete area types
// that satisfy it. The quiet-zone annex doubles as cubicle space.
var areaAliases = map[string][]string{
	TypeAnnex: {TypeAnnex, TypeCubicle},
}

// Point is a position on the office canvas.
type Point struct {
	X float64
	Y float64
}

// Area is one named, typed rectangle of the office floor-plan.
type Area struct {
	ID        string  `yaml:"id"`
	Type      string  `yaml:"type"`
	Name      string  `yaml:"name"`
	X         float64 `yaml:"x"`
	Y         float64 `yaml:"y"`
	W         float64 `yaml:"w"`
	H         float64 `yaml:"h"`
	Color     string  `yaml:"color"`
	Highlight string  `yaml:"highlight"`
	// Interactive areas host actions; corridors are walk-through only.
	Interactive bool `yaml:"interactive"`
}

// Contains reports whether (x, y) lies inside the area (edges inclusive).
func (a *Area) Contains(x, y float64) bool {
	return x >= a.X && x <= a.X+a.W && y >= a.Y && y <= a.Y+a.H
}

// RandomPointIn returns a uniformly random interior point of the area,
// inset from the edges so characters do not stand on boundaries.
func RandomPointIn(a *Area, src rng.Source) Point {
	const inset = 10
	return Point{
		X: a.X + inset + src.Float64()*(a.W-2*inset),
		Y: a.Y + inset + src.Float64()*(a.H-2*inset),
	}
}

// Layout is the loaded office floor-plan plus the canvas extent used for
// movement bounds-checking.
type Layout struct {
	Areas   []*Area
	CanvasW float64
	CanvasH float64
}

// FindAt returns the first area containing (x, y), or nil.
func (l *Layout) FindAt(x, y float64) *Area {
	for _, a := range l.Areas {
		if a.Contains(x, y) {
			return a
		}
	}
	return nil
}

// ValidTypes expands an action's required area type through the alias map.
func ValidTypes(required string) []string {
	if alias, ok := areaAliases[required]; ok {
		return alias
	}
	return []string{required}
}

// ResolveFor returns the first non-hallway area satisfying the required
// area type (after alias expansion), or nil if the office has none.
func (l *Layout) ResolveFor(required string) *Area {
	valid := ValidTypes(required)
	for _, a := range l.Areas {
		if a.Type == TypeHallway {
			continue
		}
		for _, t := range valid {
			if a.Type == t {
				return a
			}
		}
	}
	return nil
}

// FirstOfType returns the first area with exactly the given type, or nil.
func (l *Layout) FirstOfType(areaType string) *Area {
	for _, a := range l.Areas {
		if a.Type == areaType {
			return a
		}
	}
	return nil
}

// Satisfies reports whether a character standing in current (may be nil)
// satisfies an action's required area type.
func Satisfies(current *Area, required string) bool {
	if required == "" {
		return true
	}
	if current == nil {
		return false
	}
	for _, t := range ValidTypes(required) {
		if current.Type == t {
			return true
		}
	}
	return false
}
