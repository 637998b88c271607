// Package options holds the immutable run toggles loaded from options.toml
package options

import (
	"fmt"
	"strings"
)

// Shape selects the mesh each spawned object uses
type Shape string

const (
	ShapeCube     Shape = "cube"
	ShapeCapsule  Shape = "capsule"
	ShapeCylinder Shape = "cylinder"
	ShapeSphere   Shape = "sphere"
)

// Shapes lists every recognized shape
var Shapes = []Shape{ShapeCube, ShapeCapsule, ShapeCylinder, ShapeSphere}

// ShapeSize is the vertex/triangle count of a mesh, shown in the options summary
type ShapeSize struct {
	Verts int
	Tris  int
}

var shapeSizes = map[Shape]ShapeSize{
	ShapeCube:     {Verts: 24, Tris: 12},
	ShapeCapsule:  {Verts: 550, Tris: 832},
	ShapeCylinder: {Verts: 88, Tris: 80},
	ShapeSphere:   {Verts: 515, Tris: 768},
}

// ConfigurationError reports an option value outside the recognized set
type ConfigurationError struct {
	Field string
	Value string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("options: unrecognized %s %q", e.Field, e.Value)
}

// ParseShape matches s case-sensitively against the recognized shapes
func ParseShape(s string) (Shape, error) {
	sh := Shape(s)
	if _, ok := shapeSizes[sh]; !ok {
		return "", &ConfigurationError{Field: "shape", Value: s}
	}
	return sh, nil
}

// Size returns the mesh size annotation; unknown shapes are an error, never a guess
func (s Shape) Size() (ShapeSize, error) {
	size, ok := shapeSizes[s]
	if !ok {
		return ShapeSize{}, &ConfigurationError{Field: "shape", Value: string(s)}
	}
	return size, nil
}

// DisplayName capitalizes the first letter for presentation
func (s Shape) DisplayName() string {
	if s == "" {
		return ""
	}
	str := string(s)
	return strings.ToUpper(str[:1]) + strings.ToLower(str[1:])
}

// Options are the run toggles, read-only once loaded
type Options struct {
	Collisions bool  `toml:"collisions"`
	Scripts    bool  `toml:"scripts"`
	Lighting   bool  `toml:"lighting"`
	Shape      Shape `toml:"shape"`
}

// Default returns all toggles off with cube meshes
func Default() Options {
	return Options{Shape: ShapeCube}
}

// Validate checks that Shape is recognized
func (o Options) Validate() error {
	_, err := o.Shape.Size()
	return err
}

// DisplayText renders the multi-line options summary
// Options must have passed Validate; an unknown shape panics with a ConfigurationError
func (o Options) DisplayText() string {
	size, err := o.Shape.Size()
	if err != nil {
		panic(err)
	}
	return fmt.Sprintf("  Collisions: %t\n  Scripts: %t\n  Lighting: %t\n  Shape: %s (%d verts, %d tris)",
		o.Collisions, o.Scripts, o.Lighting, o.Shape.DisplayName(), size.Verts, size.Tris)
}

// FileNameTag encodes every option so result files from different runs do not collide
func (o Options) FileNameTag() string {
	return fmt.Sprintf("Collisions_%s Scripts_%s Lighting_%s Shapes_%s",
		onOff(o.Collisions), onOff(o.Scripts), onOff(o.Lighting), o.Shape.DisplayName())
}

func onOff(b bool) string {
	if b {
		return "On"
	}
	return "Off"
}
