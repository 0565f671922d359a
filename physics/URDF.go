package physics

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/golang/geo/r3"
)

// URDF is the subset of a URDF robot description needed to create a
// single rigid body: the base link's mass, box collision geometry, and
// visual colour.
type URDF struct {
	XMLName xml.Name   `xml:"robot"`
	Name    string     `xml:"name,attr"`
	Links   []urdfLink `xml:"link"`
}

type urdfLink struct {
	Name      string         `xml:"name,attr"`
	Inertial  *urdfInertial  `xml:"inertial"`
	Collision *urdfCollision `xml:"collision"`
	Visual    *urdfVisual    `xml:"visual"`
}

type urdfInertial struct {
	Mass struct {
		Value float64 `xml:"value,attr"`
	} `xml:"mass"`
}

type urdfGeometry struct {
	Box *struct {
		Size string `xml:"size,attr"`
	} `xml:"box"`
	Sphere *struct {
		Radius float64 `xml:"radius,attr"`
	} `xml:"sphere"`
	Mesh *struct {
		Filename string `xml:"filename,attr"`
	} `xml:"mesh"`
}

type urdfCollision struct {
	Geometry urdfGeometry `xml:"geometry"`
}

type urdfVisual struct {
	Geometry urdfGeometry `xml:"geometry"`
	Material *struct {
		Color *struct {
			RGBA string `xml:"rgba,attr"`
		} `xml:"color"`
	} `xml:"material"`
}

// ParseURDF decodes a URDF document
func ParseURDF(r io.Reader) (*URDF, error) {
	var model URDF
	if err := xml.NewDecoder(r).Decode(&model); err != nil {
		return nil, fmt.Errorf("parseURDF: could not decode: %v", err)
	}
	if len(model.Links) == 0 {
		return nil, fmt.Errorf("parseURDF: robot %q has no links", model.Name)
	}
	return &model, nil
}

// ReadURDF reads and decodes the URDF file at path
func ReadURDF(path string) (*URDF, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("readURDF: %v", err)
	}
	defer f.Close()

	return ParseURDF(f)
}

// Mass returns the mass of the base link
func (u *URDF) Mass() float64 {
	base := u.Links[0]
	if base.Inertial == nil {
		return 0
	}
	return base.Inertial.Mass.Value
}

// CollisionShape returns the collision shape of the base link
func (u *URDF) CollisionShape() (Shape, error) {
	base := u.Links[0]
	if base.Collision == nil {
		return Shape{}, fmt.Errorf("collisionShape: link %q has no "+
			"collision geometry", base.Name)
	}
	return base.Collision.Geometry.shape()
}

// VisualShape returns the visual shape of the base link, or false if
// the base link has no visual
func (u *URDF) VisualShape() (Shape, bool, error) {
	base := u.Links[0]
	if base.Visual == nil {
		return Shape{}, false, nil
	}

	s, err := base.Visual.Geometry.shape()
	if err != nil {
		return Shape{}, false, err
	}

	if m := base.Visual.Material; m != nil && m.Color != nil {
		vals, err := parseFloats(m.Color.RGBA, 4)
		if err != nil {
			return Shape{}, false, fmt.Errorf("visualShape: rgba: %v", err)
		}
		c := RGBA{vals[0], vals[1], vals[2], vals[3]}
		s.Color = &c
	}
	return s, true, nil
}

func (g urdfGeometry) shape() (Shape, error) {
	switch {
	case g.Box != nil:
		size, err := parseFloats(g.Box.Size, 3)
		if err != nil {
			return Shape{}, fmt.Errorf("box size: %v", err)
		}
		return Shape{
			Type:        GeomBox,
			HalfExtents: r3.Vector{X: size[0] / 2, Y: size[1] / 2, Z: size[2] / 2},
		}, nil

	case g.Sphere != nil:
		return Shape{Type: GeomSphere, Radius: g.Sphere.Radius}, nil

	case g.Mesh != nil:
		return Shape{Type: GeomMesh, FileName: g.Mesh.Filename}, nil
	}
	return Shape{}, fmt.Errorf("geometry has no box, sphere, or mesh")
}

func parseFloats(s string, n int) ([]float64, error) {
	fields := strings.Fields(s)
	if len(fields) != n {
		return nil, fmt.Errorf("expected %v values, got %q", n, s)
	}

	vals := make([]float64, n)
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return vals, nil
}
