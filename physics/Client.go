// Package physics describes the rigid-body physics engine API used by the
// simulated robot and the collision objects, and provides World, a small
// in-process implementation of that API.
//
// The API follows the usual rigid-body engine workflow: collision and
// visual shapes are created first, then a multi-body is created from a
// collision shape index and a visual shape index. Index -1 means "no
// shape". Bodies are identified by integer ids that are only meaningful
// for the Client that created them.
package physics

import (
	"errors"
	"image/color"
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// ErrNotConnected is returned by a Client which has been disconnected
var ErrNotConnected = errors.New("physics client is not connected")

// NoShape is the shape index denoting the absence of a shape
const NoShape = -1

// BaseLink is the link index of the base of a body
const BaseLink = -1

// ShapeType is the geometry type of a shape
type ShapeType int

const (
	GeomBox ShapeType = iota
	GeomSphere
	GeomMesh
)

func (s ShapeType) String() string {
	switch s {
	case GeomBox:
		return "Box"
	case GeomSphere:
		return "Sphere"
	case GeomMesh:
		return "Mesh"
	default:
		return "Unknown"
	}
}

// Shape flags
const (
	// GeomForceConcaveTrimesh loads a mesh as a concave triangle mesh.
	// Concave meshes may only be used by static bodies.
	GeomForceConcaveTrimesh = 1 << iota
)

// RGBA is a colour with components in [0, 1]
type RGBA [4]float64

// Color converts the RGBA to a color.Color
func (c RGBA) Color() color.Color {
	conv := func(v float64) uint8 {
		return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
	}
	return color.NRGBA{
		R: conv(c[0]),
		G: conv(c[1]),
		B: conv(c[2]),
		A: conv(c[3]),
	}
}

// Shape describes a collision or visual shape
type Shape struct {
	Type ShapeType

	// HalfExtents is used by GeomBox shapes
	HalfExtents r3.Vector

	// Radius is used by GeomSphere shapes
	Radius float64

	// FileName is the path of the mesh of GeomMesh shapes
	FileName string

	Flags int

	// Color is only used by visual shapes. If nil, the engine picks a
	// colour.
	Color *RGBA
}

// MultiBody describes a body to create from previously created shapes
type MultiBody struct {
	CollisionShape int
	VisualShape    int
	Position       r3.Vector
	Orientation    quat.Number

	// Mass in kg. A mass of 0 creates a static body.
	Mass float64
}

// Dynamics are the contact parameters of a body
type Dynamics struct {
	LateralFriction  float64
	SpinningFriction float64
	Restitution      float64
}

// BodyInfo is a snapshot of a body in the simulation
type BodyInfo struct {
	ID          int
	Position    r3.Vector
	Orientation quat.Number
	Velocity    r3.Vector
	Mass        float64
	Dynamics    Dynamics

	// Geometry of the body, taken from the collision shape if one
	// exists, otherwise from the visual shape
	Type        ShapeType
	HalfExtents r3.Vector
	Radius      float64

	// Collides is false for visual-only bodies
	Collides bool
	Color    *RGBA
}

// Client is a connection to a physics simulation
type Client interface {
	// ID returns the id of the client
	ID() int

	CreateCollisionShape(s Shape) (int, error)
	CreateVisualShape(s Shape) (int, error)
	CreateMultiBody(b MultiBody) (int, error)

	// LoadURDF creates a body from a parsed URDF model
	LoadURDF(model *URDF, position r3.Vector,
		orientation quat.Number) (int, error)

	ChangeDynamics(body, link int, d Dynamics) error
	ChangeVisualShape(body, link int, c RGBA) error

	ResetBasePositionAndOrientation(body int, position r3.Vector,
		orientation quat.Number) error
	BasePositionAndOrientation(body int) (r3.Vector, quat.Number, error)

	RemoveBody(body int) error

	// Body returns a snapshot of the body
	Body(body int) (BodyInfo, error)

	// Bodies returns the ids of all bodies, in creation order
	Bodies() []int

	// StepSimulation advances the simulation by TimeStep() seconds
	StepSimulation() error
	TimeStep() float64

	IsConnected() bool
	Disconnect() error
}
