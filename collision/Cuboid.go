package collision

import (
	"bytes"
	_ "embed"
	"fmt"

	"github.com/golang/geo/r3"
	"github.com/samuelfneumann/gofinger/physics"
	"gonum.org/v1/gonum/num/quat"
)

// Contact parameters of cuboids
const (
	LateralFriction  = 1.0
	SpinningFriction = 0.001
	Restitution      = 0.0
)

// Default cube parameters
const (
	CubeHalfWidth = 0.0325
	CubeMass      = 0.08
)

// CubePosition is the default position of a cube, resting on the table
var CubePosition = r3.Vector{X: 0.15, Y: 0.0, Z: 0.0425}

//go:embed data/cube_v2.urdf
var cubeV2URDF []byte

// Cuboid is a box which can be interacted with
type Cuboid struct {
	base
	collisionShape int
	visualShape    int
	halfExtents    r3.Vector
	mass           float64
}

// NewCuboid creates a new cuboid with the given half extents in x, y, z
// and mass in kg. A mass of 0 creates a static cuboid. A visual shape is
// only created if color is non-nil.
func NewCuboid(client physics.Client, position r3.Vector,
	orientation quat.Number, halfExtents r3.Vector, mass float64,
	color *physics.RGBA) (*Cuboid, error) {
	collisionShape, err := client.CreateCollisionShape(physics.Shape{
		Type:        physics.GeomBox,
		HalfExtents: halfExtents,
	})
	if err != nil {
		return nil, fmt.Errorf("newCuboid: %v", err)
	}

	visualShape := physics.NoShape
	if color != nil {
		visualShape, err = client.CreateVisualShape(physics.Shape{
			Type:        physics.GeomBox,
			HalfExtents: halfExtents,
			Color:       color,
		})
		if err != nil {
			return nil, fmt.Errorf("newCuboid: %v", err)
		}
	}

	id, err := client.CreateMultiBody(physics.MultiBody{
		CollisionShape: collisionShape,
		VisualShape:    visualShape,
		Position:       position,
		Orientation:    orientation,
		Mass:           mass,
	})
	if err != nil {
		return nil, fmt.Errorf("newCuboid: %v", err)
	}

	err = client.ChangeDynamics(id, physics.BaseLink, physics.Dynamics{
		LateralFriction:  LateralFriction,
		SpinningFriction: SpinningFriction,
		Restitution:      Restitution,
	})
	if err != nil {
		return nil, fmt.Errorf("newCuboid: could not set dynamics: %v", err)
	}

	return &Cuboid{
		base:           base{client: client, objectID: id},
		collisionShape: collisionShape,
		visualShape:    visualShape,
		halfExtents:    halfExtents,
		mass:           mass,
	}, nil
}

// HalfExtents returns the half extents of the cuboid
func (c *Cuboid) HalfExtents() r3.Vector {
	return c.halfExtents
}

// Mass returns the mass of the cuboid
func (c *Cuboid) Mass() float64 {
	return c.mass
}

// CubeOption configures a cube created with NewCube
type CubeOption func(*cubeConfig)

type cubeConfig struct {
	position    r3.Vector
	orientation quat.Number
	halfWidth   float64
	mass        float64
	color       *physics.RGBA
}

// WithPosition sets the initial position of a cube
func WithPosition(p r3.Vector) CubeOption {
	return func(c *cubeConfig) { c.position = p }
}

// WithOrientation sets the initial orientation of a cube
func WithOrientation(q quat.Number) CubeOption {
	return func(c *cubeConfig) { c.orientation = q }
}

// WithHalfWidth sets the half width of a cube
func WithHalfWidth(w float64) CubeOption {
	return func(c *cubeConfig) { c.halfWidth = w }
}

// WithMass sets the mass of a cube
func WithMass(m float64) CubeOption {
	return func(c *cubeConfig) { c.mass = m }
}

// WithColor sets the colour of a cube
func WithColor(rgba physics.RGBA) CubeOption {
	return func(c *cubeConfig) { c.color = &rgba }
}

// NewCube creates a cuboid with equal half extents. Without options the
// cube is 6.5cm wide, weighs 80g and rests on the table in front of the
// first finger.
func NewCube(client physics.Client, opts ...CubeOption) (*Cuboid, error) {
	conf := cubeConfig{
		position:    CubePosition,
		orientation: physics.Identity,
		halfWidth:   CubeHalfWidth,
		mass:        CubeMass,
	}
	for _, opt := range opts {
		opt(&conf)
	}

	halfExtents := r3.Vector{
		X: conf.halfWidth,
		Y: conf.halfWidth,
		Z: conf.halfWidth,
	}
	return NewCuboid(client, conf.position, conf.orientation, halfExtents,
		conf.mass, conf.color)
}

// NewBlock is an alias of NewCube
var NewBlock = NewCube

// NewColoredCubeV2 loads the model of the coloured "Cube v2"
func NewColoredCubeV2(client physics.Client, position r3.Vector,
	orientation quat.Number) (Object, error) {
	model, err := physics.ParseURDF(bytes.NewReader(cubeV2URDF))
	if err != nil {
		return nil, fmt.Errorf("newColoredCubeV2: %v", err)
	}

	id, err := client.LoadURDF(model, position, orientation)
	if err != nil {
		return nil, fmt.Errorf("newColoredCubeV2: %v", err)
	}
	return &base{client: client, objectID: id}, nil
}
