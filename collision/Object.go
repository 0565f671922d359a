// Package collision implements rigid objects that the robot can interact
// with. Objects are created in a physics.Client on construction and are
// removed from it with Remove.
package collision

import (
	"fmt"

	"github.com/golang/geo/r3"
	"github.com/samuelfneumann/gofinger/physics"
	"gonum.org/v1/gonum/num/quat"
)

// Object is a body in a physics simulation which can be moved around
type Object interface {
	ID() int
	SetState(position r3.Vector, orientation quat.Number) error
	State() (r3.Vector, quat.Number, error)
	Remove() error
}

// base provides the pose accessors and removal shared by all objects.
// Concrete objects embed it and set objectID after creating their body.
type base struct {
	client   physics.Client
	objectID int
	removed  bool
}

// ID returns the body id of the object
func (b *base) ID() int {
	return b.objectID
}

// SetState resets the object to the given position and orientation
func (b *base) SetState(position r3.Vector, orientation quat.Number) error {
	if err := b.client.ResetBasePositionAndOrientation(b.objectID, position,
		orientation); err != nil {
		return fmt.Errorf("setState: %v", err)
	}
	return nil
}

// State returns the current position and orientation of the object
func (b *base) State() (r3.Vector, quat.Number, error) {
	position, orientation, err := b.client.BasePositionAndOrientation(
		b.objectID)
	if err != nil {
		return r3.Vector{}, quat.Number{}, fmt.Errorf("state: %v", err)
	}
	return position, orientation, nil
}

// Remove removes the object from the simulation. The simulation may
// already be shut down when Remove is called, in which case there is
// nothing to remove and Remove returns nil. Calling Remove more than once
// is a no-op.
func (b *base) Remove() error {
	if b.removed || !b.client.IsConnected() {
		b.removed = true
		return nil
	}
	if err := b.client.RemoveBody(b.objectID); err != nil {
		return fmt.Errorf("remove: %v", err)
	}
	b.removed = true
	return nil
}

// ImportMesh creates a static or dynamic body from the Wavefront OBJ mesh
// at path. If concave is true the mesh is loaded as a concave triangle
// mesh, which is only allowed for static bodies. If color is nil the
// engine picks a colour.
func ImportMesh(client physics.Client, path string, position r3.Vector,
	orientation quat.Number, mass float64, concave bool,
	color *physics.RGBA) (Object, error) {
	flags := 0
	if concave {
		flags = physics.GeomForceConcaveTrimesh
	}

	shape, err := client.CreateCollisionShape(physics.Shape{
		Type:     physics.GeomMesh,
		FileName: path,
		Flags:    flags,
	})
	if err != nil {
		return nil, fmt.Errorf("importMesh: %v", err)
	}

	id, err := client.CreateMultiBody(physics.MultiBody{
		CollisionShape: shape,
		VisualShape:    physics.NoShape,
		Position:       position,
		Orientation:    orientation,
		Mass:           mass,
	})
	if err != nil {
		return nil, fmt.Errorf("importMesh: %v", err)
	}

	if color != nil {
		if err := client.ChangeVisualShape(id, physics.BaseLink,
			*color); err != nil {
			return nil, fmt.Errorf("importMesh: could not set colour: %v",
				err)
		}
	}

	return &base{client: client, objectID: id}, nil
}
