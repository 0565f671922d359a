// Package visual implements visualisation helpers: goal markers which
// live in the physics simulation as visual-only bodies, and a renderer
// which draws a top-down view of the arena to an image.
package visual

import (
	"fmt"

	"github.com/golang/geo/r3"
	"github.com/samuelfneumann/gofinger/physics"
)

// Default marker parameters
const (
	GoalRadius = 0.015
)

// InitialMarkerPosition is where markers are placed before their first
// SetState
var InitialMarkerPosition = r3.Vector{Z: 0.18}

// GoalColors are the colours of successive goal markers
var GoalColors = []physics.RGBA{
	{0.0, 0.7, 0.0, 0.5},
	{0.7, 0.0, 0.0, 0.5},
	{0.0, 0.0, 0.7, 0.5},
}

// Marker visualises one or more goal positions as spheres without
// collision
type Marker struct {
	client  physics.Client
	bodies  []int
	removed bool
}

// NewMarker creates numGoals goal spheres of the given radius
func NewMarker(client physics.Client, numGoals int,
	radius float64) (*Marker, error) {
	if numGoals < 1 {
		return nil, fmt.Errorf("newMarker: number of goals must be "+
			"positive, got %v", numGoals)
	}

	m := &Marker{client: client, bodies: make([]int, 0, numGoals)}
	for i := 0; i < numGoals; i++ {
		color := GoalColors[i%len(GoalColors)]
		shape, err := client.CreateVisualShape(physics.Shape{
			Type:   physics.GeomSphere,
			Radius: radius,
			Color:  &color,
		})
		if err != nil {
			return nil, m.abort(err)
		}

		id, err := client.CreateMultiBody(physics.MultiBody{
			CollisionShape: physics.NoShape,
			VisualShape:    shape,
			Position:       InitialMarkerPosition,
			Orientation:    physics.Identity,
		})
		if err != nil {
			return nil, m.abort(err)
		}
		m.bodies = append(m.bodies, id)
	}
	return m, nil
}

// abort removes the spheres created so far and returns err wrapped
func (m *Marker) abort(err error) error {
	if removeErr := m.Remove(); removeErr != nil {
		return fmt.Errorf("newMarker: %v (cleanup: %v)", err, removeErr)
	}
	return fmt.Errorf("newMarker: %v", err)
}

// SetState moves the markers to positions, one position per goal
func (m *Marker) SetState(positions []r3.Vector) error {
	if len(positions) != len(m.bodies) {
		return fmt.Errorf("setState: expected %v positions, got %v",
			len(m.bodies), len(positions))
	}
	for i, id := range m.bodies {
		err := m.client.ResetBasePositionAndOrientation(id, positions[i],
			physics.Identity)
		if err != nil {
			return fmt.Errorf("setState: %v", err)
		}
	}
	return nil
}

// Bodies returns the body ids of the marker spheres
func (m *Marker) Bodies() []int {
	return append([]int(nil), m.bodies...)
}

// Remove removes the markers from the simulation if it is still running
func (m *Marker) Remove() error {
	if m.removed || !m.client.IsConnected() {
		m.removed = true
		return nil
	}
	for _, id := range m.bodies {
		if err := m.client.RemoveBody(id); err != nil {
			return fmt.Errorf("remove: %v", err)
		}
	}
	m.removed = true
	return nil
}
