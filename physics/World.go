package physics

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// DefaultTimeStep is the default physics time step in seconds
const DefaultTimeStep = 0.001

var clientCount int64

// body is a rigid body in a World
type body struct {
	id             int
	collisionShape int
	visualShape    int
	position       r3.Vector
	orientation    quat.Number
	velocity       r3.Vector
	mass           float64
	dynamics       Dynamics
	color          *RGBA
}

// World is an in-process implementation of Client. Bodies live above a
// ground plane at z = 0. Dynamic bodies (mass > 0) fall under gravity and
// come to rest on the ground plane, where restitution and lateral
// friction are applied. Bodies do not collide with each other; World is
// meant for driving the environment and tests, not for contact-rich
// manipulation.
type World struct {
	id        int
	timeStep  float64
	time      float64
	connected bool

	// Gravity is the gravitational acceleration applied to dynamic
	// bodies, in m/s^2
	Gravity r3.Vector

	shapes  []Shape
	bodies  map[int]*body
	nextID  int
	created []int
}

// NewWorld returns a new connected World which steps by timeStep seconds
func NewWorld(timeStep float64) (*World, error) {
	if timeStep <= 0 {
		return nil, fmt.Errorf("newWorld: time step must be positive, "+
			"got %v", timeStep)
	}

	return &World{
		id:        int(atomic.AddInt64(&clientCount, 1) - 1),
		timeStep:  timeStep,
		connected: true,
		Gravity:   r3.Vector{Z: -9.81},
		bodies:    make(map[int]*body),
	}, nil
}

// ID returns the id of the client
func (w *World) ID() int {
	return w.id
}

// Time returns the simulated time in seconds
func (w *World) Time() float64 {
	return w.time
}

// TimeStep returns the physics time step in seconds
func (w *World) TimeStep() float64 {
	return w.timeStep
}

// IsConnected returns whether the World is still running
func (w *World) IsConnected() bool {
	return w.connected
}

// Disconnect shuts down the World. Every later call which can fail,
// Disconnect included, returns ErrNotConnected.
func (w *World) Disconnect() error {
	if !w.connected {
		return ErrNotConnected
	}
	w.connected = false
	w.bodies = nil
	w.shapes = nil
	w.created = nil
	return nil
}

// CreateCollisionShape registers a collision shape and returns its index
func (w *World) CreateCollisionShape(s Shape) (int, error) {
	if !w.connected {
		return NoShape, ErrNotConnected
	}

	switch s.Type {
	case GeomBox:
		if s.HalfExtents.X <= 0 || s.HalfExtents.Y <= 0 ||
			s.HalfExtents.Z <= 0 {
			return NoShape, fmt.Errorf("createCollisionShape: box half "+
				"extents must be positive, got %v", s.HalfExtents)
		}

	case GeomSphere:
		if s.Radius <= 0 {
			return NoShape, fmt.Errorf("createCollisionShape: sphere "+
				"radius must be positive, got %v", s.Radius)
		}

	case GeomMesh:
		halfExtents, err := readOBJBounds(s.FileName)
		if err != nil {
			return NoShape, fmt.Errorf("createCollisionShape: %v", err)
		}
		s.HalfExtents = halfExtents

	default:
		return NoShape, fmt.Errorf("createCollisionShape: unknown shape "+
			"type %v", s.Type)
	}

	w.shapes = append(w.shapes, s)
	return len(w.shapes) - 1, nil
}

// CreateVisualShape registers a visual shape and returns its index
func (w *World) CreateVisualShape(s Shape) (int, error) {
	if !w.connected {
		return NoShape, ErrNotConnected
	}
	if s.Type == GeomMesh {
		halfExtents, err := readOBJBounds(s.FileName)
		if err != nil {
			return NoShape, fmt.Errorf("createVisualShape: %v", err)
		}
		s.HalfExtents = halfExtents
	}

	w.shapes = append(w.shapes, s)
	return len(w.shapes) - 1, nil
}

// CreateMultiBody creates a body from previously created shapes and
// returns its id
func (w *World) CreateMultiBody(b MultiBody) (int, error) {
	if !w.connected {
		return -1, ErrNotConnected
	}
	if b.CollisionShape == NoShape && b.VisualShape == NoShape {
		return -1, fmt.Errorf("createMultiBody: at least one of collision " +
			"or visual shape is required")
	}
	if err := w.checkShape(b.CollisionShape); err != nil {
		return -1, fmt.Errorf("createMultiBody: collision %v", err)
	}
	if err := w.checkShape(b.VisualShape); err != nil {
		return -1, fmt.Errorf("createMultiBody: visual %v", err)
	}
	if b.Mass < 0 {
		return -1, fmt.Errorf("createMultiBody: mass must be non-negative, "+
			"got %v", b.Mass)
	}
	if b.CollisionShape != NoShape && b.Mass > 0 &&
		w.shapes[b.CollisionShape].Flags&GeomForceConcaveTrimesh != 0 {
		return -1, fmt.Errorf("createMultiBody: concave meshes can only be " +
			"used by static bodies")
	}

	bd := &body{
		id:             w.nextID,
		collisionShape: b.CollisionShape,
		visualShape:    b.VisualShape,
		position:       b.Position,
		orientation:    Normalize(b.Orientation),
		mass:           b.Mass,
		dynamics:       Dynamics{LateralFriction: 0.5},
	}
	if b.VisualShape != NoShape {
		bd.color = w.shapes[b.VisualShape].Color
	}

	w.bodies[bd.id] = bd
	w.created = append(w.created, bd.id)
	w.nextID++
	return bd.id, nil
}

// LoadURDF creates a single body from the base link of model
func (w *World) LoadURDF(model *URDF, position r3.Vector,
	orientation quat.Number) (int, error) {
	if !w.connected {
		return -1, ErrNotConnected
	}

	collision, err := model.CollisionShape()
	if err != nil {
		return -1, fmt.Errorf("loadURDF: %v", err)
	}
	collisionID, err := w.CreateCollisionShape(collision)
	if err != nil {
		return -1, fmt.Errorf("loadURDF: %v", err)
	}

	visualID := NoShape
	visual, ok, err := model.VisualShape()
	if err != nil {
		return -1, fmt.Errorf("loadURDF: %v", err)
	}
	if ok {
		visualID, err = w.CreateVisualShape(visual)
		if err != nil {
			return -1, fmt.Errorf("loadURDF: %v", err)
		}
	}

	return w.CreateMultiBody(MultiBody{
		CollisionShape: collisionID,
		VisualShape:    visualID,
		Position:       position,
		Orientation:    orientation,
		Mass:           model.Mass(),
	})
}

// ChangeDynamics sets the contact parameters of a body. Only the base
// link exists in a World.
func (w *World) ChangeDynamics(id, link int, d Dynamics) error {
	if !w.connected {
		return ErrNotConnected
	}
	b, err := w.body(id, link)
	if err != nil {
		return fmt.Errorf("changeDynamics: %v", err)
	}
	b.dynamics = d
	return nil
}

// ChangeVisualShape sets the colour of a body
func (w *World) ChangeVisualShape(id, link int, c RGBA) error {
	if !w.connected {
		return ErrNotConnected
	}
	b, err := w.body(id, link)
	if err != nil {
		return fmt.Errorf("changeVisualShape: %v", err)
	}
	b.color = &c
	return nil
}

// ResetBasePositionAndOrientation teleports a body and zeroes its velocity
func (w *World) ResetBasePositionAndOrientation(id int, position r3.Vector,
	orientation quat.Number) error {
	if !w.connected {
		return ErrNotConnected
	}
	b, err := w.body(id, BaseLink)
	if err != nil {
		return fmt.Errorf("resetBasePositionAndOrientation: %v", err)
	}
	b.position = position
	b.orientation = Normalize(orientation)
	b.velocity = r3.Vector{}
	return nil
}

// BasePositionAndOrientation returns the pose of a body
func (w *World) BasePositionAndOrientation(id int) (r3.Vector, quat.Number,
	error) {
	if !w.connected {
		return r3.Vector{}, quat.Number{}, ErrNotConnected
	}
	b, err := w.body(id, BaseLink)
	if err != nil {
		return r3.Vector{}, quat.Number{},
			fmt.Errorf("basePositionAndOrientation: %v", err)
	}
	return b.position, b.orientation, nil
}

// RemoveBody removes a body from the World
func (w *World) RemoveBody(id int) error {
	if !w.connected {
		return ErrNotConnected
	}
	if _, err := w.body(id, BaseLink); err != nil {
		return fmt.Errorf("removeBody: %v", err)
	}
	delete(w.bodies, id)

	for i, c := range w.created {
		if c == id {
			w.created = append(w.created[:i], w.created[i+1:]...)
			break
		}
	}
	return nil
}

// Body returns a snapshot of a body
func (w *World) Body(id int) (BodyInfo, error) {
	if !w.connected {
		return BodyInfo{}, ErrNotConnected
	}
	b, err := w.body(id, BaseLink)
	if err != nil {
		return BodyInfo{}, fmt.Errorf("body: %v", err)
	}

	info := BodyInfo{
		ID:          b.id,
		Position:    b.position,
		Orientation: b.orientation,
		Velocity:    b.velocity,
		Mass:        b.mass,
		Dynamics:    b.dynamics,
		Collides:    b.collisionShape != NoShape,
		Color:       b.color,
	}

	shape := b.visualShape
	if b.collisionShape != NoShape {
		shape = b.collisionShape
	}
	info.Type = w.shapes[shape].Type
	info.HalfExtents = w.shapes[shape].HalfExtents
	info.Radius = w.shapes[shape].Radius

	return info, nil
}

// Bodies returns the ids of all bodies in creation order
func (w *World) Bodies() []int {
	ids := make([]int, len(w.created))
	copy(ids, w.created)
	return ids
}

// StepSimulation advances all dynamic bodies by one time step using
// semi-implicit Euler integration
func (w *World) StepSimulation() error {
	if !w.connected {
		return ErrNotConnected
	}

	for _, id := range w.created {
		b := w.bodies[id]
		if b.mass == 0 || b.collisionShape == NoShape {
			continue
		}

		b.velocity = b.velocity.Add(w.Gravity.Mul(w.timeStep))
		b.position = b.position.Add(b.velocity.Mul(w.timeStep))

		// Resolve contact with the ground plane
		height := w.halfHeight(b)
		if b.position.Z-height > 0 {
			continue
		}
		b.position.Z = height
		if b.velocity.Z < 0 {
			b.velocity.Z = -b.dynamics.Restitution * b.velocity.Z
		}

		horizontal := r3.Vector{X: b.velocity.X, Y: b.velocity.Y}
		speed := horizontal.Norm()
		if speed == 0 {
			continue
		}
		decel := b.dynamics.LateralFriction * math.Abs(w.Gravity.Z) *
			w.timeStep
		scale := math.Max(0, speed-decel) / speed
		b.velocity.X *= scale
		b.velocity.Y *= scale
	}

	w.time += w.timeStep
	return nil
}

// halfHeight returns the distance from the centre of a body to the
// bottom of its bounding box
func (w *World) halfHeight(b *body) float64 {
	s := w.shapes[b.collisionShape]
	if s.Type == GeomSphere {
		return s.Radius
	}
	return extentZ(b.orientation, s.HalfExtents)
}

func (w *World) checkShape(index int) error {
	if index != NoShape && (index < 0 || index >= len(w.shapes)) {
		return fmt.Errorf("shape index %v does not exist", index)
	}
	return nil
}

func (w *World) body(id, link int) (*body, error) {
	if !w.connected {
		return nil, ErrNotConnected
	}
	if link != BaseLink {
		return nil, fmt.Errorf("body %v has no link %v", id, link)
	}
	b, ok := w.bodies[id]
	if !ok {
		return nil, fmt.Errorf("no body with id %v", id)
	}
	return b, nil
}
