package collision_test

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/samuelfneumann/gofinger/collision"
	"github.com/samuelfneumann/gofinger/physics"
	"gonum.org/v1/gonum/num/quat"
)

func newWorld(t *testing.T) *physics.World {
	w, err := physics.NewWorld(physics.DefaultTimeStep)
	if err != nil {
		t.Fatal(err)
	}
	return w
}

func TestCuboidStateRoundTrip(t *testing.T) {
	w := newWorld(t)
	halfExtents := r3.Vector{X: 0.02, Y: 0.04, Z: 0.01}

	var cuboids []*collision.Cuboid
	for i := 0; i < 2; i++ {
		c, err := collision.NewCuboid(w, r3.Vector{Z: 0.01}, physics.Identity,
			halfExtents, 0.05, nil)
		if err != nil {
			t.Fatal(err)
		}
		cuboids = append(cuboids, c)
	}

	position := r3.Vector{X: 0.05, Y: -0.07, Z: 0.12}
	orientation := physics.FromAxisAngle(r3.Vector{X: 1, Y: 1}, 0.7)

	for i, c := range cuboids {
		if err := c.SetState(position, orientation); err != nil {
			t.Fatal(err)
		}

		gotPos, gotOrn, err := c.State()
		if err != nil {
			t.Fatal(err)
		}
		if gotPos.Sub(position).Norm() > 1e-12 {
			t.Errorf("cuboid %v position: have %v want %v", i, gotPos,
				position)
		}
		if quat.Abs(quat.Sub(gotOrn, orientation)) > 1e-12 {
			t.Errorf("cuboid %v orientation: have %v want %v", i, gotOrn,
				orientation)
		}
	}

	if cuboids[0].ID() == cuboids[1].ID() {
		t.Error("cuboids should have distinct ids")
	}
}

func TestCuboidDynamics(t *testing.T) {
	w := newWorld(t)
	c, err := collision.NewCuboid(w, r3.Vector{Z: 0.1}, physics.Identity,
		r3.Vector{X: 0.01, Y: 0.01, Z: 0.01}, 0.1, nil)
	if err != nil {
		t.Fatal(err)
	}

	info, err := w.Body(c.ID())
	if err != nil {
		t.Fatal(err)
	}
	want := physics.Dynamics{
		LateralFriction:  collision.LateralFriction,
		SpinningFriction: collision.SpinningFriction,
		Restitution:      collision.Restitution,
	}
	if info.Dynamics != want {
		t.Errorf("dynamics: have %+v want %+v", info.Dynamics, want)
	}
	if info.Color != nil {
		t.Error("cuboid without colour should have no visual colour")
	}
}

func TestCubeDefaults(t *testing.T) {
	w := newWorld(t)
	cube, err := collision.NewCube(w)
	if err != nil {
		t.Fatal(err)
	}

	pos, orn, err := cube.State()
	if err != nil {
		t.Fatal(err)
	}
	if pos != collision.CubePosition {
		t.Errorf("position: have %v want %v", pos, collision.CubePosition)
	}
	if orn != physics.Identity {
		t.Errorf("orientation: have %v want identity", orn)
	}
	if cube.Mass() != collision.CubeMass {
		t.Errorf("mass: have %v want %v", cube.Mass(), collision.CubeMass)
	}
	h := cube.HalfExtents()
	if h.X != collision.CubeHalfWidth || h.Y != h.X || h.Z != h.X {
		t.Errorf("half extents: have %v", h)
	}

	red := physics.RGBA{1, 0, 0, 1}
	block, err := collision.NewBlock(w, collision.WithHalfWidth(0.01),
		collision.WithColor(red), collision.WithPosition(r3.Vector{Z: 0.01}))
	if err != nil {
		t.Fatal(err)
	}
	info, err := w.Body(block.ID())
	if err != nil {
		t.Fatal(err)
	}
	if info.Color == nil || *info.Color != red {
		t.Errorf("block colour: have %v want %v", info.Color, red)
	}
}

func TestRemoveAfterDisconnect(t *testing.T) {
	w := newWorld(t)
	cube, err := collision.NewCube(w)
	if err != nil {
		t.Fatal(err)
	}

	if err := w.Disconnect(); err != nil {
		t.Fatal(err)
	}
	if err := cube.Remove(); err != nil {
		t.Errorf("remove after disconnect: %v", err)
	}
}

func TestRemoveTwice(t *testing.T) {
	w := newWorld(t)
	cube, err := collision.NewCube(w)
	if err != nil {
		t.Fatal(err)
	}

	if err := cube.Remove(); err != nil {
		t.Fatal(err)
	}
	if err := cube.Remove(); err != nil {
		t.Errorf("second remove: %v", err)
	}
	if len(w.Bodies()) != 0 {
		t.Errorf("bodies after remove: %v", w.Bodies())
	}
}

func TestColoredCubeV2(t *testing.T) {
	w := newWorld(t)
	cube, err := collision.NewColoredCubeV2(w, r3.Vector{Z: 0.0325},
		physics.Identity)
	if err != nil {
		t.Fatal(err)
	}

	info, err := w.Body(cube.ID())
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(info.Mass-0.094) > 1e-12 {
		t.Errorf("mass: have %v want 0.094", info.Mass)
	}
	if math.Abs(info.HalfExtents.X-0.0325) > 1e-12 {
		t.Errorf("half width: have %v want 0.0325", info.HalfExtents.X)
	}
}

func TestImportMesh(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wedge.obj")
	obj := "v 0 0 0\nv 0.1 0 0\nv 0 0.1 0\nv 0 0 0.1\nf 1 2 3\nf 1 2 4\n"
	if err := os.WriteFile(path, []byte(obj), 0o644); err != nil {
		t.Fatal(err)
	}

	w := newWorld(t)
	green := physics.RGBA{0, 1, 0, 1}
	mesh, err := collision.ImportMesh(w, path, r3.Vector{Z: 0.05},
		physics.Identity, 0, true, &green)
	if err != nil {
		t.Fatal(err)
	}

	info, err := w.Body(mesh.ID())
	if err != nil {
		t.Fatal(err)
	}
	if info.Color == nil || *info.Color != green {
		t.Errorf("mesh colour: have %v want %v", info.Color, green)
	}

	if _, err := collision.ImportMesh(w, path, r3.Vector{Z: 0.05},
		physics.Identity, 1, true, nil); err == nil {
		t.Error("importMesh: concave dynamic mesh should fail")
	}
}
