package physics

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/golang/geo/r3"
)

// readOBJBounds reads the vertices of a Wavefront OBJ file and returns
// the half extents of their axis-aligned bounding box. Only "v" lines
// are read.
func readOBJBounds(path string) (r3.Vector, error) {
	f, err := os.Open(path)
	if err != nil {
		return r3.Vector{}, fmt.Errorf("readOBJBounds: %v", err)
	}
	defer f.Close()

	min := r3.Vector{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)}
	max := r3.Vector{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)}
	vertices := 0

	scanner := bufio.NewScanner(f)
	for line := 1; scanner.Scan(); line++ {
		text := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(text, "v ") {
			continue
		}

		// Vertices may carry an optional fourth w component
		fields := strings.Fields(strings.TrimPrefix(text, "v "))
		if len(fields) > 3 {
			fields = fields[:3]
		}
		vals, err := parseFloats(strings.Join(fields, " "), 3)
		if err != nil {
			return r3.Vector{}, fmt.Errorf("readOBJBounds: %v:%v: %v", path,
				line, err)
		}
		min = r3.Vector{
			X: math.Min(min.X, vals[0]),
			Y: math.Min(min.Y, vals[1]),
			Z: math.Min(min.Z, vals[2]),
		}
		max = r3.Vector{
			X: math.Max(max.X, vals[0]),
			Y: math.Max(max.Y, vals[1]),
			Z: math.Max(max.Z, vals[2]),
		}
		vertices++
	}
	if err := scanner.Err(); err != nil {
		return r3.Vector{}, fmt.Errorf("readOBJBounds: %v", err)
	}
	if vertices == 0 {
		return r3.Vector{}, fmt.Errorf("readOBJBounds: %v has no vertices",
			path)
	}

	return max.Sub(min).Mul(0.5), nil
}
