package mesh

import (
	"fmt"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/go-gl/mathgl/mgl32"
)

// boxCells is the marching cubes resolution for procedural boxes. Markers
// are small on screen, so a coarse grid is enough.
const boxCells = 24

// Box tessellates a centred box of the given size from a signed distance
// field. round softens the edges (0 for sharp).
func Box(size mgl32.Vec3, round float32) (*Mesh, error) {
	s, err := sdf.Box3D(v3.Vec{X: float64(size[0]), Y: float64(size[1]), Z: float64(size[2])}, float64(round))
	if err != nil {
		return nil, fmt.Errorf("sdf box %v: %w", size, err)
	}
	return fromSDF(s), nil
}

// fromSDF converts an SDF3 into a triangle soup.
func fromSDF(s sdf.SDF3) *Mesh {
	triangles := render.ToTriangles(s, render.NewMarchingCubesUniform(boxCells))
	positions := make([]mgl32.Vec3, 0, len(triangles)*3)
	for _, tri := range triangles {
		for j := 0; j < 3; j++ {
			v := tri[j]
			positions = append(positions, mgl32.Vec3{float32(v.X), float32(v.Y), float32(v.Z)})
		}
	}
	return New(positions)
}
