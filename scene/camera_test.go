package scene

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestCameraProjectsTargetToCentre(t *testing.T) {
	c := NewCamera(mgl32.DegToRad(60), 1, 1, 1000)
	c.SetPosition(mgl32.Vec3{0, 5, 0})
	c.LookAt(mgl32.Vec3{0, 5, -10}, mgl32.Vec3{0, 1, 0})

	clip := c.GetViewProjectionMatrix().Mul4x1(mgl32.Vec4{0, 5, -10, 1})
	ndc := clip.Vec3().Mul(1 / clip.W())
	assert.InDelta(t, 0, ndc.X(), 1e-5)
	assert.InDelta(t, 0, ndc.Y(), 1e-5)
	assert.True(t, ndc.Z() > -1 && ndc.Z() < 1)
}

func TestCameraBasis(t *testing.T) {
	c := NewCamera(1, 1, 1, 100)
	c.SetPosition(mgl32.Vec3{0, 0, 0})
	c.LookAt(mgl32.Vec3{0, 0, -5}, mgl32.Vec3{0, 1, 0})

	assert.True(t, c.GetForward().ApproxEqual(mgl32.Vec3{0, 0, -1}))

	// Eye on the target falls back to looking down -Z.
	c.SetPosition(mgl32.Vec3{0, 0, -5})
	assert.Equal(t, mgl32.Vec3{0, 0, -1}, c.GetForward())
}

func TestOrbitCamera(t *testing.T) {
	c := NewOrbitCamera(mgl32.Vec3{0, 0, 0}, 10, 1, 1)
	c.Pitch = 0
	c.UpdatePosition()
	assert.True(t, c.Position.ApproxEqualThreshold(mgl32.Vec3{0, 0, 10}, 1e-4))

	c.Orbit(0, 10)
	assert.Equal(t, float32(1.5), c.Pitch)

	c.Zoom(-50)
	assert.InDelta(t, 0.1, c.Distance, 1e-6)

	c.Retarget(mgl32.Vec3{0, 0, -100})
	assert.InDelta(t, 0.1, c.Position.Sub(c.Target).Len(), 1e-4)
}

func TestFrustumContainsBox(t *testing.T) {
	c := NewCamera(mgl32.DegToRad(60), 1, 1, 100)
	c.LookAt(mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0})
	f := c.Frustum()

	inside := AABB{Min: mgl32.Vec3{-1, -1, -11}, Max: mgl32.Vec3{1, 1, -9}}
	beyondFar := AABB{Min: mgl32.Vec3{-1, -1, -300}, Max: mgl32.Vec3{1, 1, -200}}
	offLeft := AABB{Min: mgl32.Vec3{-200, -1, -11}, Max: mgl32.Vec3{-150, 1, -9}}

	assert.True(t, inside.IntersectsFrustum(&f))
	assert.False(t, beyondFar.IntersectsFrustum(&f))
	assert.False(t, offLeft.IntersectsFrustum(&f))
}
