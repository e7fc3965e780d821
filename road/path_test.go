package road

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathMatchesSampledCurve(t *testing.T) {
	p := Path{Amplitude: 5, Wavelength: 100}
	// Point i of the sampled curve sits at (sin(i*0.1)*5, 0, -i*10).
	for i := 0; i < 50; i++ {
		pt := p.PointAt(float32(i * 10))
		assert.InDelta(t, 5*math.Sin(float64(i)*0.1), pt.X(), 1e-4, "i=%d", i)
		assert.Equal(t, float32(-i*10), pt.Z())
		assert.Equal(t, float32(0), pt.Y())
	}
}

func TestPathHeadingIsTangent(t *testing.T) {
	p := Path{Amplitude: 5, Wavelength: 100}
	for _, d := range []float32{0, 37, 150, 900} {
		h := p.Heading(d)
		assert.InDelta(t, 1, h.Len(), 1e-5)
		assert.True(t, h.Z() < 0, "travel heads toward -Z")

		ahead := p.PointAt(d + 1).Sub(p.PointAt(d)).Normalize()
		for i := 0; i < 3; i++ {
			assert.InDelta(t, ahead[i], h[i], 1e-2, "d=%v axis %d", d, i)
		}
	}
}

func TestStraightPath(t *testing.T) {
	p := Path{Amplitude: 0, Wavelength: 1}
	assert.Equal(t, mgl32.Vec3{0, 0, -20}, p.PointAt(20))
	assert.True(t, p.Heading(3).ApproxEqual(mgl32.Vec3{0, 0, -1}))
}

func TestPathPoints(t *testing.T) {
	p := Path{Amplitude: 5, Wavelength: 100}
	pts := p.Points(0, -100, 4)
	require.Len(t, pts, 5)
	assert.Equal(t, float32(0), pts[0].Z())
	assert.Equal(t, float32(-100), pts[4].Z())
	assert.Equal(t, float32(-50), pts[2].Z())
	assert.InDelta(t, p.X(-50), pts[2].X(), 1e-6)

	assert.Len(t, p.Points(0, -1, 0), 2)
}
