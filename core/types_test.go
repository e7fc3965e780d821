package core

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestColorHex(t *testing.T) {
	c := ColorHex(0xff8000)
	assert.Equal(t, float32(1), c.R)
	assert.InDelta(t, 128.0/255, c.G, 1e-6)
	assert.Equal(t, float32(0), c.B)
	assert.Equal(t, float32(1), c.A)
}

func TestColorScaleKeepsAlpha(t *testing.T) {
	c := Color{R: 0.5, G: 0.2, B: 1, A: 0.4}.Scale(0.5)
	assert.Equal(t, Color{R: 0.25, G: 0.1, B: 0.5, A: 0.4}, c)
}

func TestTransformMatrix(t *testing.T) {
	tr := NewTransform()
	tr.Position = mgl32.Vec3{1, 2, 3}
	tr.Scale = mgl32.Vec3{2, 2, 2}

	p := tr.GetMatrix().Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	assert.InDelta(t, 3, p.X(), 1e-5)
	assert.InDelta(t, 2, p.Y(), 1e-5)
	assert.InDelta(t, 3, p.Z(), 1e-5)
}
