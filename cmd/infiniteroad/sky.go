package main

import (
	"fmt"
	stdmath "math"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"infiniteroad/core"
	"infiniteroad/scene"
)

// skyKey holds the sky and light values for one time of day.
type skyKey struct {
	t            float32 // normalised time 0..1
	sky          core.Color
	ambient      core.Color
	sunColor     core.Color
	sunIntensity float32
}

// skyKeys are ordered by t and wrap from the last back to the first.
var skyKeys = []skyKey{
	{ // noon
		t:            0.00,
		sky:          core.Color{R: 0.55, G: 0.45, B: 0.60, A: 1},
		ambient:      core.Color{R: 0.45, G: 0.45, B: 0.50, A: 1},
		sunColor:     core.Color{R: 1.00, G: 0.98, B: 0.92, A: 1},
		sunIntensity: 0.80,
	},
	{ // dusk
		t:            0.25,
		sky:          core.Color{R: 0.50, G: 0.22, B: 0.28, A: 1},
		ambient:      core.Color{R: 0.20, G: 0.16, B: 0.24, A: 1},
		sunColor:     core.Color{R: 1.00, G: 0.55, B: 0.25, A: 1},
		sunIntensity: 0.40,
	},
	{ // midnight
		t:            0.50,
		sky:          core.Color{R: 0.03, G: 0.03, B: 0.08, A: 1},
		ambient:      core.Color{R: 0.06, G: 0.06, B: 0.12, A: 1},
		sunColor:     core.Color{R: 0.40, G: 0.45, B: 0.65, A: 1}, // moonlight
		sunIntensity: 0.15,
	},
	{ // dawn
		t:            0.75,
		sky:          core.Color{R: 0.80, G: 0.45, B: 0.30, A: 1},
		ambient:      core.Color{R: 0.18, G: 0.16, B: 0.22, A: 1},
		sunColor:     core.Color{R: 1.00, G: 0.60, B: 0.30, A: 1},
		sunIntensity: 0.50,
	},
}

// skyCycle animates the sky colour and sun over a day. The point light that
// follows the camera matters most at night.
type skyCycle struct {
	Time   float32 // 0..1: 0=noon, 0.5=midnight
	Period float32 // seconds per full day
	Active bool
}

func newSkyCycle() *skyCycle {
	return &skyCycle{Period: 180}
}

func (c *skyCycle) Update(dt float32) {
	if !c.Active {
		return
	}
	c.Time += dt / c.Period
	c.Time -= math32.Floor(c.Time)
}

func lerpColor(a, b core.Color, t float32) core.Color {
	return core.Color{
		R: a.R + (b.R-a.R)*t,
		G: a.G + (b.G-a.G)*t,
		B: a.B + (b.B-a.B)*t,
		A: 1,
	}
}

func sampleSky(t float32) skyKey {
	n := len(skyKeys)
	for i := 0; i < n; i++ {
		a, b := skyKeys[i], skyKeys[(i+1)%n]
		end := b.t
		if i == n-1 {
			end = 1
		}
		if t >= a.t && t < end {
			f := (t - a.t) / (end - a.t)
			return skyKey{
				t:            t,
				sky:          lerpColor(a.sky, b.sky, f),
				ambient:      lerpColor(a.ambient, b.ambient, f),
				sunColor:     lerpColor(a.sunColor, b.sunColor, f),
				sunIntensity: a.sunIntensity + (b.sunIntensity-a.sunIntensity)*f,
			}
		}
	}
	return skyKeys[0]
}

// Apply pushes the current sky state to the scene. It does nothing until the
// cycle has been started so the default lighting stays untouched.
func (c *skyCycle) Apply(s *scene.Scene) {
	if !c.Active && c.Time == 0 {
		return
	}
	k := sampleSky(c.Time)
	s.SkyColor = k.sky
	s.Ambient = k.ambient

	sun := s.FirstLight(scene.LightTypeDirectional)
	if sun == nil {
		return
	}
	sin, cos := math32.Sincos(c.Time * 2 * stdmath.Pi)
	sun.Direction = mgl32.Vec3{sin, -cos, -0.35}.Normalize()
	sun.Color = k.sunColor
	sun.Intensity = k.sunIntensity
}

// Label is a clock time for the title bar.
func (c *skyCycle) Label() string {
	minutes := int(c.Time*24*60+12*60) % (24 * 60)
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
