package road

import (
	"github.com/go-gl/mathgl/mgl32"

	"infiniteroad/config"
	"infiniteroad/scene"
)

// CameraMode selects how the rig places the camera.
type CameraMode int

const (
	ModeFollow   CameraMode = iota // behind the eye, following the path
	ModeOverhead                   // high above, looking straight down the road
	ModeOrbit                      // user-controlled orbit around the rider
)

func (m CameraMode) String() string {
	switch m {
	case ModeFollow:
		return "follow"
	case ModeOverhead:
		return "overhead"
	case ModeOrbit:
		return "orbit"
	}
	return "unknown"
}

// Rig drives the scene camera from the rider each frame.
type Rig struct {
	Mode   CameraMode
	Camera config.Camera
	Orbit  *scene.OrbitCamera
}

func NewRig(cam config.Camera, aspect float32) *Rig {
	return &Rig{
		Camera: cam,
		Orbit:  scene.NewOrbitCamera(mgl32.Vec3{}, 60, mgl32.DegToRad(cam.FOVDegrees), aspect),
	}
}

// ToggleOrbit switches between orbit and follow.
func (g *Rig) ToggleOrbit() {
	if g.Mode == ModeOrbit {
		g.Mode = ModeFollow
	} else {
		g.Mode = ModeOrbit
	}
}

// CycleView alternates follow and overhead; from orbit it returns to follow.
func (g *Rig) CycleView() {
	if g.Mode == ModeFollow {
		g.Mode = ModeOverhead
	} else {
		g.Mode = ModeFollow
	}
}

// Travelling reports whether the rider should move. Travel stops while the
// user is orbiting so the view holds still under the mouse.
func (g *Rig) Travelling() bool {
	return g.Mode != ModeOrbit
}

// Apply positions cam for the rider. px, py is the cursor in [-1,1] and
// offsets the follow camera for a parallax effect.
func (g *Rig) Apply(cam *scene.Camera, r *Rider, px, py float32) {
	switch g.Mode {
	case ModeOverhead:
		ground := r.Position()
		cam.SetPosition(ground.Add(mgl32.Vec3{0, g.Camera.OverheadHeight, 0.01}))
		cam.LookAt(ground, mgl32.Vec3{0, 0, -1})
	case ModeOrbit:
		g.Orbit.Retarget(r.Position())
		cam.SetPosition(g.Orbit.Position)
		cam.LookAt(g.Orbit.Target, mgl32.Vec3{0, 1, 0})
	default:
		eye := r.Eye(g.Camera.Height)
		right := r.Path.Heading(r.Distance).Cross(mgl32.Vec3{0, 1, 0})
		offset := right.Mul(px * g.Camera.Parallax).Add(mgl32.Vec3{0, py * g.Camera.Parallax, 0})
		cam.SetPosition(eye.Add(offset))
		cam.LookAt(r.LookTarget(g.Camera.Height, g.Camera.LookAhead), mgl32.Vec3{0, 1, 0})
	}
}
