package core

import (
	"fmt"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
)

func init() {
	// GLFW and GL calls must stay on the main thread.
	runtime.LockOSThread()
}

type Window struct {
	Handle *glfw.Window
	Width  int
	Height int
	Title  string

	resized  bool
	keysDown map[int]bool
}

type WindowConfig struct {
	Width      int
	Height     int
	Title      string
	Resizable  bool
	VSync      bool
	Fullscreen bool
	Samples    int
}

func DefaultWindowConfig() WindowConfig {
	return WindowConfig{
		Width:     1280,
		Height:    720,
		Title:     "Infinite Road",
		Resizable: true,
		VSync:     true,
		Samples:   4,
	}
}

// NewWindow opens a window with a current OpenGL 4.1 core context.
func NewWindow(config WindowConfig) (*Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	glfw.WindowHint(glfw.Resizable, boolToInt(config.Resizable))
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	if config.Samples > 0 {
		glfw.WindowHint(glfw.Samples, config.Samples)
	}

	var monitor *glfw.Monitor
	if config.Fullscreen {
		monitor = glfw.GetPrimaryMonitor()
	}

	handle, err := glfw.CreateWindow(config.Width, config.Height, config.Title, monitor, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create window: %w", err)
	}
	handle.MakeContextCurrent()
	if config.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	window := &Window{
		Handle:   handle,
		Title:    config.Title,
		keysDown: make(map[int]bool),
	}
	// Work in framebuffer pixels so HiDPI displays get the right viewport.
	window.Width, window.Height = handle.GetFramebufferSize()

	handle.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		window.Width = width
		window.Height = height
		window.resized = true
	})

	return window, nil
}

func (w *Window) ShouldClose() bool {
	return w.Handle.ShouldClose()
}

func (w *Window) SetShouldClose() {
	w.Handle.SetShouldClose(true)
}

func (w *Window) PollEvents() {
	glfw.PollEvents()
}

func (w *Window) SwapBuffers() {
	w.Handle.SwapBuffers()
}

// Resized reports whether the framebuffer changed size since the last call.
func (w *Window) Resized() bool {
	r := w.resized
	w.resized = false
	return r
}

// Aspect returns width/height, or 1 for a minimised window.
func (w *Window) Aspect() float32 {
	if w.Height == 0 {
		return 1
	}
	return float32(w.Width) / float32(w.Height)
}

func (w *Window) Destroy() {
	w.Handle.Destroy()
	glfw.Terminate()
}

func (w *Window) IsKeyPressed(key int) bool {
	return w.Handle.GetKey(glfw.Key(key)) == glfw.Press
}

// KeyPressed is true only on the frame a key goes down.
func (w *Window) KeyPressed(key int) bool {
	down := w.IsKeyPressed(key)
	was := w.keysDown[key]
	w.keysDown[key] = down
	return down && !was
}

func (w *Window) SetTitle(title string) {
	w.Handle.SetTitle(title)
	w.Title = title
}

func (w *Window) IsMouseButtonPressed(button int) bool {
	return w.Handle.GetMouseButton(glfw.MouseButton(button)) == glfw.Press
}

func (w *Window) GetCursorPos() (float64, float64) {
	return w.Handle.GetCursorPos()
}

// CursorNDC returns the cursor position mapped to [-1,1] on both axes,
// +Y up. Used for the parallax camera offset.
func (w *Window) CursorNDC() (float32, float32) {
	x, y := w.Handle.GetCursorPos()
	width, height := w.Handle.GetSize()
	if width == 0 || height == 0 {
		return 0, 0
	}
	nx := float32(x/float64(width))*2 - 1
	ny := 1 - float32(y/float64(height))*2
	return clampUnit(nx), clampUnit(ny)
}

// ScrollCallback is the type for scroll event handlers
type ScrollCallback func(xoff, yoff float64)

func (w *Window) SetScrollCallback(cb ScrollCallback) {
	w.Handle.SetScrollCallback(func(win *glfw.Window, xoff, yoff float64) {
		cb(xoff, yoff)
	})
}

// Time returns seconds since GLFW was initialised.
func Time() float64 {
	return glfw.GetTime()
}

func clampUnit(v float32) float32 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}

func boolToInt(b bool) int {
	if b {
		return glfw.True
	}
	return glfw.False
}

const (
	MouseLeft  = int(glfw.MouseButtonLeft)
	MouseRight = int(glfw.MouseButtonRight)
)

const (
	KeySpace  = int(glfw.KeySpace)
	KeyA      = int(glfw.KeyA)
	KeyC      = int(glfw.KeyC)
	KeyD      = int(glfw.KeyD)
	KeyF      = int(glfw.KeyF)
	KeyO      = int(glfw.KeyO)
	KeyP      = int(glfw.KeyP)
	KeyR      = int(glfw.KeyR)
	KeyS      = int(glfw.KeyS)
	KeyV      = int(glfw.KeyV)
	KeyW      = int(glfw.KeyW)
	KeyEscape = int(glfw.KeyEscape)
	KeyLeft   = int(glfw.KeyLeft)
	KeyRight  = int(glfw.KeyRight)
	KeyUp     = int(glfw.KeyUp)
	KeyDown   = int(glfw.KeyDown)
	KeyMinus  = int(glfw.KeyMinus)
	KeyEqual  = int(glfw.KeyEqual)
)
