package main

import (
	"math"

	"github.com/charmbracelet/harmonica"
)

// Spring parameters: moderate speed, critically damped (no overshoot).
const (
	springFrequency = 4.0
	springDamping   = 1.0
)

// settled is the speed below which an axis counts as stopped.
const settled = 1e-3

// axis is a camera velocity that a spring eases back to zero.
type axis struct {
	Velocity float64
	accel    float64 // spring velocity of Velocity itself
	spring   harmonica.Spring
}

func newAxis(fps int) axis {
	return axis{spring: harmonica.NewSpring(harmonica.FPS(fps), springFrequency, springDamping)}
}

// update returns the velocity for this frame and decays it toward 0.
func (a *axis) update() float64 {
	v := a.Velocity
	a.Velocity, a.accel = a.spring.Update(a.Velocity, a.accel, 0)
	if math.Abs(a.Velocity) < settled && math.Abs(a.accel) < settled {
		a.Velocity, a.accel = 0, 0
	}
	return v
}

// motion holds the orbit and zoom velocities of the terminal view.
type motion struct {
	Vertical, Horizontal, Zoom axis
	fps                        int
}

func newMotion(fps int) *motion {
	return &motion{
		Vertical:   newAxis(fps),
		Horizontal: newAxis(fps),
		Zoom:       newAxis(fps),
		fps:        fps,
	}
}

// Nudge adds velocity so that, once the springs settle, the camera has
// orbited by about vertical and horizontal degrees and zoomed by about
// zoom percent.
func (m *motion) Nudge(vertical, horizontal, zoom float64) {
	// A decaying axis travels Velocity * fps * 2/frequency in total.
	k := springFrequency / (2 * float64(m.fps))
	m.Vertical.Velocity += vertical * k
	m.Horizontal.Velocity += horizontal * k
	m.Zoom.Velocity += zoom * k
}

// Step advances one frame and returns this frame's orbit and zoom amounts.
// moving is false once every axis has settled.
func (m *motion) Step() (vertical, horizontal, zoom float64, moving bool) {
	vertical = m.Vertical.update()
	horizontal = m.Horizontal.update()
	zoom = m.Zoom.update()
	moving = vertical != 0 || horizontal != 0 || zoom != 0
	return vertical, horizontal, zoom, moving
}

// Stop drops all velocity.
func (m *motion) Stop() {
	m.Vertical = newAxis(m.fps)
	m.Horizontal = newAxis(m.fps)
	m.Zoom = newAxis(m.fps)
}
