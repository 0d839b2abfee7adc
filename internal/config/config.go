// Package config handles meshview configuration loading and management.
package config

import (
	"github.com/taigrr/meshview/pkg/math3d"
	"github.com/taigrr/meshview/pkg/render"
	"github.com/taigrr/meshview/pkg/viewer"
)

// Config holds all viewer settings.
type Config struct {
	Display  DisplayConfig  `yaml:"display"`
	View     ViewConfig     `yaml:"view"`
	Camera   CameraConfig   `yaml:"camera"`
	Lights   []LightConfig  `yaml:"lights"`
	Terminal TerminalConfig `yaml:"terminal"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// Vec is a point or direction written as a three element YAML list.
type Vec [3]float64

// Vec3 converts v to a math3d vector.
func (v Vec) Vec3() math3d.Vec3 {
	return math3d.V3(v[0], v[1], v[2])
}

// VecOf converts a math3d vector.
func VecOf(v math3d.Vec3) Vec {
	return Vec{v.X, v.Y, v.Z}
}

// DisplayConfig is the raster size for headless renders.
type DisplayConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// ViewConfig selects the renderer and projection.
type ViewConfig struct {
	RenderMode string `yaml:"render_mode"` // rasterize or raytrace
	Projection string `yaml:"projection"`  // orthographic or perspective
}

// CameraConfig holds the initial camera placement and optics.
type CameraConfig struct {
	Position      Vec     `yaml:"position,flow"`
	FocalPoint    Vec     `yaml:"focal_point,flow"`
	Up            Vec     `yaml:"up,flow"`
	ViewAngle     float64 `yaml:"view_angle"` // degrees
	Near          float64 `yaml:"near"`
	Far           float64 `yaml:"far"`
	ParallelScale float64 `yaml:"parallel_scale"`
}

// LightConfig is one point light.
type LightConfig struct {
	Position  Vec     `yaml:"position,flow"`
	Color     Vec     `yaml:"color,flow"`
	Intensity float64 `yaml:"intensity"`
}

// TerminalConfig holds interactive view settings.
type TerminalConfig struct {
	FPS       int     `yaml:"fps"`
	OrbitStep float64 `yaml:"orbit_step"` // degrees per key press
	ZoomStep  float64 `yaml:"zoom_step"`  // percent per key press
	ShowHUD   bool    `yaml:"show_hud"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config matching the viewer's built-in defaults.
func Default() *Config {
	return &Config{
		Display: DisplayConfig{
			Width:  640,
			Height: 480,
		},
		View: ViewConfig{
			RenderMode: viewer.Rasterize.String(),
			Projection: render.Orthographic.String(),
		},
		Camera: CameraConfig{
			Position:      VecOf(viewer.DefaultPosition),
			FocalPoint:    VecOf(viewer.DefaultFocalPoint),
			Up:            VecOf(math3d.Up()),
			ViewAngle:     render.DefaultViewAngle,
			Near:          render.DefaultNear,
			Far:           render.DefaultFar,
			ParallelScale: render.DefaultParallelScale,
		},
		Lights: []LightConfig{{
			Position:  VecOf(viewer.DefaultLight.Position),
			Color:     VecOf(viewer.DefaultLight.Color),
			Intensity: viewer.DefaultLight.Intensity,
		}},
		Terminal: TerminalConfig{
			FPS:       30,
			OrbitStep: 10,
			ZoomStep:  10,
			ShowHUD:   true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
