package config

import (
	"fmt"

	"github.com/taigrr/meshview/pkg/render"
	"github.com/taigrr/meshview/pkg/viewer"
)

// RenderDisplay returns the configured raster size.
func (c *Config) RenderDisplay() render.Display {
	return render.Display{Width: c.Display.Width, Height: c.Display.Height}
}

// RenderLights converts the configured lights.
func (c *Config) RenderLights() []render.Light {
	lights := make([]render.Light, 0, len(c.Lights))
	for _, l := range c.Lights {
		lights = append(lights, render.Light{
			Position:  l.Position.Vec3(),
			Color:     l.Color.Vec3(),
			Intensity: l.Intensity,
		})
	}
	return lights
}

// Apply configures v's modes, camera and lights. Nothing is changed when
// an error is returned.
func (c *Config) Apply(v *viewer.Viewer) error {
	mode, err := viewer.ParseRenderMode(c.View.RenderMode)
	if err != nil {
		return fmt.Errorf("view.render_mode: %w", err)
	}
	proj, err := render.ParseProjection(c.View.Projection)
	if err != nil {
		return fmt.Errorf("view.projection: %w", err)
	}

	// Validate optics on a scratch camera first.
	cam := render.NewCamera()
	if err := c.applyCamera(cam); err != nil {
		return err
	}
	lights := c.RenderLights()
	for i, l := range lights {
		if err := l.Validate(); err != nil {
			return fmt.Errorf("lights[%d]: %w", i, err)
		}
	}

	_ = v.SetRenderMode(mode)
	_ = v.SetProjectionMode(proj)
	_ = c.applyCamera(v.Camera())
	return v.SetLights(lights)
}

func (c *Config) applyCamera(cam *render.Camera) error {
	cc := c.Camera
	if err := cam.SetViewAngle(cc.ViewAngle); err != nil {
		return fmt.Errorf("camera.view_angle: %w", err)
	}
	if err := cam.SetClippingRange(cc.Near, cc.Far); err != nil {
		return fmt.Errorf("camera.near/far: %w", err)
	}
	if err := cam.SetParallelScale(cc.ParallelScale); err != nil {
		return fmt.Errorf("camera.parallel_scale: %w", err)
	}
	cam.SetPosition(cc.Position.Vec3())
	cam.SetFocalPoint(cc.FocalPoint.Vec3())
	cam.SetUp(cc.Up.Vec3())
	return nil
}
