package render

import (
	"fmt"

	"github.com/taigrr/meshview/pkg/models"
	"go.uber.org/zap"
)

// Scene is the read-only view of a mesh collection the renderers consume.
// models.Store satisfies it.
type Scene interface {
	Keys() []string
	Lookup(key string) (*models.Mesh, bool)
}

// Renderer produces a fresh raster of the scene for each call.
type Renderer interface {
	Render(d Display, scene Scene, p Projection, lights []Light) (*Raster, error)
}

// drawable returns the scene's meshes in key order, skipping meshes with no
// faces or no vertices. A malformed mesh is an error.
func drawable(scene Scene, log *zap.Logger) ([]*models.Mesh, error) {
	if scene == nil {
		return nil, nil
	}
	var meshes []*models.Mesh
	for _, key := range scene.Keys() {
		m, ok := scene.Lookup(key)
		if !ok || m == nil {
			continue
		}
		if len(m.Faces) == 0 || len(m.Vertices) == 0 {
			log.Debug("skipping empty mesh", zap.String("mesh", key))
			continue
		}
		if err := m.Validate(); err != nil {
			return nil, fmt.Errorf("render mesh %q: %w", key, err)
		}
		meshes = append(meshes, m)
	}
	return meshes, nil
}

func orNop(log *zap.Logger) *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	return log
}
