package models

import (
	"path/filepath"
	"testing"

	"github.com/taigrr/meshview/pkg/math3d"
)

func TestLoadGLBInvalidPath(t *testing.T) {
	_, err := LoadGLB("/nonexistent/path.glb")
	if err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

func TestGLBExportImport(t *testing.T) {
	s := NewStore()
	cube := NewCube("cube", math3d.V3(0.5, 0.5, 0.5), 0.5, RGB{255, 0, 0})
	cube.SetCoefficients(0.25, 0.5, 0.75)
	s.Add(cube)

	path := filepath.Join(t.TempDir(), "scene.glb")
	if err := s.ExportGLB(path); err != nil {
		t.Fatalf("ExportGLB: %v", err)
	}

	meshes, err := LoadGLB(path)
	if err != nil {
		t.Fatalf("LoadGLB: %v", err)
	}
	if len(meshes) != 1 {
		t.Fatalf("loaded %d meshes, want 1", len(meshes))
	}

	m := meshes[0]
	if m.ID != "cube" {
		t.Errorf("ID = %q, want cube", m.ID)
	}
	if m.VertexCount() != 8 || m.FaceCount() != 12 {
		t.Errorf("loaded %d vertices, %d faces; want 8, 12", m.VertexCount(), m.FaceCount())
	}
	if m.Color != (RGB{255, 0, 0}) {
		t.Errorf("Color = %v", m.Color)
	}
	if !m.BoundsMin.ApproxEqual(math3d.Zero3(), 1e-6) || !m.BoundsMax.ApproxEqual(math3d.V3(1, 1, 1), 1e-6) {
		t.Errorf("bounds = %v..%v", m.BoundsMin, m.BoundsMax)
	}
	if err := m.Validate(); err != nil {
		t.Errorf("loaded mesh invalid: %v", err)
	}
}

func TestImportGLBRenamesCollisions(t *testing.T) {
	src := NewStore()
	src.Add(NewCube("cube", math3d.Zero3(), 1, RGB{}))
	path := filepath.Join(t.TempDir(), "cube.glb")
	if err := src.ExportGLB(path); err != nil {
		t.Fatalf("ExportGLB: %v", err)
	}

	dst := NewStore()
	dst.Add(NewCube("cube", math3d.Zero3(), 2, RGB{}))
	ids, err := dst.ImportGLB(path)
	if err != nil {
		t.Fatalf("ImportGLB: %v", err)
	}
	if len(ids) != 1 || ids[0] == "cube" {
		t.Fatalf("ImportGLB ids = %v, want one fresh id", ids)
	}
	if dst.Len() != 2 {
		t.Errorf("Len() = %d, want 2", dst.Len())
	}
}
