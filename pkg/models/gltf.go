package models

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/taigrr/meshview/pkg/math3d"
)

// Material extras keys carrying the Phong coefficients through glTF.
const (
	extraKa = "ka"
	extraKd = "kd"
	extraKs = "ks"
)

// LoadGLB reads every triangle mesh in a glTF or GLB file. Each glTF mesh
// becomes one Mesh; its primitives are merged and its colour comes from the
// first primitive's base colour factor. Node transforms are not applied.
func LoadGLB(path string) ([]*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	var meshes []*Mesh
	for i, gm := range doc.Meshes {
		m, err := convertMesh(doc, gm)
		if err != nil {
			return nil, fmt.Errorf("process mesh %q: %w", gm.Name, err)
		}
		if len(m.Faces) == 0 {
			continue
		}
		m.ID = gm.Name
		if m.ID == "" {
			m.ID = fmt.Sprintf("%s-%d", base, i)
		}
		meshes = append(meshes, m)
	}
	return meshes, nil
}

// ImportGLB loads a glTF/GLB file into the store and returns the ids of the
// added meshes. Ids already present in the store are replaced by fresh ones.
func (s *Store) ImportGLB(path string) ([]string, error) {
	meshes, err := LoadGLB(path)
	if err != nil {
		return nil, err
	}
	return s.insert(meshes), nil
}

func convertMesh(doc *gltf.Document, gm *gltf.Mesh) (*Mesh, error) {
	m := NewMesh("", nil, nil, RGB{200, 200, 200})
	colored := false

	for _, prim := range gm.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
			// Lines and points have no surface to shade.
			continue
		}
		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}

		positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
		if err != nil {
			return nil, fmt.Errorf("read positions: %w", err)
		}

		baseVertex := len(m.Vertices)
		for _, p := range positions {
			m.Vertices = append(m.Vertices, math3d.V3(float64(p[0]), float64(p[1]), float64(p[2])))
		}

		var indices []uint32
		if prim.Indices != nil {
			indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
			if err != nil {
				return nil, fmt.Errorf("read indices: %w", err)
			}
		} else {
			indices = make([]uint32, len(positions))
			for i := range indices {
				indices[i] = uint32(i)
			}
		}
		for i := 0; i+2 < len(indices); i += 3 {
			m.Faces = append(m.Faces, []int{
				baseVertex + int(indices[i]),
				baseVertex + int(indices[i+1]),
				baseVertex + int(indices[i+2]),
			})
		}

		if !colored && prim.Material != nil && *prim.Material < len(doc.Materials) {
			applyMaterial(m, doc.Materials[*prim.Material])
			colored = true
		}
	}

	m.CalculateBounds()
	return m, m.Validate()
}

func applyMaterial(m *Mesh, mat *gltf.Material) {
	if pbr := mat.PBRMetallicRoughness; pbr != nil && pbr.BaseColorFactor != nil {
		f := pbr.BaseColorFactor
		m.Color = RGB{unitToByte(f[0]), unitToByte(f[1]), unitToByte(f[2])}
	}
	extras, ok := mat.Extras.(map[string]any)
	if !ok {
		return
	}
	for key, dst := range map[string]**float64{extraKa: &m.Ka, extraKd: &m.Kd, extraKs: &m.Ks} {
		if v, ok := extras[key].(float64); ok {
			*dst = Coef(v)
		}
	}
}

// ExportGLB writes every mesh in the store to a binary glTF file, one glTF
// mesh (and node) per store mesh, named by id. Faces are triangulated.
func (s *Store) ExportGLB(path string) error {
	doc := gltf.NewDocument()

	for _, key := range s.Keys() {
		m := s.meshes[key]
		if err := m.Validate(); err != nil {
			return err
		}
		tris := m.Triangles()
		if len(tris) == 0 {
			continue
		}

		positions := make([][3]float32, len(m.Vertices))
		for i, v := range m.Vertices {
			positions[i] = [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}
		}
		indices := make([]uint32, 0, len(tris)*3)
		for _, t := range tris {
			indices = append(indices, uint32(t[0]), uint32(t[1]), uint32(t[2]))
		}

		extras := map[string]any{}
		for k, c := range map[string]*float64{extraKa: m.Ka, extraKd: m.Kd, extraKs: m.Ks} {
			if c != nil {
				extras[k] = *c
			}
		}
		c := m.Color.Normalized()
		doc.Materials = append(doc.Materials, &gltf.Material{
			Name: m.ID,
			PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
				BaseColorFactor: &[4]float64{c.X, c.Y, c.Z, 1},
			},
			Extras: extras,
		})

		pos := modeler.WritePosition(doc, positions)
		idx := modeler.WriteIndices(doc, indices)
		doc.Meshes = append(doc.Meshes, &gltf.Mesh{
			Name: m.ID,
			Primitives: []*gltf.Primitive{{
				Indices:    gltf.Index(idx),
				Attributes: map[string]int{gltf.POSITION: pos},
				Material:   gltf.Index(len(doc.Materials) - 1),
				Mode:       gltf.PrimitiveTriangles,
			}},
		})
		doc.Nodes = append(doc.Nodes, &gltf.Node{
			Name: m.ID,
			Mesh: gltf.Index(len(doc.Meshes) - 1),
		})
		doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, len(doc.Nodes)-1)
	}

	if err := gltf.SaveBinary(doc, path); err != nil {
		return fmt.Errorf("save glb: %w", err)
	}
	return nil
}

func unitToByte(f float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, f)) * 255))
}
