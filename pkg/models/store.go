package models

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"slices"

	"github.com/taigrr/meshview/pkg/math3d"
)

// IDLength is the length of generated mesh ids.
const IDLength = 8

const idAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// ErrNotFound is returned when a key has no mesh in the store.
var ErrNotFound = errors.New("mesh not found")

// Store is a keyed collection of meshes. The zero value is an empty store
// ready to use. It is not safe for concurrent mutation; renderers only read
// from it.
type Store struct {
	meshes map[string]*Mesh
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{meshes: make(map[string]*Mesh)}
}

// Generate validates and adds a new mesh under a freshly generated id.
// Nil coefficients stay unset.
func (s *Store) Generate(vertices []math3d.Vec3, faces [][]int, color RGB, ka, kd, ks *float64) (string, error) {
	m := NewMesh(s.GenID(IDLength), vertices, faces, color)
	m.Ka, m.Kd, m.Ks = ka, kd, ks
	if err := m.Validate(); err != nil {
		return "", err
	}
	return s.Add(m), nil
}

// Add inserts a mesh, replacing any mesh with the same id. A mesh without
// an id is given a generated one.
func (s *Store) Add(m *Mesh) string {
	if m.ID == "" {
		m.ID = s.GenID(IDLength)
	}
	if s.meshes == nil {
		s.meshes = make(map[string]*Mesh)
	}
	s.meshes[m.ID] = m
	return m.ID
}

// insert adds meshes, giving fresh ids to any that collide with a mesh
// already in the store.
func (s *Store) insert(meshes []*Mesh) []string {
	ids := make([]string, 0, len(meshes))
	for _, m := range meshes {
		if _, taken := s.meshes[m.ID]; taken {
			m.ID = ""
		}
		ids = append(ids, s.Add(m))
	}
	return ids
}

// Merge moves every mesh of o into s and returns their ids in s. Colliding
// ids are replaced by fresh ones. o is left empty.
func (s *Store) Merge(o *Store) []string {
	meshes := make([]*Mesh, 0, o.Len())
	for _, k := range o.Keys() {
		meshes = append(meshes, o.meshes[k])
	}
	o.Clear()
	return s.insert(meshes)
}

// Bounds returns the axis-aligned box around every finite vertex in the
// store. ok is false when the store holds none.
func (s *Store) Bounds() (lo, hi math3d.Vec3, ok bool) {
	for _, m := range s.meshes {
		for _, v := range m.Vertices {
			if !v.IsFinite() {
				continue
			}
			if !ok {
				lo, hi, ok = v, v, true
				continue
			}
			lo, hi = lo.Min(v), hi.Max(v)
		}
	}
	return lo, hi, ok
}

// GenID returns a random alphanumeric id of length n not used in the store.
func (s *Store) GenID(n int) string {
	buf := make([]byte, n)
	for {
		for i := range buf {
			buf[i] = idAlphabet[rand.IntN(len(idAlphabet))]
		}
		id := string(buf)
		if _, taken := s.meshes[id]; !taken {
			return id
		}
	}
}

// Lookup returns the mesh stored under key.
func (s *Store) Lookup(key string) (*Mesh, bool) {
	m, ok := s.meshes[key]
	return m, ok
}

// Remove deletes the mesh stored under key.
func (s *Store) Remove(key string) error {
	if _, ok := s.meshes[key]; !ok {
		return fmt.Errorf("remove %q: %w", key, ErrNotFound)
	}
	delete(s.meshes, key)
	return nil
}

// Keys returns all mesh ids in sorted order.
func (s *Store) Keys() []string {
	keys := make([]string, 0, len(s.meshes))
	for k := range s.meshes {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Len returns the number of meshes.
func (s *Store) Len() int {
	return len(s.meshes)
}

// Clear removes every mesh.
func (s *Store) Clear() {
	clear(s.meshes)
}

// Save writes the store to path in the binary store format.
func (s *Store) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create store: %w", err)
	}
	if _, err := s.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("save store %s: %w", path, err)
	}
	return f.Close()
}

// Load replaces the store's contents with the meshes in path. On error the
// store is left unchanged.
func (s *Store) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer f.Close()

	if _, err := s.ReadFrom(f); err != nil {
		return fmt.Errorf("load store %s: %w", path, err)
	}
	return nil
}

// String lists every mesh, one per line.
func (s *Store) String() string {
	var out []byte
	for i, k := range s.Keys() {
		if i > 0 {
			out = append(out, '\n')
		}
		out = append(out, s.meshes[k].String()...)
	}
	return string(out)
}
