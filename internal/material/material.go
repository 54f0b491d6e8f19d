// Package material holds the fiber material and winding process reference
// tables. A Registry is built once at startup, optionally extended from a
// YAML file, and is read-only afterwards; concurrent readers need no locking.
package material

import (
	"sort"

	"Mandrel/internal/fwerr"
)

// Material is one unidirectional fiber/matrix system. All mechanical values
// are SI: moduli and strengths in Pa, density in kg/m³, tow width in m.
// FiberArealWeight stays in g/m² as it is display data, not computed with.
type Material struct {
	Key  string
	Name string

	E1   float64
	E2   float64
	G12  float64
	Nu12 float64

	F1t  float64
	F1c  float64
	F2t  float64
	F2c  float64
	F12s float64

	Density          float64
	FiberArealWeight float64
	TowWidth         float64
}

// Process is one winding process preset. LineSpeed in m/s.
type Process struct {
	Key        string
	Name       string
	Type       string
	LineSpeed  float64
	Efficiency float64
}

// Registry is the immutable material/process lookup table.
type Registry struct {
	materials map[string]Material
	processes map[string]Process
}

// NewRegistry returns a registry populated with the built-in presets.
func NewRegistry() *Registry {
	r := &Registry{
		materials: make(map[string]Material, len(builtinMaterials)),
		processes: make(map[string]Process, len(builtinProcesses)),
	}
	for _, m := range builtinMaterials {
		r.materials[m.Key] = m
	}
	for _, p := range builtinProcesses {
		r.processes[p.Key] = p
	}
	return r
}

// Material looks up a material by key.
func (r *Registry) Material(key string) (Material, error) {
	m, ok := r.materials[key]
	if !ok {
		return Material{}, fwerr.Config("material %q not found, available: %v", key, r.MaterialKeys())
	}
	return m, nil
}

// Process looks up a process preset by key.
func (r *Registry) Process(key string) (Process, error) {
	p, ok := r.processes[key]
	if !ok {
		return Process{}, fwerr.Config("process %q not found, available: %v", key, r.ProcessKeys())
	}
	return p, nil
}

// MaterialKeys returns all material keys in sorted order.
func (r *Registry) MaterialKeys() []string {
	keys := make([]string, 0, len(r.materials))
	for k := range r.materials {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ProcessKeys returns all process keys in sorted order.
func (r *Registry) ProcessKeys() []string {
	keys := make([]string, 0, len(r.processes))
	for k := range r.processes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
