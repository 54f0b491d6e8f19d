package material

import (
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"Mandrel/internal/fwerr"
)

var validate = validator.New()

type yamlFile struct {
	Materials map[string]yamlMaterial `yaml:"materials"`
	Processes map[string]yamlProcess  `yaml:"processes"`
}

// yamlMaterial uses engineering units (GPa/MPa/mm) so override files read
// like a datasheet. Strength fields may be omitted; the carbon/epoxy
// reference set is substituted.
type yamlMaterial struct {
	Name    string  `yaml:"name" validate:"required"`
	E1GPa   float64 `yaml:"e1_gpa" validate:"gt=0"`
	E2GPa   float64 `yaml:"e2_gpa" validate:"gt=0"`
	G12GPa  float64 `yaml:"g12_gpa" validate:"gt=0"`
	Nu12    float64 `yaml:"nu12" validate:"gt=0,lt=0.5"`
	F1tMPa  float64 `yaml:"f1t_mpa" validate:"gte=0"`
	F1cMPa  float64 `yaml:"f1c_mpa" validate:"gte=0"`
	F2tMPa  float64 `yaml:"f2t_mpa" validate:"gte=0"`
	F2cMPa  float64 `yaml:"f2c_mpa" validate:"gte=0"`
	F12sMPa float64 `yaml:"f12s_mpa" validate:"gte=0"`

	DensityKgM3         float64 `yaml:"density_kg_m3" validate:"gt=0"`
	FiberArealWeightGM2 float64 `yaml:"fiber_areal_weight_g_m2" validate:"gte=0"`
	TowWidthMM          float64 `yaml:"tow_width_mm" validate:"gte=0"`
}

type yamlProcess struct {
	Name       string  `yaml:"name" validate:"required"`
	Type       string  `yaml:"type" validate:"required"`
	LineSpeedMS float64 `yaml:"line_speed_m_s" validate:"gt=0"`
	Efficiency float64 `yaml:"efficiency" validate:"gt=0,lte=1"`
}

// LoadYAML merges material and process entries from path into the registry.
// Entries with known keys replace the built-ins. Must be called before the
// registry is shared; the registry is read-only once serving starts.
func (r *Registry) LoadYAML(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fwerr.Wrap(fwerr.KindConfig, err, "reading material override file")
	}

	var f yamlFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return fwerr.Wrap(fwerr.KindConfig, err, "parsing material override file")
	}

	for key, ym := range f.Materials {
		if err := validate.Struct(ym); err != nil {
			return fwerr.Wrap(fwerr.KindConfig, err, "material override "+key)
		}
		r.materials[key] = ym.toMaterial(key)
	}
	for key, yp := range f.Processes {
		if err := validate.Struct(yp); err != nil {
			return fwerr.Wrap(fwerr.KindConfig, err, "process override "+key)
		}
		r.processes[key] = Process{
			Key:        key,
			Name:       yp.Name,
			Type:       yp.Type,
			LineSpeed:  yp.LineSpeedMS,
			Efficiency: yp.Efficiency,
		}
	}
	return nil
}

func (ym yamlMaterial) toMaterial(key string) Material {
	m := Material{
		Key:  key,
		Name: ym.Name,

		E1:   ym.E1GPa * gpa,
		E2:   ym.E2GPa * gpa,
		G12:  ym.G12GPa * gpa,
		Nu12: ym.Nu12,

		F1t:  ym.F1tMPa * mpa,
		F1c:  ym.F1cMPa * mpa,
		F2t:  ym.F2tMPa * mpa,
		F2c:  ym.F2cMPa * mpa,
		F12s: ym.F12sMPa * mpa,

		Density:          ym.DensityKgM3,
		FiberArealWeight: ym.FiberArealWeightGM2,
		TowWidth:         ym.TowWidthMM * mm,
	}
	if m.F1t == 0 {
		m.F1t = refF1t
	}
	if m.F1c == 0 {
		m.F1c = refF1c
	}
	if m.F2t == 0 {
		m.F2t = refF2t
	}
	if m.F2c == 0 {
		m.F2c = refF2c
	}
	if m.F12s == 0 {
		m.F12s = refF12s
	}
	if m.TowWidth == 0 {
		m.TowWidth = 5 * mm
	}
	return m
}
