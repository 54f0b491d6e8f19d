package material

// Unit helpers for the preset tables below.
const (
	gpa = 1e9
	mpa = 1e6
	mm  = 1e-3
)

// Carbon/epoxy reference strengths shared by the built-in materials.
const (
	refF1t  = 2250 * mpa
	refF1c  = 1500 * mpa
	refF2t  = 50 * mpa
	refF2c  = 250 * mpa
	refF12s = 100 * mpa
)

var builtinMaterials = []Material{
	{
		Key: "M40J", Name: "Torayca M40J 12K / 3900-2B",
		E1: 231 * gpa, E2: 15.2 * gpa, G12: 7.2 * gpa, Nu12: 0.20,
		F1t: refF1t, F1c: refF1c, F2t: refF2t, F2c: refF2c, F12s: refF12s,
		Density: 1800, FiberArealWeight: 145, TowWidth: 5 * mm,
	},
	{
		Key: "IM7", Name: "Hexcel IM7 / 8552",
		E1: 171 * gpa, E2: 10.3 * gpa, G12: 7.2 * gpa, Nu12: 0.32,
		F1t: refF1t, F1c: refF1c, F2t: refF2t, F2c: refF2c, F12s: refF12s,
		Density: 1790, FiberArealWeight: 190, TowWidth: 5 * mm,
	},
	{
		Key: "MR70", Name: "Mitsubishi MR70 12K",
		E1: 230 * gpa, E2: 14.8 * gpa, G12: 7.0 * gpa, Nu12: 0.21,
		F1t: refF1t, F1c: refF1c, F2t: refF2t, F2c: refF2c, F12s: refF12s,
		Density: 1800, FiberArealWeight: 135, TowWidth: 5 * mm,
	},
	{
		Key: "T700S", Name: "Toray T700S / 2592",
		E1: 230 * gpa, E2: 13.4 * gpa, G12: 6.4 * gpa, Nu12: 0.20,
		F1t: refF1t, F1c: refF1c, F2t: refF2t, F2c: refF2c, F12s: refF12s,
		Density: 1590, FiberArealWeight: 150, TowWidth: 5 * mm,
	},
}

var builtinProcesses = []Process{
	{Key: "Towpreg", Name: "Towpreg", Type: "Towpreg", LineSpeed: 0.1, Efficiency: 0.85},
	{Key: "Nasswickeln", Name: "Nasswickeln", Type: "Nass", LineSpeed: 0.08, Efficiency: 0.80},
	{Key: "AFP", Name: "AFP", Type: "AFP", LineSpeed: 0.2, Efficiency: 0.90},
}
