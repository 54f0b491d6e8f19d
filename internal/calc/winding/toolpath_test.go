package winding

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Mandrel/internal/fwerr"
)

func referencePathInput() PathInput {
	return PathInput{
		DiameterMM: 200,
		LengthMM:   500,
		PitchMM:    10,
		NumTurns:   5,
		FeedMMMin:  100,
	}
}

func TestHelicalPathDiscretization(t *testing.T) {
	path, err := HelicalPath(referencePathInput())
	require.NoError(t, err)

	// 5 turns at the default 5° step.
	require.Len(t, path.Instructions, 5*360/5)

	first := path.Instructions[0]
	assert.InDelta(t, 5.0, first.RotationDeg, 1e-12)
	assert.InDelta(t, 5.0/360*10, first.CarriageMM, 1e-12)
	assert.InDelta(t, 100.0, first.FeedMMMin, 1e-12)

	last := path.Instructions[len(path.Instructions)-1]
	assert.InDelta(t, 1800.0, last.RotationDeg, 1e-9)
	assert.InDelta(t, 50.0, last.CarriageMM, 1e-9)
	assert.InDelta(t, 1800.0, path.TotalRotationDeg, 1e-9)

	turnLength := math.Hypot(math.Pi*200, 10)
	assert.InDelta(t, 5*turnLength, path.TotalLengthMM, 1e-9)
	assert.InDelta(t, 5*turnLength/100, path.TimeMinutes, 1e-9)
}

func TestHelicalPathRotationMonotone(t *testing.T) {
	in := referencePathInput()
	in.StepDeg = 10
	in.NumTurns = 3

	path, err := HelicalPath(in)
	require.NoError(t, err)
	require.Len(t, path.Instructions, 3*36)

	prev := 0.0
	for _, ins := range path.Instructions {
		assert.Greater(t, ins.RotationDeg, prev)
		prev = ins.RotationDeg
	}
}

func TestHelicalPathInputErrors(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*PathInput)
	}{
		{"zero diameter", func(in *PathInput) { in.DiameterMM = 0 }},
		{"zero length", func(in *PathInput) { in.LengthMM = 0 }},
		{"zero pitch", func(in *PathInput) { in.PitchMM = 0 }},
		{"zero turns", func(in *PathInput) { in.NumTurns = 0 }},
		{"zero feed", func(in *PathInput) { in.FeedMMMin = 0 }},
		{"step over 90", func(in *PathInput) { in.StepDeg = 120 }},
		{"step not dividing 360", func(in *PathInput) { in.StepDeg = 7 }},
		{"travel exceeds length", func(in *PathInput) { in.NumTurns = 60 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := referencePathInput()
			tc.mutate(&in)
			_, err := HelicalPath(in)
			require.Error(t, err)
			assert.True(t, fwerr.IsInput(err), "got %v", err)
		})
	}
}

func referenceExportInput(t *testing.T) ExportInput {
	t.Helper()
	path, err := HelicalPath(referencePathInput())
	require.NoError(t, err)
	return ExportInput{
		Path:        path,
		DiameterMM:  200,
		EyeAngleDeg: 54.7,
		MachineType: MachineFourAxis,
		Controller:  ControllerFanuc,
		Program:     "test shell",
	}
}

func TestExportInstructionCountMatchesDiscretization(t *testing.T) {
	in := referenceExportInput(t)

	exp, err := ExportGCode(in)
	require.NoError(t, err)

	// One G1 block per instruction: 5 turns × 360°/5°.
	assert.Equal(t, 5*360/5, exp.NumInstructions)
	assert.Equal(t, 5*360/5, strings.Count(exp.Text, "G1 A"))
	assert.Equal(t, "toolpath_fanuc_5t.nc", exp.Filename)
}

func TestExportFanucFormat(t *testing.T) {
	in := referenceExportInput(t)

	exp, err := ExportGCode(in)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(exp.Text, "\n"), "\n")
	assert.Equal(t, "%", lines[0])
	assert.Equal(t, "O0001 (HELICAL WINDING - TEST SHELL)", lines[1])
	assert.Equal(t, "N10 G21", lines[2])
	assert.Equal(t, "N20 G90", lines[3])
	assert.Equal(t, "N30 G94", lines[4])
	assert.Equal(t, "N40 G0 A0.000 Z0.000", lines[5])
	assert.Equal(t, "N50 G0 X100.000 B54.700", lines[6])
	assert.Equal(t, "N60 G1 A5.000 Z0.139 F100.0", lines[7])
	assert.Equal(t, "%", lines[len(lines)-1])
	assert.Contains(t, lines[len(lines)-2], "M30")
}

func TestExportSiemensFormat(t *testing.T) {
	in := referenceExportInput(t)
	in.Controller = ControllerSiemens
	in.Program = "vessel"

	exp, err := ExportGCode(in)
	require.NoError(t, err)

	lines := strings.Split(exp.Text, "\n")
	assert.Equal(t, "; SINUMERIK HELICAL WINDING - vessel", lines[0])
	assert.Contains(t, exp.Text, "G0 A=0.000 Z=0.000")
	assert.Contains(t, exp.Text, "G1 A=5.000 Z=0.139 F=100.0")
	assert.True(t, strings.HasSuffix(exp.Text, "M30\n"))
	assert.Equal(t, "toolpath_siemens_5t.nc", exp.Filename)
}

func TestExportGenericDefaults(t *testing.T) {
	in := referenceExportInput(t)
	in.Controller = ""
	in.MachineType = ""

	exp, err := ExportGCode(in)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(exp.Text, "; HELICAL WINDING - test shell\n"))
	assert.Contains(t, exp.Text, "G1 A5.000")
	assert.True(t, strings.HasSuffix(exp.Text, "M2\n"))
	assert.Equal(t, "toolpath_generic_5t.nc", exp.Filename)
}

func TestExportTwoAxisUsesCAxis(t *testing.T) {
	in := referenceExportInput(t)
	in.MachineType = MachineTwoAxis
	in.Controller = ControllerGeneric

	exp, err := ExportGCode(in)
	require.NoError(t, err)

	assert.Contains(t, exp.Text, "G1 C5.000")
	assert.NotContains(t, exp.Text, "G0 X")
	assert.NotContains(t, exp.Text, "B54.700")
}

func TestExportInputErrors(t *testing.T) {
	t.Run("empty path", func(t *testing.T) {
		_, err := ExportGCode(ExportInput{MachineType: MachineFourAxis})
		require.Error(t, err)
		assert.True(t, fwerr.IsInput(err))
	})
	t.Run("unknown machine", func(t *testing.T) {
		in := referenceExportInput(t)
		in.MachineType = "6-axis"
		_, err := ExportGCode(in)
		require.Error(t, err)
		assert.True(t, fwerr.IsInput(err))
		assert.Contains(t, err.Error(), "6-axis")
	})
	t.Run("unknown controller", func(t *testing.T) {
		in := referenceExportInput(t)
		in.Controller = "heidenhain"
		_, err := ExportGCode(in)
		require.Error(t, err)
		assert.True(t, fwerr.IsInput(err))
		assert.Contains(t, err.Error(), "heidenhain")
	})
}
