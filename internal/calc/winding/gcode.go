package winding

import (
	"fmt"
	"math"
	"strings"

	"Mandrel/internal/fwerr"
)

// Machine axis configurations. Both drive a rotating mandrel and a linear
// carriage; the 4-axis machine additionally parks a cross-slide at the
// winding radius and a payout eye angle.
const (
	MachineTwoAxis  = "2-axis"
	MachineFourAxis = "4-axis"
)

// Controller dialects. The path geometry is controller-independent; only
// the instruction formatting differs.
const (
	ControllerFanuc   = "fanuc"
	ControllerSiemens = "siemens"
	ControllerGeneric = "generic"
)

// ExportInput binds a computed path to a machine and controller.
type ExportInput struct {
	Path        Path
	DiameterMM  float64
	EyeAngleDeg float64
	MachineType string
	Controller  string
	Program     string
}

// Export is the rendered program.
type Export struct {
	Text            string
	Filename        string
	NumInstructions int
}

// ExportGCode renders the path in the requested controller dialect.
func ExportGCode(in ExportInput) (Export, error) {
	if len(in.Path.Instructions) == 0 {
		return Export{}, fwerr.Input("toolpath has no instructions")
	}

	var rotAxis string
	switch in.MachineType {
	case MachineTwoAxis:
		rotAxis = "C"
	case MachineFourAxis, "":
		rotAxis = "A"
	default:
		return Export{}, fwerr.Input("unknown machine type %q", in.MachineType)
	}

	var b strings.Builder
	switch in.Controller {
	case ControllerFanuc:
		writeFanuc(&b, in, rotAxis)
	case ControllerSiemens:
		writeSiemens(&b, in, rotAxis)
	case ControllerGeneric, "":
		writeGeneric(&b, in, rotAxis)
	default:
		return Export{}, fwerr.Input("unknown controller type %q", in.Controller)
	}

	turns := int(math.Round(in.Path.TotalRotationDeg / 360))
	controller := in.Controller
	if controller == "" {
		controller = ControllerGeneric
	}
	return Export{
		Text:            b.String(),
		Filename:        fmt.Sprintf("toolpath_%s_%dt.nc", controller, turns),
		NumInstructions: len(in.Path.Instructions),
	}, nil
}

func writeFanuc(b *strings.Builder, in ExportInput, rotAxis string) {
	n := 10
	line := func(format string, args ...any) {
		fmt.Fprintf(b, "N%d ", n)
		fmt.Fprintf(b, format, args...)
		b.WriteByte('\n')
		n += 10
	}

	b.WriteString("%\n")
	fmt.Fprintf(b, "O0001 (HELICAL WINDING - %s)\n", strings.ToUpper(in.Program))
	line("G21")
	line("G90")
	line("G94")
	line("G0 %s0.000 Z0.000", rotAxis)
	if in.MachineType == MachineFourAxis || in.MachineType == "" {
		line("G0 X%.3f B%.3f", in.DiameterMM/2, in.EyeAngleDeg)
	}
	for _, ins := range in.Path.Instructions {
		line("G1 %s%.3f Z%.3f F%.1f", rotAxis, ins.RotationDeg, ins.CarriageMM, ins.FeedMMMin)
	}
	line("M30")
	b.WriteString("%\n")
}

func writeSiemens(b *strings.Builder, in ExportInput, rotAxis string) {
	fmt.Fprintf(b, "; SINUMERIK HELICAL WINDING - %s\n", in.Program)
	b.WriteString("G21\nG90\nG94\n")
	fmt.Fprintf(b, "G0 %s=0.000 Z=0.000\n", rotAxis)
	if in.MachineType == MachineFourAxis || in.MachineType == "" {
		fmt.Fprintf(b, "G0 X=%.3f B=%.3f\n", in.DiameterMM/2, in.EyeAngleDeg)
	}
	for _, ins := range in.Path.Instructions {
		fmt.Fprintf(b, "G1 %s=%.3f Z=%.3f F=%.1f\n", rotAxis, ins.RotationDeg, ins.CarriageMM, ins.FeedMMMin)
	}
	b.WriteString("M30\n")
}

func writeGeneric(b *strings.Builder, in ExportInput, rotAxis string) {
	fmt.Fprintf(b, "; HELICAL WINDING - %s\n", in.Program)
	b.WriteString("G21\nG90\n")
	fmt.Fprintf(b, "G0 %s0.000 Z0.000\n", rotAxis)
	if in.MachineType == MachineFourAxis || in.MachineType == "" {
		fmt.Fprintf(b, "G0 X%.3f B%.3f\n", in.DiameterMM/2, in.EyeAngleDeg)
	}
	for _, ins := range in.Path.Instructions {
		fmt.Fprintf(b, "G1 %s%.3f Z%.3f F%.1f\n", rotAxis, ins.RotationDeg, ins.CarriageMM, ins.FeedMMMin)
	}
	b.WriteString("M2\n")
}
