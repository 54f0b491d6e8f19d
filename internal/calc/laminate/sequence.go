// Package laminate implements Classical Laminate Theory for filament-wound
// shells: stacking-sequence parsing, ply stiffness transforms, ABD assembly
// and ply-level failure criteria. All quantities are SI (Pa, m); angles are
// degrees at package boundaries and radians inside the trigonometry.
package laminate

import (
	"strconv"
	"strings"

	"Mandrel/internal/fwerr"
	"Mandrel/internal/material"
)

// Ply is one layer of the stack. CumulativeThickness includes this ply.
type Ply struct {
	Index               int
	AngleDeg            float64
	Thickness           float64
	Material            material.Material
	CumulativeThickness float64
}

// TotalThickness returns the summed thickness of the stack.
func TotalThickness(plies []Ply) float64 {
	var t float64
	for _, p := range plies {
		t += p.Thickness
	}
	return t
}

// Angles returns the angle list of the stack, in order.
func Angles(plies []Ply) []float64 {
	out := make([]float64, len(plies))
	for i, p := range plies {
		out[i] = p.AngleDeg
	}
	return out
}

const maxPlies = 4096

// ParseSequence expands a stacking-sequence notation into an ordered ply
// stack. Grammar: an optional bracketed angle list separated by '/' or ',',
// tokens of the form θ, +θ, -θ or ±θ (± expands to +θ then -θ, in that
// order), nested repeat groups "Nx[...]", and after a closing bracket an
// optional repeat count and symmetry suffix ("[0/90]2s"). Symmetry appends
// the reversed copy of the fully expanded list; ± is not re-expanded and
// angles are not negated during mirroring.
//
// The result is atomic: a complete valid stack or an error, never both.
func ParseSequence(seq string, plyThickness float64, mat material.Material) ([]Ply, error) {
	if plyThickness <= 0 {
		return nil, fwerr.Input("ply thickness must be positive, got %g m", plyThickness)
	}
	s := strings.ReplaceAll(seq, " ", "")
	if s == "" {
		return nil, fwerr.Input("empty stacking sequence")
	}

	body, repeat, symmetric, err := splitSuffix(s)
	if err != nil {
		return nil, err
	}

	angles, err := parseBlock(body)
	if err != nil {
		return nil, err
	}
	if len(angles) == 0 {
		return nil, fwerr.Input("stacking sequence %q contains no plies", seq)
	}

	if repeat > 1 {
		tiled := make([]float64, 0, len(angles)*repeat)
		for i := 0; i < repeat; i++ {
			tiled = append(tiled, angles...)
		}
		angles = tiled
	}
	if symmetric {
		for i := len(angles) - 1; i >= 0; i-- {
			angles = append(angles, angles[i])
		}
	}
	if len(angles) > maxPlies {
		return nil, fwerr.Input("stacking sequence expands to %d plies, limit is %d", len(angles), maxPlies)
	}

	plies := make([]Ply, len(angles))
	var cumulative float64
	for i, a := range angles {
		cumulative += plyThickness
		plies[i] = Ply{
			Index:               i,
			AngleDeg:            a,
			Thickness:           plyThickness,
			Material:            mat,
			CumulativeThickness: cumulative,
		}
	}
	return plies, nil
}

// splitSuffix strips a trailing symmetry marker and, after a bracketed
// block, a trailing repeat count: "[...]2s" → body "[...]", repeat 2,
// symmetric true. A bare trailing "s" without brackets is also accepted
// ("0/90s"), matching common shorthand.
func splitSuffix(s string) (body string, repeat int, symmetric bool, err error) {
	repeat = 1
	if strings.HasSuffix(s, "s") || strings.HasSuffix(s, "S") {
		symmetric = true
		s = s[:len(s)-1]
	}
	i := len(s)
	for i > 0 && s[i-1] >= '0' && s[i-1] <= '9' {
		i--
	}
	if i < len(s) && i > 0 && s[i-1] == ']' {
		n, convErr := strconv.Atoi(s[i:])
		if convErr != nil || n < 1 {
			return "", 0, false, fwerr.Input("invalid repeat count %q", s[i:])
		}
		repeat = n
		s = s[:i]
	}
	if s == "" {
		return "", 0, false, fwerr.Input("stacking sequence has a suffix but no plies")
	}
	return s, repeat, symmetric, nil
}

// parseBlock expands one (possibly bracketed, possibly nested) angle list.
func parseBlock(s string) ([]float64, error) {
	if stripped, ok, err := stripOuterBrackets(s); err != nil {
		return nil, err
	} else if ok {
		s = stripped
	}

	parts, err := splitTopLevel(s)
	if err != nil {
		return nil, err
	}

	var angles []float64
	for _, part := range parts {
		if part == "" {
			return nil, fwerr.Input("empty token in stacking sequence")
		}
		if strings.HasPrefix(part, "[") && strings.HasSuffix(part, "]") {
			inner, ok, err := stripOuterBrackets(part)
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, fwerr.Input("invalid group %q", part)
			}
			sub, err := parseBlock(inner)
			if err != nil {
				return nil, err
			}
			angles = append(angles, sub...)
			continue
		}
		if count, rest, ok := splitMultiplier(part); ok {
			sub, err := parseBlock(rest)
			if err != nil {
				return nil, err
			}
			if len(sub) == 0 {
				return nil, fwerr.Input("repeat group %q is empty", part)
			}
			for i := 0; i < count; i++ {
				angles = append(angles, sub...)
			}
			continue
		}
		expanded, err := expandToken(part)
		if err != nil {
			return nil, err
		}
		angles = append(angles, expanded...)
	}
	return angles, nil
}

// stripOuterBrackets removes one pair of brackets when they enclose the
// whole block, so "[0]/[90]" keeps its internal structure.
func stripOuterBrackets(s string) (string, bool, error) {
	if !strings.HasPrefix(s, "[") {
		if strings.Contains(s, "]") && !strings.Contains(s, "[") {
			return "", false, fwerr.Input("unbalanced brackets in %q", s)
		}
		return s, false, nil
	}
	depth := 0
	for i, ch := range s {
		switch ch {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				if i == len(s)-1 {
					return s[1 : len(s)-1], true, nil
				}
				return s, false, nil
			}
		}
	}
	return "", false, fwerr.Input("unbalanced brackets in %q", s)
}

// splitTopLevel splits on '/' or ',' outside any bracket pair.
func splitTopLevel(s string) ([]string, error) {
	var parts []string
	var current strings.Builder
	depth := 0
	for _, ch := range s {
		switch {
		case ch == '[':
			depth++
			current.WriteRune(ch)
		case ch == ']':
			depth--
			if depth < 0 {
				return nil, fwerr.Input("unbalanced brackets in %q", s)
			}
			current.WriteRune(ch)
		case (ch == '/' || ch == ',') && depth == 0:
			parts = append(parts, current.String())
			current.Reset()
		default:
			current.WriteRune(ch)
		}
	}
	if depth != 0 {
		return nil, fwerr.Input("unbalanced brackets in %q", s)
	}
	parts = append(parts, current.String())
	return parts, nil
}

// splitMultiplier recognizes the "Nx..." repeat prefix, e.g. "2x[0/90]".
func splitMultiplier(s string) (count int, rest string, ok bool) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 || i >= len(s) || s[i] != 'x' {
		return 0, "", false
	}
	n, err := strconv.Atoi(s[:i])
	if err != nil || n < 1 {
		return 0, "", false
	}
	return n, s[i+1:], true
}

// expandToken turns one angle token into its ply angles. "±45" yields
// +45 then -45; the order matters for bending response.
func expandToken(tok string) ([]float64, error) {
	plusMinus := false
	switch {
	case strings.HasPrefix(tok, "±"):
		plusMinus = true
		tok = strings.TrimPrefix(tok, "±")
	case strings.HasPrefix(tok, "+-"), strings.HasPrefix(tok, "-+"):
		plusMinus = true
		tok = tok[2:]
	}
	if tok == "" {
		return nil, fwerr.Input("angle token has a sign but no value")
	}
	angle, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return nil, fwerr.Input("invalid angle token %q", tok)
	}
	if angle < -90 || angle > 90 {
		return nil, fwerr.Input("ply angle %g° outside [-90°, 90°]", angle)
	}
	if plusMinus {
		if angle < 0 {
			return nil, fwerr.Input("± takes a non-negative angle, got %g", angle)
		}
		return []float64{angle, -angle}, nil
	}
	return []float64{angle}, nil
}
