package scene

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/matzehuels/rectgroup/pkg/geometry"
)

func nan() float64 { return math.NaN() }

// FormatNumber renders a float the shortest way that round-trips, so 50
// becomes "50" and 110.5 stays "110.5".
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatRotate renders r as an SVG rotate() transform.
func FormatRotate(r geometry.Rotation) string {
	return fmt.Sprintf("rotate(%s, %s, %s)",
		FormatNumber(r.AngleDeg), FormatNumber(r.OriginX), FormatNumber(r.OriginY))
}

var rotateRe = regexp.MustCompile(`^\s*rotate\(\s*([^,\s)]+)\s*(?:[,\s]\s*([^,\s)]+)\s*[,\s]\s*([^,\s)]+)\s*)?\)\s*$`)

// ParseRotate parses the output of FormatRotate. The pivot is optional, as in
// SVG. An empty string is the identity.
func ParseRotate(s string) (geometry.Rotation, error) {
	if strings.TrimSpace(s) == "" {
		return geometry.Rotation{}, nil
	}
	m := rotateRe.FindStringSubmatch(s)
	if m == nil {
		return geometry.Rotation{}, fmt.Errorf("unsupported transform %q", s)
	}
	var vals [3]float64
	for i, raw := range m[1:] {
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return geometry.Rotation{}, fmt.Errorf("transform %q: %w", s, err)
		}
		vals[i] = v
	}
	return geometry.Rotation{AngleDeg: vals[0], OriginX: vals[1], OriginY: vals[2]}, nil
}
