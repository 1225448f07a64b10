package pipeline

import (
	"fmt"
	"strconv"
	"strings"

	errs "github.com/matzehuels/rectgroup/pkg/errors"
	"github.com/matzehuels/rectgroup/pkg/group"
	"github.com/matzehuels/rectgroup/pkg/scene"
)

// MaxAdd caps how many rectangles a single add request may create.
const MaxAdd = 1000

// OpKind names a group operation.
type OpKind string

const (
	OpAdd      OpKind = "add"
	OpPosition OpKind = "position"
	OpRotate   OpKind = "rotate"
	OpReset    OpKind = "reset"
	OpAttach   OpKind = "attach"
	OpDetach   OpKind = "detach"
)

// Op is one step applied to a group. X and Y are only read for OpPosition,
// where a nil axis keeps its current value. Angle is only read for OpRotate.
type Op struct {
	Kind  OpKind   `json:"op"`
	X     *float64 `json:"x,omitempty"`
	Y     *float64 `json:"y,omitempty"`
	Angle float64  `json:"angle,omitempty"`
}

func Add() Op                 { return Op{Kind: OpAdd} }
func Rotate(angle float64) Op { return Op{Kind: OpRotate, Angle: angle} }
func Reset() Op               { return Op{Kind: OpReset} }
func MoveTo(x, y float64) Op  { return Op{Kind: OpPosition, X: &x, Y: &y} }

// Validate rejects unknown kinds and non-finite arguments.
func (o Op) Validate() error {
	switch o.Kind {
	case OpAdd, OpReset, OpAttach, OpDetach:
		return nil
	case OpRotate:
		return errs.ValidateFinite("angle", o.Angle)
	case OpPosition:
		if o.X == nil && o.Y == nil {
			return errs.New(errs.ErrCodeInvalidInput, "position needs x, y or both")
		}
		if o.X != nil {
			if err := errs.ValidateFinite("x", *o.X); err != nil {
				return err
			}
		}
		if o.Y != nil {
			return errs.ValidateFinite("y", *o.Y)
		}
		return nil
	default:
		return errs.New(errs.ErrCodeInvalidInput, "unknown operation %q", o.Kind)
	}
}

// Apply performs the operation on g.
func (o Op) Apply(g *group.Group) {
	switch o.Kind {
	case OpAdd:
		g.AddRectangle()
	case OpPosition:
		g.SetPosition(group.PositionUpdate{X: o.X, Y: o.Y})
	case OpRotate:
		g.SetRotation(o.Angle)
	case OpReset:
		g.ResetDefault()
	case OpAttach:
		g.Attach()
	case OpDetach:
		g.Detach()
	}
}

// String returns the op in the form ParseOps reads.
func (o Op) String() string {
	switch o.Kind {
	case OpRotate:
		return "rotate=" + scene.FormatNumber(o.Angle)
	case OpPosition:
		var x, y string
		if o.X != nil {
			x = scene.FormatNumber(*o.X)
		}
		if o.Y != nil {
			y = scene.FormatNumber(*o.Y)
		}
		return "move=" + x + ":" + y
	default:
		return string(o.Kind)
	}
}

// FormatOps joins ops with commas.
func FormatOps(ops []Op) string {
	parts := make([]string, len(ops))
	for i, o := range ops {
		parts[i] = o.String()
	}
	return strings.Join(parts, ",")
}

// ParseOps reads a comma separated list of operations:
//
//	add            add one rectangle
//	add=3          add three rectangles
//	rotate=30      rotate to 30 degrees
//	move=100:120   set both axes; either side may be empty to keep it
//	x=100, y=120   set a single axis
//	reset, attach, detach
//
// Whitespace around items is ignored; empty items are skipped.
func ParseOps(s string) ([]Op, error) {
	var ops []Op
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		name, arg, hasArg := strings.Cut(item, "=")
		parsed, err := parseOp(strings.ToLower(strings.TrimSpace(name)), strings.TrimSpace(arg), hasArg)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "operation %q", item)
		}
		ops = append(ops, parsed...)
	}
	return ops, nil
}

func parseOp(name, arg string, hasArg bool) ([]Op, error) {
	switch name {
	case "add":
		n := 1
		if hasArg {
			v, err := strconv.Atoi(arg)
			if err != nil || v < 1 {
				return nil, fmt.Errorf("count must be a positive integer")
			}
			if v > MaxAdd {
				return nil, fmt.Errorf("count must be at most %d", MaxAdd)
			}
			n = v
		}
		ops := make([]Op, n)
		for i := range ops {
			ops[i] = Add()
		}
		return ops, nil
	case "rotate":
		v, err := parseNumber(arg)
		if err != nil {
			return nil, err
		}
		return []Op{Rotate(v)}, nil
	case "move", "position":
		xs, ys, ok := strings.Cut(arg, ":")
		if !ok {
			return nil, fmt.Errorf("expected x:y")
		}
		op := Op{Kind: OpPosition}
		if xs != "" {
			x, err := parseNumber(xs)
			if err != nil {
				return nil, err
			}
			op.X = &x
		}
		if ys != "" {
			y, err := parseNumber(ys)
			if err != nil {
				return nil, err
			}
			op.Y = &y
		}
		return []Op{op}, op.Validate()
	case "x", "y":
		v, err := parseNumber(arg)
		if err != nil {
			return nil, err
		}
		op := Op{Kind: OpPosition}
		if name == "x" {
			op.X = &v
		} else {
			op.Y = &v
		}
		return []Op{op}, nil
	case "reset", "attach", "detach":
		if hasArg {
			return nil, fmt.Errorf("%s takes no argument", name)
		}
		return []Op{{Kind: OpKind(name)}}, nil
	default:
		return nil, fmt.Errorf("unknown operation")
	}
}

func parseNumber(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	if err := errs.ValidateFinite("value", v); err != nil {
		return 0, err
	}
	return v, nil
}
