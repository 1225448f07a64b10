package script

import (
	"math"

	"github.com/charmbracelet/log"
	"github.com/d5/tengo/v2"

	"github.com/matzehuels/rectgroup/pkg/geometry"
	"github.com/matzehuels/rectgroup/pkg/group"
	"github.com/matzehuels/rectgroup/pkg/pipeline"
)

// binding exposes one group to a script and records what it did.
type binding struct {
	group  *group.Group
	logger *log.Logger
	ops    []pipeline.Op
}

func (b *binding) object() *tengo.ImmutableMap {
	fn := func(name string, f tengo.CallableFunc) *tengo.UserFunction {
		return &tengo.UserFunction{Name: name, Value: f}
	}
	return &tengo.ImmutableMap{Value: map[string]tengo.Object{
		"add":      fn("add", b.add),
		"move":     fn("move", b.move),
		"move_x":   fn("move_x", b.moveAxis(true)),
		"move_y":   fn("move_y", b.moveAxis(false)),
		"rotate":   fn("rotate", b.rotate),
		"reset":    fn("reset", b.simple(pipeline.OpReset)),
		"attach":   fn("attach", b.simple(pipeline.OpAttach)),
		"detach":   fn("detach", b.simple(pipeline.OpDetach)),
		"count":    fn("count", b.count),
		"width":    fn("width", b.number(b.group.GroupWidth)),
		"height":   fn("height", b.number(b.group.GroupHeight)),
		"coords":   fn("coords", b.coords),
		"position": fn("position", b.position),
		"rotation": fn("rotation", b.rotation),
	}}
}

func (b *binding) apply(op pipeline.Op) {
	op.Apply(b.group)
	b.ops = append(b.ops, op)
}

func (b *binding) add(args ...tengo.Object) (tengo.Object, error) {
	if err := checkArgs(args, 0); err != nil {
		return nil, err
	}
	b.apply(pipeline.Add())
	return &tengo.Int{Value: int64(b.group.Count())}, nil
}

// move takes x and y; undefined keeps that axis.
func (b *binding) move(args ...tengo.Object) (tengo.Object, error) {
	if err := checkArgs(args, 2); err != nil {
		return nil, err
	}
	x, err := optionalFloat("x", args[0])
	if err != nil {
		return nil, err
	}
	y, err := optionalFloat("y", args[1])
	if err != nil {
		return nil, err
	}
	if x == nil && y == nil {
		return tengo.UndefinedValue, nil
	}
	b.apply(pipeline.Op{Kind: pipeline.OpPosition, X: x, Y: y})
	return pointArray(b.group.Position()), nil
}

func (b *binding) moveAxis(isX bool) tengo.CallableFunc {
	return func(args ...tengo.Object) (tengo.Object, error) {
		if err := checkArgs(args, 1); err != nil {
			return nil, err
		}
		v, err := finiteFloat("value", args[0])
		if err != nil {
			return nil, err
		}
		op := pipeline.Op{Kind: pipeline.OpPosition}
		if isX {
			op.X = &v
		} else {
			op.Y = &v
		}
		b.apply(op)
		return pointArray(b.group.Position()), nil
	}
}

func (b *binding) rotate(args ...tengo.Object) (tengo.Object, error) {
	if err := checkArgs(args, 1); err != nil {
		return nil, err
	}
	angle, err := finiteFloat("angle", args[0])
	if err != nil {
		return nil, err
	}
	b.apply(pipeline.Rotate(angle))
	return b.rotation()
}

func (b *binding) simple(kind pipeline.OpKind) tengo.CallableFunc {
	return func(args ...tengo.Object) (tengo.Object, error) {
		if err := checkArgs(args, 0); err != nil {
			return nil, err
		}
		b.apply(pipeline.Op{Kind: kind})
		return tengo.UndefinedValue, nil
	}
}

func (b *binding) count(args ...tengo.Object) (tengo.Object, error) {
	if err := checkArgs(args, 0); err != nil {
		return nil, err
	}
	return &tengo.Int{Value: int64(b.group.Count())}, nil
}

func (b *binding) number(get func() float64) tengo.CallableFunc {
	return func(args ...tengo.Object) (tengo.Object, error) {
		if err := checkArgs(args, 0); err != nil {
			return nil, err
		}
		return &tengo.Float{Value: get()}, nil
	}
}

func (b *binding) coords(args ...tengo.Object) (tengo.Object, error) {
	if err := checkArgs(args, 0); err != nil {
		return nil, err
	}
	q := b.group.GroupCoordinates()
	return &tengo.ImmutableMap{Value: map[string]tengo.Object{
		"top_left":     pointArray(q.TopLeft),
		"top_right":    pointArray(q.TopRight),
		"bottom_left":  pointArray(q.BottomLeft),
		"bottom_right": pointArray(q.BottomRight),
	}}, nil
}

func (b *binding) position(args ...tengo.Object) (tengo.Object, error) {
	if err := checkArgs(args, 0); err != nil {
		return nil, err
	}
	return pointArray(b.group.Position()), nil
}

func (b *binding) rotation(args ...tengo.Object) (tengo.Object, error) {
	if err := checkArgs(args, 0); err != nil {
		return nil, err
	}
	r := b.group.Rotation()
	return &tengo.ImmutableMap{Value: map[string]tengo.Object{
		"angle":    &tengo.Float{Value: r.AngleDeg},
		"origin_x": &tengo.Float{Value: r.OriginX},
		"origin_y": &tengo.Float{Value: r.OriginY},
	}}, nil
}

func pointArray(p geometry.Point) *tengo.ImmutableArray {
	return &tengo.ImmutableArray{Value: []tengo.Object{&tengo.Float{Value: p.X}, &tengo.Float{Value: p.Y}}}
}

func finiteFloat(name string, o tengo.Object) (float64, error) {
	v, ok := tengo.ToFloat64(o)
	if !ok {
		return 0, wrongType(name, "float(compatible)", o)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, wrongType(name, "finite number", o)
	}
	return v, nil
}

func optionalFloat(name string, o tengo.Object) (*float64, error) {
	if o == tengo.UndefinedValue {
		return nil, nil
	}
	v, err := finiteFloat(name, o)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
