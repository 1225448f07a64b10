// Package script drives a rectangle group from tengo scripts.
//
// Scripts see a single global, group, exposing the group operations:
//
//	group.add()
//	group.add()
//	group.move(100, undefined)   // keep y
//	group.rotate(30)
//	c := group.coords()          // {top_left: [x, y], ...}
//	log("width", group.width())
//
// Every mutating call is recorded as a [pipeline.Op], so a script run can be
// replayed elsewhere (the server, a later render) without the script.
package script

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"

	errs "github.com/matzehuels/rectgroup/pkg/errors"
	"github.com/matzehuels/rectgroup/pkg/group"
	"github.com/matzehuels/rectgroup/pkg/pipeline"
)

// SafeModules are the tengo stdlib modules scripts may import. os is left
// out so scripts cannot touch the filesystem.
var SafeModules = []string{"math", "text", "times", "rand", "fmt", "json", "enum", "base64", "hex"}

// DefaultMaxAllocs bounds the objects a script may allocate.
const DefaultMaxAllocs = 1 << 20

// Option configures a Runtime.
type Option func(*Runtime)

// WithLogger sets the logger the script's log() function writes to.
func WithLogger(l *log.Logger) Option { return func(r *Runtime) { r.logger = l } }

// WithMaxAllocs overrides DefaultMaxAllocs. Negative means unlimited.
func WithMaxAllocs(n int64) Option { return func(r *Runtime) { r.maxAllocs = n } }

// Runtime compiles and runs scripts against groups.
type Runtime struct {
	logger    *log.Logger
	maxAllocs int64
}

// New creates a runtime.
func New(opts ...Option) *Runtime {
	r := &Runtime{maxAllocs: DefaultMaxAllocs}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = log.Default()
	}
	return r
}

// Result describes a finished script run.
type Result struct {
	// Ops lists the mutations the script performed, in order.
	Ops      []pipeline.Op
	Duration time.Duration
}

// Run executes src against g. Compile and runtime failures, including errors
// raised by group functions, are returned as INVALID_SCRIPT errors. A
// canceled context stops the script and returns the context error.
func (r *Runtime) Run(ctx context.Context, src []byte, g *group.Group) (*Result, error) {
	start := time.Now()
	b := &binding{group: g, logger: r.logger}

	s := tengo.NewScript(src)
	s.SetImports(stdlib.GetModuleMap(SafeModules...))
	if r.maxAllocs != 0 {
		s.SetMaxAllocs(r.maxAllocs)
	}
	if err := s.Add("group", b.object()); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "bind group")
	}
	if err := s.Add("log", &tengo.UserFunction{Name: "log", Value: b.log}); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "bind log")
	}

	compiled, err := s.Compile()
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidScript, err, "compile")
	}
	if err := compiled.RunContext(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, errs.Wrap(errs.ErrCodeInvalidScript, err, "run")
	}

	return &Result{Ops: b.ops, Duration: time.Since(start)}, nil
}

// Run is shorthand for New(opts...).Run.
func Run(ctx context.Context, src []byte, g *group.Group, opts ...Option) (*Result, error) {
	return New(opts...).Run(ctx, src, g)
}

func (b *binding) log(args ...tengo.Object) (tengo.Object, error) {
	parts := make([]string, len(args))
	for i, a := range args {
		if s, ok := a.(*tengo.String); ok {
			parts[i] = s.Value
		} else {
			parts[i] = a.String()
		}
	}
	b.logger.Info(strings.Join(parts, " "), "source", "script")
	return tengo.UndefinedValue, nil
}

func wrongType(name, expected string, found tengo.Object) error {
	return tengo.ErrInvalidArgumentType{Name: name, Expected: expected, Found: found.TypeName()}
}

func checkArgs(args []tengo.Object, n int) error {
	if len(args) != n {
		return fmt.Errorf("%w: want %d, got %d", tengo.ErrWrongNumArguments, n, len(args))
	}
	return nil
}
