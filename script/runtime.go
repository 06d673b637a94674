package script

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/sequencer/anim"
)

// Loader returns the source of a script by path.
type Loader func(path string) ([]byte, error)

// Runtime compiles tengo scripts once per path and runs them as sequence
// actions and conditions. Each action or condition runs its own clone of the
// compiled script, so one script can drive many targets.
//
// A script sees three globals:
//
//	target  mutable map with accentuation, euler [x,y,z] and position [x,y]
//	        for the interfaces the target implements
//	engine  read-only map with elapsed (seconds) and pass
//	done    bool a condition script sets once it is satisfied
type Runtime struct {
	load   Loader
	clock  *anim.UpdateState
	logger *slog.Logger

	mu       sync.Mutex
	compiled map[string]*tengo.Compiled
}

type Option func(*Runtime)

// WithClock makes engine.elapsed and engine.pass follow us.
func WithClock(us *anim.UpdateState) Option {
	return func(r *Runtime) {
		r.clock = us
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(r *Runtime) {
		if l != nil {
			r.logger = l
		}
	}
}

func NewRuntime(load Loader, opts ...Option) *Runtime {
	r := &Runtime{
		load:     load,
		logger:   slog.Default(),
		compiled: make(map[string]*tengo.Compiled),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Invalidate drops the cached compilation of path. Actions built afterwards
// pick up the new source.
func (r *Runtime) Invalidate(path string) {
	r.mu.Lock()
	delete(r.compiled, path)
	r.mu.Unlock()
}

func (r *Runtime) compile(path string) (*tengo.Compiled, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.compiled[path]; ok {
		return c, nil
	}
	if r.load == nil {
		return nil, fmt.Errorf("script: no loader for %s", path)
	}
	src, err := r.load(path)
	if err != nil {
		return nil, fmt.Errorf("script: load %s: %w", path, err)
	}

	s := tengo.NewScript(src)
	_ = s.Add("target", map[string]any{})
	_ = s.Add("engine", map[string]any{})
	_ = s.Add("done", false)
	s.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	c, err := s.Compile()
	if err != nil {
		return nil, fmt.Errorf("script: compile %s: %w", path, err)
	}
	r.compiled[path] = c
	return c, nil
}

// Action returns a CallAction body that runs the script at path against
// target and writes the changed fields back.
func (r *Runtime) Action(path string, target any) func() error {
	inst := &instance{rt: r, path: path, target: target}
	return func() error {
		_, err := inst.run()
		return err
	}
}

// Condition returns a WaitForCondition predicate that runs the script at
// path and reports its done global. A script that fails is logged and
// releases the wait.
func (r *Runtime) Condition(path string, target any) func() bool {
	inst := &instance{rt: r, path: path, target: target}
	return func() bool {
		done, err := inst.run()
		if err != nil {
			r.logger.Error("script condition failed", "path", path, "err", err)
			return true
		}
		return done
	}
}

type instance struct {
	rt     *Runtime
	path   string
	target any
	source *tengo.Compiled
	clone  *tengo.Compiled
}

func (in *instance) run() (bool, error) {
	c, err := in.rt.compile(in.path)
	if err != nil {
		return false, err
	}
	if in.clone == nil || in.source != c {
		in.source = c
		in.clone = c.Clone()
	}

	if err := in.clone.Set("target", exportTarget(in.target)); err != nil {
		return false, err
	}
	if err := in.clone.Set("engine", in.rt.engine()); err != nil {
		return false, err
	}
	if err := in.clone.Set("done", false); err != nil {
		return false, err
	}
	if err := in.clone.Run(); err != nil {
		return false, fmt.Errorf("script: run %s: %w", in.path, err)
	}

	importTarget(in.target, in.clone.Get("target").Map())
	return in.clone.Get("done").Bool(), nil
}

func (r *Runtime) engine() *tengo.ImmutableMap {
	values := map[string]tengo.Object{
		"elapsed": &tengo.Float{Value: 0},
		"pass":    &tengo.Int{Value: 0},
	}
	if r.clock != nil {
		values["elapsed"] = &tengo.Float{Value: r.clock.Total.Seconds()}
		values["pass"] = &tengo.Int{Value: int64(r.clock.Pass)}
	}
	return &tengo.ImmutableMap{Value: values}
}

func exportTarget(target any) map[string]any {
	out := map[string]any{}
	if a, ok := target.(anim.Accentuated); ok {
		out["accentuation"] = float64(a.AccentuationFactor())
	}
	if e, ok := target.(anim.EulerRotated); ok {
		v := e.RotationEuler()
		out["euler"] = []any{float64(v.X()), float64(v.Y()), float64(v.Z())}
	}
	if p, ok := target.(anim.Positioned); ok {
		v := p.Position()
		out["position"] = []any{v.X, v.Y}
	}
	return out
}

func importTarget(target any, values map[string]any) {
	if values == nil {
		return
	}
	if a, ok := target.(anim.Accentuated); ok {
		if f, ok := toFloat(values["accentuation"]); ok {
			a.SetAccentuationFactor(float32(min(max(f, 0), 1)))
		}
	}
	if e, ok := target.(anim.EulerRotated); ok {
		if v, ok := toFloats(values["euler"], 3); ok {
			e.SetRotationEuler(mgl32.Vec3{float32(v[0]), float32(v[1]), float32(v[2])})
		}
	}
	if p, ok := target.(anim.Positioned); ok {
		if v, ok := toFloats(values["position"], 2); ok {
			p.SetPosition(cp.Vector{X: v[0], Y: v[1]})
		}
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

func toFloats(v any, n int) ([]float64, bool) {
	arr, ok := v.([]any)
	if !ok || len(arr) != n {
		return nil, false
	}
	out := make([]float64, n)
	for i, item := range arr {
		f, ok := toFloat(item)
		if !ok {
			return nil, false
		}
		out[i] = f
	}
	return out, true
}
