package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM for tunable game curves.
// Single-goroutine access only (game loop). A nil *Engine is valid and
// always returns the Go fallback values.
type Engine struct {
	vm  *lua.LState
	log *zap.Logger

	missing map[string]bool // hooks already reported as absent
}

// NewEngine creates a Lua engine and loads all scripts from the given directory.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	// Set API version global
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log, missing: make(map[string]bool)}

	// Load core helpers first, then the hook directories
	for _, sub := range []string{"core", "scaling", "lifetime"} {
		p := filepath.Join(scriptsDir, sub)
		if err := e.loadDir(p); err != nil {
			vm.Close()
			return nil, fmt.Errorf("load %s scripts: %w", sub, err)
		}
	}

	return e, nil
}

// NewEngineFromString creates an engine from a single chunk of Lua source.
func NewEngineFromString(src string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState()
	vm.SetGlobal("API_VERSION", lua.LNumber(1))
	if err := vm.DoString(src); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load lua source: %w", err)
	}
	return &Engine{vm: vm, log: log, missing: make(map[string]bool)}, nil
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// ScalingContext holds the inputs to the wave_scaling hook. The multipliers
// are the Go-computed defaults; the script may return replacements.
type ScalingContext struct {
	Level     int
	Kind      string
	Variant   string
	HealthMul float64
	SpeedMul  float64
	ScaleMul  float64
}

// ScalingResult is returned by the wave_scaling hook.
type ScalingResult struct {
	HealthMul float64
	SpeedMul  float64
	ScaleMul  float64
}

// WaveScaling calls the Lua wave_scaling function. Fields the script leaves
// out (or sets to a non-number) keep their Go defaults. A missing hook or a
// script error returns the defaults unchanged.
func (e *Engine) WaveScaling(ctx ScalingContext) ScalingResult {
	def := ScalingResult{HealthMul: ctx.HealthMul, SpeedMul: ctx.SpeedMul, ScaleMul: ctx.ScaleMul}
	fn := e.hook("wave_scaling")
	if fn == nil {
		return def
	}

	t := e.vm.NewTable()
	t.RawSetString("level", lua.LNumber(ctx.Level))
	t.RawSetString("kind", lua.LString(ctx.Kind))
	t.RawSetString("variant", lua.LString(ctx.Variant))
	t.RawSetString("health_mul", lua.LNumber(ctx.HealthMul))
	t.RawSetString("speed_mul", lua.LNumber(ctx.SpeedMul))
	t.RawSetString("scale_mul", lua.LNumber(ctx.ScaleMul))

	rt, ok := e.callTable("wave_scaling", fn, t)
	if !ok {
		return def
	}
	return ScalingResult{
		HealthMul: lNum(rt, "health_mul", def.HealthMul),
		SpeedMul:  lNum(rt, "speed_mul", def.SpeedMul),
		ScaleMul:  lNum(rt, "scale_mul", def.ScaleMul),
	}
}

// LifetimeContext holds the inputs to the entity_lifetime hook.
type LifetimeContext struct {
	Level    int
	Kind     string
	Variant  string
	Lifetime float64 // seconds from the entity table, 0 = no timeout
}

// EntityLifetime calls the Lua entity_lifetime function and returns the
// lifetime in seconds. Negative results are treated as 0 (no timeout).
func (e *Engine) EntityLifetime(ctx LifetimeContext) float64 {
	fn := e.hook("entity_lifetime")
	if fn == nil {
		return ctx.Lifetime
	}

	t := e.vm.NewTable()
	t.RawSetString("level", lua.LNumber(ctx.Level))
	t.RawSetString("kind", lua.LString(ctx.Kind))
	t.RawSetString("variant", lua.LString(ctx.Variant))
	t.RawSetString("lifetime", lua.LNumber(ctx.Lifetime))

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua entity_lifetime error", zap.Error(err))
		return ctx.Lifetime
	}

	ret := e.vm.Get(-1)
	e.vm.Pop(1)

	n, ok := ret.(lua.LNumber)
	if !ok {
		e.log.Error("lua entity_lifetime returned non-number", zap.String("type", ret.Type().String()))
		return ctx.Lifetime
	}
	if n < 0 {
		return 0
	}
	return float64(n)
}

// hook looks up a global function. Absent hooks are reported once at debug
// level; they are optional.
func (e *Engine) hook(name string) *lua.LFunction {
	if e == nil {
		return nil
	}
	fn, ok := e.vm.GetGlobal(name).(*lua.LFunction)
	if !ok {
		if !e.missing[name] {
			e.missing[name] = true
			e.log.Debug("lua hook not defined, using defaults", zap.String("name", name))
		}
		return nil
	}
	return fn
}

// callTable calls fn with a single table argument and expects a table back.
func (e *Engine) callTable(name string, fn *lua.LFunction, arg *lua.LTable) (*lua.LTable, bool) {
	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, arg); err != nil {
		e.log.Error("lua call error", zap.String("name", name), zap.Error(err))
		return nil, false
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	rt, ok := result.(*lua.LTable)
	if !ok {
		e.log.Error("lua function returned non-table", zap.String("name", name))
		return nil, false
	}
	return rt, true
}

// lNum reads a number field from a Lua table, falling back to def.
func lNum(t *lua.LTable, key string, def float64) float64 {
	if n, ok := t.RawGetString(key).(lua.LNumber); ok {
		return float64(n)
	}
	return def
}

// Close releases the VM. Safe on a nil engine.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	e.vm.Close()
}
