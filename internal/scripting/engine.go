// Package scripting lets a Lua script decide when enemies spawn and fire.
package scripting

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/CrawKatt/Space-Invaders/internal/sim"
)

// Global function names a policy script may define.
const (
	fnShouldSpawnEnemy = "should_spawn_enemy"
	fnShouldEnemyFire  = "should_enemy_fire"
)

// Engine wraps a single gopher-lua VM and implements sim.Policy.
// Single-goroutine access only (game loop). Any missing function or script
// error falls back to the built-in policy for that call.
type Engine struct {
	vm       *lua.LState
	log      *zap.Logger
	fallback sim.Policy
	warned   map[string]bool
}

var _ sim.Policy = (*Engine)(nil)

// NewEngine creates a Lua VM and runs the policy script at path.
func NewEngine(path string, log *zap.Logger) (*Engine, error) {
	if log == nil {
		log = zap.NewNop()
	}
	vm := lua.NewState()
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	if err := vm.DoFile(path); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load policy script %s: %w", path, err)
	}
	log.Debug("loaded lua script", zap.String("file", path))

	return &Engine{
		vm:       vm,
		log:      log,
		fallback: sim.DefaultPolicy{},
		warned:   make(map[string]bool),
	}, nil
}

// ShouldSpawnEnemy calls the Lua should_spawn_enemy function.
func (e *Engine) ShouldSpawnEnemy(ctx sim.SpawnContext) bool {
	t := e.vm.NewTable()
	t.RawSetString("enemy_count", lua.LNumber(ctx.EnemyCount))
	t.RawSetString("enemy_max", lua.LNumber(ctx.EnemyMax))
	t.RawSetString("now", lua.LNumber(ctx.Now.Seconds()))
	t.RawSetString("score", lua.LNumber(ctx.Score))

	ok, result := e.callBool(fnShouldSpawnEnemy, t)
	if !ok {
		return e.fallback.ShouldSpawnEnemy(ctx)
	}
	return result
}

// ShouldEnemyFire calls the Lua should_enemy_fire function.
func (e *Engine) ShouldEnemyFire(ctx sim.FireContext) bool {
	t := e.vm.NewTable()
	t.RawSetString("roll", lua.LNumber(ctx.Roll))
	t.RawSetString("chance", lua.LNumber(ctx.Chance))
	t.RawSetString("enemy_count", lua.LNumber(ctx.EnemyCount))
	t.RawSetString("now", lua.LNumber(ctx.Now.Seconds()))
	t.RawSetString("score", lua.LNumber(ctx.Score))

	ok, result := e.callBool(fnShouldEnemyFire, t)
	if !ok {
		return e.fallback.ShouldEnemyFire(ctx)
	}
	return result
}

// callBool calls a global function with one table argument and reads one
// boolean result. ok is false when the call could not produce a boolean.
func (e *Engine) callBool(name string, arg *lua.LTable) (ok, result bool) {
	fn := e.vm.GetGlobal(name)
	if fn.Type() != lua.LTFunction {
		e.warnOnce(name, "lua function not found")
		return false, false
	}

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, arg); err != nil {
		e.log.Error("lua "+name+" error", zap.Error(err))
		return false, false
	}

	ret := e.vm.Get(-1)
	e.vm.Pop(1)

	b, isBool := ret.(lua.LBool)
	if !isBool {
		e.warnOnce(name, "lua function returned non-boolean")
		return false, false
	}
	return true, bool(b)
}

// warnOnce logs a per-function problem the first time it happens; the
// functions are called every tick.
func (e *Engine) warnOnce(name, msg string) {
	if e.warned[name] {
		return
	}
	e.warned[name] = true
	e.log.Error(msg, zap.String("function", name))
}

// Close releases the VM.
func (e *Engine) Close() {
	e.vm.Close()
}
