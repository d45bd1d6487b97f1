package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	lua "github.com/yuin/gopher-lua"

	"github.com/cwbudde/algo-tone/host"
	"github.com/cwbudde/algo-tone/tone"
	"github.com/cwbudde/algo-tone/tone/preset"
)

// automation drives the processor from a Lua script. The script defines
// on_block(t, i), called before each rendered block with the block start
// time in seconds and the block index. Inside it the script may call:
//
//	set(name, value)     set a macro ("character", "space", ...)
//	mode(name)           switch to "rhythm", "lead" or "clean"
//	preset(name)         apply a factory preset
//	input_gain(db)       input trim
//	output_gain(db)      output trim
//
// A script error disables the automation for the rest of the render.
type automation struct {
	L       *lua.LState
	onBlock lua.LValue
	log     *logrus.Logger
	failed  bool
}

func loadAutomation(path string, proc *host.Processor, log *logrus.Logger) (*automation, error) {
	L := lua.NewState()

	a := &automation{L: L, log: log}
	a.register(proc)

	if err := L.DoFile(path); err != nil {
		L.Close()
		return nil, fmt.Errorf("automation %s: %w", path, err)
	}

	return a.bind(path)
}

// loadAutomationString is loadAutomation for an inline script.
func loadAutomationString(src string, proc *host.Processor, log *logrus.Logger) (*automation, error) {
	L := lua.NewState()

	a := &automation{L: L, log: log}
	a.register(proc)

	if err := L.DoString(src); err != nil {
		L.Close()
		return nil, fmt.Errorf("automation: %w", err)
	}

	return a.bind("<inline>")
}

func (a *automation) bind(name string) (*automation, error) {
	fn := a.L.GetGlobal("on_block")
	if fn.Type() != lua.LTFunction {
		a.L.Close()
		return nil, fmt.Errorf("automation %s: on_block is not defined", name)
	}

	a.onBlock = fn

	return a, nil
}

func (a *automation) register(proc *host.Processor) {
	a.L.SetGlobal("set", a.L.NewFunction(func(L *lua.LState) int {
		id, err := tone.ParseMacroID(L.CheckString(1))
		if err != nil {
			L.RaiseError("%v", err)
			return 0
		}

		proc.SetMacro(id, float64(L.CheckNumber(2)))

		return 0
	}))

	a.L.SetGlobal("mode", a.L.NewFunction(func(L *lua.LState) int {
		m, err := tone.ParseMode(L.CheckString(1))
		if err != nil {
			L.RaiseError("%v", err)
			return 0
		}

		proc.SetMode(m)

		return 0
	}))

	a.L.SetGlobal("preset", a.L.NewFunction(func(L *lua.LState) int {
		p, err := preset.Lookup(L.CheckString(1))
		if err != nil {
			L.RaiseError("%v", err)
			return 0
		}

		proc.ApplyPreset(p)

		return 0
	}))

	a.L.SetGlobal("input_gain", a.L.NewFunction(func(L *lua.LState) int {
		proc.SetInputGainDB(float64(L.CheckNumber(1)))
		return 0
	}))

	a.L.SetGlobal("output_gain", a.L.NewFunction(func(L *lua.LState) int {
		proc.SetOutputGainDB(float64(L.CheckNumber(1)))
		return 0
	}))
}

// step runs on_block for one block.
func (a *automation) step(t float64, block int) {
	if a == nil || a.failed {
		return
	}

	err := a.L.CallByParam(lua.P{Fn: a.onBlock, NRet: 0, Protect: true},
		lua.LNumber(t), lua.LNumber(block))
	if err != nil {
		a.failed = true
		a.log.WithError(err).WithField("block", block).Warn("automation stopped")
	}
}

func (a *automation) Close() {
	if a != nil && a.L != nil {
		a.L.Close()
	}
}
