package contexts

import "github.com/tsguard/tsguard/internal/typesystem"

// superglobals are always resolved against the function's globals
// sub-context, whether or not the function body declares them with
// `global`, mirroring the analysed language's superglobal arrays.
var superglobals = []string{"_GET", "_POST", "_SERVER"}

// LocalTypingContext is the function-body scope: a local table seeded
// with one Param per formal parameter, a globals sub-context that
// synthesises Params for as-yet-unseen global reads, and the set of names
// the body has declared global. Reads/writes of a declared-global name
// dispatch to the globals sub-context; everything else is local.
type LocalTypingContext struct {
	fnName      string
	paramNames  []string
	local       *TypingContext
	globals     *AutoTypingContext
	globalNames map[string]bool
}

// NewLocalTypingContext builds the function-body context for fnName,
// seeding the local table with one fresh Param per entry in paramNames
// (in order) and pre-declaring the language's superglobals as global.
func NewLocalTypingContext(paramNames []string, fnName string) *LocalTypingContext {
	lc := &LocalTypingContext{
		fnName:      fnName,
		paramNames:  append([]string(nil), paramNames...),
		local:       NewTypingContext(),
		globals:     NewAutoTypingContext(),
		globalNames: map[string]bool{},
	}
	for _, name := range paramNames {
		lc.local.Set(name, &typesystem.Param{Name: "$" + name})
	}
	lc.MarkGlobal(superglobals)
	return lc
}

// MarkGlobal declares names as global for the remainder of this scope;
// any existing local binding for those names is shadowed.
func (lc *LocalTypingContext) MarkGlobal(names []string) {
	for _, n := range names {
		lc.globalNames[n] = true
	}
}

func (lc *LocalTypingContext) Get(name string, warn typesystem.Warn) typesystem.Type {
	if lc.globalNames[name] {
		return lc.globals.Get(name, warn)
	}
	return lc.local.Get(name, warn)
}

func (lc *LocalTypingContext) Set(name string, t typesystem.Type) {
	if lc.globalNames[name] {
		lc.globals.Set(name, t)
		return
	}
	lc.local.Set(name, t)
}

func (lc *LocalTypingContext) SetReturn(t typesystem.Type) { lc.local.SetReturn(t) }
func (lc *LocalTypingContext) HasReturn() bool             { return lc.local.HasReturn() }
func (lc *LocalTypingContext) GetReturn(warn typesystem.Warn) typesystem.Type {
	return lc.local.GetReturn(warn)
}

// AsFunctionType reads off the accumulated local/globals state as a
// reusable Fun signature: positional inputs in formal-parameter order,
// plus a global input for every global name the body read before writing
// it; outputs are Return (if set) plus every global name the body read or
// wrote (a global that was only read maps to its input Param).
func (lc *LocalTypingContext) AsFunctionType() *typesystem.Fun {
	inp := map[typesystem.VarId]typesystem.Type{}
	out := map[typesystem.VarId]typesystem.Type{}

	for i, name := range lc.paramNames {
		t, _ := lc.local.vars[name]
		if t == nil {
			t = &typesystem.Param{Name: "$" + name}
		}
		inp[typesystem.Positional(i)] = t
	}
	for name, p := range lc.globals.inputs {
		inp[typesystem.Global(name)] = p
	}
	for name, t := range lc.globals.delta {
		out[typesystem.Global(name)] = t
	}
	if lc.local.HasReturn() {
		out[typesystem.Return] = lc.local.ret
	}

	return &typesystem.Fun{Inp: inp, Out: out, Name: lc.fnName}
}
