package contexts

import (
	"sort"

	"github.com/tsguard/tsguard/internal/typesystem"
)

// AutoTypingContext synthesises a fresh Param the first time it sees a
// read of an unbound name, recording it in inputs. It models "the initial
// value of a variable is whatever the caller/previous iteration
// supplies" — used for loop bodies and function bodies.
type AutoTypingContext struct {
	delta     map[string]typesystem.Type
	inputs    map[string]*typesystem.Param
	ret       typesystem.Type
	hasReturn bool
}

func NewAutoTypingContext() *AutoTypingContext {
	return &AutoTypingContext{delta: map[string]typesystem.Type{}, inputs: map[string]*typesystem.Param{}}
}

// Get returns name's current binding. On a miss, if warn is enabled it
// manufactures Param("$"+name), records it in inputs, binds it in delta,
// and returns it; if warn is disabled it returns Unset without
// synthesising, so that speculative reads don't pollute inputs.
func (a *AutoTypingContext) Get(name string, warn typesystem.Warn) typesystem.Type {
	if t, ok := a.delta[name]; ok {
		return t
	}
	if !warn.Enabled() {
		return typesystem.Unset{}
	}
	p := &typesystem.Param{Name: "$" + name}
	a.inputs[name] = p
	a.delta[name] = p
	return p
}

func (a *AutoTypingContext) Set(name string, t typesystem.Type) {
	a.delta[name] = t
}

// SetReturn, HasReturn and GetReturn hold a `return` reached inside the
// body. ApplyTo, Union and Fixpoint carry variable bindings only, so the
// return value is not passed on to the enclosing context.
func (a *AutoTypingContext) SetReturn(t typesystem.Type) {
	a.ret = t
	a.hasReturn = true
}

func (a *AutoTypingContext) HasReturn() bool { return a.hasReturn }

func (a *AutoTypingContext) GetReturn(warn typesystem.Warn) typesystem.Type {
	if a.hasReturn {
		return a.ret
	}
	warn.WarnUninitialised("<return>")
	return typesystem.Unset{}
}

// Copy returns a true shallow copy: a fresh context whose delta/inputs
// maps are independent but whose Type/*Param values are shared.
func (a *AutoTypingContext) Copy() *AutoTypingContext {
	cp := NewAutoTypingContext()
	for k, v := range a.delta {
		cp.delta[k] = v
	}
	for k, v := range a.inputs {
		cp.inputs[k] = v
	}
	return cp
}

// ApplyTo plays this context's effects into other: every recorded input
// is matched against other's current value for that name (learning
// typemap entries), then every delta entry is instantiated through that
// typemap and written into other. Returns other.
func (a *AutoTypingContext) ApplyTo(other typesystem.CallContext, warn typesystem.Warn) typesystem.CallContext {
	typemap := typesystem.TypeMap{}
	for _, name := range sortedStringKeys(a.inputs) {
		typesystem.Match(a.inputs[name], other.Get(name, warn), typemap, warn)
	}
	for _, name := range sortedStringKeys(a.delta) {
		other.Set(name, typesystem.Instantiate(a.delta[name], typemap))
	}
	return other
}

// Union merges a and b into a fresh context: every name read as an input
// by either side gets one freshly shared Param (so later instantiation
// sees a single variable instead of two independent ones); every name
// written by either side gets the Join of both sides' value, instantiated
// through that same mapping.
func (a *AutoTypingContext) Union(b *AutoTypingContext) *AutoTypingContext {
	result := NewAutoTypingContext()
	typemap := typesystem.TypeMap{}

	for _, name := range unionStringSets(a.inputs, b.inputs) {
		shared := &typesystem.Param{Name: "$" + name}
		if p, ok := a.inputs[name]; ok {
			typemap[p] = shared
		}
		if p, ok := b.inputs[name]; ok {
			typemap[p] = shared
		}
		result.inputs[name] = shared
		result.delta[name] = shared
	}

	for _, name := range unionStringSets(a.delta, b.delta) {
		av := a.deltaOrUnset(name)
		bv := b.deltaOrUnset(name)
		joined := typesystem.Join(av, bv)
		result.delta[name] = typesystem.Instantiate(joined, typemap)
	}

	return result
}

func (a *AutoTypingContext) deltaOrUnset(name string) typesystem.Type {
	if t, ok := a.delta[name]; ok {
		return t
	}
	return typesystem.Unset{}
}

// Fixpoint iterates Union(ApplyTo(copy)) until the context stabilises (or
// the defensive cap is reached, at which point every binding widens to
// Mixed). This is how loop bodies (and, per the redesign in DESIGN.md,
// `while` as well as `foreach`) approximate an arbitrary number of
// iterations.
func (a *AutoTypingContext) Fixpoint(warn typesystem.Warn) *AutoTypingContext {
	curr := a
	for i := 0; i < maxFixpointIterations; i++ {
		applied := curr.ApplyTo(curr.Copy(), warn).(*AutoTypingContext)
		next := curr.Union(applied)
		if curr.equal(next) {
			return next
		}
		curr = next
	}
	return curr.widenToMixed()
}

func (a *AutoTypingContext) equal(b *AutoTypingContext) bool {
	if len(a.delta) != len(b.delta) {
		return false
	}
	// Union gives every input a fresh Param, so compare with a's input
	// Params renamed to b's.
	rename := typesystem.TypeMap{}
	for name, p := range a.inputs {
		if q, ok := b.inputs[name]; ok {
			rename[p] = q
		}
	}
	for k, v := range a.delta {
		bv, ok := b.delta[k]
		if !ok || !typesystem.Equal(typesystem.Instantiate(v, rename), bv) {
			return false
		}
	}
	return true
}

func (a *AutoTypingContext) widenToMixed() *AutoTypingContext {
	w := NewAutoTypingContext()
	for k, v := range a.inputs {
		w.inputs[k] = v
	}
	for k := range a.delta {
		w.delta[k] = typesystem.Mixed{}
	}
	return w
}

func sortedStringKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func unionStringSets[V any](a, b map[string]V) []string {
	seen := map[string]bool{}
	var keys []string
	for k := range a {
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	for k := range b {
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}
