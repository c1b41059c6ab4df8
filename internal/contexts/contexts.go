// Package contexts implements the scoped typing-context family used to
// abstractly interpret straight-line code, branches, loops, and function
// bodies: a base TypingContext, a copy-on-write overlay for branch joins,
// an auto-typing context that synthesises fresh parameters for unknown
// reads (used by loops and function bodies), and the function-body-level
// LocalTypingContext that ties a local scope to a globals sub-context.
package contexts

import (
	"sort"

	"github.com/tsguard/tsguard/internal/typesystem"
)

// maxFixpointIterations bounds AutoTypingContext.Fixpoint defensively.
// The lattice has finite height for any fixed program (join is monotone,
// Param bounds are only narrowed), so this should never be hit in
// practice; it exists so a pathological input widens to Mixed instead of
// looping forever.
const maxFixpointIterations = 64

// TypingContext is a flat scope: variable name to type, plus the single
// reserved Return slot.
type TypingContext struct {
	vars      map[string]typesystem.Type
	ret       typesystem.Type
	hasReturn bool
}

func NewTypingContext() *TypingContext {
	return &TypingContext{vars: map[string]typesystem.Type{}}
}

// Set assigns name, replacing any prior binding.
func (c *TypingContext) Set(name string, t typesystem.Type) {
	c.vars[name] = t
}

// Get returns name's binding, or emits "may not have been initialised"
// and returns Unset if name has never been assigned.
func (c *TypingContext) Get(name string, warn typesystem.Warn) typesystem.Type {
	if t, ok := c.vars[name]; ok {
		return t
	}
	warn.WarnUninitialised(name)
	return typesystem.Unset{}
}

// Snapshot returns a shallow copy of every global binding currently held,
// for callers (the cache) that need to persist the context without
// reaching into its unexported state.
func (c *TypingContext) Snapshot() map[string]typesystem.Type {
	out := make(map[string]typesystem.Type, len(c.vars))
	for k, v := range c.vars {
		out[k] = v
	}
	return out
}

func (c *TypingContext) SetReturn(t typesystem.Type) {
	c.ret = t
	c.hasReturn = true
}

func (c *TypingContext) HasReturn() bool { return c.hasReturn }

func (c *TypingContext) GetReturn(warn typesystem.Warn) typesystem.Type {
	if c.hasReturn {
		return c.ret
	}
	warn.WarnUninitialised("<return>")
	return typesystem.Unset{}
}

// Background is anything a ContextOverlay can wrap: the base TypingContext
// most often, but also a LocalTypingContext (for if/else inside a function
// body) or another ContextOverlay (for nested branches).
type Background interface {
	typesystem.CallContext
	SetReturn(t typesystem.Type)
	HasReturn() bool
	GetReturn(warn typesystem.Warn) typesystem.Type
}

// ContextOverlay is a copy-on-write view over a Background: reads fall
// through to the background on miss, writes land in a private delta.
// Used for the two branches of an if/else; two overlays over the same
// background can be merged with UnionOverlays and written back with Apply.
type ContextOverlay struct {
	background Background
	delta      map[string]typesystem.Type
	ret        typesystem.Type
	hasReturn  bool
}

func NewOverlay(background Background) *ContextOverlay {
	return &ContextOverlay{background: background, delta: map[string]typesystem.Type{}}
}

func (o *ContextOverlay) Set(name string, t typesystem.Type) {
	o.delta[name] = t
}

func (o *ContextOverlay) Get(name string, warn typesystem.Warn) typesystem.Type {
	if t, ok := o.delta[name]; ok {
		return t
	}
	return o.background.Get(name, warn)
}

func (o *ContextOverlay) SetReturn(t typesystem.Type) {
	o.ret = t
	o.hasReturn = true
}

func (o *ContextOverlay) HasReturn() bool { return o.hasReturn || o.background.HasReturn() }

func (o *ContextOverlay) GetReturn(warn typesystem.Warn) typesystem.Type {
	if o.hasReturn {
		return o.ret
	}
	return o.background.GetReturn(warn)
}

// Apply writes every delta entry (and the return value, if set) into the
// background context.
func (o *ContextOverlay) Apply() {
	for name, t := range o.delta {
		o.background.Set(name, t)
	}
	if o.hasReturn {
		o.background.SetReturn(o.ret)
	}
}

// UnionOverlays returns an overlay over the same background whose delta,
// for every key written by either a or b, holds Join(a.get(k), b.get(k)).
// Each joined value is passed through Instantiate with an empty TypeMap,
// which replaces any Param that already has a bound Value by that value;
// unbound Params are kept as they are and are not unified across the two
// branches the way AutoTypingContext.Union unifies its inputs.
func UnionOverlays(a, b *ContextOverlay) *ContextOverlay {
	if a.background != b.background {
		panic("contexts: UnionOverlays requires overlays sharing one background")
	}
	merged := NewOverlay(a.background)
	typemap := typesystem.TypeMap{}
	for _, name := range unionStringKeys(a.delta, b.delta) {
		av := a.Get(name, typesystem.NoWarn)
		bv := b.Get(name, typesystem.NoWarn)
		joined := typesystem.Join(av, bv)
		merged.delta[name] = typesystem.Instantiate(joined, typemap)
	}
	if a.hasReturn || b.hasReturn {
		av := a.GetReturn(typesystem.NoWarn)
		bv := b.GetReturn(typesystem.NoWarn)
		merged.ret = typesystem.Instantiate(typesystem.Join(av, bv), typemap)
		merged.hasReturn = true
	}
	return merged
}

func unionStringKeys(a, b map[string]typesystem.Type) []string {
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
