package typesystem

import (
	"fmt"
	"sort"
)

// CallContext is the minimal surface Fun.Apply needs from a typing
// context: read/write access to globals by name. internal/contexts'
// TypingContext family implements this; typesystem depends on nothing
// from that package, avoiding an import cycle.
type CallContext interface {
	Get(name string, warn Warn) Type
	Set(name string, t Type)
}

// Apply simulates calling f: it matches every declared input against the
// caller's context/arguments, writes every declared global output back
// into context, and returns the (possibly instantiated) declared return
// type. usedAsValue should be true when the caller actually consumes the
// result, so a function with no Return output can warn (ErrA107).
func (f *Fun) Apply(ctx CallContext, argTypes []Type, warn Warn, usedAsValue bool) Type {
	typemap := TypeMap{}

	for _, id := range sortedVarIds(f.Inp) {
		sigType := f.Inp[id]
		switch id.Kind {
		case VarGlobal:
			Match(sigType, ctx.Get(id.Name, warn.On()), typemap, warn.At("global $"+id.Name+": "))
		case VarPositional:
			if id.Index < 0 || id.Index >= len(argTypes) {
				continue
			}
			Match(sigType, argTypes[id.Index], typemap, warn.At(fmt.Sprintf("parameter %d of %s: ", id.Index+1, f.Name)))
		}
	}

	for _, id := range sortedVarIds(f.Out) {
		if id.Kind != VarGlobal {
			continue
		}
		ctx.Set(id.Name, Instantiate(f.Out[id], typemap))
	}

	ret, ok := f.Out[Return]
	if !ok {
		if usedAsValue {
			warn.WarnUnusedReturn(f.Name)
		}
		return ErrorType{Msg: "no return value"}
	}
	return Instantiate(ret, typemap)
}

func sortedVarIds(m map[VarId]Type) []VarId {
	ids := make([]VarId, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := ids[i], ids[j]
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		if a.Kind == VarPositional {
			return a.Index < b.Index
		}
		return a.Name < b.Name
	})
	return ids
}
