package typesystem

// Equal is structural equality over the lattice. Two *Param values are
// equal only if they are the same pointer: a Param's identity is its
// pointer, not its name or current bound value.
func Equal(a, b Type) bool {
	a, b = Dereference(a), Dereference(b)
	switch av := a.(type) {
	case Mixed:
		_, ok := b.(Mixed)
		return ok
	case Empty:
		_, ok := b.(Empty)
		return ok
	case Unset:
		_, ok := b.(Unset)
		return ok
	case ErrorType:
		bv, ok := b.(ErrorType)
		return ok && av.Msg == bv.Msg
	case Prim:
		bv, ok := b.(Prim)
		return ok && av.Name == bv.Name
	case Arr:
		bv, ok := b.(Arr)
		return ok && Equal(av.Elem, bv.Elem)
	case Escaped:
		bv, ok := b.(Escaped)
		return ok && av.Tag == bv.Tag && Equal(av.Inner, bv.Inner)
	case Trusted:
		bv, ok := b.(Trusted)
		return ok && Equal(av.Inner, bv.Inner)
	case *Param:
		bv, ok := b.(*Param)
		return ok && av == bv
	case *Fun:
		bv, ok := b.(*Fun)
		return ok && av == bv
	}
	return false
}

// Dereference chases a Param's bound value, if any. Non-Param types
// dereference to themselves.
func Dereference(t Type) Type {
	for {
		p, ok := t.(*Param)
		if !ok || p.Value == nil {
			return t
		}
		t = p.Value
	}
}

// DropAttrs strips every taint attribute (Escaped/Trusted), exposing the
// underlying shape.
func DropAttrs(t Type) Type {
	switch v := Dereference(t).(type) {
	case Escaped:
		return DropAttrs(v.Inner)
	case Trusted:
		return DropAttrs(v.Inner)
	default:
		return v
	}
}

// Join computes the least upper bound of a and b.
func Join(a, b Type) Type {
	a, b = Dereference(a), Dereference(b)

	if Equal(a, b) {
		return a
	}
	if _, ok := a.(Empty); ok {
		return b
	}
	if _, ok := b.(Empty); ok {
		return a
	}
	if _, ok := a.(ErrorType); ok {
		return a
	}
	if _, ok := b.(ErrorType); ok {
		return b
	}
	if _, ok := a.(Mixed); ok {
		return Mixed{}
	}
	if _, ok := b.(Mixed); ok {
		return Mixed{}
	}

	switch av := a.(type) {
	case Prim:
		if bv, ok := b.(Prim); ok && av.Name == bv.Name {
			return av
		}
	case Arr:
		if bv, ok := b.(Arr); ok {
			return Arr{Elem: Join(av.Elem, bv.Elem)}
		}
	case Escaped:
		switch bv := b.(type) {
		case Escaped:
			if av.Tag == bv.Tag {
				return Escaped{Tag: av.Tag, Inner: Join(av.Inner, bv.Inner)}
			}
		case Trusted:
			return av
		}
	case Trusted:
		switch bv := b.(type) {
		case Trusted:
			return Trusted{Inner: Join(av.Inner, bv.Inner)}
		case Escaped:
			return bv
		}
	}

	if Equal(DropAttrs(a), DropAttrs(b)) {
		return Join(DropAttrs(a), DropAttrs(b))
	}

	return Mixed{}
}

// Meet computes the greatest lower bound of a and b, used to narrow a
// Param's bound on a successful match.
func Meet(a, b Type) Type {
	a, b = Dereference(a), Dereference(b)

	if _, ok := a.(Mixed); ok {
		return b
	}
	if _, ok := b.(Mixed); ok {
		return a
	}
	if Equal(a, b) {
		return a
	}
	if Equal(DropAttrs(a), b) {
		return a
	}
	if Equal(a, DropAttrs(b)) {
		return b
	}
	if Equal(DropAttrs(a), DropAttrs(b)) {
		return Trusted{Inner: DropAttrs(a)}
	}
	return Empty{}
}

// Cast models the language's `(prim) expr` cast expression.
func Cast(t Type, prim string) Type {
	t = Dereference(t)
	switch v := t.(type) {
	case ErrorType:
		return v
	case Trusted:
		return Trusted{Inner: Prim{Name: prim}}
	case Escaped:
		if Equal(DropAttrs(v.Inner), Prim{Name: prim}) {
			return v
		}
		return Prim{Name: prim}
	default:
		return Prim{Name: prim}
	}
}

// ArrayElt infers the element type of t, e.g. for `$arr[$i]`. It builds a
// fresh Param, matches Arr(param) against t, and returns whatever the
// match learned. warn should be the caller's sink; on outright mismatch
// it emits ErrA105 and the result is ErrorType.
func ArrayElt(t Type, warn Warn) Type {
	p := &Param{Name: "$elt"}
	typemap := map[*Param]Type{}
	ok := Match(Arr{Elem: p}, t, typemap, NoWarn)
	if !ok {
		warn.WarnArrayMismatch(t)
		return ErrorType{Msg: "array access on non-array"}
	}
	if v, ok := typemap[p]; ok {
		return v
	}
	if p.Value != nil {
		return p.Value
	}
	return p
}
