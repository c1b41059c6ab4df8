package typesystem

// TypeMap accumulates the bindings learned for Param unification variables
// during a Match. Entries are only ever added or widened (via Join),
// which is what makes AutoTypingContext's fixpoint loop terminate.
type TypeMap map[*Param]Type

// Match is the one-sided subtype check with parameter synthesis: does a
// value of type other satisfy a position declared as type self? An unbound
// Param in self is recorded (or widened) in typemap rather than rejected;
// an unbound Param in other is narrowed to self via assign.
func Match(self, other Type, typemap TypeMap, warn Warn) bool {
	if p, ok := self.(*Param); ok {
		return matchParam(p, other, typemap)
	}

	o := Dereference(other)
	if structMatch(self, o, typemap) {
		return true
	}
	if structMatch(self, DropAttrs(o), typemap) {
		return true
	}
	if op, ok := o.(*Param); ok && op.Value == nil {
		assign(op, self)
		return true
	}
	warn.WarnMismatch(self, other)
	return false
}

// matchParam implements Param's override of match: it never fails,
// instead recording or widening its binding in typemap (or, once bound,
// delegating to its bound value).
func matchParam(p *Param, other Type, typemap TypeMap) bool {
	if op, ok := other.(*Param); ok && op == p {
		// A Param trivially matches itself; binding it to itself would
		// make Instantiate loop forever.
		return true
	}
	if p.Value != nil {
		return Match(p.Value, other, typemap, NoWarn)
	}
	if cur, ok := typemap[p]; ok {
		typemap[p] = Join(cur, other)
	} else {
		typemap[p] = other
	}
	return true
}

// assign narrows p's bound to t, meeting with any existing bound. Match
// uses it (step 4) when other is an unbound Param.
func assign(p *Param, t Type) {
	if p.Value == nil {
		p.Value = t
		return
	}
	p.Value = Meet(p.Value, t)
}

// structMatch is the structural layer (the source's "_match"): per-variant
// shape comparison with no fallback to drop-attrs or Param synthesis —
// both of those are handled by the caller, Match.
func structMatch(self, o Type, typemap TypeMap) bool {
	switch sv := self.(type) {
	case Mixed:
		return true
	case ErrorType:
		return true
	case Prim:
		ov, ok := o.(Prim)
		return ok && ov.Name == sv.Name
	case Arr:
		ov, ok := o.(Arr)
		if !ok {
			return false
		}
		return Match(sv.Elem, ov.Elem, typemap, NoWarn)
	case Escaped:
		switch ov := o.(type) {
		case Escaped:
			if ov.Tag != sv.Tag {
				return false
			}
			return Match(sv.Inner, ov.Inner, typemap, NoWarn)
		case Trusted:
			// escape1(escape2(x)) matches Trusted(x): match inner against o itself.
			return Match(sv.Inner, o, typemap, NoWarn)
		}
		return false
	case Trusted:
		switch ov := o.(type) {
		case Trusted:
			return Match(sv.Inner, ov.Inner, typemap, NoWarn)
		case Escaped:
			// Trusted is a refinement of Escaped: Trusted(x) matches Escaped(t, x).
			return Match(sv.Inner, ov.Inner, typemap, NoWarn)
		}
		return false
	case Empty:
		_, ok := o.(Empty)
		return ok
	case Unset:
		_, ok := o.(Unset)
		return ok
	default:
		return Equal(self, o)
	}
}

// Instantiate substitutes the bindings in typemap through self, producing
// a concrete(er) type: it recurses into Arr, Escaped, Trusted, and chases
// Param.Value / typemap entries.
func Instantiate(self Type, typemap TypeMap) Type {
	switch v := self.(type) {
	case *Param:
		if v.Value != nil {
			return Instantiate(v.Value, typemap)
		}
		if t, ok := typemap[v]; ok {
			return Instantiate(t, typemap)
		}
		return v
	case Arr:
		return Arr{Elem: Instantiate(v.Elem, typemap)}
	case Escaped:
		return Escaped{Tag: v.Tag, Inner: Instantiate(v.Inner, typemap)}
	case Trusted:
		return Trusted{Inner: Instantiate(v.Inner, typemap)}
	default:
		return self
	}
}
