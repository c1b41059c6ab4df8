package typesystem

import (
	"testing"

	"github.com/kr/pretty"
)

// TestApplyMatchesPositionalAndGlobalSignature exercises Fun.Apply end to
// end and, on mismatch, reports a field-level pretty.Diff of the whole Fun
// rather than a single flattened string — useful here since a wrong
// instantiation usually shows up as one divergent Out entry buried in an
// otherwise-identical struct.
func TestApplyMatchesPositionalAndGlobalSignature(t *testing.T) {
	f := &Fun{
		Name: "concat_escaped",
		Inp: map[VarId]Type{
			Positional(0):  &Param{Name: "T"},
			Global("seen"): Mixed{},
		},
		Out: map[VarId]Type{
			Return:        Escaped{Tag: "mysql", Inner: str()},
			Global("seen"): Prim{Name: "bool"},
		},
	}

	ctx := newFakeCallContext()
	ctx.Set("seen", Unset{})

	got := f.Apply(ctx, []Type{str()}, NoWarn, true)
	want := Escaped{Tag: "mysql", Inner: str()}
	if !Equal(got, want) {
		t.Errorf("Apply return = %s, want %s\ndiff:\n%s", got, want, strDiff(f, &Fun{
			Name: f.Name,
			Inp:  f.Inp,
			Out:  map[VarId]Type{Return: want, Global("seen"): Prim{Name: "bool"}},
		}))
	}
	if seen := ctx.Get("seen", NoWarn); !Equal(seen, Prim{Name: "bool"}) {
		t.Errorf("$seen after Apply = %s, want bool", seen)
	}
}

func strDiff(a, b any) string {
	out := ""
	for _, line := range pretty.Diff(a, b) {
		out += line + "\n"
	}
	return out
}

type fakeCallContext struct {
	vars map[string]Type
}

func newFakeCallContext() *fakeCallContext {
	return &fakeCallContext{vars: map[string]Type{}}
}

func (c *fakeCallContext) Get(name string, warn Warn) Type {
	if t, ok := c.vars[name]; ok {
		return t
	}
	return Unset{}
}

func (c *fakeCallContext) Set(name string, t Type) {
	c.vars[name] = t
}
