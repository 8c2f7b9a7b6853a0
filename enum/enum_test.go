package enum

import "testing"

func mustNew(t *testing.T, name string, defs ...Def) *Enum {
	t.Helper()
	e, err := New(name, defs...)
	if err != nil {
		t.Fatalf("New(%q): %v", name, err)
	}
	return e
}

func value(t *testing.T, e *Enum, name string) int64 {
	t.Helper()
	m, ok := e.ByName(name)
	if !ok {
		t.Fatalf("member %q missing", name)
	}
	return m.Value()
}

func TestAutoValues(t *testing.T) {
	e := mustNew(t, "mode", Auto("slow"), Auto("fast"), Auto("turbo"))
	for i, name := range []string{"slow", "fast", "turbo"} {
		if got := value(t, e, name); got != int64(i+1) {
			t.Errorf("%s = %d, want %d", name, got, i+1)
		}
	}
}

func TestAutoWithNegativeValues(t *testing.T) {
	// the automatic value follows the true maximum, not zero
	e := mustNew(t, "gain", Val("low", -5), Auto("next"))
	if got := value(t, e, "next"); got != -4 {
		t.Errorf("next = %d, want -4", got)
	}
}

func TestAutoAfterExplicit(t *testing.T) {
	e := mustNew(t, "mode", Val("off", 0), Val("high", 30), Auto("next"))
	if got := value(t, e, "next"); got != 31 {
		t.Errorf("next = %d, want 31", got)
	}
}

func TestInsertAfter(t *testing.T) {
	e := mustNew(t, "mode",
		Val("a", 1), Val("b", 2), Val("c", 10),
		After("a2", "a"), // 2 is taken, 3 is the smallest free value above a
		After("c2", "c"),
	)
	if got := value(t, e, "a2"); got != 3 {
		t.Errorf("a2 = %d, want 3", got)
	}
	if got := value(t, e, "c2"); got != 11 {
		t.Errorf("c2 = %d, want 11", got)
	}
}

func TestUnknownAnchor(t *testing.T) {
	if _, err := New("mode", After("b", "missing")); err == nil {
		t.Error("expected an error for an unknown anchor")
	}
}

func TestWholeFloatValue(t *testing.T) {
	e := mustNew(t, "mode", Def{Name: "a", Value: 2.0})
	if got := value(t, e, "a"); got != 2 {
		t.Errorf("a = %d, want 2", got)
	}
	if _, err := New("mode", Def{Name: "a", Value: 2.5}); err == nil {
		t.Error("expected an error for a fractional value")
	}
}

func TestConflicts(t *testing.T) {
	cases := []struct {
		name string
		defs []Def
		ok   bool
	}{
		{"same pair twice", []Def{Val("a", 1), Val("a", 1)}, true},
		{"name conflict", []Def{Val("a", 1), Val("a", 2)}, false},
		{"value conflict", []Def{Val("a", 1), Val("b", 1)}, false},
		{"empty name", []Def{Val("", 1)}, false},
		{"bad value type", []Def{{Name: "a", Value: []int{1}}}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New("mode", tc.defs...)
			if (err == nil) != tc.ok {
				t.Errorf("New: err = %v, want ok = %v", err, tc.ok)
			}
		})
	}
}

func TestExtend(t *testing.T) {
	base := mustNew(t, "status", Val("IDLE", 100), Val("BUSY", 300))
	ext, err := base.Extend(Val("ERROR", 400), Auto("FINISH"))
	if err != nil {
		t.Fatalf("Extend: %v", err)
	}
	if base.Len() != 2 {
		t.Errorf("base grew to %d members", base.Len())
	}
	if got := value(t, ext, "FINISH"); got != 401 {
		t.Errorf("FINISH = %d, want 401", got)
	}
	if _, err := base.Extend(Val("IDLE", 101)); err == nil {
		t.Error("expected a conflict extending IDLE with another value")
	}
}

func TestLookupAndEqual(t *testing.T) {
	e := mustNew(t, "mode", Val("slow", 1), Val("fast", 2))
	slow, _ := e.ByName("slow")

	if m, ok := e.Lookup(1); !ok || m != slow {
		t.Errorf("Lookup(1) = %v, %v", m, ok)
	}
	if m, ok := e.Lookup("slow"); !ok || m != slow {
		t.Errorf("Lookup(slow) = %v, %v", m, ok)
	}
	if m, ok := e.Lookup(2.0); !ok || m.Name() != "fast" {
		t.Errorf("Lookup(2.0) = %v, %v", m, ok)
	}
	if _, ok := e.Lookup("missing"); ok {
		t.Error("Lookup(missing) should fail")
	}
	if _, ok := e.Lookup(1.5); ok {
		t.Error("Lookup(1.5) should fail")
	}

	if !slow.Equal(1) || !slow.Equal("slow") {
		t.Error("slow should equal 1 and its own name")
	}
	if slow.Equal(2) || slow.Equal("fast") {
		t.Error("slow should not equal 2 or fast")
	}
	// a string that is no member name never compares equal
	if slow.Equal("Slow") {
		t.Error("unknown names must not compare equal")
	}

	other := mustNew(t, "other", Val("crawl", 1))
	crawl, _ := other.ByName("crawl")
	if !slow.Equal(crawl) {
		t.Error("members compare by value across enums")
	}

	// booleans count as the integers 0 and 1
	if m, ok := e.Lookup(true); !ok || m != slow {
		t.Errorf("Lookup(true) = %v, %v", m, ok)
	}
	if _, ok := e.Lookup(false); ok {
		t.Error("Lookup(false) should fail, 0 is no member")
	}
	if !slow.Equal(true) {
		t.Error("slow<1> should equal true")
	}
}

func TestMembersSorted(t *testing.T) {
	e := mustNew(t, "mode", Val("c", 30), Val("a", 10), Val("b", 20))
	var got []int64
	for _, m := range e.Members() {
		got = append(got, m.Value())
	}
	for i := 1; i < len(got); i++ {
		if got[i-1] >= got[i] {
			t.Fatalf("members not sorted: %v", got)
		}
	}
	if s := e.String(); s != "mode(a=10, b=20, c=30)" {
		t.Errorf("String() = %q", s)
	}
}

func TestMemberString(t *testing.T) {
	e := mustNew(t, "mode", Val("fast", 2))
	m, _ := e.ByName("fast")
	if got := m.String(); got != "fast<2>" {
		t.Errorf("String() = %q, want fast<2>", got)
	}
}
