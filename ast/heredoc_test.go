package ast

import "testing"

func TestHeredocStateAdvancePastSkipsRecordedRanges(t *testing.T) {
	h := newHeredocState()
	h.record(10, 20)
	h.record(20, 30)

	if got := h.advancePast(5); got != 5 {
		t.Fatalf("advancePast(5) = %d, want 5 (outside any range)", got)
	}
	if got := h.advancePast(10); got != 30 {
		t.Fatalf("advancePast(10) = %d, want 30 (hops through both stacked ranges)", got)
	}
	if got := h.advancePast(25); got != 30 {
		t.Fatalf("advancePast(25) = %d, want 30", got)
	}
}

func TestHeredocStateSkipThroughDoesNotMutate(t *testing.T) {
	h := newHeredocState()
	h.record(10, 20)

	if got := h.skipThrough(15); got != 20 {
		t.Fatalf("skipThrough(15) = %d, want 20", got)
	}
	// calling again with the same position must return the same answer:
	// skipThrough must not consume or otherwise mutate state, since a PEG
	// match can backtrack past the point that queried it.
	if got := h.skipThrough(15); got != 20 {
		t.Fatalf("second skipThrough(15) = %d, want 20 (state must be unchanged)", got)
	}
	if got := h.skipThrough(25); got != 25 {
		t.Fatalf("skipThrough(25) = %d, want 25 (outside the recorded range)", got)
	}
}

func TestHeredocStateRecordIsLatestFirst(t *testing.T) {
	h := newHeredocState()
	h.record(10, 20)
	h.record(30, 40)

	if h.ranges[0].first != 30 || h.ranges[1].first != 10 {
		t.Fatalf("expected latest-recorded range first, got %+v", h.ranges)
	}
}

func TestUnquoteDelimiter(t *testing.T) {
	cases := []struct{ raw, want string }{
		{"EOF", "EOF"},
		{"'EOF'", "EOF"},
		{`"EOF"`, "EOF"},
		{`EO\F`, "EOF"},
		{`'EO\F'`, `EO\F`},
	}
	for _, c := range cases {
		if got := unquoteDelimiter(c.raw); got != c.want {
			t.Errorf("unquoteDelimiter(%q) = %q, want %q", c.raw, got, c.want)
		}
	}
}
