package peg

import "fmt"

// HookFunc is invoked once pat matches. It receives the full source text,
// the absolute byte offset pat started matching at, how many bytes pat
// itself matched, and the match-time Config.Env. It returns how many bytes
// are actually consumed from pos (which may differ from the n it was
// given), an optional capture to push as if it had been produced at this
// position, and whether the Hook pattern as a whole matches.
type HookFunc func(text string, pos, n int, env MatchEnv) (newN int, capture Capture, ok bool)

type patternHook struct {
	pat   Pattern
	label string
	fn    HookFunc
}

// Hook attaches fn to pat. Once pat matches, fn sees the entire source text,
// the absolute offset and length pat matched at - not just pat's own span in
// isolation - and controls how many bytes are consumed from that offset,
// which may be more or fewer than pat matched. This is what lets a pattern
// teleport the cursor past text it never walked over, such as an
// already-captured heredoc body recorded by an earlier Hook, while a
// side-effecting Hook can echo back the original n to leave consumption
// untouched and optionally contribute a capture of its own.
func Hook(fn HookFunc, pat Pattern) Pattern {
	if fn == nil {
		return pat
	}
	return &patternHook{pat: pat, label: fmt.Sprintf("hook_%p", fn), fn: fn}
}

func (pat *patternHook) match(ctx *context) error {
	if !ctx.justReturned() {
		return ctx.call(pat.pat)
	}

	ret := ctx.ret
	if !ret.ok {
		return ctx.returnsPredication(false)
	}

	head := ctx.tell()
	n, cap, ok := pat.fn(ctx.text, head.Offest, ret.n, ctx.env)
	if !ok {
		return ctx.returnsPredication(false)
	}
	ctx.consume(n)
	if cap != nil {
		if err := ctx.push(cap); err != nil {
			return err
		}
	}
	return ctx.returnsMatched()
}

func (pat *patternHook) String() string {
	return fmt.Sprintf("%s(%s)", pat.label, pat.pat)
}
