package peg

import "fmt"

// NonTerminalPosConstructor builds a non-terminal capture like
// NonTerminalConstructor does, but additionally receives the start and end
// position of the wrapped pattern's match - CC alone only hands the
// collected sub-captures, with no location attached.
type NonTerminalPosConstructor func(subs []Capture, start, end Position) (Capture, error)

type patternCaptureConsPos struct {
	pat  Pattern
	cons NonTerminalPosConstructor
}

// CCP constructs a non-terminal capture using cons, same as CC, except cons
// also receives the Position where pat started matching and the Position
// right after the last byte it matched. Grammar nodes
// that need both a position and an assembled list of children (as opposed
// to CT's terminal-with-span capture) use this.
func CCP(cons NonTerminalPosConstructor, pat Pattern) Pattern {
	return &patternCaptureConsPos{pat: pat, cons: cons}
}

func (pat *patternCaptureConsPos) match(ctx *context) error {
	if !ctx.justReturned() {
		head := ctx.tell()
		ctx.locals.aux = head.Offest
		ctx.beginArgs()
		return ctx.call(pat.pat)
	}

	ret := ctx.ret
	start := ctx.tellAt(ctx.locals.aux)
	args := ctx.popArgs()
	if !ret.ok {
		return ctx.returns(ret)
	}
	end := ctx.tellAt(ctx.locals.aux + ret.n)

	cap, err := pat.cons(args, start, end)
	if err != nil {
		return err
	}
	if err := ctx.push(cap); err != nil {
		return err
	}
	return ctx.returns(ret)
}

func (pat *patternCaptureConsPos) String() string {
	return fmt.Sprintf("conspos_%p{%s}", pat.cons, pat.pat)
}
