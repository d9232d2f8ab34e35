package peg

import "unicode/utf8"

// Running state of pattern matching.
type context struct {
	// Configuration
	config Config

	// Match-time environment shared by Hook patterns.
	env MatchEnv

	// Text
	text  string // current matched text is text[at-n:at])
	at    int
	n     int
	pcalc positionCalculator

	// Current stack frame
	pat    Pattern
	locals localValues
	isret  bool
	ret    returnValues // allow accessing from pat.match(ctx)

	// Call stack
	levels    int // execute(pat) won't push callstack, use additional counter instead
	callstack []stackFrame

	// Grammar tree construction
	scopes   []map[string]Pattern
	capstack []captureThunk
}

// Local values of running pattern.
type localValues struct {
	i   int // loop counter
	aux int // scratch slot, used by CCP to stash the pre-call byte offset
}

// Return values of pattern match
type returnValues struct {
	ok bool
	n  int
}

// Callstack frame.
type stackFrame struct {
	pat    Pattern
	at     int
	n      int
	locals localValues
	levels int
}

// Incomplete grammar tree construction.
type captureThunk struct {
	cons NonTerminalConstructor
	args []Capture
}

func newContext(pat Pattern, text string, config Config) *context {
	ctx := &context{}
	ctx.reset(pat, text, config)
	return ctx
}

func (ctx *context) reset(pat Pattern, text string, config Config) {
	ctx.config = config
	ctx.env = config.Env

	ctx.text = text
	ctx.at = 0
	ctx.n = 0
	ctx.pcalc = positionCalculator{text: text}

	ctx.pat = pat
	ctx.locals = localValues{}
	ctx.isret = false
	ctx.ret = returnValues{}

	ctx.levels = 0
	ctx.callstack = nil

	ctx.scopes = nil
	ctx.capstack = []captureThunk{{cons: nil, args: nil}}
}

// The main loop.
func (ctx *context) match() error {
	for ctx.pat != nil {
		// ctx.pat.match(ctx) yields when:
		//   1) return ctx.call(callee)
		//      or return ctx.execute(callee)
		//   2) return ctx.returns(ret)
		//      or return ctx.returnsPredication(ok)
		//      or return ctx.returnsMatched()
		//   3) return any_error
		err := ctx.pat.match(ctx)
		if err != nil {
			return err
		}
	}
	return nil
}

// Invoke callee, and backups stack frame and matching state.
func (ctx *context) call(callee Pattern) error {
	// backup stack frame
	if ctx.config.CallstackLimit > 0 &&
		ctx.levels >= ctx.config.CallstackLimit {
		return errorCallstackOverflow
	}
	ctx.callstack = append(ctx.callstack, stackFrame{
		pat:    ctx.pat,
		at:     ctx.at,
		n:      ctx.n,
		locals: ctx.locals,
		levels: ctx.levels,
	})
	ctx.levels++

	// skip the matched span.
	ctx.n = 0

	// setup stack frame
	ctx.pat = callee
	ctx.locals = localValues{}
	ctx.isret = false
	ctx.ret = returnValues{}

	return nil
}

// Invoke callee, but do not backups stack frame.
// No text should be already consumed before execute.
func (ctx *context) execute(callee Pattern) error {
	// assert no text already consumed
	if ctx.n != 0 {
		return errorExecuteWhenConsumed
	}

	// increase call level counter
	if ctx.config.CallstackLimit > 0 &&
		ctx.levels >= ctx.config.CallstackLimit {
		return errorCallstackOverflow
	}
	ctx.levels++

	// setup stack frame
	ctx.pat = callee
	ctx.locals = localValues{}
	ctx.isret = false
	ctx.ret = returnValues{}

	return nil
}

// Returns to uplevel, predicates if matched, empty text is matched text.
func (ctx *context) returnsPredication(ok bool) error {
	return ctx.returns(returnValues{ok: ok, n: 0})
}

// Returns to uplevel, the consumed text is matched.
func (ctx *context) returnsMatched() error {
	return ctx.returns(returnValues{ok: true, n: ctx.n})
}

// Returns to uplevel.
func (ctx *context) returns(ret returnValues) error {
	ctx.isret = true
	ctx.ret = ret

	if len(ctx.callstack) > 0 {
		// pop callstack
		if len(ctx.callstack) < 1 || ctx.levels < 1 {
			return errorCornerCase
		}
		frame := ctx.callstack[len(ctx.callstack)-1]
		ctx.callstack = ctx.callstack[:len(ctx.callstack)-1]
		ctx.levels--

		// recover stack frame
		ctx.pat = frame.pat
		ctx.at = frame.at
		ctx.n = frame.n
		ctx.locals = frame.locals
		ctx.levels = frame.levels
	} else {
		// terminate pattern matching normally
		ctx.pat = nil
	}
	return nil
}

// Tests if just returned from a callee.
func (ctx *context) justReturned() bool {
	isret := ctx.isret
	ctx.isret = false
	return isret
}

// Tests if the looping counter reached loop limit.
func (ctx *context) reachedLoopLimit() bool {
	return ctx.config.LoopLimit > 0 && ctx.locals.i >= ctx.config.LoopLimit
}

// Moves cursor forward. No bound check against what this frame actually
// matched: callers such as Hook rely on being able to advance past text
// they never themselves walked over (e.g. an already-captured heredoc body).
func (ctx *context) consume(n int) {
	ctx.n += n
	ctx.at += n
}

// Tell the position of cursor.
func (ctx *context) tell() Position {
	return ctx.tellAt(ctx.at)
}

// Tell the position of an arbitrary byte offset in the source text.
func (ctx *context) tellAt(offset int) Position {
	if ctx.config.DisableLineColumnCounting {
		return Position{Offest: offset}
	}
	return ctx.pcalc.calculate(offset)
}

// Tell the matched text.
func (ctx *context) span() string {
	return ctx.text[ctx.at-ctx.n : ctx.at]
}

// Reads next n bytes.
func (ctx *context) readNext(n int) string {
	tail := ctx.text[ctx.at:]
	if len(tail) < n {
		return tail
	}
	return tail[:n]
}

// Reads previous n bytes.
func (ctx *context) readPrev(n int) string {
	if ctx.at < n {
		return ctx.text[:ctx.at]
	}
	return ctx.text[ctx.at-n : ctx.at]
}

// Reads next rune.
func (ctx *context) readRune() (r rune, n int) {
	return utf8.DecodeRuneInString(ctx.text[ctx.at:])
}

// Enter the given namespace, overriding uplevel definitions.
func (ctx *context) enter(namespace map[string]Pattern) {
	ctx.scopes = append(ctx.scopes, namespace)
}

// Leave current namespace.
func (ctx *context) leave() {
	ctx.scopes = ctx.scopes[:len(ctx.scopes)-1]
}

// Looks up variable definition, gets nil if undefined.
func (ctx *context) lookup(name string) Pattern {
	for i := len(ctx.scopes) - 1; i >= 0; i-- {
		namespace := ctx.scopes[i]
		if pat, ok := namespace[name]; ok {
			return pat
		}
	}
	return nil
}

// Pushes a constructed capture (terminal or non-terminal).
func (ctx *context) push(cap Capture) error {
	if ctx.config.DisableCapturing {
		return nil
	}

	if len(ctx.capstack) < 1 {
		return errorCornerCase
	}

	argsp := &ctx.capstack[len(ctx.capstack)-1].args
	*argsp = append(*argsp, cap)
	return nil
}

// Begins non-terminal construction.
func (ctx *context) begin(cons NonTerminalConstructor) {
	if ctx.config.DisableCapturing {
		return
	}

	ctx.capstack = append(ctx.capstack, captureThunk{
		cons: cons,
		args: nil,
	})
}

// Ends up current non-terminal construction.
func (ctx *context) end(matched bool) error {
	if ctx.config.DisableCapturing {
		return nil
	}

	if len(ctx.capstack) < 2 {
		return errorCornerCase
	}

	thunk := ctx.capstack[len(ctx.capstack)-1]
	ctx.capstack = ctx.capstack[:len(ctx.capstack)-1]

	if !matched {
		return nil
	}

	if thunk.cons == nil {
		return errorNilConstructor
	}
	cap, err := thunk.cons(thunk.args)
	if err != nil {
		return err
	}
	return ctx.push(cap)
}

// beginArgs opens an anonymous capture frame with no constructor attached,
// for callers (like CCP) that decide how to build the capture only after
// seeing whether the sub-pattern matched.
func (ctx *context) beginArgs() {
	if ctx.config.DisableCapturing {
		return
	}
	ctx.capstack = append(ctx.capstack, captureThunk{cons: nil, args: nil})
}

// popArgs closes the anonymous capture frame opened by beginArgs, returning
// the captures collected under it without invoking any constructor.
func (ctx *context) popArgs() []Capture {
	if ctx.config.DisableCapturing {
		return nil
	}
	thunk := ctx.capstack[len(ctx.capstack)-1]
	ctx.capstack = ctx.capstack[:len(ctx.capstack)-1]
	return thunk.args
}
