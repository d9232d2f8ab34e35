package ast

import "github.com/qiyeboy/sh-parser/peg"

// TraceFunc receives one call per node of the returned tree, with the
// node's Kind and start position, purely for diagnostics; it has no effect
// on parsing. Rule matches that were backtracked over are not reported.
type TraceFunc func(rule string, pos peg.Position)

// Options controls what a Parse call attaches to the returned tree.
type Options struct {
	// Comments includes Comment nodes in the output. Comments are always
	// skipped by the grammar either way; this only controls whether the
	// node survives into the returned tree.
	Comments bool

	// Loc attaches Pos and EndPos (1-based byte offsets) to every node.
	Loc bool

	// Loc2 attaches Pos, EndPos, Line, Col, EndLine, EndCol. A superset of
	// Loc: setting Loc2 implies Loc.
	Loc2 bool

	// Source attaches the raw-source substring to every non-root node.
	Source bool

	// Trace, if non-nil, is called once per node of the returned tree.
	Trace TraceFunc
}

// parseEnv is the peg.MatchEnv threaded through one Parse call: the
// heredoc tracker plus whatever the grammar's match-time hooks need that
// isn't visible to a plain Pattern.
type parseEnv struct {
	heredocs *HeredocState
	trace    TraceFunc
}
