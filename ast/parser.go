package ast

import "github.com/qiyeboy/sh-parser/peg"

// Parse parses src as POSIX shell source and returns the resulting syntax
// tree rooted at a Program node. The grammar is compiled once per process
// (shellGrammar is a package-level var); each call only allocates a fresh
// heredoc tracker and post-processes the resulting tree according to opts,
// since options can't be baked into the grammar's cached closures.
func Parse(src []byte, opts Options) (*Node, error) {
	text := string(src)
	env := &parseEnv{heredocs: newHeredocState(), trace: opts.Trace}

	cfg := peg.Config{
		CallstackLimit: peg.DefaultCallstackLimit,
		LoopLimit:      peg.DefaultLoopLimit,
		Env:            env,
	}

	result, err := peg.ConfiguredMatch(cfg, shellGrammar, text)
	if err != nil {
		return nil, err
	}
	if !result.Ok {
		return nil, errorf("input does not match the shell grammar")
	}
	if result.N != len(text) {
		return nil, errorf("unconsumed input starting at byte %d", result.N+1)
	}
	if len(result.Captures) != 1 {
		return nil, errorf("internal error: expected one top-level capture, got %d", len(result.Captures))
	}
	root, ok := result.Captures[0].(*Node)
	if !ok {
		return nil, errorf("internal error: top-level capture is not a Node")
	}

	finalize(root, text, opts, true)
	return root, nil
}

// finalize walks the freshly built tree, dropping Comment nodes unless
// Options.Comments was requested, attaching Source substrings to non-root
// nodes when Options.Source was requested, and zeroing whichever of
// Pos/EndPos/Line/Col/EndLine/EndCol the caller didn't ask for.
func finalize(n *Node, text string, opts Options, isRoot bool) {
	if opts.Trace != nil {
		opts.Trace(string(n.Kind), peg.Position{Offest: n.Pos - 1, Line: n.Line - 1, Column: n.Col - 1})
	}

	n.Children = filterComments(n.Children, opts.Comments)
	for _, c := range n.Children {
		if child, ok := c.(*Node); ok {
			finalize(child, text, opts, false)
		}
	}

	if opts.Source && !isRoot {
		n.Source = text[n.Pos-1 : n.EndPos-1]
	}

	switch {
	case opts.Loc2:
		// keep every positional field
	case opts.Loc:
		n.Line, n.Col, n.EndLine, n.EndCol = 0, 0, 0, 0
	default:
		n.Pos, n.EndPos, n.Line, n.Col, n.EndLine, n.EndCol = 0, 0, 0, 0, 0, 0
	}
}

func filterComments(children []interface{}, keep bool) []interface{} {
	if keep {
		return children
	}
	hasComment := false
	for _, c := range children {
		if node, ok := c.(*Node); ok && node.Kind == KindComment {
			hasComment = true
			break
		}
	}
	if !hasComment {
		return children
	}
	out := make([]interface{}, 0, len(children))
	for _, c := range children {
		if node, ok := c.(*Node); ok && node.Kind == KindComment {
			continue
		}
		out = append(out, c)
	}
	return out
}
