package ast

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/qiyeboy/sh-parser/peg"
)

// tree is a minimal shape for comparing parse results with go-cmp without
// dragging position/source noise into every table entry: Kind plus either
// a nested list of child trees or a flattened primitive value.
type tree struct {
	Kind     Kind
	Value    string
	Children []tree
}

func simplify(c interface{}) tree {
	switch v := c.(type) {
	case *Node:
		t := tree{Kind: v.Kind}
		for _, child := range v.Children {
			t.Children = append(t.Children, simplify(child))
		}
		return t
	case StringValue:
		return tree{Kind: "String", Value: string(v)}
	case IntValue:
		return tree{Kind: "Int", Value: v.String()}
	default:
		return tree{Kind: "?"}
	}
}

func mustParse(t *testing.T, src string, opts Options) *Node {
	t.Helper()
	root, err := Parse([]byte(src), opts)
	if err != nil {
		t.Fatalf("Parse(%q) error: %v", src, err)
	}
	return root
}

func TestEndToEndScenarios(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want tree
	}{
		{
			name: "simple command with argument",
			src:  "echo hello\n",
			want: tree{Kind: KindProgram, Children: []tree{
				{Kind: KindCompleteCommand, Children: []tree{
					{Kind: KindSimpleCommand, Children: []tree{
						{Kind: KindCmdName, Children: []tree{{Kind: "String", Value: "echo"}}},
						{Kind: KindCmdArgument, Children: []tree{{Kind: "String", Value: "hello"}}},
					}},
				}},
			}},
		},
		{
			name: "assignments precede command name",
			src:  "a=1 b=2 cmd x\n",
			want: tree{Kind: KindProgram, Children: []tree{
				{Kind: KindCompleteCommand, Children: []tree{
					{Kind: KindSimpleCommand, Children: []tree{
						{Kind: KindAssignment, Children: []tree{
							{Kind: KindName, Children: []tree{{Kind: "String", Value: "a"}}},
							{Kind: KindWord, Children: []tree{{Kind: "String", Value: "1"}}},
						}},
						{Kind: KindAssignment, Children: []tree{
							{Kind: KindName, Children: []tree{{Kind: "String", Value: "b"}}},
							{Kind: KindWord, Children: []tree{{Kind: "String", Value: "2"}}},
						}},
						{Kind: KindCmdName, Children: []tree{{Kind: "String", Value: "cmd"}}},
						{Kind: KindCmdArgument, Children: []tree{{Kind: "String", Value: "x"}}},
					}},
				}},
			}},
		},
		{
			name: "if clause",
			src:  "if true; then echo yes; fi\n",
			want: tree{Kind: KindProgram, Children: []tree{
				{Kind: KindCompleteCommand, Children: []tree{
					{Kind: KindIfClause, Children: []tree{
						{Kind: KindCompleteCommand, Children: []tree{
							{Kind: KindSimpleCommand, Children: []tree{
								{Kind: KindCmdName, Children: []tree{{Kind: "String", Value: "true"}}},
							}},
						}},
						{Kind: KindCompleteCommand, Children: []tree{
							{Kind: KindSimpleCommand, Children: []tree{
								{Kind: KindCmdName, Children: []tree{{Kind: "String", Value: "echo"}}},
								{Kind: KindCmdArgument, Children: []tree{{Kind: "String", Value: "yes"}}},
							}},
						}},
					}},
				}},
			}},
		},
		{
			name: "heredoc",
			src:  "cat <<EOF\nhello\nEOF\n",
			want: tree{Kind: KindProgram, Children: []tree{
				{Kind: KindCompleteCommand, Children: []tree{
					{Kind: KindSimpleCommand, Children: []tree{
						{Kind: KindCmdName, Children: []tree{{Kind: "String", Value: "cat"}}},
						{Kind: KindIOHereDoc, Children: []tree{
							{Kind: "String", Value: "<<"},
							{Kind: "String", Value: "hello\n"},
						}},
					}},
				}},
			}},
		},
		{
			name: "dashed heredoc strips leading tabs",
			src:  "cat <<-END\n\thi\n\tEND\n",
			want: tree{Kind: KindProgram, Children: []tree{
				{Kind: KindCompleteCommand, Children: []tree{
					{Kind: KindSimpleCommand, Children: []tree{
						{Kind: KindCmdName, Children: []tree{{Kind: "String", Value: "cat"}}},
						{Kind: KindIOHereDoc, Children: []tree{
							{Kind: "String", Value: "<<-"},
							{Kind: "String", Value: "hi\n"},
						}},
					}},
				}},
			}},
		},
		{
			name: "and binds looser than pipe",
			src:  "a | b && c | d\n",
			want: tree{Kind: KindProgram, Children: []tree{
				{Kind: KindCompleteCommand, Children: []tree{
					{Kind: KindAndList, Children: []tree{
						{Kind: KindPipeSequence, Children: []tree{
							{Kind: KindSimpleCommand, Children: []tree{
								{Kind: KindCmdName, Children: []tree{{Kind: "String", Value: "a"}}},
							}},
							{Kind: KindSimpleCommand, Children: []tree{
								{Kind: KindCmdName, Children: []tree{{Kind: "String", Value: "b"}}},
							}},
						}},
						{Kind: KindPipeSequence, Children: []tree{
							{Kind: KindSimpleCommand, Children: []tree{
								{Kind: KindCmdName, Children: []tree{{Kind: "String", Value: "c"}}},
							}},
							{Kind: KindSimpleCommand, Children: []tree{
								{Kind: KindCmdName, Children: []tree{{Kind: "String", Value: "d"}}},
							}},
						}},
					}},
				}},
			}},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			root := mustParse(t, tc.src, Options{})
			got := simplify(root)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("tree mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNegativeScenarios(t *testing.T) {
	cases := []string{
		"&& a\n",
		"if then fi\n",
	}
	for _, src := range cases {
		if _, err := Parse([]byte(src), Options{}); err == nil {
			t.Errorf("Parse(%q): expected error, got none", src)
		}
	}
}

func TestOperatorDisambiguation(t *testing.T) {
	// "a & b" is one list of two async-separated commands, not an AndList:
	// '&' is a separator between and_or terms, unlike '&&' which joins two
	// pipelines into a single AndList node.
	root := mustParse(t, "a & b\n", Options{})
	if len(root.Children) != 1 {
		t.Fatalf("expected one complete command, got %d", len(root.Children))
	}
	complete := root.Children[0].(*Node)
	if complete.Kind != KindCompleteCommand || len(complete.Children) != 2 {
		t.Fatalf("expected CompleteCommand with two and_or children, got %#v", complete)
	}
	for _, c := range complete.Children {
		n, ok := c.(*Node)
		if !ok || n.Kind != KindSimpleCommand {
			t.Fatalf("expected SimpleCommand child, got %#v", c)
		}
	}

	root = mustParse(t, "a && b\n", Options{})
	if len(root.Children) != 1 {
		t.Fatalf("expected one complete command, got %d", len(root.Children))
	}
	inner := root.Children[0].(*Node)
	if len(inner.Children) != 1 || inner.Children[0].(*Node).Kind != KindAndList {
		t.Fatalf("expected a single AndList, got %#v", inner.Children)
	}
}

func TestReservedWordBoundary(t *testing.T) {
	root := mustParse(t, "ifoo\n", Options{})
	cmd := root.Children[0].(*Node).Children[0].(*Node)
	if cmd.Kind != KindSimpleCommand {
		t.Fatalf("expected SimpleCommand, got %#v", cmd)
	}
	name := cmd.Children[0].(*Node)
	if name.Kind != KindCmdName {
		t.Fatalf("expected CmdName, got %s", name.Kind)
	}
	if got := string(name.Children[0].(StringValue)); got != "ifoo" {
		t.Fatalf("expected CmdName %q, got %q", "ifoo", got)
	}
}

func TestCommentGating(t *testing.T) {
	src := "echo hi # trailing\n"

	root := mustParse(t, src, Options{})
	if containsComment(root) {
		t.Fatalf("expected no Comment node when Options.Comments is false")
	}

	root = mustParse(t, src, Options{Comments: true})
	if !containsComment(root) {
		t.Fatalf("expected a Comment node when Options.Comments is true")
	}
}

func containsComment(n *Node) bool {
	if n.Kind == KindComment {
		return true
	}
	for _, c := range n.Children {
		if child, ok := c.(*Node); ok && containsComment(child) {
			return true
		}
	}
	return false
}

func TestLocOptionsStripping(t *testing.T) {
	root := mustParse(t, "echo hi\n", Options{})
	if root.Pos != 0 || root.Line != 0 {
		t.Fatalf("expected zeroed positions with no Loc option, got Pos=%d Line=%d", root.Pos, root.Line)
	}

	root = mustParse(t, "echo hi\n", Options{Loc: true})
	if root.Pos == 0 || root.EndPos == 0 {
		t.Fatalf("expected Pos/EndPos set with Loc, got Pos=%d EndPos=%d", root.Pos, root.EndPos)
	}
	if root.Line != 0 || root.Col != 0 {
		t.Fatalf("expected Line/Col zeroed with plain Loc, got Line=%d Col=%d", root.Line, root.Col)
	}

	root = mustParse(t, "echo hi\n", Options{Loc2: true})
	if root.Line == 0 || root.Col == 0 || root.EndLine == 0 || root.EndCol == 0 {
		t.Fatalf("expected all positional fields set with Loc2, got %+v", root)
	}
}

func TestSourceFidelity(t *testing.T) {
	src := "echo hello\n"
	root := mustParse(t, src, Options{Loc: true, Source: true})

	var walk func(n *Node)
	walk = func(n *Node) {
		if n != root {
			if got, want := n.Source, src[n.Pos-1:n.EndPos-1]; got != want {
				t.Errorf("node %s: source %q, want %q", n.Kind, got, want)
			}
		}
		for _, c := range n.Children {
			if child, ok := c.(*Node); ok {
				walk(child)
			}
		}
	}
	walk(root)
}

func TestUnconsumedInputFails(t *testing.T) {
	if _, err := Parse([]byte("echo hi\n)"), Options{}); err == nil {
		t.Fatalf("expected an error for trailing unparsable input")
	}
}

func TestTraceFiresPerNode(t *testing.T) {
	var kinds []string
	opts := Options{Trace: func(rule string, pos peg.Position) { kinds = append(kinds, rule) }}
	if _, err := Parse([]byte("echo hi\n"), opts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(kinds) == 0 {
		t.Fatalf("expected Trace to fire at least once")
	}
}
