// Package ast defines the shell syntax tree and the grammar that builds it.
//
// Grammar rules and the node types they construct live in one package,
// mirroring how mvdan.cc/sh keeps its parser and syntax tree together:
// rule constructors build *Node values directly, so splitting types from
// grammar would only introduce an import cycle.
package ast

import (
	"fmt"

	"github.com/qiyeboy/sh-parser/peg"
)

// Kind identifies the syntactic category of a Node.
type Kind string

const (
	KindProgram          Kind = "Program"
	KindCompleteCommand  Kind = "CompleteCommand"
	KindAndList          Kind = "AndList"
	KindOrList           Kind = "OrList"
	KindPipeline         Kind = "Pipeline"
	KindNot              Kind = "Not"
	KindPipeSequence     Kind = "PipeSequence"
	KindFunctionDef      Kind = "FunctionDefinition"
	KindSubshell         Kind = "Subshell"
	KindBraceGroup       Kind = "BraceGroup"
	KindForClause        Kind = "ForClause"
	KindCaseClause       Kind = "CaseClause"
	KindCaseItem         Kind = "CaseItem"
	KindPattern          Kind = "Pattern"
	KindIfClause         Kind = "IfClause"
	KindWhileClause      Kind = "WhileClause"
	KindUntilClause      Kind = "UntilClause"
	KindSimpleCommand    Kind = "SimpleCommand"
	KindCmdName          Kind = "CmdName"
	KindCmdArgument      Kind = "CmdArgument"
	KindAssignment       Kind = "Assignment"
	KindIORedirectFile   Kind = "IORedirectFile"
	KindIOHereDoc        Kind = "IOHereDoc"
	KindName             Kind = "Name"
	KindWord             Kind = "Word"
	KindComment          Kind = "Comment"
)

// Node is one node of the parsed syntax tree. Children holds either nested
// *Node values or primitive captures (string, int) in source order.
//
// Pos/EndPos/Line/Col/EndLine/EndCol/Source are only populated when the
// corresponding Options were requested of Parse; Parse builds every field
// internally and strips what wasn't asked for in a single post-pass, since
// the compiled grammar is cached process-wide and must not bake per-call
// options into its closures.
type Node struct {
	Kind     Kind          `json:"kind"`
	Children []interface{} `json:"children"`

	Pos     int `json:"pos,omitempty"`
	EndPos  int `json:"endpos,omitempty"`
	Line    int `json:"line,omitempty"`
	Col     int `json:"col,omitempty"`
	EndLine int `json:"end_line,omitempty"`
	EndCol  int `json:"end_col,omitempty"`

	Source string `json:"source,omitempty"`
}

// IsTerminal satisfies peg.Capture; Node is always a non-terminal capture.
func (*Node) IsTerminal() bool { return false }

func (n *Node) String() string {
	return fmt.Sprintf("%s@%d:%d", n.Kind, n.Pos, n.EndPos)
}

// StringValue is a primitive string capture (Name text, quoted text,
// comment bodies, file-operator symbols, heredoc bodies).
type StringValue string

// IsTerminal satisfies peg.Capture.
func (StringValue) IsTerminal() bool { return true }

func (v StringValue) String() string { return string(v) }

// IntValue is a primitive integer capture (io-number).
type IntValue int

// IsTerminal satisfies peg.Capture.
func (IntValue) IsTerminal() bool { return true }

func (v IntValue) String() string { return fmt.Sprintf("%d", int(v)) }

// newNode builds a Node with every positional field always populated
// (1-based, unlike peg.Position's 0-based offset/line/column). Parse strips
// whatever a call's Options didn't request in a single post-pass, so every
// constructor below can build full annotations unconditionally.
func newNode(kind Kind, children []interface{}, start, end peg.Position) *Node {
	return &Node{
		Kind:     kind,
		Children: children,
		Pos:      start.Offest + 1,
		EndPos:   end.Offest + 1,
		Line:     start.Line + 1,
		Col:      start.Column + 1,
		EndLine:  end.Line + 1,
		EndCol:   end.Column + 1,
	}
}

// toChildren widens a capture slice to Node.Children's element type.
func toChildren(subs []peg.Capture) []interface{} {
	children := make([]interface{}, len(subs))
	for i, s := range subs {
		children[i] = s
	}
	return children
}
