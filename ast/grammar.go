package ast

import "github.com/qiyeboy/sh-parser/peg"

// ws absorbs optional horizontal whitespace ahead of the next token. Real
// shells treat blanks as insignificant separators almost everywhere outside
// of quoting, so most rules below open with it.
var ws = peg.Q0(hspace)

// Redirections.

var (
	fileOpSymbol = peg.TS(">&", ">>", ">|", "<&", "<>", ">", "<")
	heredocOp    = peg.TS("<<-", "<<")

	ioNumberDigits = peg.Q1(peg.R('0', '9'))

	// ioNumber only consumes when its digits are immediately followed by a
	// redirection operator - otherwise a bare numeric word like "123" would
	// wrongly be swallowed as a prefix of an unrelated redirect.
	ioNumber = peg.Seq(
		peg.Test(peg.Seq(ioNumberDigits, peg.Alt(fileOpSymbol, heredocOp))),
		peg.CT(intCons, ioNumberDigits),
	)

	ioRedirectFile = peg.CCP(ioRedirectFileCons, peg.Seq(
		ws, peg.Q01(ioNumber), ws, peg.CT(stringCons, fileOpSymbol), ws, wordPattern,
	))

	dashedHeredoc = peg.Seq(ws, peg.CT(stringCons, peg.T("<<-")), ws, peg.Hook(captureHeredocBody(true), rawWordChars))
	plainHeredoc  = peg.Seq(ws, peg.CT(stringCons, peg.T("<<")), ws, peg.Hook(captureHeredocBody(false), rawWordChars))

	// dashedHeredoc must be tried first: plainHeredoc's "<<" is a strict
	// prefix of "<<-", so trying it first would swallow the dash as part of
	// the delimiter word instead of the operator.
	ioHereDoc = peg.CCP(ioHereDocCons, peg.Seq(ws, peg.Q01(ioNumber), peg.Alt(dashedHeredoc, plainHeredoc)))

	// A heredoc operator starts with the same "<" as io_file's forms, so it
	// must be tried first too.
	ioRedirect = peg.Alt(ioHereDoc, ioRedirectFile)
)

func ioRedirectFileCons(subs []peg.Capture, start, end peg.Position) (peg.Capture, error) {
	return newNode(KindIORedirectFile, toChildren(subs), start, end), nil
}

func ioHereDocCons(subs []peg.Capture, start, end peg.Position) (peg.Capture, error) {
	return newNode(KindIOHereDoc, toChildren(subs), start, end), nil
}

// Assignments.

var assignmentRule = peg.CCP(assignmentCons, peg.Seq(ws, nameNode, peg.T("="), peg.Q01(wordPattern)))

func assignmentCons(subs []peg.Capture, start, end peg.Position) (peg.Capture, error) {
	return newNode(KindAssignment, toChildren(subs), start, end), nil
}

// Separators and blank/comment-absorbing newlines.

var (
	separatorOp = peg.Alt(opAmp, opSemi)

	// nlWithSkip wraps every newline the grammar crosses with the heredoc
	// skip hook, so a heredoc body already captured by an earlier
	// redirection on the same line is teleported over rather than
	// re-walked as ordinary shell syntax.
	nlWithSkip = peg.Hook(skipHeredocBody(), peg.T("\n"))

	// commentThenNL absorbs a line's trailing blanks, an optional comment
	// and its terminating newline. Comment nodes are always produced here;
	// Options.Comments only gates whether Parse's post-pass keeps them.
	commentThenNL = peg.Seq(ws, peg.Q01(commentPattern), nlWithSkip)

	newlineList = peg.Q1(commentThenNL)
	linebreak   = peg.Q01(newlineList)

	separator     = peg.Alt(peg.Seq(ws, separatorOp, linebreak), newlineList)
	sequentialSep = peg.Alt(peg.Seq(ws, opSemi, linebreak), newlineList)
)

// block wraps one compound_list's flattened and_or/comment captures in a
// single CompleteCommand node. Only sections that coexist with a sibling
// section built from the same pool of Kinds (an if/while/until's condition
// next to its body) need this: without a wrapper there would be no way to
// tell where one section's and_or list ends and the next begins. Subshell,
// BraceGroup, a for-loop's body and a case item's body each have exactly
// one such section, so they embed compound_list unwrapped instead.
func block(pat peg.Pattern) peg.Pattern {
	return peg.CCP(blockCons, pat)
}

func blockCons(subs []peg.Capture, start, end peg.Position) (peg.Capture, error) {
	return newNode(KindCompleteCommand, toChildren(subs), start, end), nil
}

// caseItemEntry builds one case_item alternative. requireSemi controls
// whether a trailing ";;" (and the linebreak after it) is mandatory - every
// item but the last one directly preceding "esac" requires it.
func caseItemEntry(requireSemi bool) peg.Pattern {
	trailing := peg.True
	if requireSemi {
		trailing = peg.Seq(ws, peg.T(";;"), linebreak)
	}
	return peg.CCP(caseItemCons, peg.Seq(
		peg.Q01(peg.Seq(ws, opLParen)),
		ws, patternRule,
		ws, opRParen,
		linebreak,
		peg.Q01(peg.V("compound_list")),
		trailing,
	))
}

func caseItemCons(subs []peg.Capture, start, end peg.Position) (peg.Capture, error) {
	return newNode(KindCaseItem, toChildren(subs), start, end), nil
}

// Cons functions for the mutually recursive core.

func andOrCons(subs []peg.Capture, start, end peg.Position) (peg.Capture, error) {
	if len(subs) == 1 {
		return subs[0], nil
	}
	op, ok := subs[1].(StringValue)
	if !ok {
		return nil, errorf("and_or: expected operator capture, got %T", subs[1])
	}
	kind := KindAndList
	if op == "||" {
		kind = KindOrList
	}
	return newNode(kind, []interface{}{subs[0], subs[2]}, start, end), nil
}

func pipeSeqCons(subs []peg.Capture, start, end peg.Position) (peg.Capture, error) {
	if len(subs) == 1 {
		return subs[0], nil
	}
	return newNode(KindPipeSequence, toChildren(subs), start, end), nil
}

func notCons(subs []peg.Capture, start, end peg.Position) (peg.Capture, error) {
	return newNode(KindNot, toChildren(subs), start, end), nil
}

func simpleCommandCons(subs []peg.Capture, start, end peg.Position) (peg.Capture, error) {
	return newNode(KindSimpleCommand, toChildren(subs), start, end), nil
}

// compoundWithRedirsCons implements command's "compound_command
// redirect_list?" alternative. With no trailing redirects it collapses to
// the compound node itself, avoiding a pointless wrapper; with one or more,
// it extends that same node's children and end position rather than
// inventing a new wrapper Kind, since every compound-command Kind already
// exists in its own right.
func compoundWithRedirsCons(subs []peg.Capture, start, end peg.Position) (peg.Capture, error) {
	compound, ok := subs[0].(*Node)
	if !ok {
		return nil, errorf("compound command: expected *Node, got %T", subs[0])
	}
	if len(subs) == 1 {
		return compound, nil
	}
	children := append(append([]interface{}{}, compound.Children...), toChildren(subs[1:])...)
	return &Node{
		Kind:     compound.Kind,
		Children: children,
		Pos:      compound.Pos,
		Line:     compound.Line,
		Col:      compound.Col,
		EndPos:   end.Offest + 1,
		EndLine:  end.Line + 1,
		EndCol:   end.Column + 1,
	}, nil
}

func funcDefCons(subs []peg.Capture, start, end peg.Position) (peg.Capture, error) {
	return newNode(KindFunctionDef, toChildren(subs), start, end), nil
}

func braceGroupCons(subs []peg.Capture, start, end peg.Position) (peg.Capture, error) {
	return newNode(KindBraceGroup, toChildren(subs), start, end), nil
}

func subshellCons(subs []peg.Capture, start, end peg.Position) (peg.Capture, error) {
	return newNode(KindSubshell, toChildren(subs), start, end), nil
}

func forClauseCons(subs []peg.Capture, start, end peg.Position) (peg.Capture, error) {
	return newNode(KindForClause, toChildren(subs), start, end), nil
}

func caseClauseCons(subs []peg.Capture, start, end peg.Position) (peg.Capture, error) {
	return newNode(KindCaseClause, toChildren(subs), start, end), nil
}

func ifClauseCons(subs []peg.Capture, start, end peg.Position) (peg.Capture, error) {
	return newNode(KindIfClause, toChildren(subs), start, end), nil
}

func whileClauseCons(subs []peg.Capture, start, end peg.Position) (peg.Capture, error) {
	return newNode(KindWhileClause, toChildren(subs), start, end), nil
}

func untilClauseCons(subs []peg.Capture, start, end peg.Position) (peg.Capture, error) {
	return newNode(KindUntilClause, toChildren(subs), start, end), nil
}

func programCons(subs []peg.Capture, start, end peg.Position) (peg.Capture, error) {
	return newNode(KindProgram, toChildren(subs), start, end), nil
}

// simpleCommandRule, cmdPrefixItem and cmdSuffixItem never recurse back
// into command/compound_command, so they live outside the Let namespace
// below as ordinary package vars; "command" references simpleCommandRule
// directly.
var (
	cmdPrefixItem = peg.Alt(assignmentRule, ioRedirect)
	cmdSuffixItem = peg.Alt(ioRedirect, peg.Seq(ws, cmdArgumentRule))

	simpleCommandRule = peg.Alt(
		peg.CCP(simpleCommandCons, peg.Seq(peg.Q1(cmdPrefixItem), peg.Q01(peg.Seq(ws, cmdNameRule, peg.Q0(cmdSuffixItem))))),
		peg.CCP(simpleCommandCons, peg.Seq(ws, cmdNameRule, peg.Q0(cmdSuffixItem))),
	)
)

// shellGrammarVars holds every rule that recurses, directly or indirectly,
// back to "command" - and_or, pipelines, every compound command, and the
// compound_list/term machinery that joins their bodies. They have to share
// one peg.Let namespace and talk to each other through peg.V, since a
// literal Go value graph with a genuine cycle can't be constructed.
var shellGrammarVars = map[string]peg.Pattern{
	"and_or": peg.CCP(andOrCons, peg.Seq(
		peg.V("pipeline"),
		peg.Q01(peg.Seq(ws, peg.CT(stringCons, peg.Alt(peg.T("&&"), peg.T("||"))), linebreak, peg.V("and_or"))),
	)),

	"pipeline": peg.Alt(
		peg.CCP(notCons, peg.Seq(kwBang, peg.V("pipe_sequence"))),
		peg.V("pipe_sequence"),
	),

	"pipe_sequence": peg.CCP(pipeSeqCons, peg.Seq(
		peg.V("command"),
		peg.Q0(peg.Seq(ws, opPipe, linebreak, peg.V("command"))),
	)),

	"command": peg.Alt(
		peg.V("function_definition"),
		peg.CCP(compoundWithRedirsCons, peg.Seq(peg.V("compound_command"), peg.Q0(ioRedirect))),
		simpleCommandRule,
	),

	"compound_command": peg.Alt(
		peg.V("brace_group"),
		peg.V("subshell"),
		peg.V("for_clause"),
		peg.V("case_clause"),
		peg.V("if_clause"),
		peg.V("while_clause"),
		peg.V("until_clause"),
	),

	"function_definition": peg.CCP(funcDefCons, peg.Seq(
		ws, nameNode, ws, opLParen, ws, opRParen, linebreak,
		peg.V("compound_command"), peg.Q0(ioRedirect),
	)),

	"brace_group": peg.CCP(braceGroupCons, peg.Seq(kwLBrace, peg.V("compound_list"), kwRBrace)),

	"subshell": peg.CCP(subshellCons, peg.Seq(ws, opLParen, peg.V("compound_list"), ws, opRParen)),

	"for_clause": peg.CCP(forClauseCons, peg.Seq(
		kwFor, ws, nameNode,
		peg.Alt(
			peg.Seq(linebreak, kwIn, peg.Q0(peg.Seq(ws, wordPattern)), sequentialSep),
			linebreak,
		),
		kwDo, peg.V("compound_list"), kwDone,
	)),

	"case_clause": peg.CCP(caseClauseCons, peg.Seq(
		kwCase, ws, wordPattern, linebreak, kwIn, linebreak,
		peg.Q0(caseItemEntry(true)), peg.Q01(caseItemEntry(false)),
		kwEsac,
	)),

	"if_clause": peg.CCP(ifClauseCons, peg.Seq(
		kwIf, block(peg.V("compound_list")), kwThen, block(peg.V("compound_list")), peg.V("if_tail"), kwFi,
	)),

	"if_tail": peg.Q01(peg.Alt(
		peg.CCP(ifClauseCons, peg.Seq(kwElif, block(peg.V("compound_list")), kwThen, block(peg.V("compound_list")), peg.V("if_tail"))),
		peg.Seq(kwElse, block(peg.V("compound_list"))),
	)),

	"while_clause": peg.CCP(whileClauseCons, peg.Seq(
		kwWhile, block(peg.V("compound_list")), kwDo, block(peg.V("compound_list")), kwDone,
	)),

	"until_clause": peg.CCP(untilClauseCons, peg.Seq(
		kwUntil, block(peg.V("compound_list")), kwDo, block(peg.V("compound_list")), kwDone,
	)),

	// term_items and compound_list never construct a node of their own;
	// their and_or/comment captures flow straight through to whichever
	// CCP-producing rule embeds them.
	"term_items":    peg.Seq(peg.V("and_or"), peg.Q0(peg.Seq(separator, peg.V("and_or")))),
	"compound_list": peg.Seq(linebreak, peg.V("term_items"), peg.Q01(separator)),

	"list_items":       peg.Seq(peg.V("and_or"), peg.Q0(peg.Seq(ws, separatorOp, peg.V("and_or")))),
	"complete_command": peg.CCP(blockCons, peg.Seq(peg.V("list_items"), peg.Q01(peg.Seq(ws, separatorOp)))),
}

// shellGrammar is the single compiled grammar, shared process-wide. Program
// is its own Go var (nothing recurses back into it) but still needs the
// same Let scope to resolve its peg.V("complete_command") reference.
var shellGrammar = peg.Let(shellGrammarVars, peg.CCP(programCons, peg.Seq(
	linebreak,
	peg.Q01(peg.Seq(peg.V("complete_command"), peg.Q0(peg.Seq(newlineList, peg.V("complete_command"))))),
	linebreak,
	peg.EOF,
)))
