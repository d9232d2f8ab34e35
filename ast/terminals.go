package ast

import "github.com/qiyeboy/sh-parser/peg"

// operatorChars is every byte that can start or appear inside one of the
// single/multi-character shell operators (spec §4.1). Word-boundary checks
// and the unquoted-character predicate both need this set.
const operatorChars = "&><()|;"

var (
	hspace = peg.S(" \t")

	// Single-character operators. Each one that is also the prefix of its
	// own doubled form (&&, ||, <<, >>, ;;) excludes that form via negative
	// lookahead, per spec §4.1's contract. '(' and ')' have no doubled
	// operator form, so they need no lookahead.
	opAmp    = peg.Seq(peg.T("&"), peg.Not(peg.T("&")))
	opGt     = peg.Seq(peg.T(">"), peg.Not(peg.T(">")))
	opLt     = peg.Seq(peg.T("<"), peg.Not(peg.T("<")))
	opLParen = peg.T("(")
	opPipe   = peg.Seq(peg.T("|"), peg.Not(peg.T("|")))
	opRParen = peg.T(")")
	opSemi   = peg.Seq(peg.T(";"), peg.Not(peg.T(";")))

	singleCharOperator = peg.Alt(opAmp, opGt, opLt, opLParen, opPipe, opRParen, opSemi)

	// Multi-character operators. TS resolves the longest match through its
	// prefix tree regardless of table order (the "sort them?" concern in
	// spec §9 is moot for TS-based tables the same way it is for reserved
	// words), so <<- is found ahead of << without any explicit ordering.
	multiCharOperator = peg.TS("&&", ">|", ">>", "<<-", "<<", ";;", ">&", "<&", "<>", "||")

	// operator tries the longer multi-character forms first, honoring the
	// "longer alternative first" ordered-choice policy spec §4.4 calls for.
	operator = peg.Alt(multiCharOperator, singleCharOperator)

	reservedWordTable = []string{
		"case", "do", "done", "elif", "else", "esac", "fi", "for",
		"if", "then", "until", "while", "!", "in", "{", "}",
	}

	// wordBoundary is whitespace, newline, end-of-file, or an operator
	// character - the positions where a reserved word or Name may end.
	// Beginning-of-file never arises here since the boundary is only ever
	// tested forward of an already-matched literal.
	wordBoundary = peg.Or(peg.EOF, hspace, peg.T("\n"), peg.S(operatorChars))

	// reservedWord matches one of the table entries followed by a word
	// boundary, without consuming it (the boundary is a lookahead).
	reservedWord = peg.Seq(peg.TS(reservedWordTable...), peg.Test(wordBoundary))

	nameStartChar = peg.Alt(peg.R('a', 'z', 'A', 'Z'), peg.S("_"))
	nameTailChar  = peg.Alt(peg.R('a', 'z', 'A', 'Z', '0', '9'), peg.S("_"))
	namePattern   = peg.Seq(nameStartChar, peg.Q0(nameTailChar))
)

// kw matches a reserved word literally, skipping leading horizontal
// whitespace first and requiring (without consuming) a word boundary after.
func kw(word string) peg.Pattern {
	return peg.Seq(ws, peg.T(word), peg.Test(wordBoundary))
}

var (
	kwCase   = kw("case")
	kwDo     = kw("do")
	kwDone   = kw("done")
	kwElif   = kw("elif")
	kwElse   = kw("else")
	kwEsac   = kw("esac")
	kwFi     = kw("fi")
	kwFor    = kw("for")
	kwIf     = kw("if")
	kwThen   = kw("then")
	kwUntil  = kw("until")
	kwWhile  = kw("while")
	kwBang   = kw("!")
	kwIn     = kw("in")
	kwLBrace = kw("{")
	kwRBrace = kw("}")
)
