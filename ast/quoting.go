package ast

import (
	"strings"

	"github.com/qiyeboy/sh-parser/peg"
)

// resolveEscapes removes the backslash of every backslash-char pair in raw,
// collapsing a backslash-newline pair (line continuation) to nothing. It is
// the generic escaped(p) rule from the grammar description, applied once
// the whole raw span of a segment has been matched.
func resolveEscapes(raw string) string {
	if !strings.Contains(raw, "\\") {
		return raw
	}
	var b strings.Builder
	b.Grow(len(raw))
	for i := 0; i < len(raw); i++ {
		if raw[i] == '\\' && i+1 < len(raw) {
			i++
			if raw[i] == '\n' {
				continue
			}
		}
		b.WriteByte(raw[i])
	}
	return b.String()
}

func stringCons(span string, _ peg.Position) (peg.Capture, error) {
	return StringValue(span), nil
}

func unescapeCons(span string, _ peg.Position) (peg.Capture, error) {
	return StringValue(resolveEscapes(span)), nil
}

func intCons(span string, _ peg.Position) (peg.Capture, error) {
	n := 0
	for i := 0; i < len(span); i++ {
		n = n*10 + int(span[i]-'0')
	}
	return IntValue(n), nil
}

var (
	// doubleQuotedContent and singleQuotedContent match a quoted body's raw
	// bytes, excluding the surrounding quotes. They are shared, uncaptured,
	// between the capturing quoted-segment patterns below and rawWordChars,
	// which needs to recognize the same shapes without pushing captures.
	doubleQuotedContent = peg.Q0(peg.Alt(peg.Seq(peg.T(`\`), peg.Dot), peg.NS(`"\`)))
	singleQuotedContent = peg.Q0(peg.NS("'"))

	doubleQuoted = peg.Seq(peg.T(`"`), peg.CT(unescapeCons, doubleQuotedContent), peg.T(`"`))
	singleQuoted = peg.Seq(peg.T("'"), peg.CT(stringCons, singleQuotedContent), peg.T("'"))

	// excludedUnquotedChars lists every byte an unquoted run cannot contain
	// literally: whitespace, newline, both quote characters, the backslash
	// itself (handled by the escaped-form branch instead) and every
	// operator character.
	excludedUnquotedChars = " \t\n'\"\\" + operatorChars

	unquotedChar = peg.Alt(peg.Seq(peg.T(`\`), peg.Dot), peg.NS(excludedUnquotedChars))
	unquotedRun  = peg.CT(unescapeCons, peg.Q1(unquotedChar))

	wordSegment = peg.Alt(doubleQuoted, singleQuoted, unquotedRun)

	// wordShape is the capturing shape of a Word: one or more quoted or
	// unquoted segments, never starting with '#' (that starts a comment
	// instead). Each alternative of wordSegment pushes one StringValue
	// fragment; wordCons/cmdNameCons/cmdArgumentCons flatten them.
	wordShape = peg.Seq(peg.Not(peg.T("#")), peg.Q1(wordSegment))

	// rawWordChars matches the identical character-level grammar as
	// wordShape, but pushes no captures at all. It is used where only the
	// raw delimiter text is needed (heredoc redirect targets, inside a
	// Hook) - reusing wordShape there would leak its segment captures into
	// whatever capture frame happens to be open at the Hook call site.
	rawWordChars = peg.Seq(peg.Not(peg.T("#")), peg.Q1(peg.Alt(
		peg.Seq(peg.T(`"`), doubleQuotedContent, peg.T(`"`)),
		peg.Seq(peg.T("'"), singleQuotedContent, peg.T("'")),
		peg.Q1(unquotedChar),
	)))
)

func assembleWordSegments(subs []peg.Capture) string {
	var b strings.Builder
	for _, s := range subs {
		if sv, ok := s.(StringValue); ok {
			b.WriteString(string(sv))
		}
	}
	return b.String()
}

func wordCons(subs []peg.Capture, start, end peg.Position) (peg.Capture, error) {
	return newNode(KindWord, []interface{}{StringValue(assembleWordSegments(subs))}, start, end), nil
}

func cmdNameCons(subs []peg.Capture, start, end peg.Position) (peg.Capture, error) {
	return newNode(KindCmdName, []interface{}{StringValue(assembleWordSegments(subs))}, start, end), nil
}

func cmdArgumentCons(subs []peg.Capture, start, end peg.Position) (peg.Capture, error) {
	return newNode(KindCmdArgument, []interface{}{StringValue(assembleWordSegments(subs))}, start, end), nil
}

var (
	// wordPattern produces a Word node, used anywhere the grammar needs a
	// standalone word value: redirect targets, assignment values, case
	// subjects and patterns.
	wordPattern = peg.CCP(wordCons, wordShape)

	// cmdNameRule produces a CmdName node; command names may not be
	// reserved words.
	cmdNameRule = peg.Seq(peg.Not(reservedWord), peg.CCP(cmdNameCons, wordShape))

	// cmdArgumentRule produces a CmdArgument node for simple-command
	// suffix words.
	cmdArgumentRule = peg.CCP(cmdArgumentCons, wordShape)

	nameNode = peg.CCP(nameNodeCons, peg.Seq(peg.Not(reservedWord), peg.CT(stringCons, namePattern)))
)

func nameNodeCons(subs []peg.Capture, start, end peg.Position) (peg.Capture, error) {
	return newNode(KindName, toChildren(subs), start, end), nil
}

// commentPrecedingOK accepts a '#' only at the beginning of input or right
// after whitespace, a newline, ';' or '&' - the contexts where a comment
// may legally start.
func commentPrecedingOK(text string, pos, n int, env peg.MatchEnv) (int, peg.Capture, bool) {
	if pos == 0 {
		return n, nil, true
	}
	switch text[pos-1] {
	case ' ', '\t', '\n', ';', '&':
		return n, nil, true
	}
	return n, nil, false
}

var (
	commentSigil = peg.Hook(commentPrecedingOK, peg.T("#"))
	commentBody  = peg.CT(stringCons, peg.Q0(peg.NS("\n")))

	commentPattern = peg.CCP(commentCons, peg.Seq(commentSigil, commentBody))
)

func commentCons(subs []peg.Capture, start, end peg.Position) (peg.Capture, error) {
	return newNode(KindComment, toChildren(subs), start, end), nil
}

var patternRule = peg.CCP(patternCons, peg.Jn(1, wordPattern, peg.Seq(ws, opPipe, ws)))

func patternCons(subs []peg.Capture, start, end peg.Position) (peg.Capture, error) {
	return newNode(KindPattern, toChildren(subs), start, end), nil
}
