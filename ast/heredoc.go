package ast

import (
	"strings"

	"github.com/qiyeboy/sh-parser/peg"
)

// heredocRange records one already-consumed heredoc body as a half-open
// byte range [first, last) into the source text: first is the byte right
// after the newline that opens the body, last is the offset of the
// newline that terminates the delimiter line (or end-of-input if the
// delimiter was never found).
type heredocRange struct {
	first, last int
}

// HeredocState tracks the heredoc bodies consumed so far during one Parse
// call. It is reached through peg.MatchEnv, so two concurrent Parse calls
// never share one - the grammar itself stays free of global mutable state.
//
// Ranges are kept latest-first: a command line can stack multiple heredoc
// redirections, and their bodies appear on the source lines that follow in
// the same order the redirections were written, so the most recently
// recorded range is always the one relevant to resolving the next one.
type HeredocState struct {
	ranges []heredocRange
}

func newHeredocState() *HeredocState {
	return &HeredocState{}
}

func (h *HeredocState) record(first, last int) {
	h.ranges = append([]heredocRange{{first, last}}, h.ranges...)
}

// advancePast pushes pos forward past any already-recorded range covering
// it, hopping over as many stacked ranges as necessary. Used before
// searching for a new heredoc's body, since the textual position right
// after its delimiter word can land inside a body an earlier redirection
// on the same command line already claimed.
func (h *HeredocState) advancePast(pos int) int {
	for moved := true; moved; {
		moved = false
		for _, r := range h.ranges {
			if pos >= r.first && pos < r.last {
				pos = r.last
				moved = true
			}
		}
	}
	return pos
}

// skipThrough reports where the parser should jump to if it is about to
// cross pos and pos falls inside a recorded heredoc body. It never mutates
// state, since a PEG match can backtrack past the point that asked.
func (h *HeredocState) skipThrough(pos int) int {
	for _, r := range h.ranges {
		if pos >= r.first && pos < r.last {
			return r.last
		}
	}
	return pos
}

func heredocEnv(env peg.MatchEnv) *HeredocState {
	pe, ok := env.(*parseEnv)
	if !ok || pe == nil {
		return nil
	}
	return pe.heredocs
}

// unquoteDelimiter strips one layer of matching quotes from a heredoc
// delimiter word's raw matched text, per the rule that a quoted or escaped
// delimiter suppresses body expansion but otherwise compares literally.
func unquoteDelimiter(raw string) string {
	if len(raw) >= 2 {
		if raw[0] == '\'' && raw[len(raw)-1] == '\'' {
			return raw[1 : len(raw)-1]
		}
		if raw[0] == '"' && raw[len(raw)-1] == '"' {
			return unescapeBackslashes(raw[1 : len(raw)-1])
		}
	}
	return unescapeBackslashes(raw)
}

func unescapeBackslashes(s string) string {
	if !strings.Contains(s, "\\") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// captureHeredocBody builds the peg.HookFunc wrapped around a heredoc
// delimiter Word pattern. It leaves the delimiter's own consumption
// unchanged (echoes back n) and instead does all of its work through the
// env's HeredocState and the pushed capture: it scans forward from the
// next newline for a line matching the delimiter (optionally stripped of
// leading tabs for the dash-form operator), records the resulting range,
// and produces the body text - newline-stripped, and tab-stripped per line
// for the dash form - as a StringValue capture.
func captureHeredocBody(dashed bool) peg.HookFunc {
	return func(text string, pos, n int, env peg.MatchEnv) (int, peg.Capture, bool) {
		state := heredocEnv(env)
		if state == nil {
			return n, StringValue(""), true
		}

		delim := unquoteDelimiter(text[pos : pos+n])

		first := bodyStart(text, pos+n)
		first = state.advancePast(first)

		body, last, found := scanForDelimiterLine(text, first, delim, dashed)
		if !found {
			last = len(text)
			body = text[first:]
		}
		if dashed {
			body = stripLeadingTabs(body)
		}
		state.record(first, last)

		return n, StringValue(body), true
	}
}

// bodyStart finds the next newline at or after from and returns the byte
// right after it, or len(text) if no newline follows from.
func bodyStart(text string, from int) int {
	idx := strings.IndexByte(text[min(from, len(text)):], '\n')
	if idx < 0 {
		return len(text)
	}
	return from + idx + 1
}

// scanForDelimiterLine looks, line by line starting at from, for a line
// whose content - after stripping leading tabs when dashed - equals delim
// and is terminated by a newline. It returns the body (from..line start)
// and the offset of the terminating newline.
func scanForDelimiterLine(text string, from int, delim string, dashed bool) (body string, last int, found bool) {
	cursor := from
	for cursor <= len(text) {
		nl := strings.IndexByte(text[cursor:], '\n')
		if nl < 0 {
			return "", 0, false
		}
		lineEnd := cursor + nl
		line := text[cursor:lineEnd]
		candidate := line
		if dashed {
			candidate = strings.TrimLeft(line, "\t")
		}
		if candidate == delim {
			return text[from:cursor], lineEnd, true
		}
		cursor = lineEnd + 1
	}
	return "", 0, false
}

func stripLeadingTabs(body string) string {
	lines := strings.SplitAfter(body, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimLeft(line, "\t")
	}
	return strings.Join(lines, "")
}

// skipHeredocBody is the peg.HookFunc wrapping the newline that normally
// separates commands/lines. If the position right after that newline lies
// inside an already-captured heredoc body, it teleports straight to the
// end of that body's delimiter line instead of letting the grammar walk
// over already-consumed text.
func skipHeredocBody() peg.HookFunc {
	return func(text string, pos, n int, env peg.MatchEnv) (int, peg.Capture, bool) {
		state := heredocEnv(env)
		if state == nil {
			return n, nil, true
		}
		end := pos + n
		skipped := state.skipThrough(end)
		if skipped == end {
			return n, nil, true
		}
		return skipped - pos, nil, true
	}
}
