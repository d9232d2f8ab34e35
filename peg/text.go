package peg

import (
	"fmt"
	"sort"
	"strings"
)

// Underlying types implemented Pattern interface.
type (
	patternText struct {
		text string
	}

	patternTextSet struct {
		sorted []string
		tree   prefixTree
	}
)

// T matches text literally.
func T(text string) Pattern {
	if len(text) == 0 {
		return True
	}
	return &patternText{text: text}
}

// TS matches texts in set, resolving the longest match via a prefix tree.
func TS(textset ...string) Pattern {
	pat := &patternTextSet{}
	copied := make([]string, len(textset))
	copy(copied, textset)
	pat.set(copied)
	return pat
}

// Matches text.
func (pat *patternText) match(ctx *context) error {
	text := ctx.readNext(len(pat.text))
	if text == pat.text {
		ctx.consume(len(text))
		return ctx.returnsMatched()
	}
	return ctx.returnsPredication(false)
}

// Matches text set.
func (pat *patternTextSet) match(ctx *context) error {
	type matchState struct {
		n int
		prefixTree
	}

	back := false
	stack := []matchState{{0, pat.tree}}
	for len(stack) > 0 {
		state := stack[len(stack)-1]
		if back {
			stack = stack[:len(stack)-1]
			if state.term {
				ctx.consume(state.n)
				return ctx.returnsMatched()
			}
			continue
		}

		s := ctx.readNext(state.n + state.width)[state.n:]
		i, ok := state.search(s)
		if !ok {
			back = true
			continue
		}
		stack = append(stack, matchState{
			n:          state.n + state.width,
			prefixTree: state.subs[i],
		})
	}
	return ctx.returnsPredication(false)
}

// assumes that textset is owned by set.
func (pat *patternTextSet) set(textset []string) {
	pat.sorted = textset
	sort.Strings(pat.sorted)
	pat.tree = buildPrefixTree(pat.sorted)
}

func (pat *patternText) String() string {
	return fmt.Sprintf("%q", pat.text)
}

func (pat *patternTextSet) String() string {
	strs := make([]string, len(pat.sorted))
	for i := range pat.sorted {
		strs[i] = fmt.Sprintf("%q", pat.sorted[i])
	}
	return fmt.Sprintf("(%s)", strings.Join(strs, "|"))
}
