package peg

import (
	"fmt"
	"sort"
	"strings"
)

const (
	// If use binary search for patternRuneSet.
	runeSetSizeThreshold = 16
)

var (
	// Dot matches any rune.
	Dot Pattern = patternAnyRune{}
)

// Underlying types implemented Pattern interface.
type (
	patternAnyRune struct{}

	patternRuneSet struct {
		not     bool
		charset []rune
	}

	patternRuneRange struct {
		not    bool
		ranges []struct {
			low, high rune
		}
	}
)

// S matches a rune existed in given rune set.
func S(set string) Pattern {
	pat := &patternRuneSet{not: false}
	pat.set(set)
	return pat
}

// NS matches a rune not existed in given rune set.
func NS(exclude string) Pattern {
	pat := &patternRuneSet{not: true}
	pat.set(exclude)
	return pat
}

// R matches a rune in any given range pairs [low, high].
func R(low, high rune, rest ...rune) Pattern {
	pat := &patternRuneRange{
		not:    false,
		ranges: make([]struct{ low, high rune }, 1+len(rest)/2),
	}
	pat.ranges[0].low = low
	pat.ranges[0].high = high
	for i := 1; i < len(pat.ranges); i++ {
		pat.ranges[i].low = rest[(i-1)*2]
		pat.ranges[i].high = rest[(i-1)*2+1]
	}
	return pat
}

// NR matches a rune out of all given range pairs [low, high].
func NR(low, high rune, rest ...rune) Pattern {
	pat := &patternRuneRange{
		not:    true,
		ranges: make([]struct{ low, high rune }, len(rest)/2+1),
	}
	pat.ranges[0].low = low
	pat.ranges[0].high = high
	for i := 1; i < len(pat.ranges); i++ {
		pat.ranges[i].low = rest[(i-1)*2]
		pat.ranges[i].high = rest[(i-1)*2+1]
	}
	return pat
}

// Matches any rune.
func (patternAnyRune) match(ctx *context) error {
	_, n := ctx.readRune()
	if n == 0 {
		return ctx.returnsPredication(false)
	}
	ctx.consume(n)
	return ctx.returnsMatched()
}

// Matches a rune in/not in rune set.
func (pat *patternRuneSet) match(ctx *context) error {
	r, n := ctx.readRune()
	if n != 0 && pat.has(r) {
		ctx.consume(n)
		return ctx.returnsMatched()
	}
	return ctx.returnsPredication(false)
}

func (pat *patternRuneSet) set(charset string) {
	pat.charset = []rune(charset)
	if len(pat.charset) > runeSetSizeThreshold {
		// preprocessing for binary search
		sort.Sort(&runesSorter{pat.charset})
	}
}

func (pat *patternRuneSet) has(r rune) bool {
	ok := false
	if len(pat.charset) > runeSetSizeThreshold {
		// use binary search
		i, j := 0, len(pat.charset)
		for i < j {
			m := i + (j-i)/2
			if r == pat.charset[m] {
				ok = true
				break
			} else if r > pat.charset[m] {
				i = m + 1
			} else {
				j = m
			}
		}
	} else {
		// linear search
		for i := range pat.charset {
			if r == pat.charset[i] {
				ok = true
				break
			}
		}
	}

	if pat.not {
		ok = !ok
	}
	return ok
}

// rune set sorter
type runesSorter struct {
	data []rune
}

func (rs *runesSorter) Len() int {
	return len(rs.data)
}

func (rs *runesSorter) Less(i, j int) bool {
	return rs.data[i] < rs.data[j]
}

func (rs *runesSorter) Swap(i, j int) {
	rs.data[i], rs.data[j] = rs.data[j], rs.data[i]
}

// Matches a rune in/not in range.
func (pat *patternRuneRange) match(ctx *context) error {
	r, n := ctx.readRune()
	if n != 0 && pat.has(r) {
		ctx.consume(n)
		return ctx.returnsMatched()
	}
	return ctx.returnsPredication(false)
}

func (pat *patternRuneRange) has(r rune) bool {
	ok := false
	for _, pair := range pat.ranges {
		if r >= pair.low && r <= pair.high {
			ok = true
			break
		}
	}

	if pat.not {
		ok = !ok
	}
	return ok
}

func (patternAnyRune) String() string {
	return "#."
}

func (pat *patternRuneRange) String() string {
	strs := make([]string, len(pat.ranges))
	for i := range pat.ranges {
		strs[i] = fmt.Sprintf("%q..%q",
			pat.ranges[i].low, pat.ranges[i].high)
	}

	if pat.not {
		return fmt.Sprintf("#<-%s>", strings.Join(strs, "-"))
	}
	return fmt.Sprintf("#<%s>", strings.Join(strs, "+"))
}

func (pat *patternRuneSet) String() string {
	if pat.not {
		return fmt.Sprintf("#-%q", string(pat.charset))
	}
	return fmt.Sprintf("#%q", string(pat.charset))
}
