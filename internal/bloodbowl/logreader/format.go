package logreader

import (
	"bufio"
	"fmt"
	"io"
)

const defaultScope = "Action"

// Format writes batches back out in the game's log grammar. Tokenizing the
// output yields the same batches.
func Format(w io.Writer, batches []Batch) error {
	bw := bufio.NewWriter(w)
	names := teamNames{}
	for _, b := range batches {
		for _, e := range b.Entries {
			if m, ok := e.(*MatchEntry); ok {
				names = teamNames{home: m.HomeAbbr, away: m.AwayAbbr}
			}
		}
	}

	opened := len(batches) > 0 && batches[0].Scope == TossScope && !isTossBatch(batches[0])
	if !opened {
		fmt.Fprintf(bw, "| +- Enter CStateMatch%s\n", TossScope)
		fmt.Fprintf(bw, "| +- Exit CStateMatch%s\n", TossScope)
	}

	n := 0
	for _, b := range batches {
		if isTossBatch(b) {
			for _, line := range b.Entries[0].lines(names) {
				fmt.Fprintf(bw, "| | %s\n", line)
			}
			continue
		}
		scope := b.Scope
		if scope == "" {
			scope = defaultScope
		}
		fmt.Fprintf(bw, "| +- Enter CStateMatch%s\n", scope)
		for _, e := range b.Entries {
			for _, line := range e.lines(names) {
				fmt.Fprintf(bw, "| | GameLog(%d): %s\n", n, line)
				n++
			}
		}
		fmt.Fprintf(bw, "| +- Exit CStateMatch%s\n", scope)
	}
	return bw.Flush()
}

func isTossBatch(b Batch) bool {
	if len(b.Entries) != 1 {
		return false
	}
	_, ok := b.Entries[0].(*TossEntry)
	return ok
}
