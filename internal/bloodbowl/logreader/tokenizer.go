package logreader

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/rules"
)

const (
	// TossScope names the scope that opens every log and the batch holding
	// the pre-game toss record.
	TossScope   = "TossCreateResults"
	spellScope  = "WizardUseSpellTT"
	maxLineSize = 1024 * 1024
)

var (
	enterPattern    = regexp.MustCompile(`^\| \+- Enter CStateMatch(\w+)`)
	exitPattern     = regexp.MustCompile(`^\| \+- Exit CStateMatch`)
	gameLogPattern  = regexp.MustCompile(`^\| \| GameLog\(-?\d+\): (.*)$`)
	tossTeamPattern = regexp.MustCompile(`^\| \| Team : (\d+)`)
	tossCoinPattern = regexp.MustCompile(`^\| \| Result : (\d+)`)
	contextsPattern = regexp.MustCompile(`^\| \| Contexts :`)
)

// Tokenizer turns raw log lines into batches. Batches are released one scope
// late so that a following cinematic scope can still be merged into them. A
// cinematic scope is itself held until the next scope opens: it only joins
// the batch it split when play carries on afterwards.
type Tokenizer struct {
	scanner *bufio.Scanner
	parser  parser
	line    int

	started bool
	current *batchBuilder
	partial Entry

	tossTeam   *rules.TeamType
	tossResult *rules.CoinFace

	held      *Batch
	selection *Batch
	ready     []Batch
	done  bool
}

// NewTokenizer creates a tokenizer reading log text from r.
func NewTokenizer(r io.Reader) *Tokenizer {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &Tokenizer{scanner: scanner}
}

// Next returns the next batch. It returns io.EOF once the log is exhausted.
func (t *Tokenizer) Next() (Batch, error) {
	for len(t.ready) == 0 {
		if t.done {
			return Batch{}, io.EOF
		}
		if err := t.step(); err != nil {
			return Batch{}, err
		}
	}
	b := t.ready[0]
	t.ready = t.ready[1:]
	return b, nil
}

// All reads every remaining batch.
func (t *Tokenizer) All() ([]Batch, error) {
	var batches []Batch
	for {
		b, err := t.Next()
		if err == io.EOF {
			return batches, nil
		}
		if err != nil {
			return nil, err
		}
		batches = append(batches, b)
	}
}

// Tokenize reads a whole log.
func Tokenize(r io.Reader) ([]Batch, error) {
	return NewTokenizer(r).All()
}

func (t *Tokenizer) step() error {
	if !t.scanner.Scan() {
		if err := t.scanner.Err(); err != nil {
			return fmt.Errorf("scan game log: %w", err)
		}
		return t.finish()
	}
	t.line++
	line := t.scanner.Text()

	if !t.started {
		if m := enterPattern.FindStringSubmatch(line); m != nil && m[1] == TossScope {
			t.started = true
			t.current = newBatchBuilder(m[1])
		}
		return nil
	}

	if m := enterPattern.FindStringSubmatch(line); m != nil {
		if t.current != nil {
			return t.malformed("scope %s opened inside %s", m[1], t.current.scope)
		}
		t.resolveSelection(m[1])
		t.flushToss()
		t.current = newBatchBuilder(m[1])
		return nil
	}

	if exitPattern.MatchString(line) {
		if t.current == nil {
			return t.malformed("scope closed without being opened")
		}
		if t.partial != nil {
			return t.malformed("%s entry not completed before scope end", Name(t.partial))
		}
		t.closeScope()
		return nil
	}

	if m := tossTeamPattern.FindStringSubmatch(line); m != nil {
		n, _ := strconv.Atoi(m[1])
		team, ok := rules.TeamTypeFromIndex(n)
		if !ok || team == rules.Hotseat {
			return t.malformed("invalid toss team %q", m[1])
		}
		t.tossTeam = &team
		return nil
	}
	if m := tossCoinPattern.FindStringSubmatch(line); m != nil {
		n, _ := strconv.Atoi(m[1])
		if n != int(rules.Heads) && n != int(rules.Tails) {
			return t.malformed("invalid toss result %q", m[1])
		}
		face := rules.CoinFace(n)
		t.tossResult = &face
		return nil
	}

	if t.current == nil {
		return nil
	}

	if contextsPattern.MatchString(line) && t.current.empty() {
		t.current.selection = true
		return nil
	}

	m := gameLogPattern.FindStringSubmatch(line)
	if m == nil {
		return nil
	}
	entry, err := t.parser.parse(m[1])
	if err != nil {
		return fmt.Errorf("line %d: %w", t.line, err)
	}
	return t.add(entry)
}

func (t *Tokenizer) add(entry Entry) error {
	if t.partial != nil {
		combined, err := combine(t.partial, entry)
		if err != nil {
			return t.malformed("%v", err)
		}
		t.partial = nil
		t.current.add(combined)
		return nil
	}

	switch entry.(type) {
	case *pendingBlock, *pendingTentacles:
		t.partial = entry
		return nil
	case *diceLine:
		return t.malformed("block dice without a block")
	}
	t.current.add(entry)
	return nil
}

func combine(partial, follower Entry) (Entry, error) {
	switch p := partial.(type) {
	case *pendingBlock:
		if d, ok := follower.(*diceLine); ok {
			return &BlockEntry{Actor: p.Actor, Dice: d.dice}, nil
		}
	case *pendingTentacles:
		if a, ok := follower.(*ActionEntry); ok && a.Action == rules.ActionTentaclesEscape {
			return &TentacledEntry{User: p.Actor, Target: a.Actor, Required: a.Required, Roll: a.Roll, Result: a.Result}, nil
		}
	}
	return nil, fmt.Errorf("%s entry followed by %s", Name(partial), Name(follower))
}

func (t *Tokenizer) closeScope() {
	b := t.current
	t.current = nil

	if b.selection && t.held != nil && t.held.Scope != TossScope {
		batch := b.finish()
		t.selection = &batch
		return
	}

	batch := b.finish()
	if len(batch.Entries) == 0 {
		return
	}
	t.release(batch)
}

// resolveSelection settles a pending cinematic scope once the next scope is
// known. An empty next name means the log has ended.
func (t *Tokenizer) resolveSelection(next string) {
	s := t.selection
	if s == nil {
		return
	}
	t.selection = nil
	if next != "" && !strings.HasPrefix(next, "Select") {
		t.held.Entries = mergeSelection(t.held.Entries, s.Entries)
		return
	}
	if len(s.Entries) > 0 {
		t.release(*s)
	}
}

// mergeSelection appends a cinematic scope's entries to the batch it split,
// keeping any turnover of the earlier part at the very end.
func mergeSelection(held, extra []Entry) []Entry {
	var turnovers []Entry
	kept := held[:0:0]
	for _, e := range held {
		if _, ok := e.(*TurnoverEntry); ok {
			turnovers = append(turnovers, e)
			continue
		}
		kept = append(kept, e)
	}
	b := &batchBuilder{entries: kept}
	for _, e := range extra {
		b.add(e)
	}
	b.turnovers = append(turnovers, b.turnovers...)
	return b.finish().Entries
}

func (t *Tokenizer) release(batch Batch) {
	if t.held != nil {
		t.ready = append(t.ready, *t.held)
	}
	t.held = &batch
}

func (t *Tokenizer) flushToss() {
	if t.tossTeam == nil || t.tossResult == nil {
		return
	}
	t.release(Batch{Scope: TossScope, Entries: []Entry{&TossEntry{Team: *t.tossTeam, Result: *t.tossResult}}})
	t.tossTeam = nil
	t.tossResult = nil
}

func (t *Tokenizer) finish() error {
	t.done = true
	if t.current != nil {
		return t.malformed("log ended inside scope %s", t.current.scope)
	}
	t.resolveSelection("")
	t.flushToss()
	if t.held != nil {
		t.ready = append(t.ready, *t.held)
		t.held = nil
	}
	return nil
}

func (t *Tokenizer) malformed(format string, args ...any) error {
	return fmt.Errorf("line %d: %w: %s", t.line, ErrMalformed, fmt.Sprintf(format, args...))
}

// batchBuilder collects a scope's entries in rules order. Turnovers are held
// back until the batch is finished.
type batchBuilder struct {
	scope     string
	selection bool
	entries   []Entry
	turnovers []Entry
}

func newBatchBuilder(scope string) *batchBuilder {
	return &batchBuilder{scope: scope}
}

func (b *batchBuilder) empty() bool {
	return len(b.entries) == 0 && len(b.turnovers) == 0
}

func (b *batchBuilder) add(e Entry) {
	switch e.(type) {
	case *TurnoverEntry:
		b.turnovers = append(b.turnovers, e)
	case *CasualtyEntry, *ApothecaryEntry:
		at := b.trailingBallRun()
		b.entries = slices.Insert(b.entries, at, e)
	default:
		b.entries = append(b.entries, e)
	}
}

// trailingBallRun returns where the run of ball movement at the end of the
// batch starts, or the batch length if that run holds no bounce.
func (b *batchBuilder) trailingBallRun() int {
	start := len(b.entries)
	bounced := false
	for start > 0 {
		switch e := b.entries[start-1].(type) {
		case *BounceEntry:
			bounced = true
		case *ThrowInDirectionEntry, *ThrowInDistanceEntry:
		case *ActionEntry:
			if e.Action != rules.ActionCatch {
				return b.runStart(start, bounced)
			}
		default:
			return b.runStart(start, bounced)
		}
		start--
	}
	return b.runStart(start, bounced)
}

func (b *batchBuilder) runStart(start int, bounced bool) int {
	if !bounced {
		return len(b.entries)
	}
	return start
}

func (b *batchBuilder) finish() Batch {
	entries := b.entries
	if b.scope == spellScope {
		var bounces []Entry
		others := make([]Entry, 0, len(entries))
		for _, e := range entries {
			if _, ok := e.(*BounceEntry); ok {
				bounces = append(bounces, e)
				continue
			}
			others = append(others, e)
		}
		entries = append(others, bounces...)
	}
	entries = append(entries, b.turnovers...)
	return Batch{Scope: b.scope, Entries: entries}
}
