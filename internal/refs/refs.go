// Package refs assigns shared numeric references to identifier words and
// rewrites identifiers as sequences of those references.
package refs

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/phobologic/identref/internal/tokenize"
)

// Case markers written before each reference id.
const (
	TitleMarker = '^'
	OtherMarker = '~'
)

// ErrUnregistered is matched by every LookupError.
var ErrUnregistered = errors.New("word not registered")

// LookupError reports a word that was encoded before it was registered.
type LookupError struct {
	Word string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("encoding %q: %v", e.Word, ErrUnregistered)
}

func (e *LookupError) Is(target error) bool {
	return target == ErrUnregistered
}

// Entry is one word of the table with its id.
type Entry struct {
	Word string `json:"word"`
	ID   int    `json:"id"`
}

// Table maps lowercased words to ids assigned in first-seen order, starting
// at 1. Ids are never reused and the table only grows.
//
// The encoding of an identifier depends on the order in which words were
// registered, so one Table must be shared by every file of a scan and fed
// in a deterministic order. A Table is not safe for concurrent use.
type Table struct {
	ids  map[string]int
	next int
}

// NewTable returns an empty table whose first id is 1.
func NewTable() *Table {
	return &Table{ids: make(map[string]int), next: 1}
}

// Update registers a single word. If its lowercased form is new it receives
// the current counter value. The returned value is the next free id.
func (t *Table) Update(word string) int {
	key := strings.ToLower(word)
	if _, ok := t.ids[key]; !ok {
		t.ids[key] = t.next
		t.next++
	}
	return t.next
}

// Register updates the table with every camel-case word of identifier and
// returns the next free id. Empty identifiers register nothing.
func (t *Table) Register(identifier string) int {
	if identifier == "" {
		return t.next
	}
	for _, w := range tokenize.Split(identifier) {
		t.Update(w)
	}
	return t.next
}

// Encode rewrites identifier as a marker and id per word: '^' for
// title-cased words, '~' for everything else. "UserAccount" becomes
// "^1^2" when user=1 and account=2. Every word must already be registered.
func (t *Table) Encode(identifier string) (string, error) {
	if identifier == "" {
		return "", nil
	}
	var b strings.Builder
	for _, w := range tokenize.Split(identifier) {
		id, ok := t.ids[strings.ToLower(w)]
		if !ok {
			return "", &LookupError{Word: w}
		}
		if tokenize.IsTitle(w) {
			b.WriteByte(TitleMarker)
		} else {
			b.WriteByte(OtherMarker)
		}
		b.WriteString(strconv.Itoa(id))
	}
	return b.String(), nil
}

// RegisterEncode registers identifier and returns its encoding.
func (t *Table) RegisterEncode(identifier string) (string, error) {
	t.Register(identifier)
	return t.Encode(identifier)
}

// Lookup returns the id of word, compared case-insensitively.
func (t *Table) Lookup(word string) (int, bool) {
	id, ok := t.ids[strings.ToLower(word)]
	return id, ok
}

// Next returns the id the next new word will receive.
func (t *Table) Next() int {
	return t.next
}

// Len returns the number of distinct words.
func (t *Table) Len() int {
	return len(t.ids)
}

// Entries returns every word ordered by id.
func (t *Table) Entries() []Entry {
	entries := make([]Entry, 0, len(t.ids))
	for w, id := range t.ids {
		entries = append(entries, Entry{Word: w, ID: id})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].ID < entries[j].ID
	})
	return entries
}
