package status

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedIndex reports an index that cannot point into the member list.
// It is informational: rendering degrades instead of failing.
var ErrMalformedIndex = errors.New("malformed member index")

// field identifies one of the optional wsrep fields.
type field uint8

const (
	fieldStatus field = 1 << iota
	fieldUUID
	fieldPrimary
	fieldMembers
	fieldIndex
)

// Snapshot is the immutable record of one membership report.
// The zero value is an empty report for an unnamed server.
type Snapshot struct {
	server  string
	present field

	status  string
	uuid    string
	primary string
	members []string
	index   string
}

// Builder accumulates optional fields into a Snapshot.
// Setters take nil for "not supplied". An empty value is ignored too, except
// for Members where "" is a single empty member. Fields are independent so
// setter order does not matter.
type Builder struct {
	snap Snapshot
}

// NewBuilder starts a snapshot for the reporting host.
func NewBuilder(server string) *Builder {
	return &Builder{snap: Snapshot{server: server}}
}

func (b *Builder) Status(v *string) *Builder {
	if supplied(v) {
		b.snap.status = *v
		b.snap.present |= fieldStatus
	}
	return b
}

func (b *Builder) UUID(v *string) *Builder {
	if supplied(v) {
		b.snap.uuid = *v
		b.snap.present |= fieldUUID
	}
	return b
}

// Primary stores v capitalized ("yes", "YES" -> "Yes").
func (b *Builder) Primary(v *string) *Builder {
	if supplied(v) {
		b.snap.primary = capitalize(*v)
		b.snap.present |= fieldPrimary
	}
	return b
}

// Members splits a comma-separated list, keeping order, duplicates and
// whitespace. An empty string yields a single empty member.
func (b *Builder) Members(v *string) *Builder {
	if v != nil {
		b.snap.members = strings.Split(*v, ",")
		b.snap.present |= fieldMembers
	}
	return b
}

// Index stores v verbatim; it is interpreted only when rendering.
func (b *Builder) Index(v *string) *Builder {
	if supplied(v) {
		b.snap.index = *v
		b.snap.present |= fieldIndex
	}
	return b
}

func supplied(v *string) bool { return v != nil && *v != "" }

// Build returns the accumulated snapshot. The builder may keep being used;
// later changes do not affect snapshots already built.
func (b *Builder) Build() Snapshot {
	s := b.snap
	if s.members != nil {
		s.members = append([]string(nil), s.members...)
	}
	return s
}

func (s Snapshot) has(f field) bool { return s.present&f != 0 }

func (s Snapshot) Server() string { return s.server }

func (s Snapshot) Status() (string, bool)  { return s.status, s.has(fieldStatus) }
func (s Snapshot) UUID() (string, bool)    { return s.uuid, s.has(fieldUUID) }
func (s Snapshot) Primary() (string, bool) { return s.primary, s.has(fieldPrimary) }
func (s Snapshot) Index() (string, bool)   { return s.index, s.has(fieldIndex) }

// Members returns a copy of the member list.
func (s Snapshot) Members() ([]string, bool) {
	if !s.has(fieldMembers) {
		return nil, false
	}
	return append([]string(nil), s.members...), true
}

// PresenceCount is the number of optional fields that were supplied.
func (s Snapshot) PresenceCount() int {
	n := 0
	for f := fieldStatus; f <= fieldIndex; f <<= 1 {
		if s.has(f) {
			n++
		}
	}
	return n
}

// CurrentMember returns the position of this node in the member list.
// ok is false when members or index are missing or the index is malformed.
func (s Snapshot) CurrentMember() (int, bool) {
	if !s.has(fieldMembers) || !s.has(fieldIndex) {
		return 0, false
	}
	i, err := ParseIndex(s.index, len(s.members))
	if err != nil {
		return 0, false
	}
	return i, true
}

// ParseIndex interprets raw as a position in [0, n).
func ParseIndex(raw string, n int) (int, error) {
	i, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrMalformedIndex, raw)
	}
	if i < 0 || i >= n {
		return 0, fmt.Errorf("%w: %d outside [0, %d)", ErrMalformedIndex, i, n)
	}
	return i, nil
}

// capitalize upper-cases the first ASCII letter and lower-cases the rest.
func capitalize(v string) string {
	b := []byte(v)
	for i, c := range b {
		switch {
		case i == 0 && 'a' <= c && c <= 'z':
			b[i] = c - ('a' - 'A')
		case i > 0 && 'A' <= c && c <= 'Z':
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
