package status

import (
	"strings"
)

const (
	markerCurrent = "-> "
	markerOther   = "-- "
	markerPlain   = "  "
)

// Render returns the plain-text report. It is deterministic and never fails.
func (s Snapshot) Render() string {
	var b strings.Builder

	b.WriteString("Galera running on ")
	b.WriteString(s.server)
	b.WriteString(" has reported the following cluster membership change")
	if s.PresenceCount() > 0 {
		b.WriteString("s")
	}
	b.WriteString(":\n\n")

	if s.has(fieldStatus) {
		b.WriteString("Status of this node: " + s.status + "\n\n")
	}
	if s.has(fieldUUID) {
		b.WriteString("Cluster state UUID: " + s.uuid + "\n\n")
	}
	if s.has(fieldPrimary) {
		b.WriteString("Current cluster component is primary: " + s.primary + "\n\n")
	}
	if s.has(fieldMembers) {
		b.WriteString("Current members of the component:\n")
		s.writeMembers(&b)
		b.WriteString("\n")
	}
	if s.has(fieldIndex) {
		b.WriteString("Index of this node in the member list: " + s.index + "\n")
	}

	return b.String()
}

func (s Snapshot) String() string { return s.Render() }

// writeMembers writes one row per member. Marked rows are each terminated by
// a newline; plain rows are only joined, which matches the historical report
// layout byte for byte.
func (s Snapshot) writeMembers(b *strings.Builder) {
	if !s.has(fieldIndex) {
		for i, m := range s.members {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString(markerPlain + m)
		}
		return
	}

	current, ok := s.CurrentMember()
	for i, m := range s.members {
		if ok && i == current {
			b.WriteString(markerCurrent)
		} else {
			b.WriteString(markerOther)
		}
		b.WriteString(m + "\n")
	}
}
