package entities

import "time"

// Action kinds carried by log entries. The tag is open-ended; only the
// bolo/ban pair carries engine semantics.
const (
	ActionNote          = "Note"
	ActionWarning       = "Warning"
	ActionBan           = "Ban"
	ActionActiveBanBolo = "Active Ban Bolo"
)

// AutomationAuthorName is the sentinel author for system-generated
// entries. Entries it authors never count toward escalation.
const AutomationAuthorName = "Automation"

// LogEntry is one moderation log record. Ids are store-assigned,
// monotonic and never reused. PriorOffenseCount is a snapshot taken at
// creation time and is never recomputed.
type LogEntry struct {
	ID                int64
	AuthorID          string // empty for system-generated entries
	AuthorName        string
	TargetID          string
	TargetName        string
	ActionKind        string
	Reason            string
	PriorOffenseCount int
	CreatedAt         time.Time
	Pinned            bool
	Completed         bool
	CompletedBy       string
	CompletedByID     string
	CompletedAt       *time.Time
}

// Automated reports whether the entry was synthesized by the escalation
// engine rather than authored by staff.
func (e LogEntry) Automated() bool {
	return e.AuthorID == "" && e.AuthorName == AutomationAuthorName
}
