package domain

// Interaction kinds. A pass never participates in match detection.
const (
	KindLike      = "like"
	KindSuperlike = "superlike"
	KindPass      = "pass"
)

// IsPositive reports whether the kind can back a mutual match.
func IsPositive(kind string) bool {
	return kind == KindLike || kind == KindSuperlike
}

// Notification types. System notifications are never user-suppressible.
const (
	NotifMessage = "message"
	NotifLike    = "like"
	NotifMatch   = "match"
	NotifEvent   = "event"
	NotifNews    = "news"
	NotifSystem  = "system"
)

// Action archive entry types, one per state-changing event.
const (
	ActionLike      = "like"
	ActionSuperlike = "superlike"
	ActionPass      = "pass"
	ActionUnlike    = "unlike"
	ActionMatch     = "match"
	ActionUnmatch   = "unmatch"
	ActionBlock     = "block"
	ActionUnblock   = "unblock"
	ActionReport    = "report"
)

const (
	ReportStatusPending  = "PENDING"
	ReportStatusReviewed = "REVIEWED"
	ReportStatusResolved = "RESOLVED"
)
