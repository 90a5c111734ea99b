package campaign

const (
	StatusDraft  = "draft"
	StatusActive = "active"
	StatusClosed = "closed"

	SessionStatusPending = "pending"
)
