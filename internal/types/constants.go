package types

const ContextUserKey = "user"

// User roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Project member roles
const (
	MemberViewer = "viewer"
	MemberEditor = "editor"
)

// Task statuses
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// Task priorities
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

func ValidMemberRole(role string) bool {
	return role == MemberViewer || role == MemberEditor
}

func ValidStatus(status string) bool {
	return status == StatusPending || status == StatusInProgress || status == StatusCompleted
}

func ValidPriority(priority string) bool {
	return priority == PriorityLow || priority == PriorityMedium || priority == PriorityHigh
}
