package domain

type UserID int64

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatTurn is one message in a per-user transcript. Turns are immutable
// once appended; ordering within a transcript is chronological.
type ChatTurn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}
