package store

import "time"

type User struct {
	ID                int64
	PublicID          string
	Email             string
	PasswordHash      string
	GoogleID          string
	IsVerified        bool
	VerificationToken string
	ResetToken        string
	ResetTokenExpires *time.Time
	CreatedAt         time.Time
}

// SessionUser is the identity resolved from a live session.
type SessionUser struct {
	UserID   int64
	PublicID string
	Email    string
}

type Space struct {
	ID        int64
	PublicID  string
	Slug      string
	Name      string
	OwnerID   string // users.public_id, compared by the application, not a FK
	LogoURL   string
	CreatedAt time.Time
}

const (
	IdeaStatusNew        = "new"
	IdeaStatusInProgress = "in-progress"
	IdeaStatusRejected   = "rejected"
	IdeaStatusDone       = "done"
)

type Idea struct {
	ID           int64
	PublicID     string
	SpaceSlug    string
	Title        string
	Description  string
	Status       string
	VoteCount    int
	JiraIssueKey string
	CreatedAt    time.Time
}

type Comment struct {
	ID        int64
	PublicID  string
	IdeaID    string // ideas.public_id
	Text      string
	CreatedAt time.Time
}
