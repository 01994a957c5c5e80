package store

import "time"

// User statuses. A "playing" user is in free-conversation mode.
const (
	StatusActive  = "active"
	StatusPlaying = "playing"
)

// Message roles, matching the roles sent to the completion oracle.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// User is a learner, keyed by their chat-transport identity. Created on
// first contact, never deleted.
type User struct {
	ID        int64   `gorm:"primaryKey;autoIncrement:false"`
	Subject   *string `gorm:"index"`
	Memo      *string
	Status    string `gorm:"default:active"`
	IsAdmin   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasSubject reports whether the user has set a non-empty subject.
func (u *User) HasSubject() bool {
	return u.Subject != nil && *u.Subject != ""
}

// SubjectText returns the subject, or "" when unset.
func (u *User) SubjectText() string {
	if u.Subject == nil {
		return ""
	}
	return *u.Subject
}

// MemoText returns the memo, or "" when unset.
func (u *User) MemoText() string {
	if u.Memo == nil {
		return ""
	}
	return *u.Memo
}

// TutorSession is one question-and-attempt lifecycle for a user. At most
// one session per user is non-archived; superseded sessions are archived,
// never deleted.
type TutorSession struct {
	ID                     uint  `gorm:"primaryKey"`
	UserID                 int64 `gorm:"index"`
	Subject                string
	Memo                   string
	Question               string `gorm:"type:text"`
	SolvingProcess         string `gorm:"type:text"`
	ExpectedAnswer         string `gorm:"type:text"`
	Attempted              int
	Correct                bool
	Archived               bool `gorm:"index"`
	Completed              bool
	Performance            *int
	PerformanceExplanation *string
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// Message is one entry of a session's append-only conversation log. The
// full oracle context for a turn is rebuilt by replaying these in order.
type Message struct {
	ID        uint `gorm:"primaryKey"`
	SessionID uint `gorm:"index"`
	Role      string
	Content   string `gorm:"type:text"`
	CreatedAt time.Time
}

// SolutionResponse is a point-in-time judgment of a solve attempt.
// Append-only: every attempt leaves a row.
type SolutionResponse struct {
	ID                     uint   `gorm:"primaryKey"`
	SessionID              uint   `gorm:"index"`
	FullSolution           string `gorm:"type:text"`
	SummarizedSolution     *string
	Feedback               string `gorm:"type:text"`
	IsCorrect              *bool
	Performance            *int
	PerformanceExplanation *string
	CreatedAt              time.Time
}
