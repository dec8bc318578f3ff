package models

import "time"

// Role is one side of the relationship
type Role string

const (
	RoleBoyfriend  Role = "boyfriend"
	RoleGirlfriend Role = "girlfriend"
)

// Valid reports whether r is one of the two relationship roles
func (r Role) Valid() bool {
	return r == RoleBoyfriend || r == RoleGirlfriend
}

// User represents a registered account
type User struct {
	ID                string    `json:"id"`
	Username          string    `json:"username"`
	PasswordHash      string    `json:"-"`
	Role              Role      `json:"role"`
	DisplayName       string    `json:"display_name"`
	PartnerID         *string   `json:"partner_id,omitempty"`
	AnniversaryDate   *string   `json:"anniversary_date,omitempty"`
	RelationshipStart *string   `json:"relationship_start,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

// HasPartner reports whether the user is linked
func (u *User) HasPartner() bool {
	return u.PartnerID != nil && *u.PartnerID != ""
}

// Letter is a message from one partner to the other
type Letter struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	FromUserID string    `json:"from_user_id"`
	FromName   string    `json:"from_name"`
	ToUserID   string    `json:"to_user_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// Mood is a single mood check-in
type Mood struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Role      Role      `json:"role"`
	Mood      string    `json:"mood"`
	Emoji     string    `json:"emoji"`
	Note      string    `json:"note"`
	CreatedAt time.Time `json:"created_at"`
}

// Photo is a shared photo. The image is either kept inline as base64 or
// stored in object storage under ImageKey.
type Photo struct {
	ID           string    `json:"id"`
	ImageBase64  string    `json:"image_base64,omitempty"`
	ImageKey     string    `json:"-"`
	ImageURL     string    `json:"image_url,omitempty"`
	Caption      string    `json:"caption"`
	Date         string    `json:"date"`
	UploadedBy   string    `json:"uploaded_by"`
	UploaderName string    `json:"uploader_name"`
	CreatedAt    time.Time `json:"created_at"`
}

// Question is the daily question for one calendar date
type Question struct {
	ID           string `json:"id"`
	QuestionText string `json:"question_text"`
	Category     string `json:"category"`
	Date         string `json:"date"`
}

// Answer is one user's answer to a question
type Answer struct {
	ID         string    `json:"id"`
	QuestionID string    `json:"question_id"`
	UserID     string    `json:"user_id"`
	Username   string    `json:"username"`
	Role       Role      `json:"role"`
	AnswerText string    `json:"answer_text"`
	CreatedAt  time.Time `json:"created_at"`
}

// NotificationTypeAnniversary is the type of generated anniversary reminders
const NotificationTypeAnniversary = "anniversary"

// Notification is a polled, per-user notification
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Date      string    `json:"date"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}
