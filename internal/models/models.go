package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents a registered account.
type User struct {
	ID        string         `gorm:"primaryKey;size:36" json:"id"`
	Username  string         `gorm:"uniqueIndex;size:100;not null" json:"username"`
	Password  string         `gorm:"size:255" json:"-"` // bcrypt hash
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Gathering represents a planned meetup. Membership is capped at
// MaxGatheringMembers and the record is only editable while the author is the
// sole member.
type Gathering struct {
	ID          string         `gorm:"primaryKey;size:36" json:"id"`
	Name        string         `gorm:"size:200;not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	Location    string         `gorm:"size:500" json:"location"`
	Date        string         `gorm:"size:100" json:"date"`
	Members     IDList         `gorm:"type:text" json:"members"`
	Groups      IDList         `gorm:"type:text" json:"groups"`
	Author      string         `gorm:"size:36;index;not null" json:"author"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// MaxGatheringMembers is the hard cap on gathering membership.
const MaxGatheringMembers = 4

// Editable reports whether the gathering can still be reconfigured: true iff
// the author is the only member. Derived, never stored.
func (g *Gathering) Editable() bool {
	return len(g.Members) == 1
}

// Post is a user-authored piece of content.
type Post struct {
	ID        string         `gorm:"primaryKey;size:36" json:"id"`
	Author    string         `gorm:"size:36;index;not null" json:"author"`
	Content   string         `gorm:"type:text;not null" json:"content"`
	Options   string         `gorm:"type:text" json:"options"` // JSON, e.g. {"backgroundColor":"#fff"}
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Group clusters a subset of a gathering's members. Groups are formed
// automatically as people join (see services.GroupFormer) and linked to the
// gathering through Gathering.Groups.
type Group struct {
	ID        string         `gorm:"primaryKey;size:36" json:"id"`
	Members   IDList         `gorm:"type:text" json:"members"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Session is a revocable login session. The token itself is never stored,
// only its sha256 hash.
type Session struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    string     `gorm:"size:36;index;not null" json:"user_id"`
	TokenHash string     `gorm:"uniqueIndex;size:64;not null" json:"-"`
	UserAgent string     `gorm:"size:500" json:"user_agent"`
	ClientIP  string     `gorm:"size:50" json:"client_ip"`
	ExpiresAt time.Time  `gorm:"index" json:"expires_at"`
	RevokedAt *time.Time `json:"revoked_at"`
	CreatedAt time.Time  `json:"created_at"`
}

// BeforeCreate hooks assign UUID primary keys.

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

func (g *Gathering) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	return nil
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

func (g *Group) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	return nil
}

// TableName overrides
func (User) TableName() string      { return "users" }
func (Gathering) TableName() string { return "gatherings" }
func (Post) TableName() string      { return "posts" }
func (Group) TableName() string     { return "groups" }
func (Session) TableName() string   { return "sessions" }
