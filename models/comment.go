package models

import (
	"time"

	"gorm.io/gorm"
)

// Flag lifecycle values for Comment.FlagStatus. The empty string and
// FlagRejected both mean "not flagged": a comment starts unflagged, the
// conversation owner may move it to pending, and an external admin process
// resolves pending into flagged (hidden) or back to rejected.
const (
	FlagRejected = "rejected"
	FlagPending  = "pending"
	FlagFlagged  = "flagged"
	// FlagAccepted is a legacy synonym for a confirmed-bad comment; treated
	// the same as flagged everywhere visibility is decided.
	FlagAccepted = "accepted"
)

// Comment is a single voteable statement inside a conversation. Comments are
// never hard-deleted, only deactivated. Tally counters are denormalized from
// the vote ledger and recomputed on every vote write.
type Comment struct {
	TID    uint   `gorm:"primaryKey;column:tid" json:"tid"`
	ZID    uint   `gorm:"not null;index;column:zid" json:"zid"`
	PID    uint   `gorm:"not null;column:pid" json:"pid"`
	UID    uint   `gorm:"not null;column:uid" json:"uid"`
	Text   string `gorm:"column:txt;not null" json:"txt"`
	IsSeed bool   `gorm:"default:false" json:"is_seed"`
	Active bool   `gorm:"default:true" json:"active"`

	FlagStatus string `gorm:"default:rejected" json:"flag_status"`
	FlagReason string `gorm:"default:''" json:"flag_reason"`

	LikeCount    int `gorm:"default:0" json:"like_count"`
	DislikeCount int `gorm:"default:0" json:"dislike_count"`
	NeutralCount int `gorm:"default:0" json:"neutral_count"`

	Votes []Vote `gorm:"foreignKey:TID" json:"votes,omitempty"`
	// UserVote is the requesting user's current vote; computed at query time.
	UserVote *Vote `gorm:"-" json:"user_vote"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Hidden reports whether the comment is excluded from voting flows entirely.
// Pending comments stay visible, marked "under review".
func (c *Comment) Hidden() bool {
	return c.FlagStatus == FlagFlagged || c.FlagStatus == FlagAccepted
}

// Flaggable reports whether the conversation owner may still flag the comment.
func (c *Comment) Flaggable() bool {
	return c.FlagStatus == "" || c.FlagStatus == FlagRejected
}
