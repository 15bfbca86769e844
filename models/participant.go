package models

import "time"

// Participant is a user's membership record inside one conversation. Rows are
// created lazily on the user's first comment or vote, at most one per
// (uid, zid).
type Participant struct {
	PID             uint      `gorm:"primaryKey;column:pid" json:"pid"`
	UID             uint      `gorm:"not null;uniqueIndex:idx_participant_uid_zid;column:uid" json:"uid"`
	ZID             uint      `gorm:"not null;uniqueIndex:idx_participant_uid_zid;column:zid" json:"zid"`
	VoteCount       int       `gorm:"default:0" json:"vote_count"`
	LastInteraction int64     `gorm:"default:0" json:"last_interaction"`
	CreatedAt       time.Time `json:"created_at"`
}
