package models

import "time"

// Vote values. Exactly one current vote exists per (uid, tid); resubmission
// with a different value overwrites in place, resubmission with the same
// value is rejected as a duplicate.
const (
	VoteDisagree = -1
	VoteNeutral  = 0
	VoteAgree    = 1
)

// Vote is one participant's current judgment on one comment.
type Vote struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	ZID       uint      `gorm:"not null;index;column:zid" json:"zid"`
	TID       uint      `gorm:"not null;uniqueIndex:idx_vote_uid_tid;column:tid" json:"tid"`
	UID       uint      `gorm:"not null;uniqueIndex:idx_vote_uid_tid;column:uid" json:"uid"`
	PID       uint      `gorm:"not null;index;column:pid" json:"pid"`
	Value     int       `gorm:"not null;column:vote" json:"vote"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ValidVoteValue reports whether v is one of agree/neutral/disagree.
func ValidVoteValue(v int) bool {
	return v >= VoteDisagree && v <= VoteAgree
}
