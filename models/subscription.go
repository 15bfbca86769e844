package models

import "time"

// Subscription records a user's opt-in to notifications for one conversation.
// Independent of voting; dispatch itself is handled by an external system.
type Subscription struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	UID       uint      `gorm:"not null;uniqueIndex:idx_sub_uid_zid;column:uid" json:"uid"`
	ZID       uint      `gorm:"not null;uniqueIndex:idx_sub_uid_zid;column:zid" json:"zid"`
	CreatedAt time.Time `json:"created_at"`
}
