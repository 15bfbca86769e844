package notifications

import "fmt"

// FlagContext carries everything the flag notices mention.
type FlagContext struct {
	CommentText   string
	CommentID     uint
	Topic         string
	Reason        string
	AuthorName    string
	OwnerName     string
	AuthorEmail   string
	OwnerEmail    string
	AuthorUserID  uint
	OwnerUserID   uint
	AdminEmail    string
}

// AuthorNotice tells the comment's author their comment is under review.
func AuthorNotice(fc FlagContext) Notice {
	return Notice{
		Recipient: fc.AuthorEmail,
		UserID:    fc.AuthorUserID,
		Subject:   "Your Comment Has Been Flagged - Vayam",
		Body: fmt.Sprintf(
			"Hi %s,\n\nYour comment in %q has been flagged for review.\n\nComment: %q\nReason: %s\n\nA moderator will review it shortly; it stays visible, marked under review, until a decision is made.",
			fc.AuthorName, fc.Topic, fc.CommentText, fc.Reason),
	}
}

// OwnerNotice confirms the flag to the conversation owner who raised it.
func OwnerNotice(fc FlagContext) Notice {
	return Notice{
		Recipient: fc.OwnerEmail,
		UserID:    fc.OwnerUserID,
		Subject:   "Comment Flagged in Your Conversation - Vayam",
		Body: fmt.Sprintf(
			"Hi %s,\n\nA comment in your conversation %q has been flagged and is awaiting moderation.\n\nComment: %q\nReason: %s",
			fc.OwnerName, fc.Topic, fc.CommentText, fc.Reason),
	}
}

// AdminNotice asks the admin to resolve the pending flag.
func AdminNotice(fc FlagContext) Notice {
	return Notice{
		Recipient: fc.AdminEmail,
		Subject:   "Comment Flagged - Admin Notification - Vayam",
		Body: fmt.Sprintf(
			"Comment %d in conversation %q was flagged by its owner (%s).\n\nComment: %q\nReason: %s\nAuthor: %s <%s>\n\nPlease resolve the flag to either hide the comment or dismiss the report.",
			fc.CommentID, fc.Topic, fc.OwnerEmail, fc.CommentText, fc.Reason, fc.AuthorName, fc.AuthorEmail),
	}
}
