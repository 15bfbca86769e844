// Package seed populates a development database with a demo conversation.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"vayam/models"

	"gorm.io/gorm"
)

var (
	demoUsers = []models.User{
		{Username: "asha_k", Name: "Asha K", Email: "asha@example.com"},
		{Username: "ravi_m", Name: "Ravi M", Email: "ravi@example.com"},
		{Username: "lena_p", Name: "Lena P", Email: "lena@example.com"},
		{Username: "owner_demo", Name: "Demo Owner", Email: "owner@example.com"},
	}

	seedStatements = []string{
		"Public transport should be free during peak hours",
		"Cycling infrastructure matters more than new roads",
		"Congestion pricing is the fairest way to fund transit",
	}

	participantStatements = []string{
		"Buses are too unreliable to replace car commutes today",
		"Park-and-ride lots would ease pressure on the city center",
		"We should pilot car-free Sundays downtown first",
		"Night service matters more than peak frequency",
	}
)

// Run creates a demo conversation with seed comments, participant comments
// and a spread of votes. Idempotent enough for repeated dev use: it skips
// seeding when any conversation already exists.
func Run(db *gorm.DB) error {
	var existing int64
	if err := db.Model(&models.Conversation{}).Count(&existing).Error; err != nil {
		return err
	}
	if existing > 0 {
		log.Println("Database already seeded, skipping")
		return nil
	}

	users := make([]models.User, len(demoUsers))
	copy(users, demoUsers)
	for i := range users {
		if err := db.Create(&users[i]).Error; err != nil {
			return fmt.Errorf("seed user: %w", err)
		}
	}
	owner := users[len(users)-1]

	conv := models.Conversation{
		Topic:       "How should our city reduce traffic congestion?",
		Description: "Vote on statements one at a time; add your own once you have seen a few.",
		Owner:       owner.UID,
		IsActive:    true,
		IsPublic:    true,
	}
	if err := db.Create(&conv).Error; err != nil {
		return fmt.Errorf("seed conversation: %w", err)
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	addComment := func(author models.User, txt string, isSeed bool) (models.Comment, error) {
		participant := models.Participant{UID: author.UID, ZID: conv.ZID, LastInteraction: time.Now().UnixMilli()}
		if err := db.Where(models.Participant{UID: author.UID, ZID: conv.ZID}).FirstOrCreate(&participant).Error; err != nil {
			return models.Comment{}, err
		}
		comment := models.Comment{
			ZID:        conv.ZID,
			PID:        participant.PID,
			UID:        author.UID,
			Text:       txt,
			IsSeed:     isSeed,
			Active:     true,
			FlagStatus: models.FlagRejected,
		}
		return comment, db.Create(&comment).Error
	}

	var comments []models.Comment
	for _, txt := range seedStatements {
		cm, err := addComment(owner, txt, true)
		if err != nil {
			return fmt.Errorf("seed comment: %w", err)
		}
		comments = append(comments, cm)
	}
	for i, txt := range participantStatements {
		cm, err := addComment(users[i%3], txt, false)
		if err != nil {
			return fmt.Errorf("seed comment: %w", err)
		}
		comments = append(comments, cm)
	}

	// Scatter some votes so tallies and participation stats are non-trivial.
	for _, u := range users[:3] {
		for _, cm := range comments {
			if rng.Intn(3) == 0 {
				continue // leave some comments skipped
			}
			var participant models.Participant
			if err := db.Where("uid = ? AND zid = ?", u.UID, conv.ZID).First(&participant).Error; err != nil {
				participant = models.Participant{UID: u.UID, ZID: conv.ZID}
				if err := db.Create(&participant).Error; err != nil {
					return err
				}
			}
			vote := models.Vote{
				ZID:   conv.ZID,
				TID:   cm.TID,
				UID:   u.UID,
				PID:   participant.PID,
				Value: rng.Intn(3) - 1,
			}
			if err := db.Create(&vote).Error; err != nil {
				return fmt.Errorf("seed vote: %w", err)
			}
		}
	}

	// Bring the denormalized counters in line with the ledger.
	for _, cm := range comments {
		if err := recount(db, cm.TID); err != nil {
			return err
		}
	}

	log.Printf("Seeded conversation %d with %d comments", conv.ZID, len(comments))
	return nil
}

func recount(db *gorm.DB, tid uint) error {
	type bucket struct {
		Vote  int
		Count int64
	}
	var buckets []bucket
	if err := db.Model(&models.Vote{}).
		Select("vote, COUNT(*) as count").
		Where("tid = ?", tid).
		Group("vote").
		Scan(&buckets).Error; err != nil {
		return err
	}
	var like, dislike, neutral int64
	for _, b := range buckets {
		switch b.Vote {
		case models.VoteAgree:
			like = b.Count
		case models.VoteDisagree:
			dislike = b.Count
		case models.VoteNeutral:
			neutral = b.Count
		}
	}
	return db.Model(&models.Comment{}).Where("tid = ?", tid).Updates(map[string]any{
		"like_count":    like,
		"dislike_count": dislike,
		"neutral_count": neutral,
	}).Error
}
