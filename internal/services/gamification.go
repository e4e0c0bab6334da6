package services

import (
	"encoding/json"

	"github.com/taskhive/taskhive/internal/models"
	"gorm.io/gorm"
)

// CompletionPoints is awarded once per task, on its first transition to completed.
const CompletionPoints = 10

// Badge thresholds, checked in ascending order. Badges are never removed.
var badgeThresholds = []struct {
	Points int
	Name   string
}{
	{100, "Bronze Achiever"},
	{250, "Silver Achiever"},
	{500, "Gold Achiever"},
}

// AwardCompletion adds the completion points to the user and recomputes the
// badge set. Callers must invoke it exactly once per first completion; the
// badge recomputation itself is idempotent once a threshold is met.
func AwardCompletion(db *gorm.DB, user *models.User) error {
	user.Points += CompletionPoints

	badges := DecodeBadges(user.Badges)
	have := make(map[string]bool, len(badges))
	for _, b := range badges {
		have[b] = true
	}

	for _, t := range badgeThresholds {
		if user.Points >= t.Points && !have[t.Name] {
			badges = append(badges, t.Name)
			have[t.Name] = true
		}
	}

	encoded, err := json.Marshal(badges)
	if err != nil {
		return err
	}
	user.Badges = encoded

	return db.Model(user).Updates(map[string]interface{}{
		"points": user.Points,
		"badges": user.Badges,
	}).Error
}

// DecodeBadges unpacks the stored badge list, tolerating an unset column.
func DecodeBadges(raw []byte) []string {
	if len(raw) == 0 {
		return []string{}
	}
	var badges []string
	if err := json.Unmarshal(raw, &badges); err != nil {
		return []string{}
	}
	return badges
}
