package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskhive/taskhive/internal/models"
)

func TestAwardCompletionCrossesBronzeThreshold(t *testing.T) {
	db := testDB(t)
	user := createUser(t, db, "Ada", "ada@example.com")
	require.NoError(t, db.Model(user).Update("points", 95).Error)
	user.Points = 95

	require.NoError(t, AwardCompletion(db, user))

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, user.ID).Error)
	assert.Equal(t, 105, reloaded.Points)
	assert.Equal(t, []string{"Bronze Achiever"}, DecodeBadges(reloaded.Badges))
}

func TestAwardCompletionBelowThreshold(t *testing.T) {
	db := testDB(t)
	user := createUser(t, db, "Ada", "ada@example.com")

	require.NoError(t, AwardCompletion(db, user))

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, user.ID).Error)
	assert.Equal(t, 10, reloaded.Points)
	assert.Empty(t, DecodeBadges(reloaded.Badges))
}

func TestAwardCompletionGrantsAllReachedBadges(t *testing.T) {
	db := testDB(t)
	user := createUser(t, db, "Ada", "ada@example.com")
	require.NoError(t, db.Model(user).Update("points", 495).Error)
	user.Points = 495

	require.NoError(t, AwardCompletion(db, user))

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, user.ID).Error)
	assert.Equal(t, 505, reloaded.Points)
	assert.Equal(t, []string{"Bronze Achiever", "Silver Achiever", "Gold Achiever"}, DecodeBadges(reloaded.Badges))
}

func TestAwardCompletionKeepsExistingBadges(t *testing.T) {
	db := testDB(t)
	user := createUser(t, db, "Ada", "ada@example.com")
	require.NoError(t, db.Model(user).Updates(map[string]interface{}{
		"points": 110,
		"badges": []byte(`["Bronze Achiever"]`),
	}).Error)
	user.Points = 110
	user.Badges = []byte(`["Bronze Achiever"]`)

	require.NoError(t, AwardCompletion(db, user))

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, user.ID).Error)
	assert.Equal(t, 120, reloaded.Points)
	// no duplicate entry once a threshold badge exists
	assert.Equal(t, []string{"Bronze Achiever"}, DecodeBadges(reloaded.Badges))
}
