package scheduler

import (
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskhive/taskhive/internal/models"
	"github.com/taskhive/taskhive/internal/types"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbSeq atomic.Int64

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:scheduler_test_%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Project{}, &models.ProjectMember{}, &models.Task{}))
	return db
}

type sentEmail struct {
	To      string
	Subject string
}

type fakeMailer struct {
	sent []sentEmail
	fail bool
}

func (m *fakeMailer) SendEmail(to, subject, _ string) error {
	if m.fail {
		return errors.New("smtp down")
	}
	m.sent = append(m.sent, sentEmail{To: to, Subject: subject})
	return nil
}

type fakeTexter struct {
	sent []string
}

func (t *fakeTexter) SendSMS(to, _ string) error {
	t.sent = append(t.sent, to)
	return nil
}

var base = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestScheduler(db *gorm.DB, mailer *fakeMailer, texter *fakeTexter) *ReminderScheduler {
	s := NewReminderScheduler(db, mailer, texter, zap.NewNop(), 5*time.Minute, time.Hour)
	s.SetNow(func() time.Time { return base })
	return s
}

func createOwner(t *testing.T, db *gorm.DB, email string, notifyEmail, notifySMS bool, phone string) *models.User {
	t.Helper()

	user := &models.User{
		Name:         "Owner",
		Email:        email,
		PasswordHash: "irrelevant",
		Role:         types.RoleUser,
		NotifyEmail:  notifyEmail,
		NotifySMS:    notifySMS,
		Phone:        phone,
		Badges:       []byte("[]"),
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createDueTask(t *testing.T, db *gorm.DB, ownerID uint, title string, due time.Time, status string) *models.Task {
	t.Helper()

	task := &models.Task{
		OwnerID:  ownerID,
		Title:    title,
		DueDate:  &due,
		Priority: types.PriorityMedium,
		Category: "Other",
		Status:   status,
	}
	require.NoError(t, db.Create(task).Error)
	return task
}

func TestTickWindowBoundaries(t *testing.T) {
	db := testDB(t)
	mailer := &fakeMailer{}
	owner := createOwner(t, db, "owner@example.com", true, false, "")

	createDueTask(t, db, owner.ID, "in window", base.Add(30*time.Minute), types.StatusPending)
	createDueTask(t, db, owner.ID, "just past", base.Add(-1*time.Minute), types.StatusPending)
	createDueTask(t, db, owner.ID, "too far out", base.Add(61*time.Minute), types.StatusPending)
	createDueTask(t, db, owner.ID, "already done", base.Add(30*time.Minute), types.StatusCompleted)

	s := newTestScheduler(db, mailer, &fakeTexter{})
	s.RunTick()

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "owner@example.com", mailer.sent[0].To)
	assert.Equal(t, "Reminder: in window is due soon", mailer.sent[0].Subject)
}

func TestTickIncludesWindowEdges(t *testing.T) {
	db := testDB(t)
	mailer := &fakeMailer{}
	owner := createOwner(t, db, "owner@example.com", true, false, "")

	createDueTask(t, db, owner.ID, "due right now", base, types.StatusPending)
	createDueTask(t, db, owner.ID, "due in exactly an hour", base.Add(time.Hour), types.StatusPending)

	s := newTestScheduler(db, mailer, &fakeTexter{})
	s.RunTick()

	assert.Len(t, mailer.sent, 2)
}

func TestConsecutiveTicksResendWithoutDedup(t *testing.T) {
	// No watermark: a task still inside the window is re-notified on the next
	// tick. This asserts the accepted limitation rather than hiding it.
	db := testDB(t)
	mailer := &fakeMailer{}
	owner := createOwner(t, db, "owner@example.com", true, false, "")
	createDueTask(t, db, owner.ID, "looming", base.Add(30*time.Minute), types.StatusPending)

	s := newTestScheduler(db, mailer, &fakeTexter{})
	now := base
	s.SetNow(func() time.Time { return now })

	s.RunTick()
	now = now.Add(5 * time.Minute)
	s.RunTick()

	require.Len(t, mailer.sent, 2)
	assert.Equal(t, mailer.sent[0], mailer.sent[1])
}

func TestDisabledTogglesSurviveCreate(t *testing.T) {
	// An explicit false must not be swapped for a column default on insert.
	db := testDB(t)
	owner := createOwner(t, db, "quiet@example.com", false, false, "")

	var got models.User
	require.NoError(t, db.First(&got, owner.ID).Error)
	assert.False(t, got.NotifyEmail)
	assert.False(t, got.NotifySMS)
	assert.False(t, got.NotifyPush)
}

func TestTickRespectsOwnerPreferences(t *testing.T) {
	db := testDB(t)
	mailer := &fakeMailer{}
	texter := &fakeTexter{}
	owner := createOwner(t, db, "owner@example.com", false, false, "+15550001")
	createDueTask(t, db, owner.ID, "quiet", base.Add(10*time.Minute), types.StatusPending)

	s := newTestScheduler(db, mailer, texter)
	s.RunTick()

	assert.Empty(t, mailer.sent)
	assert.Empty(t, texter.sent)
}

func TestTickNotifiesAssigneeIndependently(t *testing.T) {
	db := testDB(t)
	mailer := &fakeMailer{}
	owner := createOwner(t, db, "owner@example.com", false, false, "")
	assignee := createOwner(t, db, "assignee@example.com", true, false, "")

	task := createDueTask(t, db, owner.ID, "handoff", base.Add(10*time.Minute), types.StatusPending)
	require.NoError(t, db.Model(task).Update("assignee_id", assignee.ID).Error)

	s := newTestScheduler(db, mailer, &fakeTexter{})
	s.RunTick()

	// owner opted out of email but the assignee reminder still goes out
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "assignee@example.com", mailer.sent[0].To)
}

func TestTickSendsSMSWhenEnabled(t *testing.T) {
	db := testDB(t)
	mailer := &fakeMailer{}
	texter := &fakeTexter{}
	owner := createOwner(t, db, "owner@example.com", true, true, "+15550001")
	createDueTask(t, db, owner.ID, "ring ring", base.Add(10*time.Minute), types.StatusPending)

	s := newTestScheduler(db, mailer, texter)
	s.RunTick()

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, []string{"+15550001"}, texter.sent)
}

func TestTickSurvivesSendFailures(t *testing.T) {
	db := testDB(t)
	mailer := &fakeMailer{fail: true}
	texter := &fakeTexter{}
	owner := createOwner(t, db, "owner@example.com", true, true, "+15550001")
	createDueTask(t, db, owner.ID, "flaky", base.Add(10*time.Minute), types.StatusPending)

	s := newTestScheduler(db, mailer, texter)
	s.RunTick()

	// email transport is down; the SMS still goes out
	assert.Equal(t, []string{"+15550001"}, texter.sent)
}
