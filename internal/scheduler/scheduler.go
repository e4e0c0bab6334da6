package scheduler

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/taskhive/taskhive/internal/models"
	"github.com/taskhive/taskhive/internal/notify"
	"github.com/taskhive/taskhive/internal/types"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ReminderScheduler scans for tasks due inside a rolling window and fans out
// reminders to the task owner and assignee. There is deliberately no
// "already notified" watermark: a task still inside the window on the next
// tick is re-notified. At the default 5-minute cadence that means up to 12
// reminders per task per hour. Known limitation carried over from the
// existing behavior; add an idempotency key before changing it.
type ReminderScheduler struct {
	db     *gorm.DB
	mailer notify.Mailer
	texter notify.Texter
	log    *zap.Logger

	tick   time.Duration
	window time.Duration
	now    func() time.Time

	cron *cron.Cron
}

func NewReminderScheduler(db *gorm.DB, mailer notify.Mailer, texter notify.Texter, log *zap.Logger, tick, window time.Duration) *ReminderScheduler {
	return &ReminderScheduler{
		db:     db,
		mailer: mailer,
		texter: texter,
		log:    log,
		tick:   tick,
		window: window,
		now:    time.Now,
	}
}

// SetNow overrides the clock. Tests use it to place tasks inside or outside
// the due window without waiting on real time.
func (s *ReminderScheduler) SetNow(now func() time.Time) {
	s.now = now
}

// Start begins the recurring scan. A tick that outlives the interval is
// skipped rather than run concurrently.
func (s *ReminderScheduler) Start() error {
	cronLog := cron.PrintfLogger(zap.NewStdLog(s.log))
	s.cron = cron.New(cron.WithChain(cron.SkipIfStillRunning(cronLog)))

	if _, err := s.cron.AddFunc(fmt.Sprintf("@every %s", s.tick), s.RunTick); err != nil {
		return err
	}

	s.cron.Start()
	s.log.Info("reminder scheduler started",
		zap.Duration("tick", s.tick),
		zap.Duration("window", s.window),
	)
	return nil
}

// Stop halts the recurring scan and waits for a running tick to finish.
func (s *ReminderScheduler) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
	s.log.Info("reminder scheduler stopped")
}

// RunTick performs one scan: every non-completed task with a due date in
// [now, now+window] gets its reminders. Each send is independent; a failed
// one is logged and the rest still go out.
func (s *ReminderScheduler) RunTick() {
	now := s.now()
	until := now.Add(s.window)

	var tasks []models.Task
	err := s.db.
		Preload("Owner").
		Preload("Assignee").
		Where("due_date >= ? AND due_date <= ? AND status <> ?", now, until, types.StatusCompleted).
		Find(&tasks).Error
	if err != nil {
		s.log.Error("reminder scan failed", zap.Error(err))
		return
	}

	s.log.Info("reminder scan",
		zap.Time("from", now),
		zap.Time("until", until),
		zap.Int("due_soon", len(tasks)),
	)

	for i := range tasks {
		s.remind(&tasks[i])
	}
}

func (s *ReminderScheduler) remind(task *models.Task) {
	owner := task.Owner
	subject := notify.ReminderSubject(task.Title)

	if owner.NotifyEmail && owner.Email != "" {
		body := notify.OwnerReminderBody(owner.Name, task.Title, task.DueDate)
		if err := s.mailer.SendEmail(owner.Email, subject, body); err != nil {
			s.log.Warn("owner reminder failed",
				zap.Uint("task_id", task.ID),
				zap.String("to", owner.Email),
				zap.Error(err),
			)
		}
	}

	if task.Assignee != nil && task.Assignee.Email != "" {
		body := notify.AssigneeReminderBody(task.Assignee.Name, task.Title, task.DueDate)
		if err := s.mailer.SendEmail(task.Assignee.Email, subject, body); err != nil {
			s.log.Warn("assignee reminder failed",
				zap.Uint("task_id", task.ID),
				zap.String("to", task.Assignee.Email),
				zap.Error(err),
			)
		}
	}

	if owner.NotifySMS && owner.Phone != "" {
		if err := s.texter.SendSMS(owner.Phone, notify.ReminderSMS(task.Title)); err != nil {
			s.log.Warn("sms reminder failed",
				zap.Uint("task_id", task.ID),
				zap.String("to", owner.Phone),
				zap.Error(err),
			)
		}
	}
}

// Global scheduler instance, wired once at boot.
var globalScheduler *ReminderScheduler

// Initialize creates and starts the global reminder scheduler.
func Initialize(db *gorm.DB, mailer notify.Mailer, texter notify.Texter, log *zap.Logger, tick, window time.Duration) error {
	globalScheduler = NewReminderScheduler(db, mailer, texter, log, tick, window)
	return globalScheduler.Start()
}

// Shutdown stops the global reminder scheduler.
func Shutdown() {
	if globalScheduler != nil {
		globalScheduler.Stop()
	}
}
