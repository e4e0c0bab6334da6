package services

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/taskhive/taskhive/internal/models"
	"github.com/taskhive/taskhive/internal/types"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbSeq atomic.Int64

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	// A named shared-cache database so gorm's connection pool sees one store.
	dsn := fmt.Sprintf("file:services_test_%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.ProjectMember{},
		&models.Task{},
		&models.Template{},
	))

	return db
}

func createUser(t *testing.T, db *gorm.DB, name, email string) *models.User {
	t.Helper()

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: "irrelevant",
		Role:         types.RoleUser,
		NotifyEmail:  true,
		Badges:       []byte("[]"),
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createProject(t *testing.T, db *gorm.DB, ownerID uint, name string) *models.Project {
	t.Helper()

	project := &models.Project{OwnerID: ownerID, Name: name, Color: "#3b82f6"}
	require.NoError(t, db.Create(project).Error)
	return project
}

func reloadProject(t *testing.T, db *gorm.DB, id uint) *models.Project {
	t.Helper()

	var project models.Project
	require.NoError(t, db.Preload("Members").First(&project, id).Error)
	return &project
}

type sentEmail struct {
	To      string
	Subject string
	Body    string
}

type recorderMailer struct {
	sent []sentEmail
}

func (m *recorderMailer) SendEmail(to, subject, html string) error {
	m.sent = append(m.sent, sentEmail{To: to, Subject: subject, Body: html})
	return nil
}

func (m *recorderMailer) recipients() []string {
	out := make([]string, 0, len(m.sent))
	for _, e := range m.sent {
		out = append(out, e.To)
	}
	return out
}
