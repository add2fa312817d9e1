package forum

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/onestop/forum-service/internal/db"
	"github.com/onestop/forum-service/internal/models"
	"github.com/onestop/forum-service/pkg/config"
)

// newTestDB opens an in-memory SQLite database so the gorm code paths run
// without a Postgres instance.
func newTestDB(t *testing.T) *db.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	// A single connection keeps every session on the same in-memory store
	sqlDB.SetMaxOpenConns(1)

	if err := gdb.AutoMigrate(
		&models.Post{},
		&models.Comment{},
		&models.PostVote{},
		&models.CommentVote{},
		&models.Notification{},
	); err != nil {
		t.Fatalf("Failed to migrate test schema: %v", err)
	}

	return &db.DB{DB: gdb}
}

func testForumConfig() *config.ForumConfig {
	return &config.ForumConfig{
		DefaultPageSize: 20,
		MaxPageSize:     50,
		UnreadCacheTTL:  30 * time.Second,
	}
}

// newTestForum wires the forum services against a fresh test database.
// The cache is nil, exercising the cache-disabled path.
func newTestForum(t *testing.T, moderators ...string) (*Threads, *Ledger, *Notifier, *db.DB) {
	t.Helper()

	database := newTestDB(t)
	cfg := testForumConfig()
	notifier := NewNotifier(database, nil, cfg)
	threads := NewThreads(database, NewGate(moderators), notifier, cfg)
	ledger := NewLedger(database)
	return threads, ledger, notifier, database
}
