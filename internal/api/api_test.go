package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/onestop/forum-service/internal/db"
	"github.com/onestop/forum-service/internal/models"
	"github.com/onestop/forum-service/pkg/config"
)

func newTestServer(t *testing.T, moderators ...string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

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

	cfg := &config.Config{
		Server: config.ServerConfig{
			Environment: "development",
			CORSOrigin:  "*",
		},
		Forum: config.ForumConfig{
			Moderators:      moderators,
			DefaultPageSize: 20,
			MaxPageSize:     50,
			UnreadCacheTTL:  30 * time.Second,
		},
	}

	engine := gin.New()
	NewRouter(&db.DB{DB: gdb}, nil, cfg).SetupRoutes(engine)
	return engine
}

// doJSON performs a request as the given user and decodes the envelope
func doJSON(t *testing.T, engine *gin.Engine, method, path, userID string, body interface{}) (int, Envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set(HeaderUserID, userID)
		req.Header.Set(HeaderUserName, "User "+userID)
	}

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	var env Envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("Failed to decode response %q: %v", w.Body.String(), err)
	}
	return w.Code, env
}

// dataAs re-marshals the envelope data into a typed value
func dataAs(t *testing.T, env Envelope, out interface{}) {
	t.Helper()
	raw, err := json.Marshal(env.Data)
	if err != nil {
		t.Fatalf("Failed to re-marshal data: %v", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		t.Fatalf("Failed to decode data: %v", err)
	}
}

func TestHealthEndpoint(t *testing.T) {
	engine := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode body: %v", err)
	}
	if body["status"] != "OK" || body["service"] != "onestop-forum" {
		t.Errorf("body = %v", body)
	}
}

func TestRequireAuth(t *testing.T) {
	engine := newTestServer(t)

	code, env := doJSON(t, engine, http.MethodPost, "/api/forum/posts", "", map[string]string{
		"category": "general", "title": "t", "content": "c",
	})
	if code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", code)
	}
	if env.Status != "error" {
		t.Errorf("status field = %q, want error", env.Status)
	}

	// Reads stay open
	code, _ = doJSON(t, engine, http.MethodGet, "/api/forum/posts", "", nil)
	if code != http.StatusOK {
		t.Errorf("unauthenticated list status = %d, want 200", code)
	}
}

func TestListPostsEnvelope(t *testing.T) {
	engine := newTestServer(t)

	for i := 0; i < 3; i++ {
		code, _ := doJSON(t, engine, http.MethodPost, "/api/forum/posts", "author", map[string]string{
			"category": "general",
			"title":    fmt.Sprintf("Post %d", i),
			"content":  "body",
		})
		if code != http.StatusCreated {
			t.Fatalf("create status = %d, want 201", code)
		}
	}

	code, env := doJSON(t, engine, http.MethodGet, "/api/forum/posts?limit=500&page=-3", "", nil)
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	if env.Pagination == nil {
		t.Fatal("Expected pagination block")
	}
	// Out-of-range paging values clamp
	if env.Pagination.Page != 1 || env.Pagination.Limit != 50 {
		t.Errorf("pagination = {%d, %d}, want {1, 50}", env.Pagination.Page, env.Pagination.Limit)
	}
	if env.Pagination.Count != 3 {
		t.Errorf("count = %d, want 3", env.Pagination.Count)
	}
}

func TestGetPostBadID(t *testing.T) {
	engine := newTestServer(t)

	for _, path := range []string{"/api/forum/posts/abc", "/api/forum/posts/0", "/api/forum/posts/9999"} {
		code, _ := doJSON(t, engine, http.MethodGet, path, "", nil)
		if code != http.StatusNotFound {
			t.Errorf("GET %s status = %d, want 404", path, code)
		}
	}
}

// TestReplyNotificationFlow walks the full reply loop: one user posts,
// another comments, the author sees and clears the resulting notification.
func TestReplyNotificationFlow(t *testing.T) {
	engine := newTestServer(t)

	code, env := doJSON(t, engine, http.MethodPost, "/api/forum/posts", "alice", map[string]string{
		"category": "general", "title": "Road trip", "content": "Who is in?",
	})
	if code != http.StatusCreated {
		t.Fatalf("create post status = %d: %+v", code, env)
	}
	var post models.Post
	dataAs(t, env, &post)

	code, env = doJSON(t, engine, http.MethodPost, fmt.Sprintf("/api/forum/posts/%d/comments", post.ID), "bob", map[string]string{
		"content": "Count me in",
	})
	if code != http.StatusCreated {
		t.Fatalf("create comment status = %d: %+v", code, env)
	}

	code, env = doJSON(t, engine, http.MethodGet, "/api/forum/notifications/unread", "alice", nil)
	if code != http.StatusOK {
		t.Fatalf("unread status = %d", code)
	}
	var unread struct {
		Unread int64 `json:"unread"`
	}
	dataAs(t, env, &unread)
	if unread.Unread != 1 {
		t.Fatalf("unread = %d, want 1", unread.Unread)
	}

	code, env = doJSON(t, engine, http.MethodGet, "/api/forum/notifications", "alice", nil)
	if code != http.StatusOK {
		t.Fatalf("list notifications status = %d", code)
	}
	var notifs []models.Notification
	dataAs(t, env, &notifs)
	if len(notifs) != 1 {
		t.Fatalf("len(notifs) = %d, want 1", len(notifs))
	}
	if notifs[0].ActorID != "bob" || notifs[0].Message != "User bob replied to your post" {
		t.Errorf("notification = %+v", notifs[0])
	}

	// Bob cannot read Alice's notification
	code, _ = doJSON(t, engine, http.MethodPost, fmt.Sprintf("/api/forum/notifications/%d/read", notifs[0].ID), "bob", nil)
	if code != http.StatusNotFound {
		t.Errorf("foreign mark-read status = %d, want 404", code)
	}

	code, _ = doJSON(t, engine, http.MethodPost, fmt.Sprintf("/api/forum/notifications/%d/read", notifs[0].ID), "alice", nil)
	if code != http.StatusOK {
		t.Fatalf("mark-read status = %d", code)
	}

	code, env = doJSON(t, engine, http.MethodGet, "/api/forum/notifications", "alice", nil)
	if code != http.StatusOK {
		t.Fatalf("list notifications status = %d", code)
	}
	dataAs(t, env, &notifs)
	if len(notifs) != 1 || notifs[0].ReadAt == nil {
		t.Error("Notification should carry read_at after marking")
	}

	code, env = doJSON(t, engine, http.MethodGet, "/api/forum/notifications/unread", "alice", nil)
	if code != http.StatusOK {
		t.Fatalf("unread status = %d", code)
	}
	dataAs(t, env, &unread)
	if unread.Unread != 0 {
		t.Errorf("unread after mark = %d, want 0", unread.Unread)
	}
}

// TestVoteFlow runs a multi-user vote sequence over the API and checks
// the score reported after each step.
func TestVoteFlow(t *testing.T) {
	engine := newTestServer(t)

	code, env := doJSON(t, engine, http.MethodPost, "/api/forum/posts", "author", map[string]string{
		"category": "general", "title": "Vote on me", "content": "please",
	})
	if code != http.StatusCreated {
		t.Fatalf("create post status = %d", code)
	}
	var post models.Post
	dataAs(t, env, &post)
	votePath := fmt.Sprintf("/api/forum/posts/%d/vote", post.ID)

	steps := []struct {
		user  string
		value int16
		want  int
	}{
		{"alice", 1, 1},   // fresh upvote
		{"bob", 1, 2},     // second upvote
		{"carol", -1, 1},  // downvote
		{"bob", -1, -1},   // flip
		{"bob", -1, 0},    // same value retracts
		{"carol", 1, 2},   // flip
		{"alice", 1, 1},   // same value retracts
	}

	for i, step := range steps {
		code, env := doJSON(t, engine, http.MethodPost, votePath, step.user, map[string]int16{"value": step.value})
		if code != http.StatusOK {
			t.Fatalf("Step %d: status = %d: %+v", i, code, env)
		}
		var got models.Post
		dataAs(t, env, &got)
		if got.Score != step.want {
			t.Fatalf("Step %d: score = %d, want %d", i, got.Score, step.want)
		}
	}

	code, env = doJSON(t, engine, http.MethodPost, votePath, "alice", map[string]int{"value": 7})
	if code != http.StatusBadRequest {
		t.Errorf("invalid value status = %d, want 400", code)
	}
}

func TestModerationOverHTTP(t *testing.T) {
	engine := newTestServer(t, "mod")

	code, env := doJSON(t, engine, http.MethodPost, "/api/forum/posts", "author", map[string]string{
		"category": "general", "title": "Controversial", "content": "hot take",
	})
	if code != http.StatusCreated {
		t.Fatalf("create post status = %d", code)
	}
	var post models.Post
	dataAs(t, env, &post)
	lockPath := fmt.Sprintf("/api/forum/posts/%d/lock", post.ID)

	code, _ = doJSON(t, engine, http.MethodPost, lockPath, "author", nil)
	if code != http.StatusForbidden {
		t.Errorf("non-moderator lock status = %d, want 403", code)
	}

	code, _ = doJSON(t, engine, http.MethodPost, lockPath, "mod", nil)
	if code != http.StatusOK {
		t.Fatalf("moderator lock status = %d", code)
	}

	code, _ = doJSON(t, engine, http.MethodPost, fmt.Sprintf("/api/forum/posts/%d/comments", post.ID), "bob", map[string]string{
		"content": "too late",
	})
	if code != http.StatusForbidden {
		t.Errorf("comment on locked post status = %d, want 403", code)
	}

	code, _ = doJSON(t, engine, http.MethodPost, fmt.Sprintf("/api/forum/posts/%d/unlock", post.ID), "mod", nil)
	if code != http.StatusOK {
		t.Fatalf("moderator unlock status = %d", code)
	}

	code, _ = doJSON(t, engine, http.MethodPost, fmt.Sprintf("/api/forum/posts/%d/comments", post.ID), "bob", map[string]string{
		"content": "back open",
	})
	if code != http.StatusCreated {
		t.Errorf("comment after unlock status = %d, want 201", code)
	}
}
