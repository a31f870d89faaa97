package service

import (
	"context"
	"fmt"
	"strings"
	"study_planner_backend/internal/config"
	"study_planner_backend/internal/model"
	"study_planner_backend/internal/repository"
	"study_planner_backend/pkg/database"
	"sync"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

type fakeCompleter struct {
	mu      sync.Mutex
	reply   string
	err     error
	prompts []string
	opts    []CompletionOptions
}

func (f *fakeCompleter) Complete(ctx context.Context, prompt string, opts CompletionOptions) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	f.opts = append(f.opts, opts)
	return f.reply, f.err
}

func (f *fakeCompleter) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

var testAIConfig = config.AIConfig{
	Model:            "gpt-4",
	Timeout:          5 * time.Second,
	TopicMaxTokens:   1500,
	RoadmapMaxTokens: 2000,
	Temperature:      0.7,
}

type fixture struct {
	db       *gorm.DB
	ai       *fakeCompleter
	classes  *repository.ClassRepository
	topics   *repository.TopicRepository
	roadmaps *repository.RoadmapRepository
	progress *repository.ProgressRepository
	svc      *RoadmapService
	today    time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)
	f := &fixture{
		db:       db,
		ai:       &fakeCompleter{},
		classes:  repository.NewClassRepository(db),
		topics:   repository.NewTopicRepository(db),
		roadmaps: repository.NewRoadmapRepository(db),
		progress: repository.NewProgressRepository(db),
		today:    time.Date(2026, 3, 2, 0, 0, 0, 0, time.Local),
	}
	f.svc = NewRoadmapService(f.classes, f.topics, f.roadmaps, f.progress, f.ai, nil, testAIConfig)
	f.svc.now = func() time.Time { return f.today.Add(9 * time.Hour) }
	return f
}

// seedClass 创建课程及主题，返回课程和按输入顺序的主题
func (f *fixture) seedClass(t *testing.T, userID uint, titles ...string) (*model.Class, []model.Topic) {
	t.Helper()
	class := &model.Class{
		UserID:    userID,
		ClassName: "Theory of Computation",
		Syllabus:  "syllabus text",
		Professor: "Sipser",
		Session:   "Fall",
		Semester:  "2026",
	}
	topics := make([]model.Topic, len(titles))
	for i, title := range titles {
		topics[i] = model.Topic{Title: title}
	}
	if err := f.classes.CreateWithTopics(context.Background(), class, topics); err != nil {
		t.Fatalf("seed class: %v", err)
	}
	return class, topics
}

func topicIDs(topics []model.Topic) []uint {
	ids := make([]uint, len(topics))
	for i, tp := range topics {
		ids[i] = tp.ID
	}
	return ids
}
