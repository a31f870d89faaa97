package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"study_planner_backend/internal/config"
	"study_planner_backend/internal/util"
	"study_planner_backend/pkg/database"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "router-test-secret-router-test-secret"

type staticExtractor string

func (s staticExtractor) Extract(ctx context.Context, data []byte) (string, error) {
	return string(s), nil
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	router *gin.Engine
	token  string
	today  time.Time
}

// fakeCompletionServer 主题请求返回按行的标题，路线请求返回 JSON 数组
func fakeCompletionServer(t *testing.T, today time.Time) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		json.NewDecoder(r.Body).Decode(&req)

		content := "Finite Automata\nContext-Free Grammars\n"
		if strings.Contains(req.Messages[0].Content, "JSON array") {
			content = fmt.Sprintf("```json\n[{\"step_order\": 2, \"step_name\": \"Grammars\", \"topic_title\": \"context-free grammars\", \"due_date\": %q},"+
				"{\"step_order\": 1, \"step_name\": \"DFAs\", \"topic_title\": \"Finite Automata\", \"bullet_points\": [\"Read\"], \"due_date\": %q}]\n```",
				today.AddDate(0, 0, 5).Format(util.DateFormat), today.AddDate(0, 0, 1).Format(util.DateFormat))
		}
		body, _ := json.Marshal(map[string]interface{}{
			"choices": []map[string]interface{}{{"message": map[string]string{"role": "assistant", "content": content}}},
		})
		w.Header().Set("Content-Type", "application/json")
		w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	today := util.Today(time.Now())
	ai := fakeCompletionServer(t, today)

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	cfg := &config.Config{
		Server:    config.ServerConfig{Mode: gin.TestMode, MaxUploadSize: 1 << 20},
		JWT:       config.JWTConfig{Secret: testSecret},
		Storage:   config.StorageConfig{Type: util.StorageLocal, LocalPath: t.TempDir()},
		AI:        config.AIConfig{BaseURL: ai.URL, APIKey: "sk-test", Model: "gpt-4", Timeout: 5 * time.Second, Temperature: 0.7},
		RateLimit: config.RateLimitConfig{MaxRequests: 1000, WindowMinutes: 1},
	}

	router := NewRouter(cfg, Dependencies{DB: db, Extractor: staticExtractor("Syllabus: automata, grammars")})

	token, err := util.GenerateJWT(11, "student@example.edu", testSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}
	return &testServer{router: router, token: token, today: today}
}

func (s *testServer) do(t *testing.T, req *http.Request) (int, envelope) {
	t.Helper()
	if s.token != "" && req.Header.Get("Authorization") == "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode %s %s response %q: %v", req.Method, req.URL.Path, w.Body.String(), err)
		}
	}
	return w.Code, env
}

func (s *testServer) doJSON(t *testing.T, method, path string, body interface{}) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return s.do(t, req)
}

func multipartClass(t *testing.T, fields map[string]string, file []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		mw.WriteField(k, v)
	}
	if file != nil {
		fw, err := mw.CreateFormFile(util.SyllabusFormField, "syllabus.pdf")
		if err != nil {
			t.Fatalf("CreateFormFile: %v", err)
		}
		fw.Write(file)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/classes", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

var classFields = map[string]string{
	"class_name": "CS 4510",
	"professor":  "Sipser",
	"session":    "Fall",
	"semester":   "2026",
}

var pdfBytes = []byte("%PDF-1.4\n%fake\n")

func TestHealthIsPublic(t *testing.T) {
	s := newTestServer(t)
	s.token = ""

	code, env := s.doJSON(t, http.MethodGet, "/api/health", nil)
	if code != http.StatusOK || env.Code != http.StatusOK {
		t.Fatalf("unexpected health response: %d %#v", code, env)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)
	s.token = ""

	for _, path := range []string{"/api/classes", "/api/roadmaps/1", "/api/progress/roadmaps/1"} {
		if code, _ := s.doJSON(t, http.MethodGet, path, nil); code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", path, code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/classes", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	if code, _ := s.do(t, req); code != http.StatusUnauthorized {
		t.Fatalf("invalid token: expected 401, got %d", code)
	}
}

func TestStudyPlanFlow(t *testing.T) {
	s := newTestServer(t)

	// 1. 建课
	code, env := s.do(t, multipartClass(t, classFields, pdfBytes))
	if code != http.StatusCreated {
		t.Fatalf("create class: %d %#v", code, env)
	}
	var created struct {
		Class struct {
			ID       uint   `json:"id"`
			Syllabus string `json:"syllabus"`
		} `json:"class"`
		TopicsAdded int `json:"topicsAdded"`
	}
	json.Unmarshal(env.Data, &created)
	if created.TopicsAdded != 2 || created.Class.Syllabus != "Syllabus: automata, grammars" {
		t.Fatalf("unexpected class: %s", env.Data)
	}
	classID := created.Class.ID

	// 2. 主题
	code, env = s.doJSON(t, http.MethodGet, fmt.Sprintf("/api/classes/%d/topics", classID), nil)
	if code != http.StatusOK {
		t.Fatalf("topics: %d %#v", code, env)
	}
	var topics []struct {
		ID    uint   `json:"id"`
		Title string `json:"title"`
	}
	json.Unmarshal(env.Data, &topics)
	if len(topics) != 2 || topics[0].Title != "Finite Automata" {
		t.Fatalf("unexpected topics: %s", env.Data)
	}

	// 3. 生成路线
	endDate := s.today.AddDate(0, 0, 7).Format(util.DateFormat)
	code, env = s.doJSON(t, http.MethodPost, "/api/roadmaps", map[string]interface{}{
		"class_id":         classID,
		"end_date":         endDate,
		"selectedTopicIds": []uint{topics[0].ID, topics[1].ID},
	})
	if code != http.StatusCreated {
		t.Fatalf("create roadmap: %d %#v", code, env)
	}

	// 4. 读取路线
	code, env = s.doJSON(t, http.MethodGet, fmt.Sprintf("/api/roadmaps/%d", classID), nil)
	if code != http.StatusOK {
		t.Fatalf("get roadmap: %d %#v", code, env)
	}
	var roadmap struct {
		Roadmap struct {
			StartDate string `json:"startDate"`
			EndDate   string `json:"endDate"`
		} `json:"roadmap"`
		Steps []struct {
			ID           uint     `json:"id"`
			StepName     string   `json:"stepName"`
			TopicID      *uint    `json:"topicId"`
			BulletPoints []string `json:"bulletPoints"`
			Completed    bool     `json:"completed"`
		} `json:"steps"`
	}
	json.Unmarshal(env.Data, &roadmap)
	if roadmap.Roadmap.StartDate != s.today.Format(util.DateFormat) || roadmap.Roadmap.EndDate != endDate {
		t.Fatalf("unexpected dates: %s", env.Data)
	}
	if len(roadmap.Steps) != 2 || roadmap.Steps[0].StepName != "DFAs" || roadmap.Steps[1].StepName != "Grammars" {
		t.Fatalf("unexpected steps: %s", env.Data)
	}
	if roadmap.Steps[1].TopicID == nil || *roadmap.Steps[1].TopicID != topics[1].ID {
		t.Fatalf("case-insensitive topic match failed: %s", env.Data)
	}

	// 5. 再次生成冲突
	code, _ = s.doJSON(t, http.MethodPost, "/api/roadmaps", map[string]interface{}{
		"class_id": classID, "end_date": endDate, "selectedTopicIds": []uint{topics[0].ID},
	})
	if code != http.StatusConflict {
		t.Fatalf("expected 409 for second roadmap, got %d", code)
	}

	// 6. 标记完成两次
	stepID := roadmap.Steps[0].ID
	for i := 0; i < 2; i++ {
		if code, env = s.doJSON(t, http.MethodPost, fmt.Sprintf("/api/progress/%d", stepID), nil); code != http.StatusOK {
			t.Fatalf("mark complete: %d %#v", code, env)
		}
	}
	code, env = s.doJSON(t, http.MethodGet, fmt.Sprintf("/api/progress/roadmaps/%d", classID), nil)
	if code != http.StatusOK || !strings.Contains(string(env.Data), fmt.Sprintf("[%d]", stepID)) {
		t.Fatalf("completed steps: %d %s", code, env.Data)
	}

	// 7. 详情包含路线
	code, env = s.doJSON(t, http.MethodGet, fmt.Sprintf("/api/classes/%d/details", classID), nil)
	if code != http.StatusOK || !strings.Contains(string(env.Data), `"roadmap":{`) {
		t.Fatalf("details: %d %s", code, env.Data)
	}

	// 8. 删除后可以重新生成
	if code, env = s.doJSON(t, http.MethodDelete, fmt.Sprintf("/api/roadmaps/%d", classID), nil); code != http.StatusOK {
		t.Fatalf("delete roadmap: %d %#v", code, env)
	}
	if code, _ = s.doJSON(t, http.MethodGet, fmt.Sprintf("/api/roadmaps/%d", classID), nil); code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", code)
	}
}

func TestCreateRoadmap_RequestValidation(t *testing.T) {
	s := newTestServer(t)
	today := s.today.Format(util.DateFormat)

	cases := []struct {
		name string
		body interface{}
		want string
	}{
		{"missing topics", map[string]interface{}{"class_id": 1, "end_date": today}, util.ErrMissingRoadmapFields.Message},
		{"empty topics", map[string]interface{}{"class_id": 1, "end_date": today, "selectedTopicIds": []uint{}}, util.ErrMissingRoadmapFields.Message},
		{"bad date", map[string]interface{}{"class_id": 1, "end_date": "12/31/2026", "selectedTopicIds": []uint{1}}, util.ErrInvalidEndDate.Message},
		{"not json", "plain", "Invalid request body."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, env := s.doJSON(t, http.MethodPost, "/api/roadmaps", tc.body)
			if code != http.StatusBadRequest || env.Message != tc.want {
				t.Fatalf("unexpected response: %d %#v", code, env)
			}
		})
	}

	code, env := s.doJSON(t, http.MethodPost, "/api/roadmaps", map[string]interface{}{
		"class_id": 999, "end_date": today, "selectedTopicIds": []uint{1},
	})
	if code != http.StatusNotFound || env.Message != util.ErrClassNotFound.Message {
		t.Fatalf("unexpected response for unknown class: %d %#v", code, env)
	}
}

func TestCreateClass_RequestValidation(t *testing.T) {
	s := newTestServer(t)

	code, env := s.do(t, multipartClass(t, classFields, nil))
	if code != http.StatusBadRequest || env.Message != util.ErrNoSyllabusFile.Message {
		t.Fatalf("missing file: %d %#v", code, env)
	}

	code, env = s.do(t, multipartClass(t, map[string]string{"class_name": "x"}, pdfBytes))
	if code != http.StatusBadRequest || env.Message != util.ErrMissingClassFields.Message {
		t.Fatalf("missing fields: %d %#v", code, env)
	}

	code, env = s.do(t, multipartClass(t, classFields, []byte("not a pdf")))
	if code != http.StatusBadRequest || env.Message != util.ErrInvalidSyllabusFile.Message {
		t.Fatalf("non-pdf: %d %#v", code, env)
	}
}

func TestMarkStepComplete_UnknownStep(t *testing.T) {
	s := newTestServer(t)

	code, env := s.doJSON(t, http.MethodPost, "/api/progress/12345", nil)
	if code != http.StatusNotFound || env.Message != util.ErrStepNotFound.Message {
		t.Fatalf("unexpected response: %d %#v", code, env)
	}
}
