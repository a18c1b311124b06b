package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"interview_screening_backend/internal/config"
	"interview_screening_backend/internal/middleware"
	"interview_screening_backend/internal/model"
	"interview_screening_backend/internal/service"
	"interview_screening_backend/internal/util"
	"interview_screening_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

type stubCandidateStore struct{ n uint }

func (s *stubCandidateStore) Create(c *model.Candidate) error {
	s.n++
	c.ID = s.n
	return nil
}

type stubInterviewStore struct {
	n         uint
	finalized map[uint]float64
}

func (s *stubInterviewStore) Create(i *model.Interview) error {
	s.n++
	i.ID = s.n
	return nil
}

func (s *stubInterviewStore) Finalize(id uint, score float64) error {
	if s.finalized == nil {
		s.finalized = map[uint]float64{}
	}
	s.finalized[id] = score
	return nil
}

type stubResponseStore struct{ rows []*model.Response }

func (s *stubResponseStore) Create(r *model.Response) error {
	s.rows = append(s.rows, r)
	return nil
}

func (s *stubResponseStore) AverageScore(interviewID uint) (float64, error) {
	var sum float64
	var n int
	for _, r := range s.rows {
		if r.InterviewID == interviewID {
			sum += r.AIScore
			n++
		}
	}
	if n == 0 {
		return 0, nil
	}
	return sum / float64(n), nil
}

type stubGenerator struct{}

func (stubGenerator) GenerateQuestions(ctx context.Context, role, experience string) []service.Question {
	qs := make([]service.Question, 0, service.TotalQuestions)
	for i := 0; i < service.TotalQuestions; i++ {
		qs = append(qs, service.Question{Category: "Technical", Question: fmt.Sprintf("Question %d", i+1)})
	}
	return qs
}

func (stubGenerator) EvaluateAnswer(ctx context.Context, question, answer, category, role, experience string) service.Evaluation {
	return service.Evaluation{Score: 75, Feedback: "fine"}
}

func (stubGenerator) AdaptiveQuestion(ctx context.Context, prevQuestion, prevAnswer, category, role, experience string) string {
	return ""
}

func (stubGenerator) Transcribe(ctx context.Context, wav []byte) (string, error) {
	return "transcribed", nil
}

func testRouter() (*gin.Engine, *config.Config) {
	cfg := &config.Config{
		Admin: config.AdminConfig{Username: "admin", Password: "admin123"},
		JWT:   config.JWTConfig{Secret: "controller-test-secret", ExpireTime: time.Hour},
		Storage: config.StorageConfig{
			Type:      "local",
			LocalPath: os.TempDir(),
		},
	}

	interviewSvc := service.NewInterviewService(
		&stubCandidateStore{},
		&stubInterviewStore{},
		&stubResponseStore{},
		stubGenerator{},
		service.NewMemorySessionStore(),
	)

	candidateCtrl := NewCandidateController(interviewSvc, service.NewStorageService(cfg))
	interviewCtrl := NewInterviewController(interviewSvc)
	adminCtrl := NewAdminController(service.NewAuthService(cfg), nil)

	router := gin.New()
	api := router.Group("/api")
	api.POST("/candidates", candidateCtrl.Start)
	api.GET("/interview/:sid/current", interviewCtrl.Current)
	api.POST("/interview/:sid/submit", interviewCtrl.Submit)
	api.POST("/interview/:sid/skip", interviewCtrl.Skip)
	api.GET("/interview/:sid/repeat", interviewCtrl.Repeat)
	api.POST("/admin/login", adminCtrl.Login)

	authed := api.Group("/admin", middleware.AuthMiddleware(cfg))
	authed.GET("/ping", func(c *gin.Context) { util.Success(c, "pong") })

	return router, cfg
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(data)
	} else {
		reader = bytes.NewBuffer(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func startSession(t *testing.T, router *gin.Engine) string {
	t.Helper()
	form := url.Values{}
	form.Set("full_name", "Ada Lovelace")
	form.Set("role", "Backend Engineer")
	form.Set("experience", "3")

	req := httptest.NewRequest(http.MethodPost, "/api/candidates", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var envelope struct {
		Data struct {
			SessionID string `json:"sessionId"`
			Total     int    `json:"total"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotEmpty(t, envelope.Data.SessionID)
	require.Equal(t, service.TotalQuestions, envelope.Data.Total)
	return envelope.Data.SessionID
}

func TestStartRequiresFullName(t *testing.T) {
	router, _ := testRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/candidates", strings.NewReader("role=Backend"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInterviewFlowOverHTTP(t *testing.T) {
	router, _ := testRouter()
	sid := startSession(t, router)

	w := doJSON(t, router, http.MethodGet, "/api/interview/"+sid+"/current", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Question 1")

	w = doJSON(t, router, http.MethodPost, "/api/interview/"+sid+"/submit", gin.H{"answer": "Use an index."})
	require.Equal(t, http.StatusOK, w.Code)
	var submitEnv struct {
		Data struct {
			Number int `json:"number"`
			Score  int `json:"score"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &submitEnv))
	assert.Equal(t, 1, submitEnv.Data.Number)
	assert.Equal(t, 75, submitEnv.Data.Score)

	w = doJSON(t, router, http.MethodPost, "/api/interview/"+sid+"/skip", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Question 3")

	w = doJSON(t, router, http.MethodGet, "/api/interview/"+sid+"/repeat", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Question 3")
}

func TestSubmitEmptyAnswerReturnsWarning(t *testing.T) {
	router, _ := testRouter()
	sid := startSession(t, router)

	w := doJSON(t, router, http.MethodPost, "/api/interview/"+sid+"/submit", gin.H{"answer": "  "})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "noAnswer")
	assert.Contains(t, w.Body.String(), "No answer detected")
}

func TestUnknownSessionIs404(t *testing.T) {
	router, _ := testRouter()

	w := doJSON(t, router, http.MethodGet, "/api/interview/does-not-exist/current", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Interview session not found")
}

func TestAdminLoginAndGate(t *testing.T) {
	router, _ := testRouter()

	w := doJSON(t, router, http.MethodPost, "/api/admin/login", gin.H{"username": "admin", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/admin/login", gin.H{"username": "admin", "password": "admin123"})
	require.Equal(t, http.StatusOK, w.Code)
	var loginEnv struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &loginEnv))
	require.NotEmpty(t, loginEnv.Data.Token)

	// 无令牌被拒
	w = doJSON(t, router, http.MethodGet, "/api/admin/ping", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// 带令牌放行
	req := httptest.NewRequest(http.MethodGet, "/api/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+loginEnv.Data.Token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
