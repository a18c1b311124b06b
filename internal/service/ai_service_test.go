package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"interview_screening_backend/internal/config"
	"interview_screening_backend/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

// geminiStub 起一个假的 generateContent 端点，把 reply 作为模型文本返回
func geminiStub(t *testing.T, status int, reply string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, ":generateContent")
		w.WriteHeader(status)
		if status != http.StatusOK {
			fmt.Fprint(w, `{"error":{"message":"stub failure"}}`)
			return
		}
		resp := map[string]interface{}{
			"candidates": []map[string]interface{}{
				{"content": map[string]interface{}{
					"parts": []map[string]string{{"text": reply}},
				}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
}

func stubAIService(baseURL string) *AIService {
	return NewAIService(config.AIConfig{
		BaseURL:        baseURL,
		APIKey:         "test-key",
		Model:          "gemini-2.0-flash",
		TimeoutSeconds: 5,
	})
}

func TestGenerateQuestionsParsedAndPadded(t *testing.T) {
	// 模型只给 3 题，应循环补齐到 20
	reply := "Here you go:\n```json\n" + `[
	  {"category": "Technical", "questions": ["Q1", "Q2"]},
	  {"category": "Behavioral", "questions": ["Q3"]}
	]` + "\n```"
	srv := geminiStub(t, http.StatusOK, reply)
	defer srv.Close()

	qs := stubAIService(srv.URL).GenerateQuestions(context.Background(), "Backend Engineer", "3")

	require.Len(t, qs, TotalQuestions)
	assert.Equal(t, Question{Category: "Technical", Question: "Q1"}, qs[0])
	assert.Equal(t, Question{Category: "Behavioral", Question: "Q3"}, qs[2])
	// 循环补齐从头再来
	assert.Equal(t, qs[0], qs[3])
	assert.Equal(t, qs[1], qs[4])
}

func TestGenerateQuestionsTruncatedToCap(t *testing.T) {
	questions := make([]string, 30)
	for i := range questions {
		questions[i] = fmt.Sprintf("Q%d", i)
	}
	payload, err := json.Marshal([]map[string]interface{}{
		{"category": "Technical", "questions": questions},
	})
	require.NoError(t, err)

	srv := geminiStub(t, http.StatusOK, string(payload))
	defer srv.Close()

	qs := stubAIService(srv.URL).GenerateQuestions(context.Background(), "Backend Engineer", "3")
	require.Len(t, qs, TotalQuestions)
	assert.Equal(t, "Q19", qs[19].Question)
}

func TestGenerateQuestionsFallbackOnServerError(t *testing.T) {
	srv := geminiStub(t, http.StatusInternalServerError, "")
	defer srv.Close()

	qs := stubAIService(srv.URL).GenerateQuestions(context.Background(), "Data Analyst", "5")

	require.Len(t, qs, TotalQuestions)
	seen := map[string]int{}
	for _, q := range qs {
		seen[q.Category]++
	}
	for _, cat := range fallbackCategories {
		assert.Equal(t, 5, seen[cat])
	}
	assert.Equal(t, "Behavioral question 1 for Data Analyst", qs[0].Question)
}

func TestGenerateQuestionsFallbackWithoutAPIKey(t *testing.T) {
	svc := NewAIService(config.AIConfig{BaseURL: "http://127.0.0.1:0", TimeoutSeconds: 1})

	qs := svc.GenerateQuestions(context.Background(), "QA Engineer", "1")
	require.Len(t, qs, TotalQuestions)
	assert.Equal(t, "Behavioral", qs[0].Category)
}

func TestEvaluateAnswerParsed(t *testing.T) {
	srv := geminiStub(t, http.StatusOK, `The evaluation: {"score": 87.6, "feedback": "Solid answer."}`)
	defer srv.Close()

	eval := stubAIService(srv.URL).EvaluateAnswer(context.Background(), "Q", "A", "Technical", "Backend Engineer", "3")

	assert.Equal(t, 87, eval.Score)
	assert.Equal(t, "Solid answer.", eval.Feedback)
	assert.False(t, eval.Fallback)
}

func TestEvaluateAnswerClampsParsedScore(t *testing.T) {
	srv := geminiStub(t, http.StatusOK, `{"score": 250, "feedback": "over"}`)
	defer srv.Close()

	eval := stubAIService(srv.URL).EvaluateAnswer(context.Background(), "Q", "A", "Technical", "R", "3")
	assert.Equal(t, 100, eval.Score)

	srv2 := geminiStub(t, http.StatusOK, `{"score": -5, "feedback": "under"}`)
	defer srv2.Close()

	eval = stubAIService(srv2.URL).EvaluateAnswer(context.Background(), "Q", "A", "Technical", "R", "3")
	assert.Equal(t, 0, eval.Score)
}

func TestEvaluateAnswerFallbackScoresByLength(t *testing.T) {
	srv := geminiStub(t, http.StatusInternalServerError, "")
	defer srv.Close()
	svc := stubAIService(srv.URL)

	short := svc.EvaluateAnswer(context.Background(), "Q", "hi", "Technical", "R", "3")
	assert.Equal(t, 35, short.Score)
	assert.Equal(t, "Fallback evaluation.", short.Feedback)
	assert.True(t, short.Fallback)

	mid := svc.EvaluateAnswer(context.Background(), "Q", strings.Repeat("a", 180), "Technical", "R", "3")
	assert.Equal(t, 60, mid.Score)

	long := svc.EvaluateAnswer(context.Background(), "Q", strings.Repeat("a", 600), "Technical", "R", "3")
	assert.Equal(t, 95, long.Score)
}

func TestAdaptiveQuestion(t *testing.T) {
	srv := geminiStub(t, http.StatusOK, `{"next_question": "Can you elaborate on the tradeoffs?"}`)
	defer srv.Close()

	next := stubAIService(srv.URL).AdaptiveQuestion(context.Background(), "Q", "A", "Technical", "R", "3")
	assert.Equal(t, "Can you elaborate on the tradeoffs?", next)
}

func TestAdaptiveQuestionEmptyOnFailure(t *testing.T) {
	srv := geminiStub(t, http.StatusBadGateway, "")
	defer srv.Close()

	next := stubAIService(srv.URL).AdaptiveQuestion(context.Background(), "Q", "A", "Technical", "R", "3")
	assert.Empty(t, next)
}

func TestTranscribePropagatesError(t *testing.T) {
	srv := geminiStub(t, http.StatusServiceUnavailable, "")
	defer srv.Close()

	_, err := stubAIService(srv.URL).Transcribe(context.Background(), []byte("RIFFfake"))
	require.Error(t, err)
}

func TestTranscribeReturnsText(t *testing.T) {
	srv := geminiStub(t, http.StatusOK, "  I enjoy solving hard problems.  ")
	defer srv.Close()

	text, err := stubAIService(srv.URL).Transcribe(context.Background(), []byte("RIFFfake"))
	require.NoError(t, err)
	assert.Equal(t, "I enjoy solving hard problems.", text)
}

func TestExtractJSON(t *testing.T) {
	assert.Equal(t, `{"a":1}`, extractJSON("prefix {\"a\":1} suffix"))
	assert.Equal(t, `[1,2]`, extractJSON("```json\n[1,2]\n```"))
	assert.Equal(t, "no json here", extractJSON("no json here"))
}
