package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"interview_screening_backend/internal/config"
	"interview_screening_backend/pkg/logger"
	"interview_screening_backend/pkg/monitoring"

	"go.uber.org/zap"
)

// TotalQuestions 每场面试的硬上限，自适应追问也算在内
const TotalQuestions = 20

// Question 会话内的临时问题，不单独落库；只有作答/跳过后的 Response 才持久化
type Question struct {
	Category string `json:"category"`
	Question string `json:"question"`
}

// Evaluation 单题评分结果。Fallback 标记本次是否走了本地兜底
type Evaluation struct {
	Score    int    `json:"score"`
	Feedback string `json:"feedback"`
	Fallback bool   `json:"-"`
}

var fallbackCategories = []string{"Behavioral", "Technical", "Decision-Making", "Problem-Solving"}

const fallbackFeedback = "Fallback evaluation."

// AIService 生成式模型客户端。对远端的约定只有"尽力而为的 JSON 形文本"：
// 每次调用都是 拼提示词 → 请求 → 从自由文本里抠 JSON → 解析，
// 任何一步失败都退回确定性的本地兜底，绝不把错误抛出客户端边界
//（转写除外：转写失败以警告形式上抛，调用方不得因此中断会话）。
type AIService struct {
	cfg    config.AIConfig
	client *http.Client
}

func NewAIService(cfg config.AIConfig) *AIService {
	return &AIService{
		cfg: cfg,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}
}

type geminiInlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inline_data,omitempty"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature float64 `json:"temperature"`
}

type geminiRequest struct {
	Contents         []geminiContent         `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// generate 发起一次 generateContent 调用并取回纯文本
func (s *AIService) generate(ctx context.Context, parts []geminiPart) (string, error) {
	if s.cfg.APIKey == "" {
		return "", errors.New("AI api key missing")
	}

	reqBody := geminiRequest{
		Contents:         []geminiContent{{Parts: parts}},
		GenerationConfig: &geminiGenerationConfig{Temperature: 0.1},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		s.cfg.BaseURL, s.cfg.Model, s.cfg.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("AI API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result geminiResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", err
	}
	if result.Error != nil {
		return "", errors.New(result.Error.Message)
	}
	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("AI returned no candidates")
	}

	return strings.TrimSpace(result.Candidates[0].Content.Parts[0].Text), nil
}

var jsonSpanRe = regexp.MustCompile(`(?s)\{.*\}|\[.*\]`)

// extractJSON 从模型的自由文本回复里抠出首个贪婪匹配的 {...} 或 [...] 片段。
// 模型经常在 JSON 外面裹说明文字或 ``` 围栏，不能假设回复即 JSON。
func extractJSON(text string) string {
	if match := jsonSpanRe.FindString(text); match != "" {
		return match
	}
	return text
}

func clampScore(score, lo, hi int) int {
	if score < lo {
		return lo
	}
	if score > hi {
		return hi
	}
	return score
}

// GenerateQuestions 按岗位与经验生成首批问题，恒定返回 20 条：
// 模型给少了按序循环补齐，给多了截断，彻底失败则用固定模板兜底。
func (s *AIService) GenerateQuestions(ctx context.Context, role, experience string) []Question {
	monitoring.AIRequestCounter.WithLabelValues("generate_questions").Inc()

	prompt := fmt.Sprintf(`You are an interview question generator.
Return ONLY valid JSON list with 4 objects:

[
  { "category": "Behavioral", "questions": ["...5 questions..."] },
  { "category": "Technical", "questions": ["...5 questions..."] },
  { "category": "Decision-Making", "questions": ["...5 questions..."] },
  { "category": "Problem-Solving", "questions": ["...5 questions..."] }
]

Role: %s
Experience: %s
`, role, experience)

	raw, err := s.generate(ctx, []geminiPart{{Text: prompt}})
	if err != nil {
		logger.Log.Warn("问题生成失败，使用兜底题库", zap.Error(err))
		monitoring.AIFallbackCounter.WithLabelValues("generate_questions").Inc()
		return fallbackQuestions(role)
	}

	var groups []struct {
		Category  string   `json:"category"`
		Questions []string `json:"questions"`
	}
	if err := json.Unmarshal([]byte(extractJSON(raw)), &groups); err != nil {
		logger.Log.Warn("问题生成回复无法解析，使用兜底题库", zap.Error(err))
		monitoring.AIFallbackCounter.WithLabelValues("generate_questions").Inc()
		return fallbackQuestions(role)
	}

	var out []Question
	for _, g := range groups {
		category := g.Category
		if category == "" {
			category = "General"
		}
		for _, q := range g.Questions {
			out = append(out, Question{Category: category, Question: q})
		}
	}

	if len(out) == 0 {
		monitoring.AIFallbackCounter.WithLabelValues("generate_questions").Inc()
		return fallbackQuestions(role)
	}

	return padQuestions(out, TotalQuestions)
}

// padQuestions 不足 target 时按序重复补齐，多了截断
func padQuestions(qs []Question, target int) []Question {
	for i := 0; len(qs) < target; i++ {
		qs = append(qs, qs[i%len(qs)])
	}
	return qs[:target]
}

func fallbackQuestions(role string) []Question {
	out := make([]Question, 0, TotalQuestions)
	for _, cat := range fallbackCategories {
		for i := 0; i < 5; i++ {
			out = append(out, Question{
				Category: cat,
				Question: fmt.Sprintf("%s question %d for %s", cat, i+1, role),
			})
		}
	}
	return out
}

// EvaluateAnswer 给一条回答打分。解析路径分数取整并夹到 [0,100]；
// 兜底路径按回答长度估分：clamp(len/3, 35, 95)。
func (s *AIService) EvaluateAnswer(ctx context.Context, question, answer, category, role, experience string) Evaluation {
	monitoring.AIRequestCounter.WithLabelValues("evaluate_answer").Inc()

	prompt := fmt.Sprintf(`You are an expert interview evaluator.

Return JSON:
{"score": <0-100>, "feedback": "one concise sentence"}

QUESTION: %s
ANSWER: %s
CATEGORY: %s
ROLE: %s
EXPERIENCE: %s
`, question, answer, category, role, experience)

	raw, err := s.generate(ctx, []geminiPart{{Text: prompt}})
	if err == nil {
		var payload struct {
			Score    float64 `json:"score"`
			Feedback string  `json:"feedback"`
		}
		if jsonErr := json.Unmarshal([]byte(extractJSON(raw)), &payload); jsonErr == nil {
			return Evaluation{
				Score:    clampScore(int(payload.Score), 0, 100),
				Feedback: strings.TrimSpace(payload.Feedback),
			}
		}
		err = errors.New("unparseable evaluation reply")
	}

	logger.Log.Warn("评分失败，使用长度兜底", zap.Error(err))
	monitoring.AIFallbackCounter.WithLabelValues("evaluate_answer").Inc()

	return Evaluation{
		Score:    clampScore(len(answer)/3, 35, 95),
		Feedback: fallbackFeedback,
		Fallback: true,
	}
}

// AdaptiveQuestion 依据上一问一答生成至多一条追问；任何失败都返回空串，
// 表示"跳过插入"，不中断面试。
func (s *AIService) AdaptiveQuestion(ctx context.Context, prevQuestion, prevAnswer, category, role, experience string) string {
	monitoring.AIRequestCounter.WithLabelValues("adaptive_question").Inc()

	prompt := fmt.Sprintf(`You are an adaptive interviewer.
Return JSON:
{"next_question": "..."}

QUESTION: %s
ANSWER: %s
CATEGORY: %s
ROLE: %s
EXPERIENCE: %s
`, prevQuestion, prevAnswer, category, role, experience)

	raw, err := s.generate(ctx, []geminiPart{{Text: prompt}})
	if err != nil {
		monitoring.AIFallbackCounter.WithLabelValues("adaptive_question").Inc()
		return ""
	}

	var payload struct {
		NextQuestion string `json:"next_question"`
	}
	if err := json.Unmarshal([]byte(extractJSON(raw)), &payload); err != nil {
		monitoring.AIFallbackCounter.WithLabelValues("adaptive_question").Inc()
		return ""
	}

	return strings.TrimSpace(payload.NextQuestion)
}

// Transcribe 语音转写。唯一没有兜底的调用：失败原样返回错误，
// 由调用方降级成用户可见的警告。
func (s *AIService) Transcribe(ctx context.Context, wav []byte) (string, error) {
	monitoring.AIRequestCounter.WithLabelValues("transcribe").Inc()

	parts := []geminiPart{
		{Text: "Transcribe the following audio. Output plain text only."},
		{InlineData: &geminiInlineData{
			MimeType: "audio/wav",
			Data:     base64.StdEncoding.EncodeToString(wav),
		}},
	}

	text, err := s.generate(ctx, parts)
	if err != nil {
		monitoring.AIFallbackCounter.WithLabelValues("transcribe").Inc()
		return "", err
	}
	return text, nil
}
