package service

import (
	"context"
	"strings"
	"time"

	"interview_screening_backend/internal/model"
	"interview_screening_backend/internal/util"
	"interview_screening_backend/pkg/logger"

	"go.uber.org/zap"
)

// QuestionGenerator 流程控制器对 AI 客户端的依赖面
type QuestionGenerator interface {
	GenerateQuestions(ctx context.Context, role, experience string) []Question
	EvaluateAnswer(ctx context.Context, question, answer, category, role, experience string) Evaluation
	AdaptiveQuestion(ctx context.Context, prevQuestion, prevAnswer, category, role, experience string) string
	Transcribe(ctx context.Context, wav []byte) (string, error)
}

type CandidateStore interface {
	Create(c *model.Candidate) error
}

type InterviewStore interface {
	Create(i *model.Interview) error
	Finalize(id uint, score float64) error
}

type ResponseStore interface {
	Create(r *model.Response) error
	AverageScore(interviewID uint) (float64, error)
}

// InterviewService 驱动逐题线性流程：开场生成一批题，每次提交后
// 至多插入一条自适应追问，总题数硬顶 20（插入导致超限时砍尾，不拒绝插入）。
type InterviewService struct {
	candidates CandidateStore
	interviews InterviewStore
	responses  ResponseStore
	generator  QuestionGenerator
	sessions   SessionStore
}

func NewInterviewService(
	candidates CandidateStore,
	interviews InterviewStore,
	responses ResponseStore,
	generator QuestionGenerator,
	sessions SessionStore,
) *InterviewService {
	return &InterviewService{
		candidates: candidates,
		interviews: interviews,
		responses:  responses,
		generator:  generator,
		sessions:   sessions,
	}
}

type StartRequest struct {
	FullName   string
	Email      string
	Role       string
	Experience string
	Hobbies    string
	ResumeName string
}

type StartResult struct {
	SessionID   string   `json:"sessionId"`
	CandidateID uint     `json:"candidateId"`
	InterviewID uint     `json:"interviewId"`
	Total       int      `json:"total"`
	Question    Question `json:"question"`
}

// Start 落候选人、开一场 IN_PROGRESS 的面试、生成首批 20 题并建立会话
func (s *InterviewService) Start(ctx context.Context, req StartRequest) (*StartResult, error) {
	role := req.Role
	if role == "" {
		role = "General"
	}
	experience := req.Experience
	if experience == "" {
		experience = "0"
	}

	candidate := &model.Candidate{
		FullName:   req.FullName,
		Email:      req.Email,
		Role:       req.Role,
		Experience: req.Experience,
		Hobbies:    req.Hobbies,
		ResumeName: req.ResumeName,
	}
	if err := s.candidates.Create(candidate); err != nil {
		return nil, err
	}

	interview := &model.Interview{
		CandidateID: candidate.ID,
		StartedAt:   time.Now(),
		Status:      model.InterviewInProgress,
	}
	if err := s.interviews.Create(interview); err != nil {
		return nil, err
	}

	questions := s.generator.GenerateQuestions(ctx, role, experience)
	if len(questions) > TotalQuestions {
		questions = questions[:TotalQuestions]
	}

	session := &InterviewSession{
		ID:          model.GenerateSessionID(),
		CandidateID: candidate.ID,
		InterviewID: interview.ID,
		Role:        role,
		Experience:  experience,
		Questions:   questions,
		Index:       0,
		Started:     true,
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	logger.Log.Info("interview started",
		zap.Uint("candidateId", candidate.ID),
		zap.Uint("interviewId", interview.ID),
		zap.String("role", role),
		zap.Int("questions", len(questions)))

	return &StartResult{
		SessionID:   session.ID,
		CandidateID: candidate.ID,
		InterviewID: interview.ID,
		Total:       len(questions),
		Question:    questions[0],
	}, nil
}

type CurrentResult struct {
	Done       bool      `json:"done"`
	Question   *Question `json:"question,omitempty"`
	Number     int       `json:"number,omitempty"` // 1 起始
	Answered   int       `json:"answered"`
	Total      int       `json:"total"`
	FinalScore float64   `json:"finalScore"`
}

// Current 返回当前问题；走到终点时定稿面试（所有作答记录的均分，
// 无记录记 0）并报告总分。
func (s *InterviewService) Current(ctx context.Context, sessionID string) (*CurrentResult, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if session.Terminal() {
		if !session.Finalized {
			avg, err := s.responses.AverageScore(session.InterviewID)
			if err != nil {
				return nil, err
			}
			if err := s.interviews.Finalize(session.InterviewID, avg); err != nil {
				return nil, err
			}
			session.Finalized = true
			session.FinalScore = avg
			if err := s.sessions.Save(ctx, session); err != nil {
				return nil, err
			}
			logger.Log.Info("interview finalized",
				zap.Uint("interviewId", session.InterviewID),
				zap.Float64("overallScore", avg))
		}
		return &CurrentResult{
			Done:       true,
			Answered:   session.Index,
			Total:      len(session.Questions),
			FinalScore: session.FinalScore,
		}, nil
	}

	q := session.Questions[session.Index]
	return &CurrentResult{
		Question: &q,
		Number:   session.Index + 1,
		Answered: session.Index,
		Total:    len(session.Questions),
	}, nil
}

// Skip 跳过当前问题：落一条空作答（得分 0、反馈 "Skipped"）并前进一步
func (s *InterviewService) Skip(ctx context.Context, sessionID string) (*CurrentResult, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Terminal() {
		return nil, util.ErrInterviewFinished
	}

	q := session.Questions[session.Index]
	resp := &model.Response{
		InterviewID:   session.InterviewID,
		QuestionIndex: session.Index + 1,
		Category:      q.Category,
		QuestionText:  q.Question,
		Transcript:    "",
		AIScore:       0,
		AIFeedback:    "Skipped",
	}
	if err := s.responses.Create(resp); err != nil {
		return nil, err
	}

	session.Index++
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	return s.Current(ctx, sessionID)
}

type SubmitResult struct {
	NoAnswer   bool   `json:"noAnswer,omitempty"`
	Warning    string `json:"warning,omitempty"`
	Number     int    `json:"number,omitempty"`
	Transcript string `json:"transcript,omitempty"`
	Score      int    `json:"score,omitempty"`
	Feedback   string `json:"feedback,omitempty"`
}

// Submit 提交一次作答。文字优先；文字为空且有音频时尝试转写，
// 转写失败不致命——记录警告、答案视为空。最终没有答案时不做任何
// 状态变更，同一问题等待重试。拿到答案后：评分落库、尽力生成一条
// 自适应追问插到当前题之后、把题目序列截回 20、前进一步。
func (s *InterviewService) Submit(ctx context.Context, sessionID, typed string, audio []byte) (*SubmitResult, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Terminal() {
		return nil, util.ErrInterviewFinished
	}

	transcript := strings.TrimSpace(typed)
	warning := ""
	if transcript == "" && len(audio) > 0 {
		text, err := s.generator.Transcribe(ctx, audio)
		if err != nil {
			warning = "Transcription unavailable: " + err.Error()
			logger.Log.Warn("transcription failed",
				zap.Uint("interviewId", session.InterviewID),
				zap.Error(err))
		} else {
			transcript = strings.TrimSpace(text)
		}
	}

	if transcript == "" {
		if warning == "" {
			warning = "No answer detected. Please speak or type."
		}
		return &SubmitResult{NoAnswer: true, Warning: warning}, nil
	}

	q := session.Questions[session.Index]
	eval := s.generator.EvaluateAnswer(ctx, q.Question, transcript, q.Category, session.Role, session.Experience)

	resp := &model.Response{
		InterviewID:   session.InterviewID,
		QuestionIndex: session.Index + 1,
		Category:      q.Category,
		QuestionText:  q.Question,
		Transcript:    transcript,
		AIScore:       float64(eval.Score),
		AIFeedback:    eval.Feedback,
	}
	if err := s.responses.Create(resp); err != nil {
		return nil, err
	}

	// 自适应追问：失败静默跳过。插入可能把序列顶出 20，砍尾保上限——
	// 也就是说晚到的追问会挤掉一条原有的尾题。
	if next := s.generator.AdaptiveQuestion(ctx, q.Question, transcript, q.Category, session.Role, session.Experience); next != "" {
		inserted := make([]Question, 0, len(session.Questions)+1)
		inserted = append(inserted, session.Questions[:session.Index+1]...)
		inserted = append(inserted, Question{Category: q.Category, Question: next})
		inserted = append(inserted, session.Questions[session.Index+1:]...)
		if len(inserted) > TotalQuestions {
			inserted = inserted[:TotalQuestions]
		}
		session.Questions = inserted
	}

	session.Index++
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	return &SubmitResult{
		Number:     resp.QuestionIndex,
		Transcript: transcript,
		Score:      eval.Score,
		Feedback:   eval.Feedback,
	}, nil
}

// Repeat 重新给出当前问题文本（客户端做语音播报），无任何状态变更
func (s *InterviewService) Repeat(ctx context.Context, sessionID string) (*Question, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Terminal() {
		return nil, util.ErrInterviewFinished
	}

	q := session.Questions[session.Index]
	return &q, nil
}
