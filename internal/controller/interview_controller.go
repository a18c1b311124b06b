package controller

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"interview_screening_backend/internal/service"
	"interview_screening_backend/internal/util"
	"interview_screening_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type InterviewController struct {
	InterviewService *service.InterviewService
}

func NewInterviewController(interviewService *service.InterviewService) *InterviewController {
	return &InterviewController{InterviewService: interviewService}
}

// Current godoc
// @Summary 当前问题或最终结果
// @Description 题目未用尽时返回当前问题；否则定稿面试并返回总分
// @Tags 面试
// @Produce json
// @Param   sid path string true "会话 ID"
// @Success 200 {object} util.Response{data=service.CurrentResult}
// @Failure 404 {object} util.Response "会话不存在"
// @Router /api/interview/{sid}/current [get]
func (c *InterviewController) Current(ctx *gin.Context) {
	result, err := c.InterviewService.Current(ctx.Request.Context(), ctx.Param("sid"))
	if err != nil {
		c.handleFlowError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// SubmitAnswerRequest JSON 提交（纯文字作答时可不用 multipart）
type SubmitAnswerRequest struct {
	Answer string `json:"answer"`
}

// Submit godoc
// @Summary 提交作答
// @Description 文字优先；文字为空且带音频时先转写。转写失败或没有答案
// @Description 只返回警告，不前进，同一问题等待重试。
// @Tags 面试
// @Accept  mpfd
// @Accept  json
// @Produce json
// @Param   sid path string true "会话 ID"
// @Param   answer formData string false "文字作答"
// @Param   audio formData file false "语音作答"
// @Success 200 {object} util.Response{data=service.SubmitResult}
// @Failure 404 {object} util.Response "会话不存在"
// @Router /api/interview/{sid}/submit [post]
func (c *InterviewController) Submit(ctx *gin.Context) {
	var typed string
	var audio []byte

	if ctx.ContentType() == "application/json" {
		var req SubmitAnswerRequest
		if err := ctx.ShouldBindJSON(&req); err != nil {
			util.BadRequest(ctx, err.Error())
			return
		}
		typed = req.Answer
	} else {
		typed = ctx.PostForm("answer")
		audio = c.readAudio(ctx)
	}

	result, err := c.InterviewService.Submit(ctx.Request.Context(), ctx.Param("sid"), typed, audio)
	if err != nil {
		c.handleFlowError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// Skip godoc
// @Summary 跳过当前问题
// @Description 落一条空作答（得分 0、反馈 Skipped）并给出下一题
// @Tags 面试
// @Produce json
// @Param   sid path string true "会话 ID"
// @Success 200 {object} util.Response{data=service.CurrentResult}
// @Failure 404 {object} util.Response "会话不存在"
// @Router /api/interview/{sid}/skip [post]
func (c *InterviewController) Skip(ctx *gin.Context) {
	result, err := c.InterviewService.Skip(ctx.Request.Context(), ctx.Param("sid"))
	if err != nil {
		c.handleFlowError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// Repeat godoc
// @Summary 重播当前问题
// @Description 原样返回当前问题文本供客户端语音播报，无状态变更
// @Tags 面试
// @Produce json
// @Param   sid path string true "会话 ID"
// @Success 200 {object} util.Response{data=service.Question}
// @Failure 404 {object} util.Response "会话不存在"
// @Router /api/interview/{sid}/repeat [get]
func (c *InterviewController) Repeat(ctx *gin.Context) {
	q, err := c.InterviewService.Repeat(ctx.Request.Context(), ctx.Param("sid"))
	if err != nil {
		c.handleFlowError(ctx, err)
		return
	}
	util.Success(ctx, q)
}

// readAudio 取出上传的音频并统一转成 WAV；转码失败就用原始字节，
// 让转写环节自己去失败并降级成警告。
func (c *InterviewController) readAudio(ctx *gin.Context) []byte {
	header, err := ctx.FormFile("audio")
	if err != nil || header == nil {
		return nil
	}

	tmpPath := filepath.Join(os.TempDir(), fmt.Sprintf("answer_%d%s", time.Now().UnixNano(), filepath.Ext(header.Filename)))
	if err := ctx.SaveUploadedFile(header, tmpPath); err != nil {
		logger.Log.Warn("音频暂存失败", zap.Error(err))
		return nil
	}
	defer os.Remove(tmpPath)

	wav, err := util.NormalizeAudioToWAV(tmpPath)
	if err != nil {
		logger.Log.Warn("音频转码失败，按原始字节上送", zap.Error(err))
		raw, readErr := os.ReadFile(tmpPath)
		if readErr != nil {
			return nil
		}
		return raw
	}
	return wav
}

func (c *InterviewController) handleFlowError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrSessionNotFound):
		util.NotFound(ctx, "Interview session not found")
	case errors.Is(err, util.ErrInterviewFinished):
		util.BadRequest(ctx, "Interview already finished")
	default:
		util.LogInternalError(ctx, err)
	}
}
