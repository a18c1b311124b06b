package controller

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"interview_screening_backend/internal/service"
	"interview_screening_backend/internal/util"
	"interview_screening_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CandidateController struct {
	InterviewService *service.InterviewService
	StorageService   *service.StorageService
}

func NewCandidateController(interviewService *service.InterviewService, storageService *service.StorageService) *CandidateController {
	return &CandidateController{
		InterviewService: interviewService,
		StorageService:   storageService,
	}
}

// StartInterviewRequest 报名表单。经验年限是自由文本，简历可选
// swagger:model StartInterviewRequest
type StartInterviewRequest struct {
	FullName   string `form:"full_name" json:"full_name" binding:"required"`
	Email      string `form:"email" json:"email" binding:"omitempty,email"`
	Role       string `form:"role" json:"role"`
	Experience string `form:"experience" json:"experience"`
	Hobbies    string `form:"hobbies" json:"hobbies"`
}

// Start godoc
// @Summary 提交报名并开始面试
// @Description 保存候选人、创建面试、生成首批 20 题，返回会话句柄与第一题
// @Tags 候选人
// @Accept  mpfd
// @Produce json
// @Param   full_name formData string true "姓名"
// @Param   email formData string false "邮箱"
// @Param   role formData string false "应聘岗位"
// @Param   experience formData string false "经验年限（自由文本）"
// @Param   hobbies formData string false "兴趣爱好"
// @Param   resume formData file false "简历 PDF，可选"
// @Success 201 {object} util.Response{data=service.StartResult}
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/candidates [post]
func (c *CandidateController) Start(ctx *gin.Context) {
	var req StartInterviewRequest
	if err := ctx.ShouldBind(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	resumeName := ""
	if header, err := ctx.FormFile("resume"); err == nil && header != nil {
		resumeName = filepath.Base(header.Filename)
		c.uploadResume(ctx, header.Filename, header.Size)
	}

	result, err := c.InterviewService.Start(ctx.Request.Context(), service.StartRequest{
		FullName:   req.FullName,
		Email:      req.Email,
		Role:       req.Role,
		Experience: req.Experience,
		Hobbies:    req.Hobbies,
		ResumeName: resumeName,
	})
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, result)
}

// uploadResume 把简历文件本体放进对象存储；候选人行只记文件名。
// 上传失败不阻断面试，只留日志。
func (c *CandidateController) uploadResume(ctx *gin.Context, filename string, size int64) {
	header, err := ctx.FormFile("resume")
	if err != nil {
		return
	}

	file, err := header.Open()
	if err != nil {
		logger.Log.Warn("简历读取失败", zap.Error(err))
		return
	}
	defer file.Close()

	mimeType, err := util.ValidateMimeType(file, []string{"application/pdf"})
	if err != nil {
		logger.Log.Warn("简历类型校验失败", zap.String("mime", mimeType), zap.Error(err))
		return
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return
	}

	objectName := fmt.Sprintf("resumes/%d_%s", time.Now().UnixNano(), filepath.Base(filename))
	if _, err := c.StorageService.Upload(ctx.Request.Context(), objectName, file, size, mimeType); err != nil {
		logger.Log.Warn("简历上传失败", zap.String("object", objectName), zap.Error(err))
	}
}
