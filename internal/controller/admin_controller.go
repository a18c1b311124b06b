package controller

import (
	"errors"
	"net/http"
	"strconv"

	"interview_screening_backend/internal/service"
	"interview_screening_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AdminController struct {
	AuthService  *service.AuthService
	AdminService *service.AdminService
}

func NewAdminController(authService *service.AuthService, adminService *service.AdminService) *AdminController {
	return &AdminController{
		AuthService:  authService,
		AdminService: adminService,
	}
}

// AdminLoginRequest 管理端登录
// swagger:model AdminLoginRequest
type AdminLoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login godoc
// @Summary 管理端登录
// @Description 与配置的静态凭据比对，通过后签发 JWT
// @Tags 管理端
// @Accept  json
// @Produce json
// @Param   body body AdminLoginRequest true "凭据"
// @Success 200 {object} util.Response{data=object}
// @Failure 401 {object} util.Response "凭据错误"
// @Router /api/admin/login [post]
func (c *AdminController) Login(ctx *gin.Context) {
	var req AdminLoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	token, err := c.AuthService.Login(req.Username, req.Password)
	if err != nil {
		util.Error(ctx, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	util.Success(ctx, gin.H{"token": token})
}

// ListCandidates godoc
// @Summary 候选人列表
// @Description 候选人 LEFT JOIN 其面试概要，最新在前
// @Tags 管理端
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.CandidateSummary}
// @Router /api/admin/candidates [get]
func (c *AdminController) ListCandidates(ctx *gin.Context) {
	rows, err := c.AdminService.ListCandidates()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, rows)
}

// CandidateDetail godoc
// @Summary 候选人钻取
// @Description 候选人信息 + 按题号排序的作答记录
// @Tags 管理端
// @Produce json
// @Security ApiKeyAuth
// @Param   id path int true "候选人 ID"
// @Success 200 {object} util.Response{data=object}
// @Failure 404 {object} util.Response "候选人不存在"
// @Router /api/admin/candidates/{id} [get]
func (c *AdminController) CandidateDetail(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "invalid candidate id")
		return
	}

	candidate, responses, err := c.AdminService.CandidateDetail(uint(id))
	if err != nil {
		if errors.Is(err, util.ErrCandidateNotFound) {
			util.NotFound(ctx, "Candidate not found")
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"candidate": candidate,
		"responses": responses,
	})
}
