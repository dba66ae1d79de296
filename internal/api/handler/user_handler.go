package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Ismaelg12/timeflow/internal/dto"
	"github.com/Ismaelg12/timeflow/internal/service"
	"github.com/Ismaelg12/timeflow/pkg/response"
)

// UserHandler 登录身份管理 HTTP 处理器（仅管理员）
type UserHandler struct {
	userSvc service.UserService
	logger  *zap.Logger
}

// NewUserHandler 创建 UserHandler
func NewUserHandler(userSvc service.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{userSvc: userSvc, logger: logger}
}

// CreateUser 创建登录身份
// POST /api/v1/users
func (h *UserHandler) CreateUser(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	user, err := h.userSvc.CreateUser(c.Request.Context(), &req, callerID)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	response.Created(c, user)
}

// ListUsers 用户列表
// GET /api/v1/users
func (h *UserHandler) ListUsers(c *gin.Context) {
	var req dto.UserListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	users, total, err := h.userSvc.List(c.Request.Context(), &req)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	response.OKPage(c, users, total, req.GetPage(), req.GetPageSize())
}

// GetUser 用户详情
// GET /api/v1/users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.userSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	response.OK(c, user)
}

// SetActive 启用或停用
// PUT /api/v1/users/:id/active
func (h *UserHandler) SetActive(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.SetUserActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	user, err := h.userSvc.SetActive(c.Request.Context(), c.Param("id"), *req.IsActive, callerID)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	response.OK(c, user)
}

// ResetPassword 重置为临时密码
// POST /api/v1/users/:id/reset-password
func (h *UserHandler) ResetPassword(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.userSvc.ResetPassword(c.Request.Context(), c.Param("id"), callerID)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	response.OK(c, result)
}
