package handler

import (
	"net/http"

	"github.com/Divyaraj25/PaisaTrack/internal/store"
	"github.com/Divyaraj25/PaisaTrack/internal/util"

	"github.com/gin-gonic/gin"
)

// ProfileHandler 负责个人资料和修改密码
type ProfileHandler struct {
	Creds *store.Credentials
}

func NewProfileHandler(creds *store.Credentials) *ProfileHandler {
	return &ProfileHandler{Creds: creds}
}

// UpdateProfileReq 更新基本资料请求，空字段表示不修改
type UpdateProfileReq struct {
	Username      string `json:"username" binding:"max=20"`
	Email         string `json:"email" binding:"max=255"`
	ContactNumber string `json:"contact_number" binding:"max=32"`
}

// ChangePasswordReq 修改密码请求
type ChangePasswordReq struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=64"`
}

// UpdateProfile 更新当前用户的用户名、邮箱或联系方式
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req UpdateProfileReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}

	updated, err := h.Creds.UpdateProfile(user.ID, store.ProfileUpdate{
		Username:      req.Username,
		Email:         req.Email,
		ContactNumber: req.ContactNumber,
	})
	if err != nil {
		storeError(c, err)
		return
	}

	util.Success(c, util.Response{
		"message": "Profile updated successfully",
		"user":    updated,
	})
}

// ChangePassword 修改当前用户密码，成功后当前令牌失效
func (h *ProfileHandler) ChangePassword(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req ChangePasswordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}

	if err := h.Creds.ChangePassword(user.ID, req.OldPassword, req.NewPassword); err != nil {
		storeError(c, err)
		return
	}

	util.Success(c, util.Response{
		"message": "Password changed, please log in again with the new password",
	})
}
