package handler

import (
	"log"
	"net/http"
	"strings"

	"github.com/Divyaraj25/PaisaTrack/internal/defaults"
	"github.com/Divyaraj25/PaisaTrack/internal/store"
	"github.com/Divyaraj25/PaisaTrack/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ForgotPasswordMessage is returned for every forgot-password request,
// whether or not the email is registered.
const ForgotPasswordMessage = "If the email exists, a password reset link has been sent"

// AuthHandler 负责注册/登录/令牌相关接口
type AuthHandler struct {
	Creds   *store.Credentials
	DB      *gorm.DB
	Content *defaults.Content

	// ExposeResetLink writes reset links to the server log instead of
	// dropping them. Email delivery is out of scope.
	ExposeResetLink bool
}

// NewAuthHandler 构造函数
func NewAuthHandler(creds *store.Credentials, db *gorm.DB, content *defaults.Content, exposeResetLink bool) *AuthHandler {
	return &AuthHandler{
		Creds:           creds,
		DB:              db,
		Content:         content,
		ExposeResetLink: exposeResetLink,
	}
}

// ---------- 注册 ----------

type registerReq struct {
	Username      string `json:"username" binding:"required"`
	Email         string `json:"email" binding:"required"`
	ContactNumber string `json:"contact_number" binding:"required"`
	Password      string `json:"password" binding:"required"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "username, email, contact_number and password are required")
		return
	}

	id, err := h.Creds.Register(store.Registration{
		Username:      req.Username,
		Email:         req.Email,
		ContactNumber: req.ContactNumber,
		Password:      req.Password,
	})
	if err != nil {
		storeError(c, err)
		return
	}

	// new users start from the bundled categories
	store.NewLedger(h.DB, id, h.Content).InitializeDefaults()

	token, err := h.Creds.IssueSession(id)
	if err != nil {
		storeError(c, err)
		return
	}
	user, err := h.Creds.Profile(id)
	if err != nil {
		storeError(c, err)
		return
	}

	util.SuccessWithStatus(c, http.StatusCreated, util.Response{
		"message": "User registered successfully",
		"token":   token,
		"user":    user,
	})
}

// ---------- 登录 ----------

type loginReq struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "username and password are required")
		return
	}

	token, user, err := h.Creds.Authenticate(req.Username, req.Password, c.ClientIP())
	if err != nil {
		storeError(c, err)
		return
	}

	util.Success(c, util.Response{
		"message": "Login successful",
		"token":   token,
		"user":    user,
	})
}

// ---------- 令牌校验 ----------

type verifyTokenReq struct {
	Token string `json:"token"`
}

// VerifyToken accepts the token in the body or as a Bearer header.
func (h *AuthHandler) VerifyToken(c *gin.Context) {
	var req verifyTokenReq
	_ = c.ShouldBindJSON(&req)
	token := strings.TrimSpace(req.Token)
	if token == "" {
		token = strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	}
	if token == "" {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "token is required")
		return
	}

	user, err := h.Creds.ResolveToken(token)
	if err != nil {
		storeError(c, err)
		return
	}
	util.Success(c, util.Response{
		"valid":   true,
		"user_id": user.ID,
		"user":    user,
	})
}

// ---------- 找回密码 ----------

type forgotPasswordReq struct {
	Email string `json:"email" binding:"required"`
}

// ForgotPassword answers identically for known and unknown emails.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "email is required")
		return
	}

	token, err := h.Creds.IssueResetToken(req.Email)
	if err != nil {
		log.Printf("auth: issue reset token: %v", err)
	}
	if token != "" && h.ExposeResetLink {
		log.Printf("auth: password reset link for %s: /reset-password?token=%s", req.Email, token)
	}

	util.Success(c, util.Response{
		"message": ForgotPasswordMessage,
	})
}

type resetPasswordReq struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "token and password are required")
		return
	}

	if err := h.Creds.ConsumeResetToken(req.Token, req.Password); err != nil {
		storeError(c, err)
		return
	}
	util.Success(c, util.Response{
		"message": "Password has been reset, please log in again",
	})
}

// ---------- 退出 ----------

func (h *AuthHandler) Logout(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	if err := h.Creds.Logout(user.ID); err != nil {
		storeError(c, err)
		return
	}
	util.Success(c, util.Response{
		"message": "Logged out",
	})
}
