package v1

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dsalvin/oracle-project-backend/internal/auth"
	"github.com/dsalvin/oracle-project-backend/internal/model"
	"github.com/dsalvin/oracle-project-backend/internal/store"
)

// RegisterRequest 注册请求
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Register 注册用户
// POST /api/register
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的注册信息"})
		return
	}

	if _, err := h.store.GetUserByEmail(req.Email); err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "邮箱已注册"})
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询用户失败"})
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "密码处理失败"})
		return
	}

	user := &model.User{
		Email:          req.Email,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		HashedPassword: hashed,
	}
	id, err := h.store.CreateUser(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "创建用户失败"})
		return
	}
	user.ID = id

	c.JSON(http.StatusOK, user)
}

// Login 密码登录，签发访问令牌
// POST /api/token (表单字段 username/password，兼容 OAuth2 password 形式)
func (h *Handler) Login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")
	if username == "" || password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "缺少用户名或密码"})
		return
	}

	user, err := h.store.GetUserByEmail(username)
	if err != nil || !auth.VerifyPassword(password, user.HashedPassword) {
		c.Header("WWW-Authenticate", "Bearer")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "邮箱或密码错误"})
		return
	}

	token, err := h.tokens.CreateAccessToken(user.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "签发令牌失败"})
		return
	}

	c.JSON(http.StatusOK, model.Token{AccessToken: token, TokenType: "bearer"})
}

// GoogleLogin 跳转到 Google 授权页
// GET /api/login/google
func (h *Handler) GoogleLogin(c *gin.Context) {
	if !h.google.Enabled() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "未配置 Google 登录"})
		return
	}
	c.Redirect(http.StatusTemporaryRedirect, h.google.AuthURL())
}

// GoogleCallback Google 授权回调
// 用户不存在时自动注册，签发令牌后重定向回前端
// GET /api/auth/callback/google
func (h *Handler) GoogleCallback(c *gin.Context) {
	state := c.Query("state")
	code := c.Query("code")

	googleUser, err := h.google.Callback(c.Request.Context(), state, code)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Google 授权失败"})
		return
	}

	user, err := h.store.GetUserByEmail(googleUser.Email)
	if errors.Is(err, store.ErrNotFound) {
		// 社交登录用户无本地密码
		user = &model.User{
			Email:     googleUser.Email,
			FirstName: googleUser.GivenName,
			LastName:  googleUser.FamilyName,
		}
		id, createErr := h.store.CreateUser(user)
		if createErr != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "创建用户失败"})
			return
		}
		user.ID = id
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询用户失败"})
		return
	}

	token, err := h.tokens.CreateAccessToken(user.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "签发令牌失败"})
		return
	}

	redirect := fmt.Sprintf("%s/auth/callback?token=%s", h.cfg.Server.FrontendURL, token)
	c.Redirect(http.StatusTemporaryRedirect, redirect)
}
