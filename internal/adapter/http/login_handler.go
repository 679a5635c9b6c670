package http

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/loaai-rashad/scentorini-shop/configs"
)

type LoginHandler struct {
	cfg configs.Config
}

func NewLoginHandler(cfg configs.Config) *LoginHandler {
	return &LoginHandler{cfg: cfg}
}

type loginReq struct {
	Password string `json:"password" binding:"required"`
}

// Login exchanges the single admin password for a short-lived admin JWT.
// POST /v1/admin/login
func (h *LoginHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}

	if subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.cfg.Security.AdminPassword)) != 1 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "wrong password"})
		return
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"iss":   h.cfg.Security.Issuer,
		"aud":   h.cfg.Security.Audience,
		"iat":   now.Unix(),
		"nbf":   now.Unix(),
		"exp":   now.Add(h.cfg.Security.TTL).Unix(),
		"perms": []string{"admin"},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(h.cfg.Security.JWTSecret))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": signed,
		"token_type":   "Bearer",
		"expires_in":   int(h.cfg.Security.TTL.Seconds()),
	})
}
