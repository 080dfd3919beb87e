package handlers

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"aicd-directory/pkg/config"
)

const sessionUserKey = "admin_user"

// AuthRequired rejects requests that do not carry a valid admin session
// cookie, before any handler or store access runs.
func AuthRequired(c *gin.Context) {
	session := sessions.Default(c)
	if session.Get(sessionUserKey) == nil {
		respondError(c, http.StatusUnauthorized, codeUnauthorized, "authentication required")
		return
	}
	c.Next()
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login checks the configured admin identity and, on success, issues the
// signed HTTP-only session cookie used on subsequent requests.
func (s *Server) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, codeInvalidInput, "username and password are required")
		return
	}

	if req.Username != config.AdminUsername || !passwordMatches(req.Password) {
		s.logger.Warn("failed login attempt",
			zap.String("username", req.Username),
			zap.String("request_id", requestID(c)))
		respondError(c, http.StatusUnauthorized, codeUnauthorized, "invalid credentials")
		return
	}

	session := sessions.Default(c)
	session.Set(sessionUserKey, req.Username)
	if err := session.Save(); err != nil {
		respondError(c, http.StatusInternalServerError, codeInternal, "failed to establish session")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "login successful"})
}

func (s *Server) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Save()
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "logged out"})
}

func (s *Server) Check(c *gin.Context) {
	session := sessions.Default(c)
	user := session.Get(sessionUserKey)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"authenticated": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"authenticated": true, "username": user})
}

func passwordMatches(password string) bool {
	if config.AdminPasswordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(config.AdminPasswordHash), []byte(password)) == nil
	}
	if config.AdminPassword == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(password), []byte(config.AdminPassword)) == 1
}
