package httpserver

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/domain"
	authsvc "storefront/internal/service/auth"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type profileRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

type sessionResponse struct {
	Token     string          `json:"token"`
	ExpiresIn int             `json:"expiresIn"`
	Profile   profileResponse `json:"profile"`
}

func (h *handlers) sessionResponse(s *authsvc.Session) sessionResponse {
	return sessionResponse{
		Token:     s.Token,
		ExpiresIn: h.deps.AuthSvc.TokenTTLSeconds(),
		Profile:   toProfileResponse(s.User.Profile()),
	}
}

func (h *handlers) register(c *gin.Context) {
	var req authsvc.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid_body", "invalid request body")
		return
	}
	s, err := h.deps.AuthSvc.Register(c.Request.Context(), sessionID(c), req)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, h.sessionResponse(s))
}

func (h *handlers) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid_body", "email and password are required")
		return
	}
	s, err := h.deps.AuthSvc.Login(c.Request.Context(), sessionID(c), req.Email, req.Password)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, h.sessionResponse(s))
}

func (h *handlers) logout(c *gin.Context) {
	token := c.GetString(tokenCtxKey)
	if token != "" {
		if err := h.deps.AuthSvc.Logout(c.Request.Context(), token); err != nil {
			writeError(c, h.logger, err)
			return
		}
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) me(c *gin.Context) {
	c.JSON(http.StatusOK, toProfileResponse(currentUser(c).Profile()))
}

func (h *handlers) updateProfile(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid_body", "invalid request body")
		return
	}
	u := currentUser(c)
	p, err := h.deps.AuthSvc.UpdateProfile(c.Request.Context(), sessionID(c), u.ID, domain.Profile{
		ID:      u.ID,
		Email:   u.Email,
		Role:    u.Role,
		Name:    req.Name,
		Address: req.Address,
		Phone:   req.Phone,
	})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toProfileResponse(*p))
}

// authEvents streams sign-in state for the session, starting with the
// current one.
func (h *handlers) authEvents(c *gin.Context) {
	ctx := c.Request.Context()
	updates := h.deps.AuthSvc.Watch(ctx, sessionID(c), c.GetString(tokenCtxKey))
	c.Stream(func(w io.Writer) bool {
		select {
		case st, ok := <-updates:
			if !ok {
				return false
			}
			c.SSEvent("auth", st)
			return true
		case <-ctx.Done():
			return false
		}
	})
}
