package delivery

import (
	"net/http"

	"catalog_service/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type AuthHandler struct {
	useCase usecase.AuthService
	log     *logrus.Logger
}

func NewAuthHandler(uc usecase.AuthService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		useCase: uc,
		log:     logger,
	}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

func (h *AuthHandler) RegisterRoutes(router gin.IRouter) {
	auth := router.Group("/auth")
	{
		auth.POST("/register/", h.Register)
		auth.POST("/token/", h.Login)
		auth.POST("/logout/", RequireAuth(), h.Logout)
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.log, "register", bindError(err))
		return
	}
	user, err := h.useCase.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, h.log, "register", err)
		return
	}
	h.log.Infof("Handler: User registered: ID %d", user.ID)
	c.JSON(http.StatusCreated, user)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.log, "login", bindError(err))
		return
	}
	token, err := h.useCase.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, h.log, "login", err)
		return
	}
	c.JSON(http.StatusOK, tokenResponse{Token: token.Key})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.useCase.Logout(c.Request.Context(), c.GetString(tokenKey)); err != nil {
		respondError(c, h.log, "logout", err)
		return
	}
	c.Status(http.StatusNoContent)
}
