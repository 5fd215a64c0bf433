package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"horizon/coach-api/internal/domain"
	"horizon/coach-api/internal/service"
)

// AuthHandler serves registration, login and the user endpoints.
type AuthHandler struct {
	authService service.AuthService
	userService service.UserService
	errs        errorResponder
}

func NewAuthHandler(authService service.AuthService, userService service.UserService, errs errorResponder) *AuthHandler {
	return &AuthHandler{authService: authService, userService: userService, errs: errs}
}

// --- Request/Response Structs ---

type RegisterRequest struct {
	Username string      `json:"username"`
	Password string      `json:"password"`
	Role     domain.Role `json:"role"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// UserResponse excludes sensitive info like password hash
type UserResponse struct {
	UserID    int64         `json:"user_id"`
	TrainerID *int64        `json:"trainer_id"`
	Username  string        `json:"username"`
	Role      domain.Role   `json:"role"`
	Level     *domain.Level `json:"level,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}

type LoginResponse struct {
	service.TokenPair
	User UserResponse `json:"user"`
}

// MapUserToResponse converts a domain User to a UserResponse DTO.
func MapUserToResponse(user *domain.User) UserResponse {
	if user == nil {
		return UserResponse{}
	}
	return UserResponse{
		UserID:    user.ID,
		TrainerID: user.TrainerID(),
		Username:  user.Username,
		Role:      user.Role,
		Level:     user.Level,
		CreatedAt: user.CreatedAt,
	}
}

// --- Handler Methods ---

// Register godoc
// @Summary Register a new user
// @Tags Users
// @Accept json
// @Produce json
// @Param user body RegisterRequest true "Registration details"
// @Success 201 {object} UserResponse "User created successfully"
// @Failure 400 {object} ErrorResponse "Missing username or password, or unknown role"
// @Failure 409 {object} ErrorResponse "Username already exists"
// @Router /users/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req.Username, req.Password, req.Role)
	if err != nil {
		h.errs.respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User created successfully",
		"user":    MapUserToResponse(user),
	})
}

// Login godoc
// @Summary Log in a user
// @Description Authenticates a user and returns an access and a refresh token.
// @Tags Users
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Login credentials"
// @Success 200 {object} LoginResponse "Login successful"
// @Failure 401 {object} ErrorResponse "Invalid username or password"
// @Failure 429 {object} ErrorResponse "Too many attempts"
// @Router /users/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	pair, user, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.errs.respond(c, err)
		return
	}

	c.JSON(http.StatusOK, LoginResponse{TokenPair: *pair, User: MapUserToResponse(user)})
}

// Refresh godoc
// @Summary Rotate tokens
// @Tags Users
// @Accept json
// @Produce json
// @Param body body RefreshRequest true "Refresh token"
// @Success 200 {object} service.TokenPair
// @Failure 401 {object} ErrorResponse "Missing, invalid or expired refresh token"
// @Router /users/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errs.respond(c, service.ErrRefreshTokenMissing)
		return
	}

	pair, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.errs.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, pair)
}

// Me godoc
// @Summary Profile of the authenticated user
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} UserResponse
// @Failure 404 {object} ErrorResponse "User no longer exists"
// @Router /users/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}
	user, err := h.userService.GetProfile(c.Request.Context(), caller.UserID)
	if err != nil {
		h.errs.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(user))
}

// ListUsers godoc
// @Summary List every user
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} UserResponse
// @Failure 403 {object} ErrorResponse "Not a trainer"
// @Router /users [get]
func (h *AuthHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.ListUsers(c.Request.Context())
	if err != nil {
		h.errs.respond(c, err)
		return
	}
	responses := make([]UserResponse, len(users))
	for i := range users {
		responses[i] = MapUserToResponse(&users[i])
	}
	c.JSON(http.StatusOK, responses)
}
