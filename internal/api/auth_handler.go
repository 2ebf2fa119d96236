package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"alcyxob/gym-admin/internal/domain"
	"alcyxob/gym-admin/internal/service"
)

// AuthHandler holds the operator authentication dependency.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// --- Request/Response Structs ---

type LoginRequest struct {
	Username string `json:"username" validate:"required,max=50"`
	Password string `json:"password" validate:"required"`
}

// OperatorResponse excludes the password hash.
type OperatorResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

type LoginResponse struct {
	Token    string           `json:"token"`
	Operator OperatorResponse `json:"operator"`
}

func mapOperatorToResponse(op *domain.Operator) OperatorResponse {
	return OperatorResponse{
		ID:        op.ID.Hex(),
		Username:  op.Username,
		Name:      op.Name,
		CreatedAt: op.CreatedAt,
	}
}

// --- Handler Methods ---

// Login godoc
// @Summary Log in an operator
// @Description Authenticates a staff account and returns a JWT.
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Login credentials"
// @Success 200 {object} LoginResponse "Login successful"
// @Failure 401 {object} ErrorResponse "Invalid credentials"
// @Failure 429 {object} ErrorResponse "Too many attempts"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}

	token, operator, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, LoginResponse{Token: token, Operator: mapOperatorToResponse(operator)})
}

// Me returns the id of the authenticated operator.
func (h *AuthHandler) Me(c *gin.Context) {
	id, ok := operatorIDFromContext(c)
	if !ok {
		abortWithError(c, http.StatusUnauthorized, "operator not found in context")
		return
	}
	c.JSON(http.StatusOK, gin.H{"operatorId": id.Hex(), "role": domain.RoleOperator})
}
