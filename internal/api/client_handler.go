package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"alcyxob/gym-admin/internal/service"
)

// ClientHandler serves the member-facing routine viewer.
type ClientHandler struct {
	clientService service.ClientService
	cookie        CookieSettings
}

// CookieSettings configures the client session cookie.
type CookieSettings struct {
	Name   string
	Secure bool
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(clientService service.ClientService, cookie CookieSettings) *ClientHandler {
	return &ClientHandler{clientService: clientService, cookie: cookie}
}

type ClientLoginRequest struct {
	DNI string `json:"dni" validate:"required,max=10"`
}

type ClientLoginResponse struct {
	MemberID  string    `json:"memberId"`
	FullName  string    `json:"fullName"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (h *ClientHandler) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, value, maxAge, "/", "", h.cookie.Secure, true)
}

// Login godoc
// @Summary Member login by DNI
// @Description Starts a client session stored in an HttpOnly cookie.
// @Tags Client
// @Accept json
// @Produce json
// @Param credentials body ClientLoginRequest true "DNI"
// @Success 200 {object} ClientLoginResponse
// @Failure 401 {object} ErrorResponse "Unknown DNI"
// @Failure 429 {object} ErrorResponse "Too many attempts"
// @Router /client/login [post]
func (h *ClientHandler) Login(c *gin.Context) {
	var req ClientLoginRequest
	if !bindAndValidate(c, &req) {
		return
	}
	token, session, member, err := h.clientService.Login(c.Request.Context(), req.DNI)
	if err != nil {
		respondError(c, err)
		return
	}

	maxAge := int(time.Until(session.ExpiresAt).Seconds())
	h.setCookie(c, token, maxAge)
	c.JSON(http.StatusOK, ClientLoginResponse{
		MemberID:  member.ID.Hex(),
		FullName:  member.FullName,
		ExpiresAt: session.ExpiresAt,
	})
}

// Logout clears the session cookie. Sessions are stateless: a token copied
// before logout stays valid until it expires (client_session.expiration).
func (h *ClientHandler) Logout(c *gin.Context) {
	h.setCookie(c, "", -1)
	c.Status(http.StatusNoContent)
}

// Routines returns the signed-in member's routine versions, newest first.
func (h *ClientHandler) Routines(c *gin.Context) {
	memberID, ok := objectIDParam(c, "memberId")
	if !ok {
		return
	}
	versions, err := h.clientService.Routines(c.Request.Context(), clientSessionFromContext(c), memberID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, versions)
}
