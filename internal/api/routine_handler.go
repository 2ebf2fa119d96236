package api

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"alcyxob/gym-admin/internal/domain"
	"alcyxob/gym-admin/internal/routine"
	"alcyxob/gym-admin/internal/service"
)

// maxSubmissionBytes bounds a routine save request body.
const maxSubmissionBytes = 2 << 20

// RoutineHandler serves routine versions and the editor.
type RoutineHandler struct {
	routineService service.RoutineService
}

// NewRoutineHandler creates a new RoutineHandler.
func NewRoutineHandler(routineService service.RoutineService) *RoutineHandler {
	return &RoutineHandler{routineService: routineService}
}

// KindRequest optionally names the kind used when a member has no version yet.
type KindRequest struct {
	Kind string `json:"kind" validate:"max=100"`
}

// CommentRequest replaces the comment of a version in place.
type CommentRequest struct {
	Comment string `json:"comment" validate:"max=2000"`
}

// kindOrDefault resolves an optional kind label; empty means the first-version default.
func kindOrDefault(label string) domain.Kind {
	if strings.TrimSpace(label) == "" {
		return service.DefaultFirstKind
	}
	return routine.KindFromLabel(label)
}

// ListVersions godoc
// @Summary List a member's routine versions
// @Description Versions newest first. A member with none gets an empty first version of the given kind.
// @Tags Routines
// @Produce json
// @Security BearerAuth
// @Param id path string true "Member ID"
// @Param kind query string false "Kind label for the first version"
// @Success 200 {array} domain.RoutineVersion
// @Router /members/{id}/routines [get]
func (h *RoutineHandler) ListVersions(c *gin.Context) {
	memberID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	versions, err := h.routineService.ViewOrCreateFirst(c.Request.Context(), memberID, kindOrDefault(c.Query("kind")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, versions)
}

// Duplicate clones the member's newest version into a new one.
func (h *RoutineHandler) Duplicate(c *gin.Context) {
	memberID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	var req KindRequest
	if c.Request.ContentLength > 0 && !bindAndValidate(c, &req) {
		return
	}
	version, err := h.routineService.Duplicate(c.Request.Context(), memberID, kindOrDefault(req.Kind))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, version)
}

// CreateFromKind godoc
// @Summary Create an empty version from a kind label
// @Description The label is matched ignoring case and accents; unknown labels fall back to fuerza base.
// @Tags Routines
// @Produce json
// @Security BearerAuth
// @Param id path string true "Member ID"
// @Param kind path string true "Kind label"
// @Success 201 {object} domain.RoutineVersion
// @Router /members/{id}/routines/kind/{kind} [post]
func (h *RoutineHandler) CreateFromKind(c *gin.Context) {
	memberID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	version, err := h.routineService.CreateFromKind(c.Request.Context(), memberID, c.Param("kind"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, version)
}

// Editor returns a version with its layout rendered for editing.
func (h *RoutineHandler) Editor(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	editor, err := h.routineService.Editor(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, editor)
}

// Save godoc
// @Summary Save an edited routine as a new version
// @Description Accepts a JSON document {"semana_id", "filas", "comentario"}, or a form with a "payload"
// @Description field or the flat indexed fields. The edited version is left untouched.
// @Tags Routines
// @Accept json
// @Accept x-www-form-urlencoded
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param id path string true "Version ID the edit started from"
// @Success 201 {object} domain.RoutineVersion
// @Failure 415 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse "Row rejected; row and field name the first offending value"
// @Router /routines/{id}/save [post]
func (h *RoutineHandler) Save(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	sub, ok := readSubmission(c)
	if !ok {
		return
	}
	version, err := h.routineService.SaveEdit(c.Request.Context(), id, sub)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, version)
}

// LegacyEdit is the old flat-form endpoint. It now saves a new version like
// Save instead of replacing rows in place.
func (h *RoutineHandler) LegacyEdit(c *gin.Context) {
	c.Header("Deprecation", "true")
	c.Header("Link", "</api/v1/routines/"+c.Param("id")+"/save>; rel=\"successor-version\"")
	log.Debug().Str("version", c.Param("id")).Msg("Deprecated routine edit endpoint used")
	h.Save(c)
}

func readSubmission(c *gin.Context) (routine.Submission, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSubmissionBytes)

	switch c.ContentType() {
	case gin.MIMEJSON:
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			abortWithError(c, http.StatusRequestEntityTooLarge, "request body too large")
			return routine.Submission{}, false
		}
		sub, err := routine.ParsePayload(body)
		if err != nil {
			respondError(c, err)
			return routine.Submission{}, false
		}
		return sub, true
	case gin.MIMEPOSTForm:
		if err := c.Request.ParseForm(); err != nil {
			abortWithError(c, http.StatusBadRequest, "invalid form: "+err.Error())
			return routine.Submission{}, false
		}
	case gin.MIMEMultipartPOSTForm:
		if err := c.Request.ParseMultipartForm(maxSubmissionBytes); err != nil {
			abortWithError(c, http.StatusBadRequest, "invalid form: "+err.Error())
			return routine.Submission{}, false
		}
	default:
		abortWithError(c, http.StatusUnsupportedMediaType,
			"content type must be application/json, application/x-www-form-urlencoded or multipart/form-data")
		return routine.Submission{}, false
	}

	sub, err := routine.ParseFormSubmission(c.Request.PostForm)
	if err != nil {
		respondError(c, err)
		return routine.Submission{}, false
	}
	return sub, true
}

// UpdateComment edits the comment of a version in place.
func (h *RoutineHandler) UpdateComment(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	var req CommentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	version, err := h.routineService.UpdateComment(c.Request.Context(), id, req.Comment)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, version)
}

func (h *RoutineHandler) Delete(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.routineService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListTemplates returns the layout of every kind.
func (h *RoutineHandler) ListTemplates(c *gin.Context) {
	c.JSON(http.StatusOK, routine.Layouts())
}

// GetTemplate returns the layout of one kind, looked up by label.
func (h *RoutineHandler) GetTemplate(c *gin.Context) {
	kind, ok := routine.LookupKind(c.Param("kind"))
	if !ok {
		abortWithError(c, http.StatusNotFound, "unknown routine kind")
		return
	}
	layout, ok := routine.LayoutFor(kind)
	if !ok {
		abortWithError(c, http.StatusNotFound, "unknown routine kind")
		return
	}
	c.JSON(http.StatusOK, layout)
}
