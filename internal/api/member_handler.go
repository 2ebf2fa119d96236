package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"alcyxob/gym-admin/internal/domain"
	"alcyxob/gym-admin/internal/service"
)

// MemberHandler serves the member registry.
type MemberHandler struct {
	memberService service.MemberService
}

// NewMemberHandler creates a new MemberHandler.
func NewMemberHandler(memberService service.MemberService) *MemberHandler {
	return &MemberHandler{memberService: memberService}
}

// IntakeRequest carries the intake interview answers.
type IntakeRequest struct {
	SportHistory    string `json:"sportHistory"`
	GymExperience   string `json:"gymExperience"`
	InjuryHistory   string `json:"injuryHistory"`
	Illnesses       string `json:"illnesses"`
	Goals           string `json:"goals"`
	WeeklyFrequency string `json:"weeklyFrequency" validate:"max=50"`
}

func (r IntakeRequest) intake() domain.MemberIntake {
	return domain.MemberIntake{
		SportHistory:    r.SportHistory,
		GymExperience:   r.GymExperience,
		InjuryHistory:   r.InjuryHistory,
		Illnesses:       r.Illnesses,
		Goals:           r.Goals,
		WeeklyFrequency: r.WeeklyFrequency,
	}
}

// MemberRequest is the full member form.
type MemberRequest struct {
	DNI      string `json:"dni" validate:"required,max=10"`
	FullName string `json:"fullName" validate:"required,max=100"`
	Phone    string `json:"phone" validate:"max=20"`
	Address  string `json:"address" validate:"max=200"`
	Email    string `json:"email" validate:"omitempty,max=100,gmail"`
	Age      *int   `json:"age" validate:"omitempty,gte=0,lte=150"`
	IntakeRequest
}

func (r MemberRequest) input() service.MemberInput {
	return service.MemberInput{
		DNI:      r.DNI,
		FullName: r.FullName,
		Phone:    r.Phone,
		Address:  r.Address,
		Email:    r.Email,
		Age:      r.Age,
		Intake:   r.intake(),
	}
}

// ListMembers godoc
// @Summary List members
// @Description Members ordered by name, optionally filtered by q (name, email, phone or DNI).
// @Tags Members
// @Produce json
// @Security BearerAuth
// @Param q query string false "Search text"
// @Success 200 {array} service.MemberSummary
// @Router /members [get]
func (h *MemberHandler) ListMembers(c *gin.Context) {
	members, err := h.memberService.ListMembers(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	if members == nil {
		members = []service.MemberSummary{}
	}
	c.JSON(http.StatusOK, members)
}

// CreateMember godoc
// @Summary Create a member
// @Tags Members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param member body MemberRequest true "Member details"
// @Success 201 {object} domain.Member
// @Failure 409 {object} ErrorResponse "DNI already registered"
// @Router /members [post]
func (h *MemberHandler) CreateMember(c *gin.Context) {
	var req MemberRequest
	if !bindAndValidate(c, &req) {
		return
	}
	member, err := h.memberService.CreateMember(c.Request.Context(), req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, member)
}

func (h *MemberHandler) GetMember(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	member, err := h.memberService.GetMember(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, member)
}

func (h *MemberHandler) UpdateMember(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	var req MemberRequest
	if !bindAndValidate(c, &req) {
		return
	}
	member, err := h.memberService.UpdateMember(c.Request.Context(), id, req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, member)
}

// UpdateIntake replaces only the intake answers of a member.
func (h *MemberHandler) UpdateIntake(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	var req IntakeRequest
	if !bindAndValidate(c, &req) {
		return
	}
	member, err := h.memberService.UpdateIntake(c.Request.Context(), id, req.intake())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, member)
}

// DeleteMember godoc
// @Summary Delete a member
// @Description Removes the member together with every routine version and payment.
// @Tags Members
// @Security BearerAuth
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /members/{id} [delete]
func (h *MemberHandler) DeleteMember(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.memberService.DeleteMember(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
