package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"funnelpay/internal/domain"
	"funnelpay/internal/service"
)

// CandidatureHandler handles HTTP requests for applicant submissions.
type CandidatureHandler struct {
	candidatureService *service.CandidatureService
}

// NewCandidatureHandler creates a new CandidatureHandler.
func NewCandidatureHandler(candidatureService *service.CandidatureService) *CandidatureHandler {
	return &CandidatureHandler{candidatureService: candidatureService}
}

// CandidatureRequest is the HTTP request body for a candidature. The JSON
// keys are the recruiting form's existing field names.
type CandidatureRequest struct {
	FullName        string `json:"nome_completo"`
	Email           string `json:"email"`
	Phone           string `json:"telefono"`
	Age             string `json:"eta"`
	YearsExperience string `json:"anni_esperienza"`
	Software        string `json:"software"`
	Portfolio       string `json:"portfolio"`
	Availability    string `json:"disponibilita"`
	StartDate       string `json:"inizio"`
	Message         string `json:"messaggio"`
}

// CandidatureResponse confirms a stored submission.
type CandidatureResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Submit handles POST /v1/candidatures
func (h *CandidatureHandler) Submit(c *gin.Context) {
	var req CandidatureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	err := h.candidatureService.Submit(c.Request.Context(), domain.Candidature{
		FullName:        req.FullName,
		Email:           req.Email,
		Phone:           req.Phone,
		Age:             req.Age,
		YearsExperience: req.YearsExperience,
		Software:        req.Software,
		Portfolio:       req.Portfolio,
		Availability:    req.Availability,
		StartDate:       req.StartDate,
		Message:         req.Message,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, CandidatureResponse{
		Success: true,
		Message: "candidature submitted successfully",
	})
}
