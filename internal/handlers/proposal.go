package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/lusohomes/marketplace-backend/internal/services"
	"github.com/lusohomes/marketplace-backend/internal/types"
)

type ProposalHandler struct {
	proposalService services.ProposalService
	approvalService services.ApprovalService
}

func NewProposalHandler(proposalService services.ProposalService, approvalService services.ApprovalService) *ProposalHandler {
	return &ProposalHandler{proposalService: proposalService, approvalService: approvalService}
}

type CreateProposalRequest struct {
	PropertyID       uuid.UUID  `json:"property_id" binding:"required"`
	ClientID         uuid.UUID  `json:"client_id" binding:"required"`
	ProposedValue    float64    `json:"proposed_value" binding:"required"`
	Type             string     `json:"type" binding:"required"`
	PaymentMethod    string     `json:"payment_method"`
	IntendedMoveDate *time.Time `json:"intended_move_date"`
	AdditionalNotes  string     `json:"additional_notes"`
}

func (ph *ProposalHandler) Create(c *gin.Context) {
	var req CreateProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "ValidationError", err)
		return
	}

	proposal, err := ph.proposalService.Create(c.Request.Context(), services.CreateProposalInput{
		PropertyID:       req.PropertyID,
		ClientID:         req.ClientID,
		ProposedValue:    req.ProposedValue,
		Type:             types.ProposalType(req.Type),
		PaymentMethod:    req.PaymentMethod,
		IntendedMoveDate: req.IntendedMoveDate,
		AdditionalNotes:  req.AdditionalNotes,
	})
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondCreated(c, gin.H{"proposal": proposal})
}

func (ph *ProposalHandler) GetByID(c *gin.Context) {
	proposalID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "ValidationError", err)
		return
	}
	proposal, err := ph.proposalService.GetByID(c.Request.Context(), proposalID)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"proposal": proposal})
}

func (ph *ProposalHandler) GetByProperty(c *gin.Context) {
	propertyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "ValidationError", err)
		return
	}

	var statuses []types.ProposalStatus
	if raw := c.Query("status"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			statuses = append(statuses, types.ProposalStatus(strings.TrimSpace(s)))
		}
	}

	proposals, err := ph.proposalService.GetByProperty(c.Request.Context(), propertyID, statuses)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"proposals": proposals})
}

func (ph *ProposalHandler) Approve(c *gin.Context) {
	proposalID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "ValidationError", err)
		return
	}
	result, err := ph.approvalService.Approve(c.Request.Context(), proposalID)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"result": result})
}

type RejectProposalRequest struct {
	RejectionReason string `json:"rejection_reason" binding:"required"`
}

func (ph *ProposalHandler) Reject(c *gin.Context) {
	proposalID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "ValidationError", err)
		return
	}
	var req RejectProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "ValidationError", err)
		return
	}
	proposal, err := ph.proposalService.Reject(c.Request.Context(), proposalID, req.RejectionReason)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"proposal": proposal})
}

func (ph *ProposalHandler) Cancel(c *gin.Context) {
	proposalID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "ValidationError", err)
		return
	}
	proposal, err := ph.proposalService.Cancel(c.Request.Context(), proposalID)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"proposal": proposal})
}

func (ph *ProposalHandler) StartAnalysis(c *gin.Context) {
	proposalID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "ValidationError", err)
		return
	}
	proposal, err := ph.proposalService.StartAnalysis(c.Request.Context(), proposalID)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"proposal": proposal})
}

type AddNegotiationRequest struct {
	SenderID     uuid.UUID `json:"sender_id" binding:"required"`
	Message      string    `json:"message" binding:"required"`
	CounterOffer *float64  `json:"counter_offer"`
}

func (ph *ProposalHandler) AddNegotiation(c *gin.Context) {
	proposalID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "ValidationError", err)
		return
	}
	var req AddNegotiationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "ValidationError", err)
		return
	}
	negotiation, err := ph.proposalService.AddNegotiation(c.Request.Context(), proposalID, req.SenderID, req.Message, req.CounterOffer)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondCreated(c, gin.H{"negotiation": negotiation})
}

type UpdateNegotiationStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (ph *ProposalHandler) UpdateNegotiationStatus(c *gin.Context) {
	negotiationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "ValidationError", err)
		return
	}
	var req UpdateNegotiationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "ValidationError", err)
		return
	}
	negotiation, err := ph.proposalService.UpdateNegotiationStatus(c.Request.Context(), negotiationID, types.NegotiationStatus(req.Status))
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"negotiation": negotiation})
}
