package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/lusohomes/marketplace-backend/internal/services"
	"github.com/lusohomes/marketplace-backend/internal/types"
)

type ContractHandler struct {
	contractService services.ContractService
}

func NewContractHandler(contractService services.ContractService) *ContractHandler {
	return &ContractHandler{contractService: contractService}
}

type CreateContractRequest struct {
	PropertyID         uuid.UUID  `json:"property_id" binding:"required"`
	ClientID           uuid.UUID  `json:"client_id" binding:"required"`
	AgentID            uuid.UUID  `json:"agent_id" binding:"required"`
	Type               string     `json:"type" binding:"required"`
	Value              float64    `json:"value" binding:"required"`
	StartDate          time.Time  `json:"start_date" binding:"required"`
	EndDate            *time.Time `json:"end_date"`
	MonthlyRent        *float64   `json:"monthly_rent"`
	SecurityDeposit    *float64   `json:"security_deposit"`
	Commission         *float64   `json:"commission"`
	PaymentFrequency   *string    `json:"payment_frequency"`
	PaymentDay         *int       `json:"payment_day"`
	AutoRenewal        bool       `json:"auto_renewal"`
	TermsAndConditions string     `json:"terms_and_conditions"`
}

func (ch *ContractHandler) Create(c *gin.Context) {
	var req CreateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "ValidationError", err)
		return
	}

	var paymentFrequency *types.PaymentFrequency
	if req.PaymentFrequency != nil {
		frequency := types.PaymentFrequency(*req.PaymentFrequency)
		paymentFrequency = &frequency
	}

	contract, err := ch.contractService.Create(c.Request.Context(), services.CreateContractInput{
		PropertyID:         req.PropertyID,
		ClientID:           req.ClientID,
		AgentID:            req.AgentID,
		Type:               types.ContractType(req.Type),
		Value:              req.Value,
		StartDate:          req.StartDate,
		EndDate:            req.EndDate,
		MonthlyRent:        req.MonthlyRent,
		SecurityDeposit:    req.SecurityDeposit,
		Commission:         req.Commission,
		PaymentFrequency:   paymentFrequency,
		PaymentDay:         req.PaymentDay,
		AutoRenewal:        req.AutoRenewal,
		TermsAndConditions: req.TermsAndConditions,
	})
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondCreated(c, gin.H{"contract": contract})
}

func (ch *ContractHandler) GetByID(c *gin.Context) {
	contractID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "ValidationError", err)
		return
	}
	contract, err := ch.contractService.GetByID(c.Request.Context(), contractID)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"contract": contract})
}

func (ch *ContractHandler) GetByClient(c *gin.Context) {
	clientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "ValidationError", err)
		return
	}
	contracts, err := ch.contractService.GetByClient(c.Request.Context(), clientID)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"contracts": contracts})
}

func (ch *ContractHandler) Activate(c *gin.Context) {
	contractID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "ValidationError", err)
		return
	}
	contract, err := ch.contractService.Activate(c.Request.Context(), contractID)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"contract": contract})
}
