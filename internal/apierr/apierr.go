package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is the closed taxonomy of business failures. Services return these
// instead of raw errors so handlers can map each kind to an HTTP status and
// a stable {code, description} body.
type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func NotFound(code, description string) *Error {
	return New(http.StatusNotFound, code, errors.New(description))
}

func Business(code, description string) *Error {
	return New(http.StatusBadRequest, code, errors.New(description))
}

func Validation(description string) *Error {
	return Business("ValidationError", description)
}

var (
	ErrProposalNotFound    = NotFound("NotFound", "Proposta não encontrada.")
	ErrNegotiationNotFound = NotFound("NotFound", "Negociação não encontrada.")
	ErrContractNotFound    = NotFound("NotFound", "Contrato não encontrado.")
	ErrPropertyNotFound    = NotFound("PropertyNotFound", "Imóvel não encontrado.")
	ErrClientNotFound      = NotFound("ClientNotFound", "Cliente não encontrado.")
	ErrAgentNotFound       = NotFound("AgentNotFound", "Agente não encontrado.")

	ErrProposalAlreadyApproved      = Business("ProposalAlreadyApproved", "Esta proposta já foi aprovada.")
	ErrProposalAlreadyRejected      = Business("ProposalAlreadyRejected", "Esta proposta já foi rejeitada.")
	ErrProposalAlreadyCancelled     = Business("ProposalAlreadyCancelled", "Esta proposta já foi cancelada.")
	ErrProposalCancelled            = Business("ProposalCancelled", "Não é possível alterar uma proposta cancelada.")
	ErrProposalCompleted            = Business("ProposalCompleted", "Esta proposta já foi concluída.")
	ErrProposalAlreadyUnderAnalysis = Business("ProposalAlreadyUnderAnalysis", "Esta proposta já está em análise.")
	ErrProposalAlreadyExists        = Business("ProposalAlreadyExists", "Já existe uma proposta pendente para este imóvel.")
	ErrPropertyUnavailable          = Business("PropertyUnavailable", "Este imóvel já não está disponível.")
	ErrInvalidContractDates         = Business("InvalidContractDates", "A data de fim deve ser posterior à data de início.")
	ErrInvalidNegotiationStatus     = Business("INVALID_STATUS", "Não é possível reverter o estado para 'Enviado'.")
)

// As unwraps err into an *Error, or nil when err is not one.
func As(err error) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return nil
}
