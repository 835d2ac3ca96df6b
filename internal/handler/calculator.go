package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/segyhp/loan-engine/internal/domain"
	customError "github.com/segyhp/loan-engine/pkg/errors"
	"github.com/segyhp/loan-engine/pkg/response"
)

// CalculatorService is the part of the service layer the HTTP API needs
type CalculatorService interface {
	Calculate(ctx context.Context, request *domain.CalculateLoanRequest) (*domain.Calculation, error)
	GetCalculation(ctx context.Context, calculationID string) (*domain.Calculation, error)
	GetSchedule(ctx context.Context, calculationID string) ([]domain.ScheduleEntry, error)
	Overpayment(ctx context.Context, request *domain.CalculateLoanRequest) (*domain.OverpaymentResult, error)
	Compare(ctx context.Context, request *domain.CalculateLoanRequest) (*domain.ComparisonResult, error)
}

type CalculatorHandler struct {
	service   CalculatorService
	validator *validator.Validate
	logger    *logrus.Logger
}

func NewCalculatorHandler(service CalculatorService, logger *logrus.Logger) *CalculatorHandler {
	return &CalculatorHandler{
		service:   service,
		validator: NewValidator(),
		logger:    logger,
	}
}

// Calculate handles POST /api/v1/loans/calculate
func (h *CalculatorHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	request, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}

	calculation, err := h.service.Calculate(r.Context(), request)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.Created(w, calculation)
}

// GetCalculation handles GET /api/v1/loans/calculations/{calculationId}
func (h *CalculatorHandler) GetCalculation(w http.ResponseWriter, r *http.Request) {
	calculationID := mux.Vars(r)["calculationId"]

	calculation, err := h.service.GetCalculation(r.Context(), calculationID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.Success(w, calculation)
}

// GetSchedule handles GET /api/v1/loans/calculations/{calculationId}/schedule
func (h *CalculatorHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	calculationID := mux.Vars(r)["calculationId"]

	schedule, err := h.service.GetSchedule(r.Context(), calculationID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	// The service has already rejected malformed ids
	id, _ := uuid.Parse(calculationID)

	response.Success(w, domain.ScheduleResponse{
		CalculationID: id,
		Schedule:      schedule,
	})
}

// Overpayment handles POST /api/v1/loans/overpayment
func (h *CalculatorHandler) Overpayment(w http.ResponseWriter, r *http.Request) {
	request, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}

	result, err := h.service.Overpayment(r.Context(), request)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.Success(w, result)
}

// Compare handles POST /api/v1/loans/compare
func (h *CalculatorHandler) Compare(w http.ResponseWriter, r *http.Request) {
	request, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}

	result, err := h.service.Compare(r.Context(), request)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *CalculatorHandler) decodeRequest(w http.ResponseWriter, r *http.Request) (*domain.CalculateLoanRequest, bool) {
	var request domain.CalculateLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return nil, false
	}

	if err := h.validator.Struct(&request); err != nil {
		response.Detailed(w, http.StatusBadRequest, customError.ErrCodeInvalidLoanInput,
			customError.ErrInvalidLoanInput.Error(), violations(err))
		return nil, false
	}

	return &request, true
}

func (h *CalculatorHandler) writeError(w http.ResponseWriter, err error) {
	status := customError.HTTPStatus(err)

	var be *customError.BusinessError
	if !errors.As(err, &be) {
		h.logger.WithError(err).Error("unhandled service error")
		response.InternalServerError(w, "Internal server error", nil)
		return
	}

	if status >= http.StatusInternalServerError {
		h.logger.WithError(err).WithField("code", be.Code).Error("request failed")
		// Internal causes stay in the log
		response.Detailed(w, status, be.Code, be.Message, nil)
		return
	}

	response.Detailed(w, status, be.Code, be.Message, be.Details)
}
