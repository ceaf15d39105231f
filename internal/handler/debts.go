package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/holydev99/debtSet/internal/domain"
	"github.com/holydev99/debtSet/internal/logger"
	customError "github.com/holydev99/debtSet/pkg/errors"
	"github.com/holydev99/debtSet/pkg/response"
)

// DebtService is the part of the debt service the HTTP layer uses
type DebtService interface {
	Fetch(ctx context.Context, owner string) (*domain.DebtListResponse, error)
	History(ctx context.Context, owner string) (*domain.DebtListResponse, error)
	Create(ctx context.Context, owner string, request *domain.CreateDebtRequest) (*domain.CreateDebtResponse, error)
	MarkPaid(ctx context.Context, owner, id string) error
	MarkUnpaid(ctx context.Context, owner, id string) error
	Delete(ctx context.Context, owner, id string) error
	ToggleReminder(ctx context.Context, owner, id string, enabled *bool) (*domain.ToggleReminderResponse, error)
	Snapshot(owner string) *domain.DebtListResponse
}

type DebtHandler struct {
	service   DebtService
	validator *validator.Validate
}

func NewDebtHandler(service DebtService) *DebtHandler {
	return &DebtHandler{
		service:   service,
		validator: domain.NewValidator(),
	}
}

// RegisterRoutes mounts the debt endpoints on an /api/v1 subrouter
func (h *DebtHandler) RegisterRoutes(api *mux.Router) {
	debts := api.PathPrefix("/debts").Subrouter()
	debts.Use(RequireOwner, response.JSONMiddleware)

	debts.HandleFunc("", h.List).Methods(http.MethodGet)
	debts.HandleFunc("", h.Create).Methods(http.MethodPost)
	debts.HandleFunc("/history", h.History).Methods(http.MethodGet)
	debts.HandleFunc("/{id}/pay", h.MarkPaid).Methods(http.MethodPost)
	debts.HandleFunc("/{id}/unpay", h.MarkUnpaid).Methods(http.MethodPost)
	debts.HandleFunc("/{id}/reminder", h.ToggleReminder).Methods(http.MethodPost)
	debts.HandleFunc("/{id}", h.Delete).Methods(http.MethodDelete)
}

type ownerKey struct{}

// RequireOwner rejects requests that do not name the owner of the debts
func RequireOwner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		owner := strings.TrimSpace(r.Header.Get(response.OwnerHeader))
		if owner == "" {
			response.Unauthorized(w, "Missing "+response.OwnerHeader+" header")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ownerKey{}, owner)))
	})
}

// OwnerFrom returns the owner stored by RequireOwner
func OwnerFrom(ctx context.Context) string {
	owner, _ := ctx.Value(ownerKey{}).(string)
	return owner
}

// List returns the unpaid debts and their total
func (h *DebtHandler) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Fetch(r.Context(), OwnerFrom(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	response.Success(w, result)
}

// History returns the paid debts
func (h *DebtHandler) History(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.History(r.Context(), OwnerFrom(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	response.Success(w, result)
}

// Create stores a new debt and schedules its reminder
func (h *DebtHandler) Create(w http.ResponseWriter, r *http.Request) {
	var request domain.CreateDebtRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "Invalid JSON payload", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		writeError(w, customError.WrapValidation(domain.ValidationMessage(err)))
		return
	}

	result, err := h.service.Create(r.Context(), OwnerFrom(r.Context()), &request)
	if err != nil {
		writeError(w, err)
		return
	}
	response.Created(w, result)
}

// MarkPaid moves a debt to history and returns the remaining list
func (h *DebtHandler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.service.MarkPaid)
}

// MarkUnpaid restores a paid debt and returns the unpaid list
func (h *DebtHandler) MarkUnpaid(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.service.MarkUnpaid)
}

// Delete removes a debt and returns the remaining list
func (h *DebtHandler) Delete(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.service.Delete)
}

func (h *DebtHandler) mutate(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, owner, id string) error) {
	owner := OwnerFrom(r.Context())
	if err := op(r.Context(), owner, mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	response.Success(w, h.service.Snapshot(owner))
}

// ToggleReminder flips the reminder of a debt. An optional {"enabled": bool}
// body pins the wanted state.
func (h *DebtHandler) ToggleReminder(w http.ResponseWriter, r *http.Request) {
	var request domain.ToggleReminderRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(w, "Invalid JSON payload", err)
		return
	}

	result, err := h.service.ToggleReminder(r.Context(), OwnerFrom(r.Context()), mux.Vars(r)["id"], request.Enabled)
	if err != nil {
		writeError(w, err)
		return
	}
	response.Success(w, result)
}

func writeError(w http.ResponseWriter, err error) {
	code := customError.Code(err)
	switch {
	case customError.IsValidation(err):
		response.ErrorWithCode(w, http.StatusBadRequest, code, "Validation failed", err)
	case customError.IsNotFound(err):
		response.NotFound(w, code, customError.PublicMessage(err, "Debt not found"))
	default:
		logger.HTTP().Error("request failed", "error", err)
		response.InternalServerError(w, code, customError.PublicMessage(err, "Internal server error"))
	}
}
