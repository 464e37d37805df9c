package interfaces

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/pkaminski-dev/FinanceTracker/internal/ledger/domain"
	financeErrors "github.com/pkaminski-dev/FinanceTracker/internal/ledger/errors"
)

const dateLayout = "2006-01-02"

type TransactionServiceInterface interface {
	AddTransaction(userID, accountID string, transaction domain.Transaction) (*domain.User, error)
	UpdateTransaction(userID, accountID string, transaction domain.Transaction) (*domain.User, error)
	DeleteTransaction(userID, accountID, transactionID string) (*domain.User, error)
	GetTransactionByID(userID, accountID, transactionID string) (*domain.Transaction, error)
	FilterTransactions(userID, accountID string, filters domain.TransactionFilters) (*domain.User, error)
}

type TransactionHandler struct {
	service      TransactionServiceInterface
	respondJSON  func(w http.ResponseWriter, status int, payload interface{})
	respondError func(w http.ResponseWriter, status int, message string)
}

func NewTransactionHandler(
	service TransactionServiceInterface,
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string),
) *TransactionHandler {
	if service == nil {
		log.Fatal("Service must not be nil")
		return nil
	}
	if respondJSON == nil || respondError == nil {
		log.Fatal("Respond functions must not be nil")
		return nil
	}
	return &TransactionHandler{
		service:      service,
		respondJSON:  respondJSON,
		respondError: respondError,
	}
}

// respondLedgerError maps domain errors onto HTTP status codes shared by the
// transaction and account handlers.
func respondLedgerError(respondError func(w http.ResponseWriter, status int, message string), w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, financeErrors.ErrAccountNotFound),
		errors.Is(err, financeErrors.ErrTransactionNotFound),
		errors.Is(err, financeErrors.ErrCategoryNotFound),
		errors.Is(err, financeErrors.ErrUserNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, financeErrors.ErrCurrencyMismatch),
		errors.Is(err, financeErrors.ErrInvalidFilterRange),
		financeErrors.IsValidationError(err):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		log.Println("Unexpected ledger error:", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func (h *TransactionHandler) HandleAddTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	accountID := r.PathValue("accountID")

	var transaction domain.Transaction
	if err := json.NewDecoder(r.Body).Decode(&transaction); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := h.service.AddTransaction(userID, accountID, transaction)
	if err != nil {
		respondLedgerError(h.respondError, w, err)
		return
	}

	account, _ := updated.Account(accountID)
	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"status":  "success",
		"message": "Transaction successfully created.",
		"data":    account,
	})
}

func (h *TransactionHandler) HandleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	accountID := r.PathValue("accountID")

	var transaction domain.Transaction
	if err := json.NewDecoder(r.Body).Decode(&transaction); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	transaction.ID = r.PathValue("transactionID")

	updated, err := h.service.UpdateTransaction(userID, accountID, transaction)
	if err != nil {
		respondLedgerError(h.respondError, w, err)
		return
	}

	account, _ := updated.Account(accountID)
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Transaction successfully updated.",
		"data":    account,
	})
}

func (h *TransactionHandler) HandleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	accountID := r.PathValue("accountID")
	transactionID := r.PathValue("transactionID")

	updated, err := h.service.DeleteTransaction(userID, accountID, transactionID)
	if err != nil {
		respondLedgerError(h.respondError, w, err)
		return
	}

	account, _ := updated.Account(accountID)
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Transaction successfully deleted.",
		"data":    account,
	})
}

func (h *TransactionHandler) HandleGetTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	accountID := r.PathValue("accountID")
	transactionID := r.PathValue("transactionID")

	transaction, err := h.service.GetTransactionByID(userID, accountID, transactionID)
	if err != nil {
		respondLedgerError(h.respondError, w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data":   transaction,
	})
}

// HandleFilterTransactions serves GET with start_date/end_date (inclusive)
// plus optional type and category_id query parameters.
func (h *TransactionHandler) HandleFilterTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	accountID := r.PathValue("accountID")

	startDateStr := r.URL.Query().Get("start_date")
	endDateStr := r.URL.Query().Get("end_date")

	var startDate, endDate time.Time
	var err error

	if startDateStr == "" {
		startDate = time.Date(time.Now().Year(), 1, 1, 0, 0, 0, 0, time.UTC)
	} else {
		startDate, err = time.Parse(dateLayout, startDateStr)
		if err != nil {
			h.respondError(w, http.StatusBadRequest, "Invalid start date format")
			return
		}
	}

	if endDateStr == "" {
		endDate = time.Now()
	} else {
		endDate, err = time.Parse(dateLayout, endDateStr)
		if err != nil {
			h.respondError(w, http.StatusBadRequest, "Invalid end date format")
			return
		}
		// Make the end bound cover the whole day.
		endDate = endDate.Add(24*time.Hour - time.Nanosecond)
	}

	filters := domain.TransactionFilters{
		DateStart:  startDate,
		DateEnd:    endDate,
		Type:       r.URL.Query().Get("type"),
		CategoryID: r.URL.Query().Get("category_id"),
	}
	if err := filters.Validate(); err != nil {
		respondLedgerError(h.respondError, w, err)
		return
	}

	projected, err := h.service.FilterTransactions(userID, accountID, filters)
	if err != nil {
		respondLedgerError(h.respondError, w, err)
		return
	}

	account, _ := projected.Account(accountID)
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Transactions retrieved successfully.",
		"data":    account.Transactions,
	})
}
