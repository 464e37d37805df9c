package interfaces

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pkaminski-dev/FinanceTracker/internal/ledger/domain"
	financeErrors "github.com/pkaminski-dev/FinanceTracker/internal/ledger/errors"
)

func TestHandleCreateAccount_Success(t *testing.T) {
	req := authedRequest(http.MethodPost, "/accounts", `{"name":"Savings","currency":"EUR"}`)
	w := httptest.NewRecorder()

	mockService := &MockAccountService{
		Account: &domain.Account{ID: "acc-2", Name: "Savings", Currency: "EUR"},
	}
	handler := NewAccountHandler(mockService, respondJSON, respondError)
	handler.HandleCreateAccount(w, req)

	res := w.Result()
	defer res.Body.Close()

	assert.Equal(t, http.StatusCreated, res.StatusCode)

	var response struct {
		Status string         `json:"status"`
		Data   domain.Account `json:"data"`
	}
	err := json.NewDecoder(res.Body).Decode(&response)
	assert.NoError(t, err)
	assert.Equal(t, "Savings", response.Data.Name)
	assert.Equal(t, "EUR", response.Data.Currency)
}

func TestHandleCreateAccount_UnsupportedCurrency(t *testing.T) {
	req := authedRequest(http.MethodPost, "/accounts", `{"name":"Savings","currency":"XYZ"}`)
	w := httptest.NewRecorder()

	mockService := &MockAccountService{Err: financeErrors.NewValidationError("Currency is not supported")}
	handler := NewAccountHandler(mockService, respondJSON, respondError)
	handler.HandleCreateAccount(w, req)

	res := w.Result()
	defer res.Body.Close()

	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	var response map[string]interface{}
	err := json.NewDecoder(res.Body).Decode(&response)
	assert.NoError(t, err)
	assert.Equal(t, "Currency is not supported", response["message"])
}

func TestHandleRenameAccount_NotFound(t *testing.T) {
	req := authedRequest(http.MethodPut, "/accounts/missing", `{"name":"Renamed"}`)
	req.SetPathValue("accountID", "missing")
	w := httptest.NewRecorder()

	mockService := &MockAccountService{Err: financeErrors.ErrAccountNotFound}
	handler := NewAccountHandler(mockService, respondJSON, respondError)
	handler.HandleRenameAccount(w, req)

	assert.Equal(t, http.StatusNotFound, w.Result().StatusCode)
}

func TestHandleAddSubcategory_TypeMismatch(t *testing.T) {
	req := authedRequest(http.MethodPost, "/accounts/acc-1/categories/cat-1/subcategories", `{"name":"Rent","type":"income"}`)
	req.SetPathValue("accountID", "acc-1")
	req.SetPathValue("categoryID", "cat-1")
	w := httptest.NewRecorder()

	mockService := &MockAccountService{Err: financeErrors.ErrCategoryTypeMismatch}
	handler := NewAccountHandler(mockService, respondJSON, respondError)
	handler.HandleAddSubcategory(w, req)

	res := w.Result()
	defer res.Body.Close()

	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestHandleDeleteCategory_InUse(t *testing.T) {
	req := authedRequest(http.MethodDelete, "/accounts/acc-1/categories/cat-1", "")
	req.SetPathValue("accountID", "acc-1")
	req.SetPathValue("categoryID", "cat-1")
	w := httptest.NewRecorder()

	mockService := &MockAccountService{Err: financeErrors.ErrCategoryInUse}
	handler := NewAccountHandler(mockService, respondJSON, respondError)
	handler.HandleDeleteCategory(w, req)

	res := w.Result()
	defer res.Body.Close()

	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	var response map[string]interface{}
	err := json.NewDecoder(res.Body).Decode(&response)
	assert.NoError(t, err)
	assert.Equal(t, financeErrors.ErrCategoryInUse.Error(), response["message"])
}

func TestHandleDeleteCategory_Success(t *testing.T) {
	req := authedRequest(http.MethodDelete, "/accounts/acc-1/categories/cat-1", "")
	req.SetPathValue("accountID", "acc-1")
	req.SetPathValue("categoryID", "cat-1")
	w := httptest.NewRecorder()

	handler := NewAccountHandler(&MockAccountService{}, respondJSON, respondError)
	handler.HandleDeleteCategory(w, req)

	assert.Equal(t, http.StatusOK, w.Result().StatusCode)
}
