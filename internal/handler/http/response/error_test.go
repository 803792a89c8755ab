package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kintai-works/kintai-backend-go/internal/domain/attendance"
	"github.com/kintai-works/kintai-backend-go/internal/domain/auth"
	"github.com/kintai-works/kintai-backend-go/internal/domain/employee"
	"github.com/kintai-works/kintai-backend-go/internal/domain/leave"
	"github.com/kintai-works/kintai-backend-go/internal/domain/payroll"
	"github.com/kintai-works/kintai-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleError_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"invalid credentials", auth.ErrInvalidCredentials, http.StatusUnauthorized},
		{"admin required", auth.ErrAdminPrivilegeRequired, http.StatusForbidden},
		{"not resource owner", auth.ErrNotResourceOwner, http.StatusForbidden},
		{"employee not found", employee.ErrEmployeeNotFound, http.StatusNotFound},
		{"email exists", employee.ErrEmailExists, http.StatusConflict},
		{"already clocked in", attendance.ErrAlreadyClockedIn, http.StatusConflict},
		{"not clocked in", attendance.ErrNotClockedIn, http.StatusBadRequest},
		{"record not found", attendance.ErrRecordNotFound, http.StatusNotFound},
		{"concurrent punch", attendance.ErrConcurrentUpdate, http.StatusConflict},
		{"insufficient balance", leave.ErrInsufficientBalance, http.StatusBadRequest},
		{"overlapping request", leave.ErrOverlappingRequest, http.StatusConflict},
		{"request immutable", leave.ErrRequestImmutable, http.StatusBadRequest},
		{"duplicate period", payroll.ErrDuplicatePeriod, http.StatusConflict},
		{"statement not found", payroll.ErrStatementNotFound, http.StatusNotFound},
		{"unknown error", fmt.Errorf("something broke"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleError(rec, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)

			var body Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.False(t, body.Success)
			require.NotNil(t, body.Error)
			assert.NotEmpty(t, body.Error.Message)
		})
	}
}

func TestHandleError_WrappedDomainError(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleError(rec, fmt.Errorf("failed to approve leave request: %w", leave.ErrAlreadyProcessed))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleError_ValidationErrors(t *testing.T) {
	errs := validator.ValidationErrors{
		{Field: "email", Message: "email is required"},
		{Field: "days", Message: "days does not match the requested period"},
	}

	rec := httptest.NewRecorder()
	HandleError(rec, errs)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.Error)
	assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)
	assert.Equal(t, "email is required", body.Error.Details["email"])
	assert.Equal(t, "days does not match the requested period", body.Error.Details["days"])
}
