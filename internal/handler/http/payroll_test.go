package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-payroll-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/sse"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-payroll-go/internal/repository/memory"
	payrollService "github.com/cmlabs-hris/hris-payroll-go/internal/service/payroll"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	handlerTestAccessExp = "1h"
	handlerTestSecret    = "test-secret-key-for-jwt"
)

type testServer struct {
	handler http.Handler
	jwt     jwt.Service
	store   *memory.Store
	hub     *sse.Hub
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	store := memory.NewStore()
	for _, e := range []struct {
		id, name string
		salary   int64
	}{
		{"emp-1", "John Doe", 60000},
		{"emp-2", "Jane Smith", 30000},
	} {
		s := decimal.NewFromInt(e.salary)
		store.AddEmployee(employee.Employee{ID: e.id, FullName: e.name, Email: e.id + "@example.com", BaseSalary: &s})
	}
	for day := 1; day <= 20; day++ {
		hours := 8.0
		store.AddAttendance(attendance.Attendance{
			ID:           fmt.Sprintf("att-%d", day),
			EmployeeID:   "emp-1",
			Date:         fmt.Sprintf("2025-10-%02d", day),
			WorkingHours: &hours,
			Status:       attendance.StatusPresent,
		})
	}
	store.AddLeaveRequest(leave.LeaveRequest{
		ID: "leave-1", EmployeeID: "emp-1", Type: leave.LeaveTypePaid, Status: leave.LeaveRequestStatusApproved,
		StartDate: "2025-10-27", EndDate: "2025-10-28",
	})

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	hub := sse.NewHub()
	svc := payrollService.NewPayrollService(store, store, store, store, hub, logger)
	jwtService := jwt.NewJWTService(handlerTestSecret, handlerTestAccessExp)

	return &testServer{
		handler: NewRouter(jwtService, NewPayrollHandler(svc), NewEventsHandler(hub), logger, []string{"http://localhost:3000"}),
		jwt:     jwtService,
		store:   store,
		hub:     hub,
	}
}

func (s *testServer) token(t *testing.T, role user.Role, employeeID *string) string {
	t.Helper()
	token, _, err := s.jwt.GenerateAccessToken("user-"+string(role), employeeID, role)
	require.NoError(t, err)
	return token
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Success bool                  `json:"success"`
	Data    json.RawMessage       `json:"data"`
	Error   *response.ErrorDetail `json:"error"`
	Meta    *response.Meta        `json:"meta"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, data interface{}) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	if data != nil && len(env.Data) > 0 {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

func ptr[T any](v T) *T { return &v }

func commitBody(employeeID string) map[string]interface{} {
	return map[string]interface{}{"employee_id": employeeID, "month": "October", "year": 2025}
}

func TestPayrollRoutes_Authentication(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/v1/payroll/records", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/payroll/records", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPayrollRoutes_EmployeeCannotPreviewOrCommit(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, user.RoleEmployee, ptr("emp-1"))

	rec := s.do(t, http.MethodPost, "/api/v1/payroll/preview", token, commitBody("emp-1"))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/payroll/records", token, commitBody("emp-1"))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestPayrollRoutes_Preview(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, user.RolePayrollOfficer, nil)

	rec := s.do(t, http.MethodPost, "/api/v1/payroll/preview", token, commitBody("emp-1"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var preview payroll.PreviewResponse
	env := decode(t, rec, &preview)
	assert.True(t, env.Success)
	assert.Equal(t, "October 2025", preview.Period)
	assert.True(t, decimal.NewFromInt(44000).Equal(preview.Amount))

	rec = s.do(t, http.MethodPost, "/api/v1/payroll/preview", token, map[string]interface{}{"employee_id": "emp-1", "month": "Octobre", "year": 2025})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	env = decode(t, rec, nil)
	require.NotNil(t, env.Error)
	assert.Contains(t, env.Error.Details, "month")

	rec = s.do(t, http.MethodPost, "/api/v1/payroll/preview", token, commitBody("missing"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPayrollRoutes_CommitAndStatus(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, user.RoleManager, nil)

	rec := s.do(t, http.MethodPost, "/api/v1/payroll/records", token, commitBody("emp-1"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created payroll.PayrollRecordResponse
	decode(t, rec, &created)
	assert.Equal(t, "Pending", created.Status)

	rec = s.do(t, http.MethodPost, "/api/v1/payroll/records", token, commitBody("emp-1"))
	require.Equal(t, http.StatusOK, rec.Code)
	var again payroll.PayrollRecordResponse
	decode(t, rec, &again)
	assert.Equal(t, created.ID, again.ID)

	statusPath := "/api/v1/payroll/records/" + created.ID + "/status"

	rec = s.do(t, http.MethodPatch, statusPath, token, map[string]string{"status": "Paid"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPatch, statusPath, token, map[string]string{"status": "Pending"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, http.MethodPatch, statusPath, token, map[string]string{"status": "Done"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/payroll/records", token, commitBody("emp-1"))
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, http.MethodPatch, "/api/v1/payroll/records/missing/status", token, map[string]string{"status": "Paid"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPayrollRoutes_EmployeeScope(t *testing.T) {
	s := newTestServer(t)
	officer := s.token(t, user.RolePayrollOfficer, nil)
	employeeToken := s.token(t, user.RoleEmployee, ptr("emp-1"))

	var own, foreign payroll.PayrollRecordResponse
	decode(t, s.do(t, http.MethodPost, "/api/v1/payroll/records", officer, commitBody("emp-1")), &own)
	decode(t, s.do(t, http.MethodPost, "/api/v1/payroll/records", officer, commitBody("emp-2")), &foreign)

	rec := s.do(t, http.MethodGet, "/api/v1/payroll/records?employee_id=emp-2", employeeToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var records []payroll.PayrollRecordResponse
	env := decode(t, rec, &records)
	require.Len(t, records, 1)
	assert.Equal(t, "emp-1", records[0].EmployeeID)
	assert.EqualValues(t, 1, env.Meta.TotalItems)

	rec = s.do(t, http.MethodGet, "/api/v1/payroll/records/"+own.ID, employeeToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/payroll/records/"+foreign.ID, employeeToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/payroll/records/"+foreign.ID+"/payslip", employeeToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	unlinked := s.token(t, user.RoleEmployee, nil)
	rec = s.do(t, http.MethodGet, "/api/v1/payroll/records", unlinked, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/payroll/records", officer, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &records)
	assert.Len(t, records, 2)

	rec = s.do(t, http.MethodGet, "/api/v1/payroll/summary", employeeToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestPayrollRoutes_Documents(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, user.RoleAdmin, nil)

	var rec0 payroll.PayrollRecordResponse
	decode(t, s.do(t, http.MethodPost, "/api/v1/payroll/records", token, commitBody("emp-1")), &rec0)

	rec := s.do(t, http.MethodGet, "/api/v1/payroll/records/"+rec0.ID+"/payslip", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "payslip-emp-1-october-2025.pdf")
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))

	rec = s.do(t, http.MethodGet, "/api/v1/payroll/records/export?period=October%202025", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
	assert.NotZero(t, rec.Body.Len())

	rec = s.do(t, http.MethodGet, "/api/v1/payroll/records/export?status=Done", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPayrollRoutes_SummaryAndRun(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, user.RolePayrollOfficer, nil)

	rec := s.do(t, http.MethodPost, "/api/v1/payroll/run", token, map[string]interface{}{"month": "october", "year": 2025})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var run payroll.RunResult
	decode(t, rec, &run)
	assert.Equal(t, 2, run.Committed)
	assert.Equal(t, 2, run.Created)

	rec = s.do(t, http.MethodGet, "/api/v1/payroll/summary?period=October%202025", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var summary payroll.PayrollSummaryResponse
	decode(t, rec, &summary)
	assert.Equal(t, 2, summary.TotalRecords)
	assert.True(t, decimal.NewFromInt(44000).Equal(summary.TotalAmount))

	rec = s.do(t, http.MethodPost, "/api/v1/payroll/run", token, map[string]interface{}{"month": "", "year": 2025})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
