package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-payroll-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-payroll-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type PayrollHandler interface {
	// Calculation
	Preview(w http.ResponseWriter, r *http.Request)
	Commit(w http.ResponseWriter, r *http.Request)
	RunPeriod(w http.ResponseWriter, r *http.Request)

	// Payroll Records
	ListRecords(w http.ResponseWriter, r *http.Request)
	GetRecord(w http.ResponseWriter, r *http.Request)
	UpdateStatus(w http.ResponseWriter, r *http.Request)
	Payslip(w http.ResponseWriter, r *http.Request)
	Export(w http.ResponseWriter, r *http.Request)

	// Summary
	Summary(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{payrollService: payrollService}
}

// ========== CALCULATION ==========

func (h *payrollHandlerImpl) Preview(w http.ResponseWriter, r *http.Request) {
	var req payroll.PreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.Preview(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) Commit(w http.ResponseWriter, r *http.Request) {
	var req payroll.CommitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, created, err := h.payrollService.Commit(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if created {
		response.Created(w, "Payroll record created", result)
		return
	}
	response.SuccessWithMessage(w, "Payroll record updated", result)
}

type runPeriodRequest struct {
	Month string `json:"month"`
	Year  int    `json:"year"`
}

func (h *payrollHandlerImpl) RunPeriod(w http.ResponseWriter, r *http.Request) {
	var req runPeriodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.RunPeriod(r.Context(), req.Month, req.Year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll run completed", result)
}

// ========== RECORDS ==========

func (h *payrollHandlerImpl) ListRecords(w http.ResponseWriter, r *http.Request) {
	filter, err := scopedFilter(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.payrollService.ListRecords(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result, &response.Meta{TotalItems: int64(len(result))})
}

func (h *payrollHandlerImpl) GetRecord(w http.ResponseWriter, r *http.Request) {
	record, ok := h.loadOwnedRecord(w, r)
	if !ok {
		return
	}

	response.Success(w, record)
}

func (h *payrollHandlerImpl) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Payroll record ID is required", nil)
		return
	}

	var req payroll.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ID = id

	result, err := h.payrollService.UpdateStatus(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll status updated", result)
}

func (h *payrollHandlerImpl) Payslip(w http.ResponseWriter, r *http.Request) {
	record, ok := h.loadOwnedRecord(w, r)
	if !ok {
		return
	}

	data, fileName, err := h.payrollService.Payslip(r.Context(), record.ID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.File(w, "application/pdf", fileName, data)
}

func (h *payrollHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	filter, err := scopedFilter(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := h.payrollService.ExportRecords(r.Context(), filter, &buf); err != nil {
		response.HandleError(w, err)
		return
	}

	response.File(w, xlsxContentType, "payroll-register.xlsx", buf.Bytes())
}

// ========== SUMMARY ==========

func (h *payrollHandlerImpl) Summary(w http.ResponseWriter, r *http.Request) {
	filter, err := scopedFilter(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.payrollService.Summary(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ========== HELPERS ==========

// scopedFilter reads the list filters from the query string. Callers without
// the view-all permission are pinned to their own employee id.
func scopedFilter(r *http.Request) (payroll.PayrollFilter, error) {
	q := r.URL.Query()
	var filter payroll.PayrollFilter
	if v := strings.TrimSpace(q.Get("employee_id")); v != "" {
		filter.EmployeeID = &v
	}
	if v := strings.TrimSpace(q.Get("status")); v != "" {
		filter.Status = &v
	}
	if v := strings.TrimSpace(q.Get("period")); v != "" {
		filter.PeriodKey = &v
	}

	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		return filter, user.ErrInvalidToken
	}
	if principal.CanManagePayroll() {
		return filter, nil
	}
	if principal.EmployeeID == nil {
		return filter, user.ErrEmployeeScopeRequired
	}
	filter.EmployeeID = principal.EmployeeID
	return filter, nil
}

// loadOwnedRecord fetches the record named in the URL and enforces that
// non-privileged callers only see their own.
func (h *payrollHandlerImpl) loadOwnedRecord(w http.ResponseWriter, r *http.Request) (payroll.PayrollRecordResponse, bool) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Payroll record ID is required", nil)
		return payroll.PayrollRecordResponse{}, false
	}

	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		response.HandleError(w, user.ErrInvalidToken)
		return payroll.PayrollRecordResponse{}, false
	}

	record, err := h.payrollService.GetRecord(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return payroll.PayrollRecordResponse{}, false
	}

	if !principal.CanManagePayroll() && !principal.IsSelf(record.EmployeeID) {
		response.HandleError(w, user.ErrForeignPayrollRecord)
		return payroll.PayrollRecordResponse{}, false
	}

	return record, true
}
