package http

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/events"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/sse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// readEvent returns the next "event:" name from an SSE stream.
func readEvent(t *testing.T, r *bufio.Reader) string {
	t.Helper()
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		if name, ok := strings.CutPrefix(line, "event: "); ok {
			return strings.TrimSpace(name)
		}
	}
}

func TestEventsStream_EmployeeReceivesOwnEvents(t *testing.T) {
	s := newTestServer(t)
	srv := httptest.NewServer(s.handler)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	employeeToken := s.token(t, user.RoleEmployee, ptr("emp-1"))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/v1/payroll/events?token="+employeeToken, nil)
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	stream := bufio.NewReader(resp.Body)
	assert.Equal(t, "connected", readEvent(t, stream))
	require.Eventually(t, func() bool { return s.hub.SubscriberCount("emp-1") == 1 }, time.Second, 10*time.Millisecond)

	officer := s.token(t, user.RolePayrollOfficer, nil)
	rec := s.do(t, http.MethodPost, "/api/v1/payroll/records", officer, commitBody("emp-2"))
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = s.do(t, http.MethodPost, "/api/v1/payroll/records", officer, commitBody("emp-1"))
	require.Equal(t, http.StatusCreated, rec.Code)

	assert.Equal(t, events.EventPayrollCommitted, readEvent(t, stream))
	line, err := stream.ReadString('\n')
	require.NoError(t, err)
	assert.Contains(t, line, `"employee_id":"emp-1"`)
}

func TestEventsStream_RequiresEmployeeScope(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, user.RoleEmployee, nil)

	rec := s.do(t, http.MethodGet, "/api/v1/payroll/events", token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestEventsStream_OutlivesWriteTimeout(t *testing.T) {
	s := newTestServer(t)
	srv := httptest.NewUnstartedServer(s.handler)
	srv.Config.WriteTimeout = 300 * time.Millisecond
	srv.Start()
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	adminToken := s.token(t, user.RoleAdmin, nil)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/v1/payroll/events?token="+adminToken, nil)
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	stream := bufio.NewReader(resp.Body)
	assert.Equal(t, "connected", readEvent(t, stream))
	require.Eventually(t, func() bool { return s.hub.SubscriberCount(sse.AllEmployees) == 1 }, time.Second, 10*time.Millisecond)

	time.Sleep(500 * time.Millisecond)

	officer := s.token(t, user.RolePayrollOfficer, nil)
	rec := s.do(t, http.MethodPost, "/api/v1/payroll/records", officer, commitBody("emp-1"))
	require.Equal(t, http.StatusCreated, rec.Code)

	assert.Equal(t, events.EventPayrollCommitted, readEvent(t, stream))
}
