package jwt

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-jwt"

func TestJWTService_GenerateAccessToken(t *testing.T) {
	svc := NewJWTService(testSecret, "1h")
	empID := "emp-42"

	token, expiresAt, err := svc.GenerateAccessToken("user-1", &empID, user.RoleEmployee)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Greater(t, expiresAt, int64(0))

	decoded, err := svc.JWTAuth().Decode(token)
	require.NoError(t, err)
	claims, err := decoded.AsMap(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "access", claims["type"])

	p, err := svc.Principal(claims)
	require.NoError(t, err)
	assert.Equal(t, "user-1", p.UserID)
	assert.Equal(t, user.RoleEmployee, p.Role)
	require.NotNil(t, p.EmployeeID)
	assert.Equal(t, "emp-42", *p.EmployeeID)
}

func TestJWTService_GenerateAccessToken_InvalidDuration(t *testing.T) {
	svc := NewJWTService(testSecret, "forever")
	_, _, err := svc.GenerateAccessToken("user-1", nil, user.RoleAdmin)
	assert.Error(t, err)
}

func TestJWTService_Principal(t *testing.T) {
	svc := NewJWTService(testSecret, "1h")

	p, err := svc.Principal(map[string]interface{}{"user_id": "u", "role": "Payroll Officer", "employee_id": nil})
	require.NoError(t, err)
	assert.Nil(t, p.EmployeeID)
	assert.Equal(t, user.RolePayrollOfficer, p.Role)

	_, err = svc.Principal(map[string]interface{}{"role": "Admin"})
	assert.ErrorIs(t, err, user.ErrInvalidToken)

	_, err = svc.Principal(map[string]interface{}{"user_id": "u"})
	assert.ErrorIs(t, err, user.ErrInvalidToken)
}
