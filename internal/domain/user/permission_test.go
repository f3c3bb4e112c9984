package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasPermission(t *testing.T) {
	for _, role := range []Role{RoleAdmin, RoleManager, RolePayrollOfficer} {
		assert.True(t, HasPermission(role, PermissionPayrollCommit), role)
		assert.True(t, HasPermission(role, PermissionPayrollViewAll), role)
	}

	assert.True(t, HasPermission(RoleEmployee, PermissionPayrollViewOwn))
	assert.False(t, HasPermission(RoleEmployee, PermissionPayrollCommit))
	assert.False(t, HasPermission(RoleEmployee, PermissionPayrollViewAll))
	assert.False(t, HasPermission(Role("Intern"), PermissionPayrollViewOwn))
}

func TestPrincipal(t *testing.T) {
	empID := "emp-1"
	p := Principal{UserID: "u-1", EmployeeID: &empID, Role: RoleEmployee}
	assert.False(t, p.CanManagePayroll())
	assert.True(t, p.IsSelf("emp-1"))
	assert.False(t, p.IsSelf("emp-2"))

	officer := Principal{UserID: "u-2", Role: RolePayrollOfficer}
	assert.True(t, officer.CanManagePayroll())
	assert.False(t, officer.IsSelf("emp-1"))
}
