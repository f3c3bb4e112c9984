package user

type Role string

const (
	RoleAdmin          Role = "Admin"
	RoleManager        Role = "Manager"
	RolePayrollOfficer Role = "Payroll Officer"
	RoleEmployee       Role = "Employee"
)

// Principal is the authenticated caller as described by its access token.
type Principal struct {
	UserID     string
	EmployeeID *string
	Role       Role
}

// CanManagePayroll reports whether the caller may act on other employees' payroll.
func (p Principal) CanManagePayroll() bool {
	return HasPermission(p.Role, PermissionPayrollViewAll)
}

// IsSelf checks whether employeeID belongs to the caller
func (p Principal) IsSelf(employeeID string) bool {
	return p.EmployeeID != nil && *p.EmployeeID == employeeID
}
