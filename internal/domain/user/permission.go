package user

type Permission string

const (
	// Self service
	PermissionPayrollViewOwn Permission = "payroll.view_own"

	// Payroll administration
	PermissionPayrollViewAll      Permission = "payroll.view_all"
	PermissionPayrollPreview      Permission = "payroll.preview"
	PermissionPayrollCommit       Permission = "payroll.commit"
	PermissionPayrollUpdateStatus Permission = "payroll.update_status"
	PermissionPayrollExport       Permission = "payroll.export"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermissionPayrollViewOwn,
		PermissionPayrollViewAll,
		PermissionPayrollPreview,
		PermissionPayrollCommit,
		PermissionPayrollUpdateStatus,
		PermissionPayrollExport,
	},
	RoleManager: {
		PermissionPayrollViewOwn,
		PermissionPayrollViewAll,
		PermissionPayrollPreview,
		PermissionPayrollCommit,
		PermissionPayrollUpdateStatus,
		PermissionPayrollExport,
	},
	RolePayrollOfficer: {
		PermissionPayrollViewOwn,
		PermissionPayrollViewAll,
		PermissionPayrollPreview,
		PermissionPayrollCommit,
		PermissionPayrollUpdateStatus,
		PermissionPayrollExport,
	},
	RoleEmployee: {
		// Employees only see their own payslips
		PermissionPayrollViewOwn,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}
