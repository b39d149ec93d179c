package models

import "github.com/golang-jwt/jwt/v5"

// Application permissions
const (
	// Read/write over the whole back office
	PermissionReadAdmin  = "admin:read"
	PermissionWriteAdmin = "admin:write"

	// Merchant review
	PermissionMerchantRead  = "merchant:read"
	PermissionMerchantWrite = "merchant:write"
	PermissionRiskRead      = "risk:read"
	PermissionRiskWrite     = "risk:write"
	PermissionKYCReview     = "kyc:review"

	// Platform configuration
	PermissionSettingsRead  = "settings:read"
	PermissionSettingsWrite = "settings:write"

	// Operations
	PermissionTicketRead      = "ticket:read"
	PermissionTicketWrite     = "ticket:write"
	PermissionAlertRead       = "alert:read"
	PermissionAlertWrite      = "alert:write"
	PermissionComplianceRead  = "compliance:read"
	PermissionComplianceWrite = "compliance:write"
	PermissionAnalyticsRead   = "analytics:read"

	// Account management
	PermissionUserRead       = "user:read"
	PermissionUserWrite      = "user:write"
	PermissionChangePassword = "user:change-password"
)

type AdminClaims struct {
	jwt.RegisteredClaims
	AdminID      uint     `json:"admin_id"`
	Email        string   `json:"email"`
	Role         string   `json:"role"`
	Permissions  []string `json:"permissions"`
	TokenVersion int      `json:"token_version"`
}

// HasPermission checks if the claims include a specific permission
func (c *AdminClaims) HasPermission(permission string) bool {
	for _, p := range c.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// GetDefaultPermissions returns default permissions based on role
func GetDefaultPermissions(role string) []string {
	switch role {
	case RoleSuperAdmin:
		return []string{
			PermissionReadAdmin,
			PermissionWriteAdmin,
			PermissionMerchantRead,
			PermissionMerchantWrite,
			PermissionRiskRead,
			PermissionRiskWrite,
			PermissionKYCReview,
			PermissionSettingsRead,
			PermissionSettingsWrite,
			PermissionTicketRead,
			PermissionTicketWrite,
			PermissionAlertRead,
			PermissionAlertWrite,
			PermissionComplianceRead,
			PermissionComplianceWrite,
			PermissionAnalyticsRead,
			PermissionUserRead,
			PermissionUserWrite,
			PermissionChangePassword,
		}
	case RoleCompliance:
		return []string{
			PermissionReadAdmin,
			PermissionMerchantRead,
			PermissionRiskRead,
			PermissionKYCReview,
			PermissionComplianceRead,
			PermissionComplianceWrite,
			PermissionAlertRead,
			PermissionAnalyticsRead,
			PermissionChangePassword,
		}
	case RoleRiskAnalyst:
		return []string{
			PermissionReadAdmin,
			PermissionMerchantRead,
			PermissionRiskRead,
			PermissionRiskWrite,
			PermissionKYCReview,
			PermissionAlertRead,
			PermissionAlertWrite,
			PermissionAnalyticsRead,
			PermissionChangePassword,
		}
	case RoleSupport:
		return []string{
			PermissionReadAdmin,
			PermissionMerchantRead,
			PermissionTicketRead,
			PermissionTicketWrite,
			PermissionChangePassword,
		}
	case RoleViewer:
		return []string{
			PermissionReadAdmin,
			PermissionAnalyticsRead,
			PermissionChangePassword,
		}
	default:
		return []string{}
	}
}
