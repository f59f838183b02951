package helper

import (
	"github.com/gofiber/fiber/v2"

	"schoolku_backend/internals/access"
	"schoolku_backend/internals/helpers/apperr"
)

// ResolveTenant picks the school a tenant-scoped operation runs against.
// Super admins may target any tenant via ?school_id= (or the explicit value
// passed by the handler); everyone else is pinned to their own school. A
// non-resolvable tenant is Bad Request, distinct from Forbidden.
func ResolveTenant(c *fiber.Ctx, id access.Identity) (uint, error) {
	if id.IsSuperAdmin() {
		if explicit := QueryUint(c, "school_id"); explicit != nil {
			return *explicit, nil
		}
		if id.SchoolID != nil {
			return *id.SchoolID, nil
		}
		return 0, apperr.New(apperr.Validation, "school_id required")
	}
	if id.SchoolID == nil {
		return 0, apperr.New(apperr.Validation, "No school assigned")
	}
	return *id.SchoolID, nil
}

// ResolveTenantForWrite is ResolveTenant with a body-supplied school id:
// honored for super admins, silently overwritten with the caller's own
// tenant for everyone else (client-supplied tenant ids are never trusted).
func ResolveTenantForWrite(id access.Identity, bodySchoolID *uint) (uint, error) {
	if id.IsSuperAdmin() {
		if bodySchoolID != nil {
			return *bodySchoolID, nil
		}
		if id.SchoolID != nil {
			return *id.SchoolID, nil
		}
		return 0, apperr.New(apperr.Validation, "school_id required")
	}
	if id.SchoolID == nil {
		return 0, apperr.New(apperr.Validation, "No school assigned")
	}
	return *id.SchoolID, nil
}
