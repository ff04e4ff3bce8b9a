package user

// Permission represents a single capability checked by route middleware
type Permission string

const (
	PermPropertyCreate Permission = "property:create"
	PermPropertyUpdate Permission = "property:update"
	PermPropertyDelete Permission = "property:delete"

	PermBookingCreate  Permission = "booking:create"
	PermBookingViewOwn Permission = "booking:view-own"
	PermBookingView    Permission = "booking:view"
	PermBookingApprove Permission = "booking:approve"
	PermBookingCancel  Permission = "booking:cancel"

	PermTestimonialApprove Permission = "testimonials:approve"
	PermTestimonialDelete  Permission = "testimonials:delete"

	PermMessageView   Permission = "messages:view"
	PermMessageDelete Permission = "messages:delete"

	PermUserManage Permission = "user:manage"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermPropertyCreate, PermPropertyUpdate, PermPropertyDelete,
		PermBookingCreate, PermBookingViewOwn, PermBookingView, PermBookingApprove, PermBookingCancel,
		PermTestimonialApprove, PermTestimonialDelete,
		PermMessageView, PermMessageDelete,
		PermUserManage,
	},
	RoleManager: {
		PermPropertyCreate, PermPropertyUpdate,
		PermBookingCreate, PermBookingView, PermBookingApprove, PermBookingCancel,
		PermMessageView,
	},
	RoleGuest: {
		PermBookingCreate, PermBookingViewOwn,
	},
}

// HasPermission checks if a role carries a specific permission
func HasPermission(role Role, perm Permission) bool {
	for _, p := range RolePermissions[role] {
		if p == perm {
			return true
		}
	}
	return false
}
