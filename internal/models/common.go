package models

// UserRole represents the available roles for the RBAC system.
type UserRole string

const (
	RoleAdmin           UserRole = "ADMIN"
	RoleTeacher         UserRole = "TEACHER"
	RoleStudent         UserRole = "STUDENT"
	RoleDeliveryManager UserRole = "DELIVERY_MANAGER"
)

// Sex is the biological sex recorded for person entities.
type Sex string

const (
	SexMale   Sex = "MALE"
	SexFemale Sex = "FEMALE"
)

// DefaultPageSize is the fixed page size used by all list endpoints.
const DefaultPageSize = 10

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
