package models

// Role gates which mutation endpoints a principal may invoke.
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

// AppStatus is the moderation state of an Application.
type AppStatus string

const (
	StatusPending  AppStatus = "pending"
	StatusApproved AppStatus = "approved"
	StatusRejected AppStatus = "rejected"
)

func (s AppStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}
