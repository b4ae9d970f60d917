package rbac

type Role string
type Action string

const (
	RoleViewer Role = "viewer"
	RoleClerk  Role = "clerk"
	RoleAdmin  Role = "admin"
)

const (
	// ActionRead covers listing, fetching, tracking and the inbox.
	ActionRead Action = "read"
	// ActionWrite covers create, archive and assign.
	ActionWrite Action = "write"
	ActionAdmin Action = "admin"
)

func Can(role Role, action Action) bool {
	switch role {
	case RoleAdmin:
		return true
	case RoleClerk:
		return action == ActionRead || action == ActionWrite
	case RoleViewer:
		return action == ActionRead
	default:
		return false
	}
}

func Normalize(role string) Role {
	switch Role(role) {
	case RoleViewer, RoleClerk, RoleAdmin:
		return Role(role)
	default:
		return RoleViewer
	}
}
