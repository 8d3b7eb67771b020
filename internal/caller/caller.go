package caller

// Kind discriminates the two identity namespaces a verified subject can
// resolve into.
type Kind string

const (
	// KindAdmin is a directly authenticated user (tenant owner or staff).
	KindAdmin Kind = "user"
	// KindEmployee is a subject matching an Employee record; it is bound to
	// that record's owner, never to a tenant of its own.
	KindEmployee Kind = "employee"
)

// Caller is the closed variant produced by Resolve. OwnerID is the tenant the
// caller operates in: for admins their own subject id, for employees the id
// of the admin that owns their record.
type Caller struct {
	Kind       Kind
	SubjectID  string
	OwnerID    string
	Role       string
	Email      string
	Name       string
	EmployeeID string // set only for KindEmployee
}

func (c Caller) IsEmployee() bool {
	return c.Kind == KindEmployee
}

func (c Caller) IsAdmin() bool {
	return c.Kind == KindAdmin && c.Role == RoleAdmin
}

// Roles carried by User records. Employees carry their own role field on the
// Employee record and always enforce as "employee" at the route layer.
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)
