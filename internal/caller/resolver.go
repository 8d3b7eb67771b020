package caller

import (
	"context"

	"go-traindesk/internal/identity"

	"go.uber.org/zap"
)

// EmployeeRecord is the slice of an Employee the resolver needs.
type EmployeeRecord struct {
	ID        string
	SubjectID string
	OwnerID   string
	Role      string
	Email     string
	Name      string
}

// UserRecord is the slice of a User the resolver needs.
type UserRecord struct {
	SubjectID string
	Email     string
	Role      string
}

// EmployeeDirectory looks an employee up across all tenants by its provider
// subject id, falling back to an email-style subject key for records created
// without managed provisioning. A miss returns (nil, nil).
type EmployeeDirectory interface {
	FindBySubject(ctx context.Context, subjectID, email string) (*EmployeeRecord, error)
}

// UserDirectory resolves or lazily creates the local User for a subject.
type UserDirectory interface {
	GetOrCreate(ctx context.Context, subjectID, email string) (*UserRecord, error)
}

// Resolver maps a verified identity to exactly one caller. Employee identity
// takes precedence: a subject that is both an Employee and a User is always
// resolved as the Employee.
type Resolver struct {
	employees EmployeeDirectory
	users     UserDirectory
	logger    *zap.Logger
}

func NewResolver(employees EmployeeDirectory, users UserDirectory, logger *zap.Logger) *Resolver {
	return &Resolver{
		employees: employees,
		users:     users,
		logger:    logger.Named("caller.resolver"),
	}
}

func (r *Resolver) Resolve(ctx context.Context, id identity.Identity) (Caller, error) {
	// The email-keyed fallback matches records provisioned without a managed
	// account. An unverified email claim could impersonate such a record, so
	// only a provider-verified address participates in the lookup.
	matchEmail := ""
	if id.EmailVerified {
		matchEmail = id.Email
	}

	emp, err := r.employees.FindBySubject(ctx, id.SubjectID, matchEmail)
	if err != nil {
		r.logger.Error("employee lookup failed", zap.Error(err))
		return Caller{}, err
	}
	if emp != nil {
		// The record's own subject key is authoritative from here on; it is
		// the identifier assignment and completion sets are built from.
		return Caller{
			Kind:       KindEmployee,
			SubjectID:  emp.SubjectID,
			OwnerID:    emp.OwnerID,
			Role:       emp.Role,
			Email:      emp.Email,
			Name:       emp.Name,
			EmployeeID: emp.ID,
		}, nil
	}

	user, err := r.users.GetOrCreate(ctx, id.SubjectID, id.Email)
	if err != nil {
		r.logger.Error("user resolution failed", zap.Error(err))
		return Caller{}, err
	}

	return Caller{
		Kind:      KindAdmin,
		SubjectID: user.SubjectID,
		OwnerID:   user.SubjectID,
		Role:      user.Role,
		Email:     user.Email,
	}, nil
}
