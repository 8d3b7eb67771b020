package employee

import (
	"context"

	"go-traindesk/internal/caller"
)

// directory adapts the repository to the resolver's EmployeeDirectory.
type directory struct {
	repo Repository
}

func NewDirectory(repo Repository) caller.EmployeeDirectory {
	return &directory{repo: repo}
}

func (d *directory) FindBySubject(ctx context.Context, subjectID, email string) (*caller.EmployeeRecord, error) {
	empl, err := d.repo.FindBySubject(ctx, subjectID, email)
	if err != nil || empl == nil {
		return nil, err
	}
	return &caller.EmployeeRecord{
		ID:        empl.ID,
		SubjectID: empl.SubjectID,
		OwnerID:   empl.OwnerID,
		Role:      empl.Role,
		Email:     empl.Email,
		Name:      empl.Name,
	}, nil
}
