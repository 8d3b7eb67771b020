package user

import (
	"context"

	"go-traindesk/internal/caller"
)

// directory adapts the repository to the resolver's UserDirectory.
type directory struct {
	repo Repository
}

func NewDirectory(repo Repository) caller.UserDirectory {
	return &directory{repo: repo}
}

func (d *directory) GetOrCreate(ctx context.Context, subjectID, email string) (*caller.UserRecord, error) {
	u, err := d.repo.GetOrCreate(ctx, subjectID, email)
	if err != nil {
		return nil, err
	}
	return &caller.UserRecord{
		SubjectID: u.SubjectID,
		Email:     u.Email,
		Role:      u.Role,
	}, nil
}
