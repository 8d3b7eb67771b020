package employee

import (
	"errors"

	employeeerrors "go-traindesk/internal/employee/errors"

	"go.mongodb.org/mongo-driver/mongo"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, mongo.ErrNoDocuments) {
		return employeeerrors.ErrEmployeeNotFound
	}

	if mongo.IsDuplicateKeyError(err) {
		return employeeerrors.ErrEmployeeAlreadyExists
	}

	return err
}
