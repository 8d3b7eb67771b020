package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	identityerrors "go-traindesk/internal/identity/errors"

	"go.uber.org/zap"
)

const identitytoolkitBaseURL = "https://identitytoolkit.googleapis.com/v1"

// ManagedUser is a user record held by the identity provider itself.
type ManagedUser struct {
	LocalID string
	Email   string
}

// Admin covers the elevated identity-provider operations used by the
// employee provisioning flow. Availability depends on deployment
// configuration; callers must tolerate ErrAdminUnavailable.
//
//go:generate mockgen -source=admin.go -destination=mock/admin_mock.go -package=mock
type Admin interface {
	Available() bool
	CreateUser(ctx context.Context, email, password string) (ManagedUser, error)
	LookupUser(ctx context.Context, email string) (ManagedUser, error)
	DeleteUser(ctx context.Context, localID string) error
}

// NewAdmin returns the REST-backed admin client when an API key is
// configured, otherwise the disabled implementation.
func NewAdmin(apiKey string, logger *zap.Logger) Admin {
	if apiKey == "" {
		return disabledAdmin{}
	}
	return &restAdmin{
		apiKey: apiKey,
		base:   identitytoolkitBaseURL,
		client: &http.Client{Timeout: 10 * time.Second},
		logger: logger.Named("identity.admin"),
	}
}

type disabledAdmin struct{}

func (disabledAdmin) Available() bool { return false }
func (disabledAdmin) CreateUser(context.Context, string, string) (ManagedUser, error) {
	return ManagedUser{}, identityerrors.ErrAdminUnavailable
}
func (disabledAdmin) LookupUser(context.Context, string) (ManagedUser, error) {
	return ManagedUser{}, identityerrors.ErrAdminUnavailable
}
func (disabledAdmin) DeleteUser(context.Context, string) error {
	return identityerrors.ErrAdminUnavailable
}

type restAdmin struct {
	apiKey string
	base   string
	client *http.Client
	logger *zap.Logger
}

func (a *restAdmin) Available() bool { return true }

func (a *restAdmin) CreateUser(ctx context.Context, email, password string) (ManagedUser, error) {
	var out struct {
		LocalID string `json:"localId"`
		Email   string `json:"email"`
	}
	err := a.post(ctx, "accounts:signUp", map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": false,
	}, &out)
	if err != nil {
		return ManagedUser{}, err
	}
	return ManagedUser{LocalID: out.LocalID, Email: out.Email}, nil
}

func (a *restAdmin) LookupUser(ctx context.Context, email string) (ManagedUser, error) {
	var out struct {
		Users []struct {
			LocalID string `json:"localId"`
			Email   string `json:"email"`
		} `json:"users"`
	}
	err := a.post(ctx, "accounts:lookup", map[string]any{
		"email": []string{email},
	}, &out)
	if err != nil {
		return ManagedUser{}, err
	}
	if len(out.Users) == 0 {
		return ManagedUser{}, fmt.Errorf("no managed user for %s", email)
	}
	return ManagedUser{LocalID: out.Users[0].LocalID, Email: out.Users[0].Email}, nil
}

func (a *restAdmin) DeleteUser(ctx context.Context, localID string) error {
	return a.post(ctx, "accounts:delete", map[string]any{
		"localId": localID,
	}, nil)
}

func (a *restAdmin) post(ctx context.Context, action string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/%s?key=%s", a.base, action, a.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := a.client.Do(req)
	if err != nil {
		a.logger.Error("identity admin call failed", zap.String("action", action), zap.Error(err))
		return err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		a.logger.Warn("identity admin call rejected",
			zap.String("action", action),
			zap.Int("status", res.StatusCode),
		)
		return fmt.Errorf("identity admin %s returned %d", action, res.StatusCode)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}
