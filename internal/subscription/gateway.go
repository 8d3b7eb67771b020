package subscription

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"

	"github.com/google/uuid"
)

// PaymentGateway is the external billing collaborator. Order settlement
// happens entirely on the provider's side; this interface only issues order
// references and authenticates callback results.
//go:generate mockgen -source=gateway.go -destination=mock/gateway_mock.go -package=mock
type PaymentGateway interface {
	Available() bool
	CreateOrder(ctx context.Context, userID, planID string) (orderRef string, err error)
	VerifySignature(orderRef, paymentID, signature string) bool
}

// NewGateway returns the HMAC-backed gateway when credentials are configured
// and a disabled stub otherwise.
func NewGateway(clientID, clientSecret string) PaymentGateway {
	if clientID == "" || clientSecret == "" {
		return disabledGateway{}
	}
	return &hmacGateway{clientID: clientID, secret: []byte(clientSecret)}
}

type disabledGateway struct{}

func (disabledGateway) Available() bool { return false }

func (disabledGateway) CreateOrder(context.Context, string, string) (string, error) {
	return "", nil
}

func (disabledGateway) VerifySignature(string, string, string) bool { return false }

// hmacGateway mints opaque order references and checks callback signatures
// computed as hex(HMAC-SHA256(orderRef + "|" + paymentID, secret)), the
// scheme the provider documents for server-side verification.
type hmacGateway struct {
	clientID string
	secret   []byte
}

func (g *hmacGateway) Available() bool { return true }

func (g *hmacGateway) CreateOrder(_ context.Context, userID, planID string) (string, error) {
	return "order_" + uuid.NewString(), nil
}

func (g *hmacGateway) VerifySignature(orderRef, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, g.secret)
	mac.Write([]byte(orderRef + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
