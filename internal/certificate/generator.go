package certificate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go-traindesk/internal/shared/apperror"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Generator produces the downloadable completion certificate for an
// employee/SOP pair. Rendering is an external collaborator; this package
// only knows how to ask for a document and hand back its URL.
//
//go:generate mockgen -source=generator.go -destination=mock/generator_mock.go -package=mock
type Generator interface {
	Generate(ctx context.Context, employeeName, sopTitle string) (string, error)
}

// New returns the render-service client when an endpoint is configured,
// otherwise the local placeholder generator.
func New(renderURL string, logger *zap.Logger) Generator {
	if renderURL == "" {
		return placeholderGenerator{}
	}
	return &httpGenerator{
		renderURL: renderURL,
		client:    &http.Client{Timeout: 15 * time.Second},
		logger:    logger.Named("certificate"),
	}
}

// placeholderGenerator issues a deterministic local URL so completion still
// works on deployments without a render service.
type placeholderGenerator struct{}

func (placeholderGenerator) Generate(_ context.Context, employeeName, sopTitle string) (string, error) {
	return fmt.Sprintf("/certificates/%s/%s",
		url.PathEscape(displayName(employeeName)),
		url.PathEscape(sopTitle),
	), nil
}

type httpGenerator struct {
	renderURL string
	client    *http.Client
	logger    *zap.Logger
}

func (g *httpGenerator) Generate(ctx context.Context, employeeName, sopTitle string) (string, error) {
	payload, err := json.Marshal(map[string]string{
		"employee_name": displayName(employeeName),
		"sop_title":     sopTitle,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.renderURL, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := g.client.Do(req)
	if err != nil {
		g.logger.Error("certificate render request failed", zap.Error(err))
		return "", apperror.Wrap(err, apperror.CodeServiceUnavailable,
			"Certificate service is unavailable", http.StatusServiceUnavailable)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		g.logger.Error("certificate render rejected", zap.Int("status", res.StatusCode))
		return "", apperror.New(apperror.CodeServiceUnavailable,
			"Certificate service is unavailable", http.StatusServiceUnavailable)
	}

	var out struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return "", err
	}
	return out.URL, nil
}

func displayName(name string) string {
	return cases.Title(language.English).String(name)
}
