// Package functions cliente HTTP de las funciones serverless que generan el PDF de las órdenes
// y las envían por email o WhatsApp.
package functions

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/jhoicas/Compras-api/internal/application/documents"
	"github.com/jhoicas/Compras-api/internal/domain"
	"github.com/jhoicas/Compras-api/pkg/config"
	"github.com/jhoicas/Compras-api/pkg/logger"
)

const (
	pathGeneratePDF = "/generate-pdf"
	pathSend        = "/send-document"
	apiKeyHeader    = "X-Api-Key"
	maxBodyBytes    = 20 << 20
)

var _ documents.FunctionsClient = (*Client)(nil)

// remoteError respuesta 4xx de las funciones: error del llamador, no abre el circuito.
type remoteError struct {
	status int
	body   string
}

func (e *remoteError) Error() string {
	return fmt.Sprintf("funciones respondieron %d: %s", e.status, e.body)
}

// Unwrap 400 y 422 son datos del envío (destinatario, canal); el resto de 4xx
// indica un problema de integración (clave, ruta).
func (e *remoteError) Unwrap() error {
	if e.status == http.StatusBadRequest || e.status == http.StatusUnprocessableEntity {
		return domain.ErrInvalidInput
	}
	return domain.ErrUpstreamRejected
}

// Client llamadas limitadas por tasa y protegidas por un circuit breaker.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[[]byte]
	log     *logger.Logger
}

// NewClient construye el cliente. Tras 5 fallos consecutivos el circuito se abre 30 s.
func NewClient(cfg config.FunctionsConfig, log *logger.Logger) *Client {
	log = log.Child("component", "functions")
	burst := int(cfg.RatePerSecond)
	if burst < 1 {
		burst = 1
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSecond), burst),
		breaker: gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
			Name:        "functions",
			MaxRequests: 1,
			Interval:    time.Minute,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(c gobreaker.Counts) bool {
				return c.ConsecutiveFailures >= 5
			},
			IsSuccessful: func(err error) bool {
				var re *remoteError
				return err == nil || errors.As(err, &re)
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
					Msg("cambio de estado del circuit breaker")
			},
		}),
		log: log,
	}
}

// GeneratePDF devuelve el PDF renderizado por la función.
func (c *Client) GeneratePDF(ctx context.Context, doc documents.Document) ([]byte, error) {
	return c.post(ctx, pathGeneratePDF, doc)
}

type sendResponse struct {
	MessageID string `json:"message_id"`
}

// Send entrega el documento por el canal pedido y devuelve el ID del mensaje.
func (c *Client) Send(ctx context.Context, d documents.Delivery) (string, error) {
	body, err := c.post(ctx, pathSend, d)
	if err != nil {
		return "", err
	}
	var out sendResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("decode send response: %w", err)
	}
	return out.MessageID, nil
}

// State estado actual del circuito.
func (c *Client) State() gobreaker.State {
	return c.breaker.State()
}

func (c *Client) post(ctx context.Context, path string, payload any) ([]byte, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("%w: FUNCTIONS_BASE_URL no configurado", domain.ErrUnavailable)
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", path, err)
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: límite de llamadas: %v", domain.ErrUnavailable, err)
	}

	body, err := c.breaker.Execute(func() ([]byte, error) {
		return c.do(ctx, path, raw)
	})
	if err != nil {
		var re *remoteError
		switch {
		case errors.As(err, &re):
			c.log.Warn().Int("status", re.status).Str("path", path).Msg("funciones rechazaron la solicitud")
			return nil, fmt.Errorf("%s: %w", path, re)
		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			return nil, fmt.Errorf("%w: funciones en pausa (%v)", domain.ErrUnavailable, err)
		default:
			c.log.Error().Err(err).Str("path", path).Msg("llamada a funciones falló")
			return nil, fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
		}
	}
	return body, nil
}

func (c *Client) do(ctx context.Context, path string, raw []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set(apiKeyHeader, c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	switch {
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("server error %d", resp.StatusCode)
	case resp.StatusCode >= 400:
		return nil, &remoteError{status: resp.StatusCode, body: truncate(string(body), 200)}
	}
	return body, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
