// Package freteapi encapsula as chamadas à API REST da plataforma de fretes.
package freteapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const defaultBaseURL = "http://localhost:8080/api"

const pathAutenticar = "/autenticacao/autenticar"

var (
	// ErrCredenciais indica e-mail ou senha rejeitados pelo backend.
	ErrCredenciais = errors.New("credenciais inválidas")
	// ErrNaoAutorizado indica sessão rejeitada pelo backend fora do login.
	ErrNaoAutorizado = errors.New("sessão não autorizada")
	// ErrNaoEncontrado indica registro inexistente.
	ErrNaoEncontrado = errors.New("registro não encontrado")
)

// APIError carrega o status e a mensagem devolvidos pelo backend.
type APIError struct {
	Status   int
	Mensagem string
}

func (e *APIError) Error() string {
	if strings.TrimSpace(e.Mensagem) == "" {
		return fmt.Sprintf("freteapi: status %d", e.Status)
	}
	return e.Mensagem
}

// Client é o único ponto de contato com o backend. Toda chamada leva o
// bearer token presente no contexto; um 401 fora do login dispara o hook
// de derrubada de sessão antes de devolver ErrNaoAutorizado.
type Client struct {
	httpClient      *http.Client
	baseURL         string
	onNaoAutorizado func(ctx context.Context)
}

// Config descreve a construção do cliente.
type Config struct {
	BaseURL string
	// OnNaoAutorizado é chamado uma vez por resposta 401 de endpoint
	// autenticado (o login é isento). Pode ser nil.
	OnNaoAutorizado func(ctx context.Context)
	HTTPClient      *http.Client
}

// New cria o cliente com defaults seguros.
func New(cfg Config) *Client {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		base = defaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}

	return &Client{
		httpClient:      httpClient,
		baseURL:         strings.TrimRight(base, "/"),
		onNaoAutorizado: cfg.OnNaoAutorizado,
	}
}

type tokenKey struct{}

// WithToken devolve um contexto carregando o bearer token da sessão.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFromContext recupera o bearer token do contexto, se houver.
func TokenFromContext(ctx context.Context) string {
	val, _ := ctx.Value(tokenKey{}).(string)
	return val
}

func (c *Client) newRequest(ctx context.Context, method, endpoint string, body any) (*http.Request, error) {
	var req *http.Request
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		req, err = http.NewRequestWithContext(ctx, method, endpoint, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
	} else {
		var err error
		req, err = http.NewRequestWithContext(ctx, method, endpoint, nil)
		if err != nil {
			return nil, err
		}
	}

	if token := TokenFromContext(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (c *Client) do(req *http.Request, v any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		if strings.HasSuffix(req.URL.Path, pathAutenticar) {
			return ErrCredenciais
		}
		if c.onNaoAutorizado != nil {
			c.onNaoAutorizado(req.Context())
		}
		return ErrNaoAutorizado
	}

	if resp.StatusCode == http.StatusNotFound {
		return ErrNaoEncontrado
	}

	if resp.StatusCode >= 400 {
		return &APIError{Status: resp.StatusCode, Mensagem: decodeMensagem(resp)}
	}

	if v == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

// decodeMensagem extrai a mensagem de erro do corpo, tolerando os dois
// envelopes usados pelo backend.
func decodeMensagem(resp *http.Response) string {
	var payload struct {
		Message string `json:"message"`
		Error   struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	return payload.Error.Message
}
