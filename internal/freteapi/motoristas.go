package freteapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/fretemax/portal-motorista/internal/motorista"
)

// Autenticar troca e-mail e senha por um bearer token. Credenciais
// rejeitadas devolvem ErrCredenciais sem derrubar sessão alguma.
func (c *Client) Autenticar(ctx context.Context, email, senha string) (string, error) {
	body := map[string]string{"email": email, "senha": senha}

	req, err := c.newRequest(ctx, http.MethodPost, c.baseURL+pathAutenticar, body)
	if err != nil {
		return "", err
	}

	var resp struct {
		Token string `json:"token"`
	}
	if err := c.do(req, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}

// SearchMotoristas consulta a listagem paginada. A página é zero-based e
// o sort segue o formato campo,direcao repassado sem alteração.
func (c *Client) SearchMotoristas(ctx context.Context, filtros motorista.Filtros, page, size int, sort string) (motorista.Pagina, error) {
	q := url.Values{}
	q.Set("page", fmt.Sprintf("%d", page))
	q.Set("size", fmt.Sprintf("%d", size))
	q.Set("sort", sort)

	endpoint := c.baseURL + "/usuarios/search?" + q.Encode()
	req, err := c.newRequest(ctx, http.MethodPost, endpoint, filtros.Normalizada())
	if err != nil {
		return motorista.Pagina{}, err
	}

	var pagina motorista.Pagina
	if err := c.do(req, &pagina); err != nil {
		return motorista.Pagina{}, err
	}
	return pagina, nil
}

// GetMotorista busca um registro pelo id.
func (c *Client) GetMotorista(ctx context.Context, id string) (motorista.Motorista, error) {
	req, err := c.newRequest(ctx, http.MethodGet, c.baseURL+"/usuarios/"+url.PathEscape(id), nil)
	if err != nil {
		return motorista.Motorista{}, err
	}

	var m motorista.Motorista
	if err := c.do(req, &m); err != nil {
		return motorista.Motorista{}, err
	}
	return m, nil
}

// CreateMotorista cadastra um novo motorista.
func (c *Client) CreateMotorista(ctx context.Context, in motorista.CreateInput) (motorista.Motorista, error) {
	req, err := c.newRequest(ctx, http.MethodPost, c.baseURL+"/usuarios", in)
	if err != nil {
		return motorista.Motorista{}, err
	}

	var m motorista.Motorista
	if err := c.do(req, &m); err != nil {
		return motorista.Motorista{}, err
	}
	return m, nil
}

// UpdateMotorista atualiza um registro existente. Senha em branco e
// conjunto vazio de tipos de veículo são omitidos do payload.
func (c *Client) UpdateMotorista(ctx context.Context, id string, in motorista.UpdateInput) (motorista.Motorista, error) {
	req, err := c.newRequest(ctx, http.MethodPut, c.baseURL+"/usuarios/"+url.PathEscape(id), in)
	if err != nil {
		return motorista.Motorista{}, err
	}

	var m motorista.Motorista
	if err := c.do(req, &m); err != nil {
		return motorista.Motorista{}, err
	}
	return m, nil
}

// DeleteMotorista remove um registro.
func (c *Client) DeleteMotorista(ctx context.Context, id string) error {
	req, err := c.newRequest(ctx, http.MethodDelete, c.baseURL+"/usuarios/"+url.PathEscape(id), nil)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// VehicleTypes devolve o catálogo de tipos de veículo.
func (c *Client) VehicleTypes(ctx context.Context) ([]motorista.VehicleType, error) {
	req, err := c.newRequest(ctx, http.MethodGet, c.baseURL+"/vehicle-types", nil)
	if err != nil {
		return nil, err
	}

	var tipos []motorista.VehicleType
	if err := c.do(req, &tipos); err != nil {
		return nil, err
	}
	return tipos, nil
}
