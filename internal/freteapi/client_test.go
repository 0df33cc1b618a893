package freteapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fretemax/portal-motorista/internal/motorista"
)

func TestAutenticarEnviaCredenciaisEDevolveToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/autenticacao/autenticar" {
			t.Errorf("path = %q", r.URL.Path)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decodificando body: %v", err)
		}
		if body["email"] != "ana@fretemax.com.br" || body["senha"] != "segredo" {
			t.Errorf("body = %v", body)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"token": "jwt-abc"})
	}))
	defer srv.Close()

	client := New(Config{BaseURL: srv.URL})
	token, err := client.Autenticar(context.Background(), "ana@fretemax.com.br", "segredo")
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}
	if token != "jwt-abc" {
		t.Errorf("token = %q", token)
	}
}

func TestAutenticarCredenciaisInvalidasNaoDerrubaSessao(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	derrubadas := 0
	client := New(Config{BaseURL: srv.URL, OnNaoAutorizado: func(ctx context.Context) { derrubadas++ }})

	_, err := client.Autenticar(context.Background(), "ana@fretemax.com.br", "errada")
	if !errors.Is(err, ErrCredenciais) {
		t.Fatalf("erro = %v, esperado ErrCredenciais", err)
	}
	if derrubadas != 0 {
		t.Error("401 no login não pode acionar derrubada de sessão")
	}
}

func TestNaoAutorizadoForaDoLoginAcionaDerrubadaUmaVez(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	derrubadas := 0
	client := New(Config{BaseURL: srv.URL, OnNaoAutorizado: func(ctx context.Context) { derrubadas++ }})

	_, err := client.SearchMotoristas(context.Background(), motorista.Filtros{}, 0, 10, "nome,asc")
	if !errors.Is(err, ErrNaoAutorizado) {
		t.Fatalf("erro = %v, esperado ErrNaoAutorizado", err)
	}
	if derrubadas != 1 {
		t.Errorf("derrubadas = %d, esperado exatamente 1 por falha", derrubadas)
	}
}

func TestBearerTokenDoContexto(t *testing.T) {
	var recebido string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recebido = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(motorista.Pagina{})
	}))
	defer srv.Close()

	client := New(Config{BaseURL: srv.URL})

	ctx := WithToken(context.Background(), "jwt-abc")
	if _, err := client.SearchMotoristas(ctx, motorista.Filtros{}, 0, 10, "nome,asc"); err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}
	if recebido != "Bearer jwt-abc" {
		t.Errorf("Authorization = %q", recebido)
	}

	if _, err := client.SearchMotoristas(context.Background(), motorista.Filtros{}, 0, 10, "nome,asc"); err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}
	if recebido != "" {
		t.Errorf("sem token no contexto a requisição deve sair sem Authorization, veio %q", recebido)
	}
}

func TestSearchMotoristasQueryEFiltros(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("page") != "2" || q.Get("size") != "10" || q.Get("sort") != "nome,desc" {
			t.Errorf("query = %v", q)
		}

		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decodificando body: %v", err)
		}
		if _, ok := body["texto"]; ok {
			t.Error("campo vazio não deve ser enviado")
		}
		if body["uf"] != "SP" {
			t.Errorf("uf = %v", body["uf"])
		}
		tipos, _ := body["tiposVeiculo"].([]any)
		if len(tipos) != 2 || tipos[0] != "BAU" || tipos[1] != "VAN" {
			t.Errorf("tiposVeiculo = %v, esperado conjunto normalizado", body["tiposVeiculo"])
		}

		_ = json.NewEncoder(w).Encode(motorista.Pagina{TotalPages: 1})
	}))
	defer srv.Close()

	client := New(Config{BaseURL: srv.URL})
	filtros := motorista.Filtros{
		UF:           " sp ",
		TiposVeiculo: []motorista.TipoVeiculo{motorista.TipoVan, motorista.TipoBau, motorista.TipoVan},
	}
	if _, err := client.SearchMotoristas(context.Background(), filtros, 2, 10, "nome,desc"); err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}
}

func TestCreateMotoristaRoundTripTiposVeiculo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var in motorista.CreateInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			t.Fatalf("decodificando body: %v", err)
		}
		if in.Senha == "" {
			t.Error("cadastro exige senha no payload")
		}
		_ = json.NewEncoder(w).Encode(motorista.Motorista{
			ID:           "1",
			Nome:         in.Nome,
			TiposVeiculo: in.TiposVeiculo,
		})
	}))
	defer srv.Close()

	client := New(Config{BaseURL: srv.URL})
	criado, err := client.CreateMotorista(context.Background(), motorista.CreateInput{
		Nome:         "Ana",
		Senha:        "123456",
		TiposVeiculo: []motorista.TipoVeiculo{motorista.TipoVan, motorista.TipoBau},
	})
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}

	esperados := map[motorista.TipoVeiculo]bool{motorista.TipoVan: true, motorista.TipoBau: true}
	if len(criado.TiposVeiculo) != len(esperados) {
		t.Fatalf("tiposVeiculo = %v", criado.TiposVeiculo)
	}
	for _, tipo := range criado.TiposVeiculo {
		if !esperados[tipo] {
			t.Errorf("tipo inesperado %q", tipo)
		}
	}
}

func TestUpdateMotoristaOmiteSenhaETiposVazios(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("method = %q", r.Method)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decodificando body: %v", err)
		}
		if _, ok := body["senha"]; ok {
			t.Error("senha em branco deve ser omitida do payload")
		}
		if _, ok := body["tiposVeiculo"]; ok {
			t.Error("conjunto vazio de tipos deve ser omitido do payload")
		}
		_ = json.NewEncoder(w).Encode(motorista.Motorista{ID: "1"})
	}))
	defer srv.Close()

	client := New(Config{BaseURL: srv.URL})
	_, err := client.UpdateMotorista(context.Background(), "1", motorista.UpdateInput{
		Nome:  "Ana",
		Email: "ana@fretemax.com.br",
	})
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}
}

func TestErroDoBackendPreservaMensagem(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Email ana@fretemax.com.br já cadastrado"})
	}))
	defer srv.Close()

	client := New(Config{BaseURL: srv.URL})
	_, err := client.CreateMotorista(context.Background(), motorista.CreateInput{})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("erro = %v, esperado APIError", err)
	}
	if apiErr.Status != http.StatusConflict {
		t.Errorf("status = %d", apiErr.Status)
	}
	if apiErr.Mensagem != "Email ana@fretemax.com.br já cadastrado" {
		t.Errorf("mensagem = %q", apiErr.Mensagem)
	}
}

func TestGetMotoristaNaoEncontrado(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	client := New(Config{BaseURL: srv.URL})
	if _, err := client.GetMotorista(context.Background(), "x"); !errors.Is(err, ErrNaoEncontrado) {
		t.Fatalf("erro = %v, esperado ErrNaoEncontrado", err)
	}
}

func TestDeleteMotorista(t *testing.T) {
	var metodo, path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		metodo, path = r.Method, r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := New(Config{BaseURL: srv.URL})
	if err := client.DeleteMotorista(context.Background(), "abc"); err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}
	if metodo != http.MethodDelete || path != "/usuarios/abc" {
		t.Errorf("requisição = %s %s", metodo, path)
	}
}
