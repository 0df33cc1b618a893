package motorista

import (
	"sort"
	"strings"
)

// Role é o perfil de acesso do usuário, espelhado do backend.
type Role string

const (
	RoleUsuario   Role = "USUARIO"
	RoleMotorista Role = "MOTORISTA"
	RoleAdmin     Role = "ADMIN"
)

// Roles lista os perfis aceitos pelo backend.
var Roles = []Role{RoleUsuario, RoleMotorista, RoleAdmin}

// Valida informa se o perfil é conhecido.
func (r Role) Valida() bool {
	switch r {
	case RoleUsuario, RoleMotorista, RoleAdmin:
		return true
	}
	return false
}

// Status é a situação cadastral do motorista.
type Status string

const (
	StatusAtivo     Status = "ATIVO"
	StatusInativo   Status = "INATIVO"
	StatusBloqueado Status = "BLOQUEADO"
)

// Statuses lista as situações aceitas pelo backend.
var Statuses = []Status{StatusAtivo, StatusInativo, StatusBloqueado}

// Valida informa se o status é conhecido.
func (s Status) Valida() bool {
	switch s {
	case StatusAtivo, StatusInativo, StatusBloqueado:
		return true
	}
	return false
}

// TipoVeiculo identifica uma categoria de veículo de carga.
type TipoVeiculo string

const (
	TipoVan        TipoVeiculo = "VAN"
	TipoToco       TipoVeiculo = "TOCO"
	TipoBau        TipoVeiculo = "BAU"
	TipoSider      TipoVeiculo = "SIDER"
	TipoTruck      TipoVeiculo = "TRUCK"
	TipoBitruck    TipoVeiculo = "BITRUCK"
	TipoCarreta    TipoVeiculo = "CARRETA"
	TipoCaminhao34 TipoVeiculo = "CAMINHAO_3_4"
)

// TipoVeiculoLabels mapeia cada tipo para o rótulo exibido no portal.
var TipoVeiculoLabels = map[TipoVeiculo]string{
	TipoVan:        "Van",
	TipoToco:       "Toco",
	TipoBau:        "Baú",
	TipoSider:      "Sider",
	TipoTruck:      "Truck",
	TipoBitruck:    "Bitruck",
	TipoCarreta:    "Carreta",
	TipoCaminhao34: "Caminhão 3/4",
}

// UFs contém as unidades federativas aceitas nos formulários.
var UFs = []string{
	"AC", "AL", "AP", "AM", "BA", "CE", "DF", "ES", "GO", "MA", "MT", "MS", "MG",
	"PA", "PB", "PR", "PE", "PI", "RJ", "RN", "RS", "RO", "RR", "SC", "SP", "SE", "TO",
}

// Motorista é o registro gerenciado pelo portal, tal como devolvido pela API.
type Motorista struct {
	ID           string        `json:"id"`
	Nome         string        `json:"nome"`
	Email        string        `json:"email"`
	Telefone     string        `json:"telefone"`
	Cidade       string        `json:"cidade"`
	UF           string        `json:"uf"`
	Perfil       Role          `json:"perfil"`
	Status       Status        `json:"status"`
	TiposVeiculo []TipoVeiculo `json:"tiposVeiculo"`
	CreatedAt    string        `json:"createdAt,omitempty"`
	UpdatedAt    string        `json:"updatedAt,omitempty"`
}

// CreateInput é o payload de cadastro; senha é obrigatória.
type CreateInput struct {
	Nome         string        `json:"nome"`
	Email        string        `json:"email"`
	Senha        string        `json:"senha"`
	Telefone     string        `json:"telefone"`
	Cidade       string        `json:"cidade"`
	UF           string        `json:"uf"`
	Role         Role          `json:"role"`
	Status       Status        `json:"status"`
	TiposVeiculo []TipoVeiculo `json:"tiposVeiculo"`
}

// UpdateInput é o payload de edição; senha em branco e conjunto vazio de
// tipos de veículo são omitidos da serialização.
type UpdateInput struct {
	Nome         string        `json:"nome"`
	Email        string        `json:"email"`
	Senha        string        `json:"senha,omitempty"`
	Telefone     string        `json:"telefone"`
	Cidade       string        `json:"cidade"`
	UF           string        `json:"uf"`
	Role         Role          `json:"role"`
	Status       Status        `json:"status"`
	TiposVeiculo []TipoVeiculo `json:"tiposVeiculo,omitempty"`
}

// Filtros são os critérios de busca; campos vazios não são enviados.
type Filtros struct {
	Texto        string        `json:"texto,omitempty"`
	UF           string        `json:"uf,omitempty"`
	Cidade       string        `json:"cidade,omitempty"`
	TiposVeiculo []TipoVeiculo `json:"tiposVeiculo,omitempty"`
}

// Normalizada devolve uma cópia com espaços aparados e tipos de veículo
// deduplicados em ordem estável, garantindo igualdade determinística de chave.
func (f Filtros) Normalizada() Filtros {
	out := Filtros{
		Texto:  strings.TrimSpace(f.Texto),
		UF:     strings.ToUpper(strings.TrimSpace(f.UF)),
		Cidade: strings.TrimSpace(f.Cidade),
	}
	out.TiposVeiculo = NormalizaTipos(f.TiposVeiculo)
	return out
}

// Vazios informa se nenhum critério foi preenchido.
func (f Filtros) Vazios() bool {
	return f.Texto == "" && f.UF == "" && f.Cidade == "" && len(f.TiposVeiculo) == 0
}

// NormalizaTipos remove duplicatas e ordena o conjunto de tipos de veículo.
func NormalizaTipos(tipos []TipoVeiculo) []TipoVeiculo {
	if len(tipos) == 0 {
		return nil
	}
	vistos := make(map[TipoVeiculo]struct{}, len(tipos))
	out := make([]TipoVeiculo, 0, len(tipos))
	for _, t := range tipos {
		if _, ok := vistos[t]; ok {
			continue
		}
		vistos[t] = struct{}{}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Pagina é a resposta paginada da API no formato Spring Data.
type Pagina struct {
	Content       []Motorista `json:"content"`
	TotalElements int64       `json:"totalElements"`
	TotalPages    int         `json:"totalPages"`
	Size          int         `json:"size"`
	Number        int         `json:"number"`
	First         bool        `json:"first"`
	Last          bool        `json:"last"`
}

// VehicleType é uma entrada do catálogo de tipos de veículo da API.
type VehicleType struct {
	Value string `json:"value"`
	Label string `json:"label"`
}
