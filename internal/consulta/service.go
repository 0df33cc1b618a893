// Package consulta intermedia toda leitura e escrita de motoristas e do
// catálogo de tipos de veículo, aplicando cache e invalidação.
package consulta

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fretemax/portal-motorista/internal/cache"
	"github.com/fretemax/portal-motorista/internal/freteapi"
	"github.com/fretemax/portal-motorista/internal/motorista"
)

const (
	ttlMotoristas   = 5 * time.Minute
	ttlVehicleTypes = time.Hour

	prefixoLista      = "motoristas:"
	prefixoMotorista  = "motorista:"
	chaveVehicleTypes = "vehicle-types"
)

// API é o subconjunto do cliente da plataforma usado pelas consultas.
type API interface {
	SearchMotoristas(ctx context.Context, filtros motorista.Filtros, page, size int, sort string) (motorista.Pagina, error)
	GetMotorista(ctx context.Context, id string) (motorista.Motorista, error)
	CreateMotorista(ctx context.Context, in motorista.CreateInput) (motorista.Motorista, error)
	UpdateMotorista(ctx context.Context, id string, in motorista.UpdateInput) (motorista.Motorista, error)
	DeleteMotorista(ctx context.Context, id string) error
	VehicleTypes(ctx context.Context) ([]motorista.VehicleType, error)
}

// Service materializa o contrato de leitura com cache e o de escrita com
// invalidação: mutações bem-sucedidas invalidam a listagem inteira e, na
// edição, também a entrada individual do registro alterado.
type Service struct {
	api   API
	cache *cache.Store
}

// New cria o serviço de consultas sobre o cliente da API e um cache.
func New(api API, store *cache.Store) *Service {
	return &Service{api: api, cache: store}
}

// ChaveLista monta a chave normalizada da listagem: filtros em ordem
// fixa mais página, tamanho e ordenação.
func ChaveLista(filtros motorista.Filtros, page, size int, sort string) string {
	f := filtros.Normalizada()
	tipos := make([]string, 0, len(f.TiposVeiculo))
	for _, t := range f.TiposVeiculo {
		tipos = append(tipos, string(t))
	}
	return fmt.Sprintf("%stexto=%s|uf=%s|cidade=%s|tipos=%s|page=%d|size=%d|sort=%s",
		prefixoLista, f.Texto, f.UF, f.Cidade, strings.Join(tipos, ","), page, size, sort)
}

func chaveMotorista(id string) string {
	return prefixoMotorista + id
}

// semRetentativa marca falhas definitivas da API: sessão rejeitada e
// registro inexistente não mudam com uma segunda chamada.
func semRetentativa(err error) error {
	if errors.Is(err, freteapi.ErrNaoAutorizado) || errors.Is(err, freteapi.ErrNaoEncontrado) {
		return cache.NaoRetenta(err)
	}
	return err
}

// Motoristas devolve uma página da listagem, servida do cache enquanto
// fresca.
func (s *Service) Motoristas(ctx context.Context, filtros motorista.Filtros, page, size int, sort string) (motorista.Pagina, error) {
	valor, err := s.cache.Get(ctx, ChaveLista(filtros, page, size, sort), ttlMotoristas, func(ctx context.Context) (any, error) {
		pagina, err := s.api.SearchMotoristas(ctx, filtros, page, size, sort)
		if err != nil {
			return nil, semRetentativa(err)
		}
		return pagina, nil
	})
	if err != nil {
		return motorista.Pagina{}, err
	}
	return valor.(motorista.Pagina), nil
}

// Motorista devolve um registro pelo id, servido do cache enquanto fresco.
func (s *Service) Motorista(ctx context.Context, id string) (motorista.Motorista, error) {
	valor, err := s.cache.Get(ctx, chaveMotorista(id), ttlMotoristas, func(ctx context.Context) (any, error) {
		m, err := s.api.GetMotorista(ctx, id)
		if err != nil {
			return nil, semRetentativa(err)
		}
		return m, nil
	})
	if err != nil {
		return motorista.Motorista{}, err
	}
	return valor.(motorista.Motorista), nil
}

// VehicleTypes devolve o catálogo, cacheado por uma hora já que muda
// raramente.
func (s *Service) VehicleTypes(ctx context.Context) ([]motorista.VehicleType, error) {
	valor, err := s.cache.Get(ctx, chaveVehicleTypes, ttlVehicleTypes, func(ctx context.Context) (any, error) {
		tipos, err := s.api.VehicleTypes(ctx)
		if err != nil {
			return nil, semRetentativa(err)
		}
		return tipos, nil
	})
	if err != nil {
		return nil, err
	}
	return valor.([]motorista.VehicleType), nil
}

// CriaMotorista cadastra via API e invalida a listagem em caso de
// sucesso; falhas não tocam o cache.
func (s *Service) CriaMotorista(ctx context.Context, in motorista.CreateInput) (motorista.Motorista, error) {
	criado, err := s.api.CreateMotorista(ctx, in)
	if err != nil {
		return motorista.Motorista{}, err
	}
	s.cache.Invalida(prefixoLista)
	return criado, nil
}

// AtualizaMotorista edita via API e invalida a listagem e a entrada
// individual do registro em caso de sucesso.
func (s *Service) AtualizaMotorista(ctx context.Context, id string, in motorista.UpdateInput) (motorista.Motorista, error) {
	atualizado, err := s.api.UpdateMotorista(ctx, id, in)
	if err != nil {
		return motorista.Motorista{}, err
	}
	s.cache.Invalida(prefixoLista)
	s.cache.Remove(chaveMotorista(id))
	return atualizado, nil
}

// RemoveMotorista exclui via API e invalida a listagem e a entrada
// individual em caso de sucesso.
func (s *Service) RemoveMotorista(ctx context.Context, id string) error {
	if err := s.api.DeleteMotorista(ctx, id); err != nil {
		return err
	}
	s.cache.Invalida(prefixoLista)
	s.cache.Remove(chaveMotorista(id))
	return nil
}

// Limpa descarta todo o cache de consultas; chamada na derrubada de
// sessão.
func (s *Service) Limpa() {
	s.cache.Limpa()
}
