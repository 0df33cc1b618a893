// Package cache guarda resultados de leitura com janela de frescor,
// deduplicação de buscas concorrentes e revalidação em segundo plano.
package cache

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// BuscaFunc materializa o valor de uma chave a partir da rede.
type BuscaFunc func(ctx context.Context) (any, error)

// Store é o cache keyed por tupla semântica. Enquanto a entrada está
// fresca ela é servida sem rede; obsoleta, é servida imediatamente e
// revalidada em segundo plano (stale-while-revalidate).
//
// Cada chave carrega uma versão, incrementada a cada invalidação. Uma
// busca em voo captura a versão ao começar e só grava o resultado se
// ela não mudou: uma escrita concluída durante a busca descarta o
// resultado em vez de recacheá-lo como fresco, e leituras iniciadas
// depois da invalidação começam uma busca nova em vez de aderir à
// antiga.
type Store struct {
	mu      sync.RWMutex
	itens   map[string]*item
	versoes map[string]uint64
	group   singleflight.Group
	agora   func() time.Time
}

type item struct {
	valor    any
	expiraEm time.Time
}

// New cria um cache vazio.
func New() *Store {
	return &Store{
		itens:   make(map[string]*item),
		versoes: make(map[string]uint64),
		agora:   time.Now,
	}
}

// NaoRetenta marca um erro de busca como definitivo: Get devolve a
// falha sem a retentativa transparente. O erro original continua
// acessível via errors.Is/As.
func NaoRetenta(err error) error {
	return erroDefinitivo{err}
}

type erroDefinitivo struct{ err error }

func (e erroDefinitivo) Error() string { return e.err.Error() }
func (e erroDefinitivo) Unwrap() error { return e.err }

func retentavel(err error) bool {
	var definitivo erroDefinitivo
	return !errors.As(err, &definitivo)
}

// Get devolve o valor da chave, buscando na rede quando necessário.
// Buscas concorrentes pela mesma chave compartilham uma única chamada,
// e buscas de leitura ganham uma retentativa transparente, exceto as
// que falham com um erro marcado por NaoRetenta.
func (s *Store) Get(ctx context.Context, chave string, ttl time.Duration, busca BuscaFunc) (any, error) {
	s.mu.RLock()
	it, ok := s.itens[chave]
	s.mu.RUnlock()

	if ok {
		if s.agora().Before(it.expiraEm) {
			return it.valor, nil
		}
		s.revalida(ctx, chave, ttl, busca)
		return it.valor, nil
	}

	return s.buscaCompartilhada(ctx, chave, ttl, busca)
}

func (s *Store) buscaCompartilhada(ctx context.Context, chave string, ttl time.Duration, busca BuscaFunc) (any, error) {
	valor, err, _ := s.group.Do(chave, func() (any, error) {
		versao := s.versaoAtual(chave)
		v, err := busca(ctx)
		if err != nil && retentavel(err) {
			v, err = busca(ctx)
		}
		if err != nil {
			return nil, err
		}
		s.grava(chave, v, ttl, versao)
		return v, nil
	})
	if err != nil {
		return nil, err
	}
	return valor, nil
}

// revalida dispara a busca fora do ciclo de vida da requisição que a
// acionou; falhas deixam a entrada obsoleta para a próxima leitura.
func (s *Store) revalida(ctx context.Context, chave string, ttl time.Duration, busca BuscaFunc) {
	ctx = context.WithoutCancel(ctx)
	go func() {
		if _, err := s.buscaCompartilhada(ctx, chave, ttl, busca); err != nil {
			log.Debug().Err(err).Str("chave", chave).Msg("revalidação de cache falhou")
		}
	}()
}

// versaoAtual registra a chave e devolve sua versão vigente; buscas em
// voo a comparam na gravação.
func (s *Store) versaoAtual(chave string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.versoes[chave]; !ok {
		s.versoes[chave] = 0
	}
	return s.versoes[chave]
}

func (s *Store) grava(chave string, valor any, ttl time.Duration, versao uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.versoes[chave] != versao {
		return
	}
	s.itens[chave] = &item{valor: valor, expiraEm: s.agora().Add(ttl)}
}

// descarta remove a entrada, avança a versão da chave e esquece a
// busca em voo. Chamada com s.mu segurado.
func (s *Store) descarta(chave string) {
	delete(s.itens, chave)
	s.versoes[chave]++
	s.group.Forget(chave)
}

// Remove descarta a entrada de uma chave específica.
func (s *Store) Remove(chave string) {
	s.mu.Lock()
	s.descarta(chave)
	s.mu.Unlock()
}

// Invalida descarta todas as entradas cujo prefixo de chave coincida,
// inclusive as com busca em voo. A remoção é visível para qualquer
// leitura iniciada em seguida.
func (s *Store) Invalida(prefixo string) {
	s.mu.Lock()
	for chave := range s.versoes {
		if strings.HasPrefix(chave, prefixo) {
			s.descarta(chave)
		}
	}
	s.mu.Unlock()
}

// Limpa descarta todas as entradas; usada na derrubada de sessão para
// que nenhum dado residual atravesse autenticações distintas.
func (s *Store) Limpa() {
	s.mu.Lock()
	for chave := range s.versoes {
		s.descarta(chave)
	}
	s.itens = make(map[string]*item)
	s.mu.Unlock()
}

// Tamanho devolve o número de entradas vivas.
func (s *Store) Tamanho() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.itens)
}
