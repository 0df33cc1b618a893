// Package session é o dono do ciclo de vida da sessão autenticada: cria
// no login, restaura a cada requisição e derruba no logout ou quando a
// API rejeita o token.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Os dois valores persistidos por sessão, equivalentes ao armazenamento
// local do navegador.
const (
	campoToken   = "token"
	campoUsuario = "user"
)

// ErrSemSessao indica ausência de sessão válida para o identificador.
var ErrSemSessao = errors.New("sessão não encontrada")

// Sessao é o estado autenticado: token e usuário sempre presentes
// juntos, nunca parcialmente.
type Sessao struct {
	ID      string
	Token   string
	Usuario Usuario
}

// Autenticador é o subconjunto do cliente da API usado no login.
type Autenticador interface {
	Autenticar(ctx context.Context, email, senha string) (string, error)
}

// Persistencia abstrai o armazenamento durável dos valores da sessão.
type Persistencia interface {
	Grava(ctx context.Context, id string, valores map[string]string, ttl time.Duration) error
	Le(ctx context.Context, id string) (map[string]string, error)
	Apaga(ctx context.Context, id string) error
}

// Limpador purga o cache de consultas na derrubada de sessão.
type Limpador interface {
	Limpa()
}

// Store é o único escritor do estado de sessão.
type Store struct {
	api          Autenticador
	persistencia Persistencia
	cache        Limpador
	ttl          time.Duration
}

// New cria o store com o autenticador, a persistência e o cache a
// purgar na derrubada.
func New(api Autenticador, persistencia Persistencia, cache Limpador, ttl time.Duration) *Store {
	return &Store{api: api, persistencia: persistencia, cache: cache, ttl: ttl}
}

// Login autentica na API, deriva a identidade das claims do token e
// persiste token e usuário atomicamente. Falhas não deixam estado
// parcial persistido.
func (s *Store) Login(ctx context.Context, email, senha string) (Sessao, error) {
	token, err := s.api.Autenticar(ctx, email, senha)
	if err != nil {
		return Sessao{}, err
	}

	usuario, err := IdentidadeDoToken(token, email)
	if err != nil {
		return Sessao{}, fmt.Errorf("decodificando token: %w", err)
	}

	usuarioJSON, err := json.Marshal(usuario)
	if err != nil {
		return Sessao{}, err
	}

	id := uuid.NewString()
	valores := map[string]string{
		campoToken:   token,
		campoUsuario: string(usuarioJSON),
	}
	if err := s.persistencia.Grava(ctx, id, valores, s.ttl); err != nil {
		return Sessao{}, fmt.Errorf("persistindo sessão: %w", err)
	}

	return Sessao{ID: id, Token: token, Usuario: usuario}, nil
}

// Restaura lê token e usuário persistidos. Qualquer um ausente ou
// indecifrável apaga ambos e devolve ErrSemSessao.
func (s *Store) Restaura(ctx context.Context, id string) (Sessao, error) {
	if id == "" {
		return Sessao{}, ErrSemSessao
	}

	valores, err := s.persistencia.Le(ctx, id)
	if err != nil {
		return Sessao{}, fmt.Errorf("lendo sessão: %w", err)
	}

	token := valores[campoToken]
	usuarioJSON := valores[campoUsuario]
	if token == "" || usuarioJSON == "" {
		_ = s.persistencia.Apaga(ctx, id)
		return Sessao{}, ErrSemSessao
	}

	var usuario Usuario
	if err := json.Unmarshal([]byte(usuarioJSON), &usuario); err != nil {
		_ = s.persistencia.Apaga(ctx, id)
		return Sessao{}, ErrSemSessao
	}

	return Sessao{ID: id, Token: token, Usuario: usuario}, nil
}

// Logout apaga a sessão persistida e purga o cache de consultas.
// Idempotente: seguro com sessão já ausente.
func (s *Store) Logout(ctx context.Context, id string) error {
	if id != "" {
		if err := s.persistencia.Apaga(ctx, id); err != nil {
			return fmt.Errorf("apagando sessão: %w", err)
		}
	}
	s.cache.Limpa()
	return nil
}

// Derruba é a variante silenciosa acionada por 401 da API: apaga a
// sessão presente no contexto, se houver, e purga o cache. Pensada para
// ser inofensiva quando um logout explícito já aconteceu.
func (s *Store) Derruba(ctx context.Context) {
	if sessao, ok := DaContexto(ctx); ok {
		_ = s.persistencia.Apaga(ctx, sessao.ID)
	}
	s.cache.Limpa()
}

type sessaoKey struct{}

// NaContexto devolve um contexto carregando a sessão restaurada.
func NaContexto(ctx context.Context, sessao Sessao) context.Context {
	return context.WithValue(ctx, sessaoKey{}, sessao)
}

// DaContexto recupera a sessão do contexto, se houver.
func DaContexto(ctx context.Context) (Sessao, bool) {
	sessao, ok := ctx.Value(sessaoKey{}).(Sessao)
	return sessao, ok
}
