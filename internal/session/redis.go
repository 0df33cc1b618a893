package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const prefixoChave = "sessao:"

// PersistenciaRedis guarda os valores de cada sessão em um hash do
// redis com expiração.
type PersistenciaRedis struct {
	cliente *redis.Client
}

// NewPersistenciaRedis cria a persistência sobre um cliente redis.
func NewPersistenciaRedis(cliente *redis.Client) *PersistenciaRedis {
	return &PersistenciaRedis{cliente: cliente}
}

// Grava escreve os valores e a expiração em um pipeline transacional,
// de modo que a sessão nunca fique parcialmente persistida.
func (p *PersistenciaRedis) Grava(ctx context.Context, id string, valores map[string]string, ttl time.Duration) error {
	chave := prefixoChave + id

	pipe := p.cliente.TxPipeline()
	pipe.HSet(ctx, chave, valores)
	pipe.Expire(ctx, chave, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	return nil
}

// Le devolve os valores da sessão; sessão inexistente devolve mapa
// vazio, sem erro.
func (p *PersistenciaRedis) Le(ctx context.Context, id string) (map[string]string, error) {
	valores, err := p.cliente.HGetAll(ctx, prefixoChave+id).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}
	return valores, nil
}

// Apaga remove a sessão; remover o que não existe não é erro.
func (p *PersistenciaRedis) Apaga(ctx context.Context, id string) error {
	if err := p.cliente.Del(ctx, prefixoChave+id).Err(); err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	return nil
}
