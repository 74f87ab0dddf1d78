package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/radieske/bet-tracker/internal/ledger"
)

// tombstonePrefix marca o elemento a ser removido por LREM
const tombstonePrefix = "__deleted__:"

// Redis guarda o ledger numa lista; cada elemento é um record em JSON
type Redis struct {
	rdb *redis.Client
	key string
}

func NewRedis(rdb *redis.Client, key string) *Redis {
	return &Redis{rdb: rdb, key: key}
}

func (s *Redis) LoadAll(ctx context.Context) ([]ledger.Bet, error) {
	items, err := s.rdb.LRange(ctx, s.key, 0, -1).Result()
	if err != nil {
		return nil, unavailable("load_all", err)
	}

	recs := make([]record, 0, len(items))
	for i, it := range items {
		var r record
		if err := json.Unmarshal([]byte(it), &r); err != nil {
			return nil, corrupt(fmt.Sprintf("decode row %d", i), err)
		}
		recs = append(recs, r)
	}
	return decodeRecords(recs)
}

func (s *Redis) Append(ctx context.Context, b ledger.Bet) error {
	payload, err := json.Marshal(toRecord(b))
	if err != nil {
		return fmt.Errorf("encode bet: %w", err)
	}
	if err := s.rdb.RPush(ctx, s.key, payload).Err(); err != nil {
		return unavailable("append", err)
	}
	return nil
}

func (s *Redis) UpdateAt(ctx context.Context, index int, b ledger.Bet) error {
	if err := s.checkIndex(ctx, index); err != nil {
		return err
	}
	payload, err := json.Marshal(toRecord(b))
	if err != nil {
		return fmt.Errorf("encode bet: %w", err)
	}
	if err := s.rdb.LSet(ctx, s.key, int64(index), payload).Err(); err != nil {
		return unavailable("update_at", err)
	}
	return nil
}

// DeleteAt troca o elemento por um marcador único e remove o marcador na mesma transação
func (s *Redis) DeleteAt(ctx context.Context, index int) error {
	if err := s.checkIndex(ctx, index); err != nil {
		return err
	}
	marker := tombstonePrefix + uuid.NewString()
	_, err := s.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.LSet(ctx, s.key, int64(index), marker)
		p.LRem(ctx, s.key, 1, marker)
		return nil
	})
	if err != nil {
		return unavailable("delete_at", err)
	}
	return nil
}

func (s *Redis) Ping(ctx context.Context) error {
	if err := s.rdb.Ping(ctx).Err(); err != nil {
		return unavailable("ping", err)
	}
	return nil
}

func (s *Redis) Close() error {
	return s.rdb.Close()
}

func (s *Redis) checkIndex(ctx context.Context, index int) error {
	if index < 0 {
		return outOfRange(index)
	}
	n, err := s.rdb.LLen(ctx, s.key).Result()
	if err != nil {
		return unavailable("llen", err)
	}
	if int64(index) >= n {
		return outOfRange(index)
	}
	return nil
}
