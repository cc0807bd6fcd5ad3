package store

import (
	"context"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"legalserve/internal/config"
	"legalserve/internal/model"
)

// Archive is an optional best-effort mirror of the in-memory state. The
// in-memory store stays authoritative; archive failures are logged by the
// caller and never fail the operation.
type Archive interface {
	SaveAppointment(ctx context.Context, appt *model.Appointment) error
	SaveParticipant(ctx context.Context, p *model.Participant) error
}

type RedisArchive struct {
	client *redis.Client
	prefix string
}

func NewRedisArchive(cfg config.RedisConfig) *RedisArchive {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = "legalserve"
	}
	return &RedisArchive{client: client, prefix: prefix}
}

func (a *RedisArchive) Ping(ctx context.Context) error {
	return a.client.Ping(ctx).Err()
}

func (a *RedisArchive) Close() error {
	return a.client.Close()
}

func (a *RedisArchive) appointmentKey(id string) string {
	return a.prefix + ":appointment:" + id
}

func (a *RedisArchive) participantKey(id string) string {
	return a.prefix + ":participant:" + id
}

func (a *RedisArchive) SaveAppointment(ctx context.Context, appt *model.Appointment) error {
	if appt == nil || appt.ID == "" {
		return nil
	}
	data, err := json.Marshal(appt)
	if err != nil {
		return fmt.Errorf("encode appointment: %w", err)
	}
	return a.client.Set(ctx, a.appointmentKey(appt.ID), data, 0).Err()
}

func (a *RedisArchive) SaveParticipant(ctx context.Context, p *model.Participant) error {
	if p == nil || p.ID == "" {
		return nil
	}
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode participant: %w", err)
	}
	return a.client.Set(ctx, a.participantKey(p.ID), data, 0).Err()
}
