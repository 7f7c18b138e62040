package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/KrishnaKumarSoni/krishnakumarsoni-com/internal/models"
)

// PendingCodeRepository is the shared TTL store for outstanding OTPs,
// keyed by phone number. Backed by Redis so every server process sees
// the same pending code.
type PendingCodeRepository interface {
	Save(ctx context.Context, phone string, code *models.PendingCode) error
	Get(ctx context.Context, phone string) (*models.PendingCode, error)
	Delete(ctx context.Context, phone string) error
}

const pendingCodeKeyPrefix = "otp:code:"

// The Redis entry outlives the code's logical expiry by this grace
// period, so an expired-but-present code can be reported as "expired"
// instead of "no verification in progress".
const pendingCodeExpiryGrace = 1 * time.Minute

type pendingCodeRepository struct {
	rdb *redis.Client
}

func NewPendingCodeRepository(rdb *redis.Client) PendingCodeRepository {
	return &pendingCodeRepository{rdb: rdb}
}

func pendingCodeKey(phone string) string {
	return pendingCodeKeyPrefix + phone
}

func (r *pendingCodeRepository) Save(ctx context.Context, phone string, code *models.PendingCode) error {
	payload, err := json.Marshal(code)
	if err != nil {
		return fmt.Errorf("marshal pending code: %w", err)
	}
	ttl := time.Until(code.ExpiresAt) + pendingCodeExpiryGrace
	if ttl <= 0 {
		ttl = pendingCodeExpiryGrace
	}
	return r.rdb.Set(ctx, pendingCodeKey(phone), payload, ttl).Err()
}

// Get returns (nil, nil) when no pending code exists for the phone.
func (r *pendingCodeRepository) Get(ctx context.Context, phone string) (*models.PendingCode, error) {
	payload, err := r.rdb.Get(ctx, pendingCodeKey(phone)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var code models.PendingCode
	if err := json.Unmarshal(payload, &code); err != nil {
		return nil, fmt.Errorf("unmarshal pending code: %w", err)
	}
	return &code, nil
}

func (r *pendingCodeRepository) Delete(ctx context.Context, phone string) error {
	return r.rdb.Del(ctx, pendingCodeKey(phone)).Err()
}
