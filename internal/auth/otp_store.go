package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/blog-platform-api/internal/models"
	"github.com/redis/go-redis/v9"
)

// OTPStore holds pending email verifications
type OTPStore interface {
	Save(ctx context.Context, record *models.OTPRecord) error
	// Get returns nil, nil when no record exists
	Get(ctx context.Context, email string) (*models.OTPRecord, error)
	Delete(ctx context.Context, email string) error
}

// otpGrace keeps a record around past its expiry so that a late attempt is
// reported as expired rather than unknown
const otpGrace = 10 * time.Minute

// RedisOTPStore keeps OTP records as JSON values with a TTL
type RedisOTPStore struct {
	client *redis.Client
}

// NewRedisOTPStore creates an OTP store on an existing client
func NewRedisOTPStore(client *redis.Client) *RedisOTPStore {
	return &RedisOTPStore{client: client}
}

func otpKey(email string) string {
	return fmt.Sprintf("otp:%s", strings.ToLower(email))
}

// Save stores the record, replacing any earlier one for the same email
func (s *RedisOTPStore) Save(ctx context.Context, record *models.OTPRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal otp record: %w", err)
	}
	ttl := time.Until(record.ExpiresAt) + otpGrace
	if err := s.client.Set(ctx, otpKey(record.Email), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store otp record: %w", err)
	}
	return nil
}

func (s *RedisOTPStore) Get(ctx context.Context, email string) (*models.OTPRecord, error) {
	data, err := s.client.Get(ctx, otpKey(email)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get otp record: %w", err)
	}

	var record models.OTPRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal otp record: %w", err)
	}
	return &record, nil
}

func (s *RedisOTPStore) Delete(ctx context.Context, email string) error {
	return s.client.Del(ctx, otpKey(email)).Err()
}
