package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Account records live in Redis hashes keyed by ID, with two plain-string
// index keys mapping the unique username and email back to the ID. Creation
// and refresh-token rotation run as Lua scripts so uniqueness and the CAS
// both hold under concurrency.

const createAccountScript = `
if redis.call("EXISTS", KEYS[1]) == 1 or redis.call("EXISTS", KEYS[2]) == 1 then
  return 0
end
redis.call("SET", KEYS[1], ARGV[1])
redis.call("SET", KEYS[2], ARGV[1])
redis.call("HSET", KEYS[3],
  "id", ARGV[1],
  "username", ARGV[2],
  "email", ARGV[3],
  "full_name", ARGV[4],
  "password_hash", ARGV[5],
  "refresh_token", "",
  "created_at", ARGV[6],
  "updated_at", ARGV[6])
return 1
`

const rotateRefreshScript = `
if redis.call("EXISTS", KEYS[1]) == 0 then
  return 0
end
local current = redis.call("HGET", KEYS[1], "refresh_token") or ""
if current ~= ARGV[1] then
  return 0
end
redis.call("HSET", KEYS[1], "refresh_token", ARGV[2], "updated_at", ARGV[3])
return 1
`

var (
	createAccountLua = redis.NewScript(createAccountScript)
	rotateRefreshLua = redis.NewScript(rotateRefreshScript)
)

// Redis is a Store backed by a Redis-compatible server.
type Redis struct {
	client redis.UniversalClient
	prefix string
}

// NewRedis creates a Redis store. prefix namespaces every key (default "ak").
func NewRedis(client redis.UniversalClient, prefix string) *Redis {
	if prefix == "" {
		prefix = "ak"
	}
	return &Redis{client: client, prefix: prefix}
}

func (r *Redis) accountKey(id string) string { return r.prefix + ":acct:" + id }
func (r *Redis) usernameKey(u string) string { return r.prefix + ":uname:" + u }
func (r *Redis) emailKey(e string) string    { return r.prefix + ":email:" + e }

func (r *Redis) FindByID(ctx context.Context, id string) (*Account, error) {
	fields, err := r.client.HGetAll(ctx, r.accountKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(fields) == 0 {
		return nil, ErrNotFound
	}
	return accountFromHash(fields)
}

func (r *Redis) FindByUsernameOrEmail(ctx context.Context, username, email string) (*Account, error) {
	if username != "" {
		id, err := r.client.Get(ctx, r.usernameKey(username)).Result()
		if err == nil {
			return r.FindByID(ctx, id)
		}
		if !errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}
	if email != "" {
		id, err := r.client.Get(ctx, r.emailKey(email)).Result()
		if err == nil {
			return r.FindByID(ctx, id)
		}
		if !errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}
	return nil, ErrNotFound
}

func (r *Redis) Create(ctx context.Context, in CreateInput) (*Account, error) {
	now := time.Now().UTC()
	created, err := createAccountLua.Run(
		ctx,
		r.client,
		[]string{r.usernameKey(in.Username), r.emailKey(in.Email), r.accountKey(in.ID)},
		in.ID,
		in.Username,
		in.Email,
		in.FullName,
		in.PasswordHash,
		strconv.FormatInt(now.Unix(), 10),
	).Int64()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if created != 1 {
		return nil, ErrConflict
	}

	return &Account{
		ID:           in.ID,
		Username:     in.Username,
		Email:        in.Email,
		FullName:     in.FullName,
		PasswordHash: in.PasswordHash,
		CreatedAt:    time.Unix(now.Unix(), 0).UTC(),
		UpdatedAt:    time.Unix(now.Unix(), 0).UTC(),
	}, nil
}

func (r *Redis) CompareAndSetRefreshToken(ctx context.Context, id, expected, next string) (bool, error) {
	swapped, err := rotateRefreshLua.Run(
		ctx,
		r.client,
		[]string{r.accountKey(id)},
		expected,
		next,
		strconv.FormatInt(time.Now().Unix(), 10),
	).Int64()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return swapped == 1, nil
}

func (r *Redis) SetRefreshToken(ctx context.Context, id, value string) error {
	return r.setField(ctx, id, "refresh_token", value)
}

func (r *Redis) UpdatePasswordHash(ctx context.Context, id, newHash string) error {
	return r.setField(ctx, id, "password_hash", newHash)
}

func (r *Redis) setField(ctx context.Context, id, field, value string) error {
	key := r.accountKey(id)

	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if exists == 0 {
		return ErrNotFound
	}

	err = r.client.HSet(ctx, key,
		field, value,
		"updated_at", strconv.FormatInt(time.Now().Unix(), 10),
	).Err()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func accountFromHash(fields map[string]string) (*Account, error) {
	createdAt, err := strconv.ParseInt(fields["created_at"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: corrupt created_at", ErrUnavailable)
	}
	updatedAt, err := strconv.ParseInt(fields["updated_at"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: corrupt updated_at", ErrUnavailable)
	}

	return &Account{
		ID:           fields["id"],
		Username:     fields["username"],
		Email:        fields["email"],
		FullName:     fields["full_name"],
		PasswordHash: fields["password_hash"],
		RefreshToken: fields["refresh_token"],
		CreatedAt:    time.Unix(createdAt, 0).UTC(),
		UpdatedAt:    time.Unix(updatedAt, 0).UTC(),
	}, nil
}
