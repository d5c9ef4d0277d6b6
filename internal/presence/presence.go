// Package presence tracks live users in Redis with TTL-backed heartbeats.
package presence

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type LiveUser struct {
	UserName string `json:"userName"`
	DeviceID string `json:"deviceId"`
	LastSeen int64  `json:"lastSeen"`
}

type Store struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewStore(client *redis.Client, prefix string, ttl time.Duration) *Store {
	return &Store{client: client, prefix: prefix, ttl: ttl}
}

func (s *Store) key(userName, deviceID string) string {
	return fmt.Sprintf("%s:live:%s:%s", s.prefix, userName, deviceID)
}

// Heartbeat refreshes the caller's liveness; the key expires on its own
// when heartbeats stop.
func (s *Store) Heartbeat(ctx context.Context, userName, deviceID string) error {
	u := LiveUser{UserName: userName, DeviceID: deviceID, LastSeen: time.Now().Unix()}
	b, _ := json.Marshal(u)
	return s.client.Set(ctx, s.key(userName, deviceID), b, s.ttl).Err()
}

func (s *Store) Leave(ctx context.Context, userName, deviceID string) error {
	return s.client.Del(ctx, s.key(userName, deviceID)).Err()
}

// Live scans for unexpired heartbeat keys and returns the users behind
// them, never nil.
func (s *Store) Live(ctx context.Context) ([]LiveUser, error) {
	out := []LiveUser{}
	iter := s.client.Scan(ctx, 0, s.prefix+":live:*", 100).Iterator()
	for iter.Next(ctx) {
		b, err := s.client.Get(ctx, iter.Val()).Bytes()
		if err != nil {
			continue
		}
		var u LiveUser
		if err := json.Unmarshal(b, &u); err != nil {
			continue
		}
		out = append(out, u)
	}
	return out, iter.Err()
}
