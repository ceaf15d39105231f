package notifier

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/holydev99/debtSet/internal/domain"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisPlatform keeps scheduled notifications in Redis:
//
//	<prefix>:notifications:due           ZSET handle -> trigger unix millis
//	<prefix>:notification:<handle>       HASH owner, correlation_id, title, body, trigger_at
//	<prefix>:owner:<owner>:notifications SET of handles
//	<prefix>:permission:<owner>          STRING granted|denied
type RedisPlatform struct {
	client    *redis.Client
	prefix    string
	autoGrant bool
}

func NewRedisPlatform(client *redis.Client, prefix string, autoGrant bool) *RedisPlatform {
	if prefix == "" {
		prefix = "debtset"
	}
	return &RedisPlatform{client: client, prefix: prefix, autoGrant: autoGrant}
}

func (p *RedisPlatform) dueKey() string {
	return p.prefix + ":notifications:due"
}

func (p *RedisPlatform) notificationKey(handle string) string {
	return p.prefix + ":notification:" + handle
}

func (p *RedisPlatform) ownerKey(owner string) string {
	return p.prefix + ":owner:" + owner + ":notifications"
}

func (p *RedisPlatform) permissionKey(owner string) string {
	return p.prefix + ":permission:" + owner
}

func (p *RedisPlatform) PermissionStatus(ctx context.Context, owner string) (domain.PermissionStatus, error) {
	status, err := p.client.Get(ctx, p.permissionKey(owner)).Result()
	if errors.Is(err, redis.Nil) {
		return domain.PermissionUndetermined, nil
	}
	if err != nil {
		return domain.PermissionUndetermined, err
	}
	return domain.PermissionStatus(status), nil
}

// RequestPermission answers an undetermined owner with the configured
// auto-grant policy and remembers the answer.
func (p *RedisPlatform) RequestPermission(ctx context.Context, owner string) (domain.PermissionStatus, error) {
	status, err := p.PermissionStatus(ctx, owner)
	if err != nil {
		return status, err
	}
	if status != domain.PermissionUndetermined {
		return status, nil
	}

	status = domain.PermissionDenied
	if p.autoGrant {
		status = domain.PermissionGranted
	}
	if err := p.SetPermission(ctx, owner, status); err != nil {
		return domain.PermissionUndetermined, err
	}
	return status, nil
}

// SetPermission records an explicit answer from the owner
func (p *RedisPlatform) SetPermission(ctx context.Context, owner string, status domain.PermissionStatus) error {
	if status == domain.PermissionUndetermined {
		return p.client.Del(ctx, p.permissionKey(owner)).Err()
	}
	return p.client.Set(ctx, p.permissionKey(owner), string(status), 0).Err()
}

func (p *RedisPlatform) Schedule(ctx context.Context, owner string, content domain.NotificationContent, at time.Time, correlationID string) (string, error) {
	handle := uuid.NewString()

	_, err := p.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, p.notificationKey(handle),
			"owner", owner,
			"correlation_id", correlationID,
			"title", content.Title,
			"body", content.Body,
			"trigger_at", strconv.FormatInt(at.UnixMilli(), 10),
		)
		pipe.ZAdd(ctx, p.dueKey(), redis.Z{Score: float64(at.UnixMilli()), Member: handle})
		pipe.SAdd(ctx, p.ownerKey(owner), handle)
		return nil
	})
	if err != nil {
		return "", err
	}

	return handle, nil
}

func (p *RedisPlatform) Cancel(ctx context.Context, handle string) error {
	if handle == "" {
		return nil
	}

	owner, err := p.client.HGet(ctx, p.notificationKey(handle), "owner").Result()
	if errors.Is(err, redis.Nil) {
		// Already fired, cancelled or never existed.
		return p.client.ZRem(ctx, p.dueKey(), handle).Err()
	}
	if err != nil {
		return err
	}

	_, err = p.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZRem(ctx, p.dueKey(), handle)
		pipe.Del(ctx, p.notificationKey(handle))
		pipe.SRem(ctx, p.ownerKey(owner), handle)
		return nil
	})
	return err
}

func (p *RedisPlatform) ListScheduled(ctx context.Context, owner string) ([]domain.ScheduledNotification, error) {
	handles, err := p.client.SMembers(ctx, p.ownerKey(owner)).Result()
	if err != nil {
		return nil, err
	}

	notifications, stale, err := p.load(ctx, handles)
	if err != nil {
		return nil, err
	}

	if len(stale) > 0 {
		members := make([]interface{}, len(stale))
		for i, h := range stale {
			members[i] = h
		}
		_ = p.client.SRem(ctx, p.ownerKey(owner), members...).Err()
	}

	return notifications, nil
}

// claimScript atomically takes one handle off the due set, reads its hash and
// deletes it. It returns nil when another dispatcher already took the handle
// and an empty array when the hash is gone.
var claimScript = redis.NewScript(`
if redis.call('ZREM', KEYS[1], ARGV[1]) == 0 then
	return false
end
local fields = redis.call('HGETALL', KEYS[2])
if #fields == 0 then
	return {}
end
redis.call('DEL', KEYS[2])
for i = 1, #fields, 2 do
	if fields[i] == 'owner' then
		redis.call('SREM', ARGV[2] .. fields[i + 1] .. ARGV[3], ARGV[1])
	end
end
return fields
`)

// ClaimDue removes up to limit notifications due at or before now and returns
// them. Each claim is a single script run, so concurrent dispatchers never
// share one and a failure part way returns the notifications already claimed.
func (p *RedisPlatform) ClaimDue(ctx context.Context, now time.Time, limit int64) ([]domain.ScheduledNotification, error) {
	handles, err := p.client.ZRangeByScore(ctx, p.dueKey(), &redis.ZRangeBy{
		Min:   "-inf",
		Max:   strconv.FormatInt(now.UnixMilli(), 10),
		Count: limit,
	}).Result()
	if err != nil {
		return nil, err
	}

	claimed := make([]domain.ScheduledNotification, 0, len(handles))
	for _, handle := range handles {
		pairs, err := claimScript.Run(ctx, p.client,
			[]string{p.dueKey(), p.notificationKey(handle)},
			handle, p.prefix+":owner:", ":notifications",
		).StringSlice()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return claimed, err
		}
		if len(pairs) == 0 {
			continue
		}

		fields := make(map[string]string, len(pairs)/2)
		for i := 0; i+1 < len(pairs); i += 2 {
			fields[pairs[i]] = pairs[i+1]
		}
		claimed = append(claimed, notificationFromFields(handle, fields))
	}

	return claimed, nil
}

// load fetches notification hashes; handles without a hash are returned as stale
func (p *RedisPlatform) load(ctx context.Context, handles []string) ([]domain.ScheduledNotification, []string, error) {
	if len(handles) == 0 {
		return []domain.ScheduledNotification{}, nil, nil
	}

	cmds := make([]*redis.MapStringStringCmd, len(handles))
	_, err := p.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, handle := range handles {
			cmds[i] = pipe.HGetAll(ctx, p.notificationKey(handle))
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	notifications := make([]domain.ScheduledNotification, 0, len(handles))
	var stale []string
	for i, cmd := range cmds {
		fields := cmd.Val()
		if len(fields) == 0 {
			stale = append(stale, handles[i])
			continue
		}

		notifications = append(notifications, notificationFromFields(handles[i], fields))
	}

	return notifications, stale, nil
}

func notificationFromFields(handle string, fields map[string]string) domain.ScheduledNotification {
	millis, _ := strconv.ParseInt(fields["trigger_at"], 10, 64)
	return domain.ScheduledNotification{
		Handle:        handle,
		Owner:         fields["owner"],
		CorrelationID: fields["correlation_id"],
		Title:         fields["title"],
		Body:          fields["body"],
		TriggerAt:     time.UnixMilli(millis),
	}
}

// Ping reports whether redis is reachable
func (p *RedisPlatform) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}
