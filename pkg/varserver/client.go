package varserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Client provides typed operations against the variable server's Redis
// backend. The client is thread-safe and can be used concurrently from
// multiple goroutines.
type Client struct {
	rdb *redis.Client
}

// NewClient creates a client from Redis connection options.
func NewClient(redisOpts *redis.Options) *Client {
	return &Client{
		rdb: redis.NewClient(redisOpts),
	}
}

// Open creates a client from a Redis URL, e.g. "redis://localhost:6379".
// Returns an error if the URL cannot be parsed. The connection itself is
// established lazily; use Ping to verify reachability.
func Open(url string) (*Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid variable server URL %q: %w", url, err)
	}
	return NewClient(opts), nil
}

// Close closes the connection to the server. Implements io.Closer.
// After calling Close(), the client should not be used.
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Ping verifies server connectivity. Useful for health checks.
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// CreateVar creates a variable from the descriptor and assigns its handle.
// Validates the descriptor before any write. The name must be unused within
// the descriptor's instance; a taken name returns an error wrapping
// ErrExists and leaves the existing variable untouched.
//
// On success info.Handle is set to the server-assigned handle and a VarEvent
// is published to the var_events channel.
func (c *Client) CreateVar(ctx context.Context, info *VarInfo) error {
	if info == nil {
		return fmt.Errorf("variable descriptor cannot be nil")
	}

	if err := info.Validate(); err != nil {
		return fmt.Errorf("invalid variable descriptor: %w", err)
	}

	// Allocate the handle first; a name collision below burns it, which is
	// harmless since the sequence never wraps in practice.
	seq, err := c.rdb.Incr(ctx, HandleSeqKey()).Result()
	if err != nil {
		return fmt.Errorf("failed to allocate variable handle: %w", err)
	}
	handle := Handle(seq)

	// Bind the name. SETNX enforces per-instance uniqueness.
	nameKey := NameKey(info.InstanceID, info.Name)
	bound, err := c.rdb.SetNX(ctx, nameKey, uint64(handle), 0).Result()
	if err != nil {
		return fmt.Errorf("failed to bind variable name: %w", err)
	}
	if !bound {
		return fmt.Errorf("variable %q in instance %d: %w", info.Name, info.InstanceID, ErrExists)
	}

	info.Handle = handle

	hash, err := VarInfoToHash(info)
	if err != nil {
		info.Handle = InvalidHandle
		return fmt.Errorf("failed to serialize variable descriptor: %w", err)
	}

	if err := c.rdb.HSet(ctx, VarKey(handle), hash).Err(); err != nil {
		info.Handle = InvalidHandle
		return fmt.Errorf("failed to write variable descriptor: %w", err)
	}

	event := VarEvent{
		EventID:     uuid.New().String(),
		Handle:      handle,
		Name:        info.Name,
		InstanceID:  info.InstanceID,
		CreatedAtMs: time.Now().UnixMilli(),
	}
	eventJSON, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal variable event: %w", err)
	}

	if err := c.rdb.Publish(ctx, VarEventsChannel(), eventJSON).Err(); err != nil {
		return fmt.Errorf("failed to publish variable event: %w", err)
	}

	return nil
}

// GetVar retrieves a variable descriptor by handle.
// Returns an error wrapping ErrNotFound if no variable has the handle.
func (c *Client) GetVar(ctx context.Context, h Handle) (*VarInfo, error) {
	if h == InvalidHandle {
		return nil, ErrInvalidHandle
	}

	hashData, err := c.rdb.HGetAll(ctx, VarKey(h)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read variable descriptor: %w", err)
	}

	// HGetAll returns an empty map for non-existent keys.
	if len(hashData) == 0 {
		return nil, fmt.Errorf("variable handle %d: %w", h, ErrNotFound)
	}

	info, err := HashToVarInfo(hashData)
	if err != nil {
		return nil, fmt.Errorf("failed to deserialize variable descriptor: %w", err)
	}

	return info, nil
}

// Alias binds an additional name to an existing variable's handle within the
// variable's instance. The alias shares the name length bound and must not
// collide with any variable name or other alias in that instance.
func (c *Client) Alias(ctx context.Context, h Handle, name string) error {
	if h == InvalidHandle {
		return ErrInvalidHandle
	}

	if name == "" {
		return fmt.Errorf("alias name cannot be empty: %w", ErrMissingName)
	}

	if len(name) > MaxNameLength {
		return fmt.Errorf("alias name %q exceeds %d bytes: %w", name, MaxNameLength, ErrTooLong)
	}

	info, err := c.GetVar(ctx, h)
	if err != nil {
		return err
	}

	// An alias must not shadow a variable name in the same instance.
	taken, err := c.rdb.Exists(ctx, NameKey(info.InstanceID, name)).Result()
	if err != nil {
		return fmt.Errorf("failed to check alias collision: %w", err)
	}
	if taken > 0 {
		return fmt.Errorf("alias %q collides with a variable name in instance %d: %w",
			name, info.InstanceID, ErrExists)
	}

	bound, err := c.rdb.SetNX(ctx, AliasKey(info.InstanceID, name), uint64(h), 0).Result()
	if err != nil {
		return fmt.Errorf("failed to bind alias: %w", err)
	}
	if !bound {
		return fmt.Errorf("alias %q in instance %d: %w", name, info.InstanceID, ErrExists)
	}

	return nil
}

// FindByName resolves a variable or alias name to its handle within an
// instance. Variable names take precedence over aliases. Returns an error
// wrapping ErrNotFound if neither is bound.
func (c *Client) FindByName(ctx context.Context, instanceID uint32, name string) (Handle, error) {
	for _, key := range []string{NameKey(instanceID, name), AliasKey(instanceID, name)} {
		val, err := c.rdb.Get(ctx, key).Result()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			return InvalidHandle, fmt.Errorf("failed to look up variable name: %w", err)
		}

		h, err := strconv.ParseUint(val, 10, 32)
		if err != nil {
			return InvalidHandle, fmt.Errorf("corrupt handle binding for %q: %w", name, err)
		}
		return Handle(h), nil
	}

	return InvalidHandle, fmt.Errorf("variable %q in instance %d: %w", name, instanceID, ErrNotFound)
}

// SetValue overwrites the stored value of an existing variable.
// The object's type must match the variable's stored type; a differing type
// returns an error wrapping ErrTypeMismatch and leaves the value untouched.
func (c *Client) SetValue(ctx context.Context, h Handle, obj *VarObject) error {
	if obj == nil {
		return fmt.Errorf("variable object cannot be nil")
	}

	info, err := c.GetVar(ctx, h)
	if err != nil {
		return err
	}

	if obj.Type != info.Obj.Type {
		return fmt.Errorf("cannot set %s value on %s variable %q: %w",
			obj.Type, info.Obj.Type, info.Name, ErrTypeMismatch)
	}

	value, err := obj.EncodeValue()
	if err != nil {
		return fmt.Errorf("failed to encode value: %w", err)
	}

	fields := map[string]interface{}{
		"value": value,
		"len":   strconv.FormatUint(uint64(obj.Len), 10),
	}
	if err := c.rdb.HSet(ctx, VarKey(h), fields).Err(); err != nil {
		return fmt.Errorf("failed to write variable value: %w", err)
	}

	return nil
}

// Subscription represents an active Pub/Sub subscription to variable
// creation events. Caller must call Close() when done to clean up resources.
type Subscription struct {
	events <-chan *VarEvent
	errors <-chan error
	cancel func()
	once   sync.Once
}

// Events returns the channel of creation events.
// The channel is closed when the subscription is closed or the context is
// cancelled.
func (s *Subscription) Events() <-chan *VarEvent {
	return s.events
}

// Errors returns the channel of subscription errors.
// Errors include JSON unmarshaling failures and other non-fatal issues.
// The subscription continues after errors - messages are skipped.
func (s *Subscription) Errors() <-chan error {
	return s.errors
}

// Close stops the subscription and cleans up resources. Implements io.Closer.
// Safe to call multiple times - subsequent calls are no-ops.
func (s *Subscription) Close() error {
	s.once.Do(s.cancel)
	return nil
}

// SubscribeVarEvents subscribes to variable creation events.
// Returns a Subscription that delivers decoded VarEvent objects.
// Caller must call subscription.Close() when done.
// Context cancellation also stops the subscription.
//
// Events are delivered on a buffered channel (size 10) to prevent blocking.
// Redis Pub/Sub is at-most-once; slow subscribers may drop events.
func (c *Client) SubscribeVarEvents(ctx context.Context) (*Subscription, error) {
	pubsub := c.rdb.Subscribe(ctx, VarEventsChannel())

	eventsChan := make(chan *VarEvent, 10)
	errorsChan := make(chan error, 10)

	subCtx, cancelFunc := context.WithCancel(ctx)

	go func() {
		defer close(eventsChan)
		defer close(errorsChan)
		defer pubsub.Close()

		ch := pubsub.Channel()

		for {
			select {
			case <-subCtx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}

				var event VarEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					select {
					case errorsChan <- fmt.Errorf("failed to unmarshal variable event: %w", err):
					case <-subCtx.Done():
						return
					}
					continue
				}

				select {
				case eventsChan <- &event:
				case <-subCtx.Done():
					return
				}
			}
		}
	}()

	return &Subscription{
		events: eventsChan,
		errors: errorsChan,
		cancel: cancelFunc,
	}, nil
}
