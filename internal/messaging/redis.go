package messaging

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"loopdrum-service/internal/logger"
	"loopdrum-service/internal/types"

	"github.com/redis/go-redis/v9"
)

type Callbacks struct {
	StatusCallback  func(types.StatusEvent) error
	CounterCallback func(types.CounterEvent) error
}

// RedisClient is the audio engine transport. Actions are LPUSHed to the
// action list; engine lines are BRPOPed from the status list.
type RedisClient struct {
	client     *redis.Client
	callbacks  Callbacks
	logger     *logger.Logger
	actionList string
	statusList string
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
}

func NewRedisClient(host string, port int, actionList, statusList string, l *logger.Logger) *RedisClient {
	ctx, cancel := context.WithCancel(context.Background())
	return &RedisClient{
		client: redis.NewClient(&redis.Options{
			Addr: fmt.Sprintf("%s:%d", host, port),
			DB:   0,
		}),
		logger:     l,
		actionList: actionList,
		statusList: statusList,
		ctx:        ctx,
		cancel:     cancel,
	}
}

func (r *RedisClient) SetCallbacks(callbacks Callbacks) {
	r.callbacks = callbacks
}

func (r *RedisClient) Connect() error {
	r.logger.Infof("Attempting to connect to Redis at %s", r.client.Options().Addr)

	if err := r.client.Ping(r.ctx).Err(); err != nil {
		r.logger.Infof("Redis connection failed: %v", err)
		return fmt.Errorf("Redis connection failed: %w", err)
	}
	r.logger.Infof("Successfully connected to Redis")
	return nil
}

// StartListening starts the engine status listener
func (r *RedisClient) StartListening() error {
	r.logger.Infof("Starting engine listener on %s", r.statusList)

	r.wg.Add(1)
	go r.listCommandListener(r.statusList, r.HandleEngineLine)
	return nil
}

func (r *RedisClient) listCommandListener(key string, handler func(string) error) {
	defer r.wg.Done()
	r.logger.Infof("Starting list command listener for %s", key)

	for {
		select {
		case <-r.ctx.Done():
			r.logger.Infof("Context cancelled, exiting %s listener", key)
			return
		default:
			// Use BRPOP with a short timeout to allow periodic context cancellation checks
			result, err := r.client.BRPop(r.ctx, 5*time.Second, key).Result()
			if err != nil {
				if err == redis.Nil {
					continue
				}
				if errors.Is(err, context.Canceled) {
					r.logger.Infof("Context cancelled, exiting %s listener", key)
					return
				}
				r.logger.Warnf("Error reading from %s list: %v", key, err)
				select {
				case <-r.ctx.Done():
				case <-time.After(time.Second):
				}
				continue
			}

			if len(result) >= 2 { // BRPOP returns [key, value]
				value := result[1]
				r.logger.Debugf("Received from %s: %s", key, value)
				if err := handler(value); err != nil {
					r.logger.Warnf("Error handling %s message: %v", key, err)
				}
			}
		}
	}
}

// HandleEngineLine decodes one engine line and hands it to the matching
// callback. Malformed lines are reported and dropped.
func (r *RedisClient) HandleEngineLine(line string) error {
	msg, err := ParseEngineLine(line)
	if err != nil {
		return err
	}

	switch {
	case msg.Status != nil:
		if r.callbacks.StatusCallback == nil {
			return nil
		}
		return r.callbacks.StatusCallback(*msg.Status)
	case msg.Counter != nil:
		if r.callbacks.CounterCallback == nil {
			return nil
		}
		return r.callbacks.CounterCallback(*msg.Counter)
	}
	return nil
}

// SendAction pushes one action to the engine's action list
func (r *RedisClient) SendAction(action types.Action) error {
	payload := action.String()
	if err := r.client.LPush(r.ctx, r.actionList, payload).Err(); err != nil {
		return fmt.Errorf("failed to send '%s' to %s: %w", payload, r.actionList, err)
	}
	r.logger.Debugf("Sent '%s' to %s", payload, r.actionList)
	return nil
}

func (r *RedisClient) Close() error {
	r.logger.Infof("Closing Redis client")
	r.cancel()

	// Wait for all goroutines to finish with a timeout
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.logger.Infof("All Redis goroutines finished")
	case <-time.After(5 * time.Second):
		r.logger.Infof("Timeout waiting for Redis goroutines to finish")
	}

	return r.client.Close()
}
