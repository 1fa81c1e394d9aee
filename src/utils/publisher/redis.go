package publisher

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/warp-contracts/escrow/src/utils/config"
	"github.com/warp-contracts/escrow/src/utils/monitoring"
	"github.com/warp-contracts/escrow/src/utils/task"
)

var ErrCaCert = errors.New("failed to append CA cert to pool")

// Publishes messages from the input channel to a Redis channel
type RedisPublisher[In encoding.BinaryMarshaler] struct {
	*task.Task

	redisConfig config.Redis
	monitor     monitoring.Monitor

	client      *redis.Client
	channelName string
	input       chan In
}

func NewRedisPublisher[In encoding.BinaryMarshaler](config *config.Config, name string) (self *RedisPublisher[In]) {
	self = new(RedisPublisher[In])

	self.redisConfig = config.Redis
	self.monitor = monitoring.NewNop()

	self.Task = task.NewTask(config, name).
		WithOnBeforeStart(self.connect).
		WithSubtaskFunc(self.run).
		WithWorkerPool(self.redisConfig.MaxWorkers, self.redisConfig.MaxQueueSize).
		WithOnAfterStop(self.disconnect)

	return
}

func (self *RedisPublisher[In]) WithInputChannel(v chan In) *RedisPublisher[In] {
	self.input = v
	return self
}

func (self *RedisPublisher[In]) WithChannelName(v string) *RedisPublisher[In] {
	self.channelName = v
	return self
}

func (self *RedisPublisher[In]) WithMonitor(monitor monitoring.Monitor) *RedisPublisher[In] {
	self.monitor = monitor
	return self
}

func (self *RedisPublisher[In]) tlsConfig() (*tls.Config, error) {
	cert, err := tls.X509KeyPair([]byte(self.redisConfig.ClientCert), []byte(self.redisConfig.ClientKey))
	if err != nil {
		return nil, err
	}

	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM([]byte(self.redisConfig.CaCert)) {
		return nil, ErrCaCert
	}

	return &tls.Config{
		RootCAs:      pool,
		Certificates: []tls.Certificate{cert},
	}, nil
}

func (self *RedisPublisher[In]) connect() (err error) {
	opts := redis.Options{
		ClientName:      fmt.Sprintf("escrow/%s", self.Name),
		Addr:            fmt.Sprintf("%s:%d", self.redisConfig.Host, self.redisConfig.Port),
		Password:        self.redisConfig.Password,
		Username:        self.redisConfig.User,
		DB:              self.redisConfig.DB,
		MinIdleConns:    self.redisConfig.MinIdleConns,
		MaxIdleConns:    self.redisConfig.MaxIdleConns,
		ConnMaxIdleTime: self.redisConfig.ConnMaxIdleTime,
		PoolSize:        self.redisConfig.MaxOpenConns,
		ConnMaxLifetime: self.redisConfig.ConnMaxLifetime,
	}

	if self.redisConfig.ClientCert != "" && self.redisConfig.ClientKey != "" && self.redisConfig.CaCert != "" {
		opts.TLSConfig, err = self.tlsConfig()
		if err != nil {
			self.Log.WithError(err).Error("Failed to setup TLS")
			return
		}
	}

	self.client = redis.NewClient(&opts)

	ctx, cancel := context.WithTimeout(self.Ctx, 30*time.Second)
	defer cancel()
	err = self.client.Ping(ctx).Err()
	if err != nil {
		self.Log.WithError(err).Error("Failed to ping Redis")
		return
	}

	return
}

func (self *RedisPublisher[In]) disconnect() {
	err := self.client.Close()
	if err != nil {
		self.Log.WithError(err).Error("Failed to close connection")
	}
}

func (self *RedisPublisher[In]) publish(payload In) {
	err := task.NewRetry().
		WithContext(self.Ctx).
		WithMaxElapsedTime(self.redisConfig.MaxElapsedTime).
		WithMaxInterval(self.redisConfig.MaxInterval).
		WithOnError(func(err error, isDurationAcceptable bool) error {
			self.Log.WithError(err).Warn("Failed to publish message, retrying")
			self.monitor.GetReport().EventPublisher.Errors.FailedAttempts.Inc()
			return err
		}).
		Run(func() error {
			// Running context stays valid until the input is drained
			return self.client.Publish(self.CtxRunning, self.channelName, payload).Err()
		})
	if err != nil {
		self.Log.WithError(err).Error("Failed to publish message, giving up")
		self.monitor.GetReport().EventPublisher.Errors.EventsLost.Inc()
		return
	}

	self.monitor.GetReport().EventPublisher.State.EventsPublished.Inc()
	self.monitor.GetReport().EventPublisher.State.LastPublishedTimestamp.Store(time.Now().Unix())
}

// Finishes when the input channel gets closed
func (self *RedisPublisher[In]) run() error {
	for payload := range self.input {
		payload := payload
		self.SubmitToWorker(func() {
			self.publish(payload)
		})
	}
	return nil
}
