package presence

import (
	"context"
	"encoding/json"
	"time"

	"openbook_server/internal/config"
	"openbook_server/pkg/errorx"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// KafkaRelay broadcasts envelopes over a Kafka topic. Each process
// consumes with a unique group id, so every process sees every
// envelope — broadcast semantics on top of a partitioned log. Use when
// Redis pub/sub message loss during failover is unacceptable for the
// deployment.
type KafkaRelay struct {
	producer *kafka.Writer
	consumer *kafka.Reader
	cancel   context.CancelFunc
}

func NewKafkaRelay(cfg *config.KafkaConfig) *KafkaRelay {
	return &KafkaRelay{
		producer: &kafka.Writer{
			Addr:                   kafka.TCP(cfg.HostPort),
			Topic:                  cfg.RelayTopic,
			Balancer:               &kafka.Hash{},
			WriteTimeout:           time.Duration(cfg.Timeout) * time.Second,
			RequiredAcks:           kafka.RequireNone,
			AllowAutoTopicCreation: true,
		},
		consumer: kafka.NewReader(kafka.ReaderConfig{
			Brokers: []string{cfg.HostPort},
			Topic:   cfg.RelayTopic,
			// Unique group per process: every process receives every
			// envelope, starting from the tip of the log.
			GroupID:        "presence-relay-" + uuid.NewString(),
			CommitInterval: time.Duration(cfg.Timeout) * time.Second,
			StartOffset:    kafka.LastOffset,
		}),
	}
}

func (r *KafkaRelay) Publish(ctx context.Context, env Envelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		return errorx.Wrap(err, errorx.CodeServerBusy, "marshal relay envelope")
	}
	err = r.producer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(env.ConnId),
		Value: data,
	})
	if err != nil {
		return errorx.Wrap(err, errorx.CodeServerBusy, "publish relay envelope")
	}
	return nil
}

func (r *KafkaRelay) Subscribe(handler func(Envelope)) {
	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel

	go func() {
		for {
			msg, err := r.consumer.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				zap.L().Error("kafka relay read failed", zap.Error(err))
				continue
			}
			var env Envelope
			if err := json.Unmarshal(msg.Value, &env); err != nil {
				zap.L().Error("bad relay envelope", zap.Error(err))
				continue
			}
			handler(env)
		}
	}()
}

func (r *KafkaRelay) Close() error {
	if r.cancel != nil {
		r.cancel()
	}
	if err := r.producer.Close(); err != nil {
		zap.L().Error("kafka producer close failed", zap.Error(err))
	}
	return r.consumer.Close()
}
