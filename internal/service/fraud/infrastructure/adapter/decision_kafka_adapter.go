package adapter

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"fraudgate/internal/pkg/mq"
	"fraudgate/internal/service/fraud/domain/port"
)

// DecisionKafkaAdapter 实现了 port.DecisionPublisher 接口，下游 3DS 组件消费这些事件。
type DecisionKafkaAdapter struct {
	writer *kafka.Writer
}

func NewDecisionKafkaAdapter(writer *kafka.Writer) *DecisionKafkaAdapter {
	return &DecisionKafkaAdapter{writer: writer}
}

// PublishDecision 以订单号为 key，保证同一订单的事件有序。
func (a *DecisionKafkaAdapter) PublishDecision(ctx context.Context, event port.DecisionEvent) error {
	eventBytes, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal decision event: %w", err)
	}
	return mq.ProduceMessage(ctx, a.writer, []byte(event.OrderNo), eventBytes)
}

// Close 关闭底层的Kafka writer。
func (a *DecisionKafkaAdapter) Close() error {
	return a.writer.Close()
}
