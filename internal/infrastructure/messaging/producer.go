// Package messaging 提供消息队列实现
package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("messaging")

// 消息类型
const (
	MsgTypeReportGenerate = "report_generate"
	MsgTypeReportStatus   = "report_status"
)

// Producer 消息生产者
type Producer struct {
	client *redis.Client
	maxLen int64
}

// NewProducer 创建消息生产者
func NewProducer(client *redis.Client, maxLen int64) *Producer {
	if maxLen <= 0 {
		maxLen = 100000
	}
	return &Producer{
		client: client,
		maxLen: maxLen,
	}
}

// Publish 发布消息到指定流
func (p *Producer) Publish(ctx context.Context, stream Stream, msg *Message) (string, error) {
	ctx, span := tracer.Start(ctx, "producer.Publish",
		trace.WithAttributes(
			attribute.String("stream", string(stream)),
			attribute.String("message.id", msg.ID),
			attribute.String("message.type", msg.Type),
		))
	defer span.End()

	data, err := json.Marshal(msg)
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("failed to marshal message: %w", err)
	}

	result, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: string(stream),
		MaxLen: p.maxLen,
		Approx: true,
		Values: map[string]interface{}{
			"data": string(data),
		},
	}).Result()

	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("failed to publish message: %w", err)
	}

	span.SetAttributes(attribute.String("stream.message_id", result))
	return result, nil
}

// PublishGenerateJob 发布报告生成任务
func (p *Producer) PublishGenerateJob(ctx context.Context, job *ReportJobMessage) (string, error) {
	msg, err := NewMessage(job.JobID, MsgTypeReportGenerate, job.ReportID, job.JobID, job)
	if err != nil {
		return "", err
	}

	return p.Publish(ctx, StreamReportGenerate, msg)
}

// PublishStatusEvent 发布报告状态变更事件
func (p *Producer) PublishStatusEvent(ctx context.Context, event *ReportStatusMessage) (string, error) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}
	msg, err := NewMessage(event.ReportID, MsgTypeReportStatus, event.ReportID, "", event)
	if err != nil {
		return "", err
	}

	msg.SetMetadata("status", event.Status)
	return p.Publish(ctx, StreamReportEvents, msg)
}

// ReportJobMessage 报告生成任务消息
type ReportJobMessage struct {
	JobID    string `json:"job_id"`
	ReportID string `json:"report_id"`
}

// ReportStatusMessage 报告状态变更消息
type ReportStatusMessage struct {
	ReportID   string    `json:"report_id"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}
