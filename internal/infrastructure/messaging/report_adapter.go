package messaging

import (
	"context"
	"time"

	"github.com/guygrubbs/dap-deploy-sub000/internal/application/report"
	"github.com/guygrubbs/dap-deploy-sub000/internal/domain/entity"
	"github.com/guygrubbs/dap-deploy-sub000/pkg/logger"
)

// GeneratePublisher 将生成任务发布到 Redis Stream
type GeneratePublisher struct {
	producer *Producer
}

func NewGeneratePublisher(producer *Producer) *GeneratePublisher {
	return &GeneratePublisher{producer: producer}
}

var _ report.JobPublisher = (*GeneratePublisher)(nil)

func (p *GeneratePublisher) PublishGenerate(ctx context.Context, reportID, jobID string) error {
	_, err := p.producer.PublishGenerateJob(ctx, &ReportJobMessage{
		JobID:    jobID,
		ReportID: reportID,
	})
	return err
}

// StatusNotifier 将状态变更事件发布到 Redis Stream。
// 通知失败只记日志，不阻断报告管线。
type StatusNotifier struct {
	producer   *Producer
	attempts   int
	retryDelay time.Duration
}

func NewStatusNotifier(producer *Producer) *StatusNotifier {
	return &StatusNotifier{
		producer:   producer,
		attempts:   2,
		retryDelay: 200 * time.Millisecond,
	}
}

var _ report.Notifier = (*StatusNotifier)(nil)

func (n *StatusNotifier) NotifyStatus(ctx context.Context, reportID string, status entity.ReportStatus) {
	event := &ReportStatusMessage{
		ReportID: reportID,
		Status:   string(status),
	}

	var err error
	for attempt := 1; attempt <= n.attempts; attempt++ {
		if _, err = n.producer.PublishStatusEvent(ctx, event); err == nil {
			return
		}
		if attempt < n.attempts {
			select {
			case <-ctx.Done():
				logger.Warn(ctx, "status event publish cancelled", "report_id", reportID, "status", string(status))
				return
			case <-time.After(n.retryDelay):
			}
		}
	}
	logger.Warn(ctx, "failed to publish status event", "report_id", reportID, "status", string(status), "error", err.Error())
}
