package sharing

import (
	"encoding/json"

	"github.com/cloudzeus/prismafiles-sub000/internal/models"
	"github.com/cloudzeus/prismafiles-sub000/internal/pkg/logger"
	"github.com/cloudzeus/prismafiles-sub000/internal/pkg/mq"
	"go.uber.org/zap"
)

// AttemptPublisher 把落库后的审计记录投递给异步索引管道
// 投递失败只记日志，不影响分享主流程
type AttemptPublisher interface {
	PublishAttempt(attempt *models.SharingAttempt)
}

type mqAttemptPublisher struct {
	client *mq.RabbitMQClient
}

var _ AttemptPublisher = (*mqAttemptPublisher)(nil)

// NewAttemptPublisher 创建基于 RabbitMQ 的审计事件发布器
func NewAttemptPublisher(client *mq.RabbitMQClient) AttemptPublisher {
	return &mqAttemptPublisher{client: client}
}

func (p *mqAttemptPublisher) PublishAttempt(attempt *models.SharingAttempt) {
	if p.client == nil {
		return
	}
	body, err := json.Marshal(attempt)
	if err != nil {
		logger.Error("序列化审计事件失败", zap.Uint64("attemptID", attempt.ID), zap.Error(err))
		return
	}
	if err := p.client.Publish(mq.AuditQueueName, body); err != nil {
		logger.Error("发布审计事件失败", zap.Uint64("attemptID", attempt.ID), zap.Error(err))
	}
}

// NoopAttemptPublisher MQ 未配置时的空实现
type NoopAttemptPublisher struct{}

func (NoopAttemptPublisher) PublishAttempt(*models.SharingAttempt) {}
