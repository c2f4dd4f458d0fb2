package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"strconv"

	"github.com/cloudzeus/prismafiles-sub000/internal/models"
	"github.com/cloudzeus/prismafiles-sub000/internal/pkg/logger"
	"github.com/cloudzeus/prismafiles-sub000/internal/pkg/mq"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

// AuditIndexName 审计记录在 Elasticsearch 中的索引名
const AuditIndexName = "gdpr-sharing-attempts"

// AuditIndexer 消费分享审计事件并写入 Elasticsearch
// ES 不可用时消息留在 pending 队列等待重试，不影响网关主流程
type AuditIndexer struct {
	mqClient *mq.RabbitMQClient
	esClient *elasticsearch.Client
}

func NewAuditIndexer(mqClient *mq.RabbitMQClient, esClient *elasticsearch.Client) *AuditIndexer {
	return &AuditIndexer{
		mqClient: mqClient,
		esClient: esClient,
	}
}

func (w *AuditIndexer) Start() {
	_, err := w.mqClient.DeclareQueue(mq.AuditQueueName)
	if err != nil {
		log.Fatalf("Failed to declare queue: %s", err)
	}
	if err := w.mqClient.Consume(mq.AuditQueueName, w.IndexAttempt); err != nil {
		log.Fatalf("Failed to start consuming from queue: %s", err)
	}
	log.Println("Audit indexer worker started...")
}

// IndexAttempt 处理一条审计事件
func (w *AuditIndexer) IndexAttempt(msg amqp.Delivery) {
	var attempt models.SharingAttempt
	if err := json.Unmarshal(msg.Body, &attempt); err != nil {
		logger.Error("Failed to unmarshal sharing attempt event", zap.Error(err))
		_ = msg.Nack(false, false) // 解析失败,直接抛弃
		return
	}

	body, err := json.Marshal(attempt)
	if err != nil {
		logger.Error("Failed to marshal attempt for indexing", zap.Uint64("attemptID", attempt.ID), zap.Error(err))
		_ = msg.Nack(false, false)
		return
	}

	ctx := context.Background()
	res, err := w.esClient.Index(
		AuditIndexName,
		bytes.NewReader(body),
		w.esClient.Index.WithDocumentID(strconv.FormatUint(attempt.ID, 10)),
		w.esClient.Index.WithContext(ctx),
	)
	if err != nil {
		logger.Error("Failed to index sharing attempt", zap.Uint64("attemptID", attempt.ID), zap.Error(err))
		_ = msg.Nack(false, true) // ES 暂时不可用，重新入队
		return
	}
	defer res.Body.Close()

	if res.IsError() {
		logger.Error("Elasticsearch rejected attempt document",
			zap.Uint64("attemptID", attempt.ID), zap.String("status", res.Status()))
		_ = msg.Nack(false, true)
		return
	}

	logger.Debug("Indexed sharing attempt", zap.Uint64("attemptID", attempt.ID))
	_ = msg.Ack(false)
}

// StartAllWorkers 启动所有后台 Worker
func StartAllWorkers(mqClient *mq.RabbitMQClient, esClient *elasticsearch.Client) {
	NewAuditIndexer(mqClient, esClient).Start()
}
