package mq

// AuditQueueName 分享审计事件队列
// 合规网关每落一条 SharingAttempt 就发布一条消息，索引 Worker 消费后写入 Elasticsearch
const AuditQueueName = "sharing_attempt_audit_queue"
