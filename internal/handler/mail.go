package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/hamza-dev-12/fingerprint-attendance/backend/internal/domain"
)

// publishAccountMail 把账户通知邮件投递到消息队列。
// 通知是尽力而为的，投递失败只记录日志，不影响账户变更本身。
func (h *Handler) publishAccountMail(mailType string, to string, data any) {
	mailMessage := domain.MailMessage{
		Type: mailType,
		To:   to,
		Data: data,
	}

	mailData, err := json.Marshal(mailMessage)
	if err != nil {
		slog.Error("邮件信息序列化失败", "type", mailType, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	if err := h.mailChannel.PublishWithContext(
		ctx,
		"",
		"email_queue",
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        mailData,
		},
	); err != nil {
		slog.Error("无法发送邮件到消息队列", "type", mailType, "error", err)
	}
}
