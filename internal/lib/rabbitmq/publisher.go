package rabbitmq

import (
	"encoding/json"
	"fmt"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/finalworks-platform/internal/models"
)

// PublishMessage публикует сообщение в RabbitMQ.
func PublishMessage(ch *amqp.Channel, exchange string, routingkey string, message any) error {
	const op = "rabbitmq.PublishMessage"
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = ch.Publish(
		exchange,
		routingkey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// EmailPublisher публикует почтовые события платформы.
type EmailPublisher struct {
	ch *amqp.Channel
}

// NewEmailPublisher создает новый экземпляр EmailPublisher.
func NewEmailPublisher(ch *amqp.Channel) *EmailPublisher {
	return &EmailPublisher{ch: ch}
}

// PublishWelcomeEmail ставит в очередь письмо о успешной регистрации.
func (p *EmailPublisher) PublishWelcomeEmail(msg models.WelcomeEmail) error {
	return PublishMessage(p.ch, ExchangeName, welcomeRoutingKey, msg)
}
