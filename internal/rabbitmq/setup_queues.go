package rabbitmq

type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// Очереди уведомлений о событиях записи на приём.
const (
	BookedRoutingKey    = "appointment.booked"
	CancelledRoutingKey = "appointment.cancelled"

	BookedQueue    = "appointment_booked_queue"
	CancelledQueue = "appointment_cancelled_queue"
)

func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: BookedQueue, RoutingKey: BookedRoutingKey},
		{QueueName: CancelledQueue, RoutingKey: CancelledRoutingKey},
	}
}
