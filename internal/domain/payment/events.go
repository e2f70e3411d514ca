package payment

// TopicPaymentEvents is the Kafka topic the payment gateway adapter publishes settlements on.
const TopicPaymentEvents = "payment.events"

// CloudEvent types consumed from TopicPaymentEvents.
const (
	EventPaymentCompleted = "payment.completed"
	EventPaymentFailed    = "payment.failed"
	EventPaymentCancelled = "payment.cancelled"
)

// SettlementEvent is the payload of a payment settlement event.
type SettlementEvent struct {
	BookingID     int64   `json:"booking_id"`
	TransactionID string  `json:"transaction_id,omitempty"`
	Amount        float64 `json:"amount,omitempty"`
	CardType      string  `json:"card_type,omitempty"`
	Reason        string  `json:"reason,omitempty"`
}

// Outcome is the result of a settlement attempt reported by the gateway.
type Outcome string

const (
	OutcomeCompleted Outcome = "completed"
	OutcomeFailed    Outcome = "failed"
	OutcomeCancelled Outcome = "cancelled"
)
