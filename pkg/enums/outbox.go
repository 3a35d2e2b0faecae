package enums

// OutboxEventType names a domain event emitted via the outbox.
type OutboxEventType string

const (
	OutboxEventSubscriptionCreated OutboxEventType = "subscription.created"
	OutboxEventReceiptIssued       OutboxEventType = "receipt.issued"
	OutboxEventCheckInRecorded     OutboxEventType = "checkin.recorded"
)

// OutboxAggregateType names the aggregate an outbox event belongs to.
type OutboxAggregateType string

const (
	OutboxAggregateSubscription OutboxAggregateType = "subscription"
	OutboxAggregatePayment      OutboxAggregateType = "payment"
	OutboxAggregateCheckIn      OutboxAggregateType = "checkin"
)
