package config

// WorkerKeyStruct names the Redis lists consumed by background workers.
type WorkerKeyStruct struct {
	PaymentEventsQueue string
}

var WorkerKey = &WorkerKeyStruct{
	PaymentEventsQueue: "payment_events_queue",
}
