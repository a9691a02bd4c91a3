package constants

// Имена очередей
const (
	QueueParsedCars = "parsed_cars"

	ConsumerTagParsedCars = "catalog-service-parsed-cars"
)

// Обменники
const (
	ParserExchange = "parser_exchange"
	NotifyExchange = "notify_exchange"
)

// Ключи маршрутизации
const (
	RoutingKeyParsedCars = "db.cars.save"

	RoutingKeyImportResults = "notify.import.result"
)

// Повторные попытки и финальная DLQ для parsed_cars
const (
	RetryExchange = "parsed_cars_retry_exchange"
	RetryQueue    = "parsed_cars_retry_wait"
	RetryTTLms    = 10000
	MaxRetries    = 3

	FinalDLXExchange   = "parsed_cars_final_dlx"
	FinalDLQ           = "parsed_cars_final_dlq"
	FinalDLQRoutingKey = "cars.dlq.key"
)

// Заголовки сообщений
const (
	HeaderTraceID      = "x-trace-id"
	HeaderEventType    = "event-type"
	HeaderEventVersion = "event-version"
)
