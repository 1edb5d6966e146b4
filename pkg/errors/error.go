package errors

// ErrorCode represents a specific error code in the system.
type ErrorCode string

const (
	// GeneralInternalServerError represents a generic internal error.
	GeneralInternalServerError ErrorCode = "general_internal_server_error"

	// ConfigInvalidError represents an error when the loaded configuration is invalid.
	ConfigInvalidError ErrorCode = "config_invalid_error"

	// FeedDialError represents an error when the feed endpoint cannot be reached.
	FeedDialError ErrorCode = "feed_dial_error"
	// FeedSendError represents an error when a request frame cannot be written.
	FeedSendError ErrorCode = "feed_send_error"
	// FeedReceiveError represents an error when reading from the feed fails.
	FeedReceiveError ErrorCode = "feed_receive_error"

	// DocumentWriteError represents an error when the tick document cannot be written.
	DocumentWriteError ErrorCode = "document_write_error"
	// QuestDBStoreError represents an error when ticks cannot be stored in QuestDB.
	QuestDBStoreError ErrorCode = "questdb_store_error"
	// KafkaPublishError represents an error when ticks cannot be published to Kafka.
	KafkaPublishError ErrorCode = "kafka_publish_error"

	// RedisConfigError represents an error when the Redis configuration is invalid or nil.
	RedisConfigError ErrorCode = "redis_config_error"
	// RedisConnectionError represents an error when connecting to Redis.
	RedisConnectionError ErrorCode = "redis_connection_error"
	// RedisDisconnectionError represents an error when disconnecting from Redis.
	RedisDisconnectionError ErrorCode = "redis_disconnection_error"
	// RedisPingError represents an error when pinging Redis.
	RedisPingError ErrorCode = "redis_pinging_error"
	// RedisGetError represents an error when getting a value from Redis.
	RedisGetError ErrorCode = "redis_get_error"
	// RedisSetError represents an error when setting a value in Redis.
	RedisSetError ErrorCode = "redis_set_error"
	// RedisXAddError represents an error when adding entries to a stream in Redis.
	RedisXAddError ErrorCode = "redis_xadd_error"
	// RedisXLenError represents an error when getting the length of a stream in Redis.
	RedisXLenError ErrorCode = "redis_xlen_error"
)

// Severity represents the severity level of an error.
type Severity string

const (
	// SeverityCritical indicates an error that must stop the run.
	SeverityCritical Severity = "critical"
	// SeverityHigh indicates an error that fails the current attempt.
	SeverityHigh Severity = "high"
	// SeverityLow indicates an error that is only reported.
	SeverityLow Severity = "low"
)

// Category represents the category of an error.
type Category string

const (
	// CategoryDatabase indicates an error related to database operations.
	CategoryDatabase Category = "database"
	// CategoryNetwork indicates an error related to network operations.
	CategoryNetwork Category = "network"
	// CategoryValidation indicates an error related to validation of input data.
	CategoryValidation Category = "validation"
	// CategoryExternal indicates an error related to external services.
	CategoryExternal Category = "external"
)
