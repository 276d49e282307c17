package constants

const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	HeaderAuthorization = "Authorization"
	HeaderRequestID     = "X-Request-ID"

	ContextKeyUserID    = "user_id"
	ContextKeyUserRole  = "user_role"
	ContextKeyRequestID = "request_id"

	RoleAdmin = "admin"
	RoleUser  = "user"

	TableSubscriptions = "subscriptions"
	TableCourses       = "courses"
	TableUsers         = "users"

	RedisSweepLockKey           = "learnhub:sweep:lock"
	RedisSubscriptionEventTopic = "learnhub:subscription:lifecycle"
	RedisRateLimitKeyPrefix     = "learnhub:ratelimit"
)
