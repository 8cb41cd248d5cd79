package logx

const (
	FieldAppName         = "app-name"
	FieldAppVersion      = "app-version"
	FieldClientID        = "client-id"
	FieldDurationMs      = "duration-ms"
	FieldError           = "error"
	FieldEventType       = "event-type"
	FieldHTTPMethod      = "http-method"
	FieldHTTPPath        = "http-path"
	FieldHTTPRequest     = "http-request"
	FieldHTTPResponse    = "http-response"
	FieldIP              = "ip"
	FieldModel           = "model"
	FieldPlan            = "plan"
	FieldProvider        = "provider"
	FieldRequestBody     = "request-body"
	FieldRequestID       = "request-id"
	FieldResponseBody    = "response-body"
	FieldResponseHeaders = "response-headers"
	FieldResponseStatus  = "response-status"
	FieldSlug            = "slug"
	FieldStack           = "stack"
	FieldTaskID          = "task-id"
	FieldTicker          = "ticker"
	FieldTraceID         = "trace-id"
	FieldURL             = "url"
	FieldUserID          = "user-id"
)
