package httpx

type Option func(*LoggingRoundTripper)

// WithLogFieldMaxLen truncates logged dumps; report payloads are large.
func WithLogFieldMaxLen(logFieldMaxLen int) Option {
	return func(rt *LoggingRoundTripper) {
		rt.logFieldMaxLen = logFieldMaxLen
	}
}

func WithSensitiveDataMasker(sensitiveDataMasker sensitiveDataMasker) Option {
	return func(rt *LoggingRoundTripper) {
		rt.sensitiveDataMasker = sensitiveDataMasker
	}
}

// WithRequestIDHeader renames the correlation header. An empty name stops the
// round tripper from touching outgoing headers.
func WithRequestIDHeader(name string) Option {
	return func(rt *LoggingRoundTripper) {
		rt.requestIDHeader = name
	}
}
