package recommendation

import "errors"

// Callers only ever see one of these three. Upstream detail goes to the log.
var (
	ErrNotConfigured     = errors.New("AI recommendation service is not configured")
	ErrUnavailable       = errors.New("AI recommendation service is temporarily unavailable")
	ErrMalformedResponse = errors.New("unable to generate AI recommendation at this time")
)

type Kind uint8

const (
	KindNone Kind = iota
	KindConfiguration
	KindTransport
	KindMalformedResponse
	KindUnknown
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "ok"
	case KindConfiguration:
		return "not_configured"
	case KindTransport:
		return "unavailable"
	case KindMalformedResponse:
		return "malformed_response"
	default:
		return "unknown"
	}
}

// KindOf classifies an error returned by Analyze.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrNotConfigured):
		return KindConfiguration
	case errors.Is(err, ErrUnavailable):
		return KindTransport
	case errors.Is(err, ErrMalformedResponse):
		return KindMalformedResponse
	default:
		return KindUnknown
	}
}
