package resolver

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPayload is the base class for payload-shape errors. Callers
	// can match it with errors.Is to distinguish a malformed request from a
	// tenant that simply does not exist.
	ErrInvalidPayload = errors.New("payload does not have the expected shape")

	// ErrNotASubdomain is returned when the hostname is a central domain
	// itself, an IP literal, or a third-party domain, so no subdomain label
	// can be extracted.
	ErrNotASubdomain = fmt.Errorf("%w: hostname has no tenant subdomain label", ErrInvalidPayload)

	// ErrMissingTenantParameter is returned when the matched route does not
	// declare the configured tenant parameter.
	ErrMissingTenantParameter = fmt.Errorf("%w: route is missing the tenant parameter", ErrInvalidPayload)
)
