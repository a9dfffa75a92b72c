package convex

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// ErrMissingAddress is returned when a client is created without a deployment address.
var ErrMissingAddress = errors.New("client created with an empty deployment address; if you used an environment variable, check that it's set")

// FunctionError reports that the Convex function itself threw.
// Message is the error text produced by the deployment; Data carries the
// payload of an application-level ConvexError when one was thrown.
type FunctionError struct {
	Path    string
	Message string
	Data    any
}

func (e *FunctionError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("function %s failed", e.Path)
	}
	return e.Message
}

// HTTPError reports a non-success HTTP exchange that carried no function result.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body != "" {
		return e.Body
	}
	return fmt.Sprintf("%d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// HTTPStatus returns the response status code.
func (e *HTTPError) HTTPStatus() int { return e.StatusCode }

// ValidateDeploymentURL checks that address is usable as a Convex deployment URL.
// It must be an absolute http(s) URL and must not be the .convex.site domain,
// which serves HTTP actions rather than the function API.
func ValidateDeploymentURL(address string) error {
	address = strings.TrimSpace(address)
	if address == "" {
		return ErrMissingAddress
	}
	if !strings.HasPrefix(address, "http:") && !strings.HasPrefix(address, "https:") {
		return fmt.Errorf("invalid deployment address: must start with \"https://\" or \"http://\"; found %q", address)
	}
	u, err := url.Parse(address)
	if err != nil || u.Host == "" {
		return fmt.Errorf("invalid deployment address: %q should be a valid URL", address)
	}
	if strings.HasSuffix(strings.TrimRight(address, "/"), ".convex.site") {
		return fmt.Errorf("invalid deployment address: %q ends with .convex.site, which is used for HTTP actions; deployment URLs end with .convex.cloud", address)
	}
	return nil
}
