// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package httperrors turns transport-level HTTP failures into short operator hints.
// Errors raised by the remote function itself are not classified: their message
// is already the most useful thing to show.
package httperrors

import (
	"errors"
	"net"
	"net/url"
	"strings"
	"syscall"
)

// Category is the kind of transport failure.
type Category int

const (
	Unknown Category = iota
	Timeout
	DNS
	ConnectionRefused
	TLS
	Server
)

func (c Category) String() string {
	switch c {
	case Timeout:
		return "timeout"
	case DNS:
		return "dns"
	case ConnectionRefused:
		return "connection_refused"
	case TLS:
		return "tls"
	case Server:
		return "server"
	default:
		return "unknown"
	}
}

// statusError is implemented by errors that carry an HTTP response status.
type statusError interface {
	HTTPStatus() int
}

// Classify reports the transport category of err, or Unknown when err did not
// come from the transport (including errors thrown by the remote function).
func Classify(err error) Category {
	if err == nil {
		return Unknown
	}

	var se statusError
	if errors.As(err, &se) {
		if se.HTTPStatus() >= 500 {
			return Server
		}
		return Unknown
	}

	var uerr *url.Error
	if !errors.As(err, &uerr) {
		return Unknown
	}

	switch {
	case isTimeoutError(err):
		return Timeout
	case isDNSError(err):
		return DNS
	case isConnectionRefusedError(err):
		return ConnectionRefused
	case isSSLError(err):
		return TLS
	}
	return Unknown
}

// Hint returns a one-line troubleshooting hint for err, or "" when none applies.
func Hint(err error, host string) string {
	if host == "" {
		host = "the deployment"
	}
	switch Classify(err) {
	case Timeout:
		return "Hint: " + host + " took too long to respond; check your connection and try again."
	case DNS:
		return "Hint: cannot resolve " + host + "; check the deployment URL and your DNS settings."
	case ConnectionRefused:
		return "Hint: " + host + " refused the connection; is the deployment (or local backend) running?"
	case TLS:
		return "Hint: secure connection to " + host + " failed; check proxy settings and the system clock."
	case Server:
		return "Hint: " + host + " returned a server error; the problem is on the service side, try again later."
	default:
		return ""
	}
}

// isTimeoutError checks if the error is a timeout error.
func isTimeoutError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "deadline exceeded")
}

// isDNSError checks if the error is a DNS resolution error.
func isDNSError(err error) bool {
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}

// isConnectionRefusedError checks if the error is a connection refused error.
func isConnectionRefusedError(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) && errors.Is(opErr.Err, syscall.ECONNREFUSED) {
		return true
	}

	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "connection refused")
}

// isSSLError checks if the error is an SSL/TLS error.
func isSSLError(err error) bool {
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "tls") ||
		strings.Contains(errStr, "x509") ||
		strings.Contains(errStr, "certificate")
}

// ExtractHostFromURL extracts the hostname from a URL for error messages.
func ExtractHostFromURL(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil || u.Host == "" {
		return ""
	}
	return u.Host
}
