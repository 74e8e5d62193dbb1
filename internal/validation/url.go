// Package validation checks URLs that end up in rendered markup or in
// origin checks.
package validation

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidateLinkHref accepts absolute http(s) URLs with a host and
// site-relative paths. Other schemes such as javascript: are rejected.
func ValidateLinkHref(href string) error {
	if strings.TrimSpace(href) == "" {
		return fmt.Errorf("href cannot be empty")
	}

	if strings.ContainsAny(href, "\"'<>` \n\r\t") {
		return fmt.Errorf("href contains a character that is not allowed in a link: %q", href)
	}

	if strings.HasPrefix(href, "/") && !strings.HasPrefix(href, "//") {
		return nil
	}

	parsed, err := url.Parse(href)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("invalid URL scheme: %q (only http/https allowed)", parsed.Scheme)
	}

	if parsed.Host == "" {
		return fmt.Errorf("URL must have a valid hostname")
	}

	return nil
}

// ValidateOrigin accepts a browser origin: scheme and host with an
// optional port, nothing else.
func ValidateOrigin(origin string) error {
	parsed, err := url.Parse(origin)
	if err != nil {
		return fmt.Errorf("invalid origin: %w", err)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("origin %q needs an http or https scheme", origin)
	}

	if parsed.Host == "" {
		return fmt.Errorf("origin %q has no host", origin)
	}

	if parsed.Path != "" || parsed.RawQuery != "" || parsed.Fragment != "" || parsed.User != nil {
		return fmt.Errorf("origin %q must not carry a path, query or credentials", origin)
	}

	return nil
}

// OriginHost returns the host[:port] part of a valid origin, or "" when
// the origin does not parse.
func OriginHost(origin string) string {
	if ValidateOrigin(origin) != nil {
		return ""
	}

	parsed, _ := url.Parse(origin)

	return parsed.Host
}
