// Bani AI - Scripture Content and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baniai

package config

import (
	"fmt"
	"net/url"
)

// atlasHostPrefix is the cluster host prefix of the Bani AI Atlas deployment.
const atlasHostPrefix = "baniaidb"

// ConnectionURI returns the MongoDB connection string. An explicit URI wins;
// otherwise an Atlas SRV URI is built from the credentials and cluster name:
//
//	mongodb+srv://<user>:<password>@baniaidb.<cluster>.mongodb.net/
func (m *MongoConfig) ConnectionURI() (string, error) {
	if m.URI != "" {
		return m.URI, nil
	}
	if m.Username == "" || m.Password == "" || m.ClusterName == "" {
		return "", fmt.Errorf("mongo: username, password and cluster name are required when no URI is set")
	}
	u := url.URL{
		Scheme: "mongodb+srv",
		User:   url.UserPassword(m.Username, m.Password),
		Host:   fmt.Sprintf("%s.%s.mongodb.net", atlasHostPrefix, m.ClusterName),
		Path:   "/",
	}
	return u.String(), nil
}

// validateMongoURI checks the scheme and host of an explicit connection string.
func validateMongoURI(rawURL string) error {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("MONGO_URI failed to parse URL: %w", err)
	}
	if parsedURL.Scheme != "mongodb" && parsedURL.Scheme != "mongodb+srv" {
		return fmt.Errorf("MONGO_URI scheme must be mongodb or mongodb+srv, got: %s", parsedURL.Scheme)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("MONGO_URI host is required")
	}
	return nil
}

// validateHTTPURL validates that a URL is an HTTP/HTTPS base URL.
// A path prefix such as /v2 is allowed; query parameters are not.
func validateHTTPURL(rawURL, fieldName string) error {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%s failed to parse URL: %w", fieldName, err)
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("%s scheme must be http or https, got: %s", fieldName, parsedURL.Scheme)
	}

	if parsedURL.Host == "" {
		return fmt.Errorf("%s host is required", fieldName)
	}

	if parsedURL.RawQuery != "" {
		return fmt.Errorf("%s should not contain query parameters, remove: ?%s", fieldName, parsedURL.RawQuery)
	}

	return nil
}
