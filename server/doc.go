// Package server exposes the wallet over HTTP with JSON encoded requests and
// responses.
package server
