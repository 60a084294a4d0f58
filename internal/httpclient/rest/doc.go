// Package rest provides a JSON-focused REST client with generic typed
// methods on top of the base httpclient.
package rest
