// Package httpclient provides a configurable HTTP client with built-in
// authentication, error classification, and optional retry.
//
// The base Client handles HTTP protocol concerns. The rest subpackage
// provides a JSON-focused convenience layer with generic typed methods.
//
// # Basic Usage
//
//	client, err := httpclient.New(httpclient.Config{
//	    BaseURL: "http://localhost:3000",
//	    Timeout: 30 * time.Second,
//	    Auth:    httpclient.BearerAuth("my-token"),
//	})
//
//	resp, err := client.Do(ctx, httpclient.Request{
//	    Method: http.MethodGet,
//	    Path:   "/api/health",
//	})
package httpclient
