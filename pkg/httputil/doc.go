// Package httputil fetches remote record files over HTTP.
//
// [Client] issues GET requests with a timeout and default headers. Network
// failures and 5xx responses are wrapped in [RetryableError] and retried by
// [Retry] with exponential backoff; 404 responses map to FILE_NOT_FOUND.
//
//	c := httputil.NewClient(nil)
//	data, err := c.Fetch(ctx, "https://example.com/requests.json")
//
// [IsURL] tells file paths and URLs apart, so callers can accept either as
// an input argument.
package httputil
