// Package httputil provides helpers for fetching datasets over HTTP.
//
// # Retry
//
// [Retry] re-runs an operation that failed with a transient error:
//
//   - Network errors
//   - 5xx server errors
//   - 429 rate limit responses
//
// Callers mark such failures with [RetryableError]; [StatusError] does so
// for the status codes above. Any other error stops the loop at once:
//
//	err := httputil.Retry(ctx, 3, time.Second, func() error {
//	    resp, err := client.Do(req)
//	    if err != nil {
//	        return &httputil.RetryableError{Err: err}
//	    }
//	    defer resp.Body.Close()
//	    if err := httputil.StatusError(resp); err != nil {
//	        return err
//	    }
//	    ...
//	})
package httputil
