// Package httputil provides the HTTP plumbing shared by the directory client
// and the preview server.
//
// # Retry
//
// [Policy] re-runs an operation with capped exponential backoff, but only
// for errors wrapped in [RetryableError]. [CheckStatus] classifies a response
// status the same way: 5xx and 429 are retryable, 404 is [ErrNotFound], any
// other non-2xx status is a permanent failure.
//
//	p := httputil.Policy{Attempts: 3, Delay: 200 * time.Millisecond}
//	err := p.Do(ctx, func() error {
//	    resp, err := client.Do(req)
//	    if err != nil {
//	        return &httputil.RetryableError{Err: err}
//	    }
//	    defer resp.Body.Close()
//	    return httputil.CheckStatus(resp.StatusCode)
//	})
//
// # Clients
//
// [NewHTTPClient] returns an *http.Client with a bounded timeout so a stalled
// server cannot hang a browse session.
package httputil
