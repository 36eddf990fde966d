// Package client fetches image bytes over HTTP.
//
// A Client issues one GET per call with its configured headers and buffers
// the full response. Failures come back as typed errors from pkg/errors:
//
//	data, err := client.NewClient("", log).DownloadImage(url)
//	if errors.IsType(err, errors.ErrorTypeHTTPStatus) {
//	    // non-2xx response
//	}
package client
