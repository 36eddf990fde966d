// Package ratelimit paces downloads with a continuously refilling token bucket.
//
// Pacing is off unless a positive requests-per-minute value is configured:
//
//	if l := ratelimit.PerMinute(cfg.Download.RequestsPerMinute); l != nil {
//	    l.Wait()
//	}
package ratelimit
