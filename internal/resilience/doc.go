// Package resilience provides the fault tolerance building blocks for
// outbound fetches: circuit breakers and retry with exponential backoff.
// Feed fetches, site scrapes, and article-page image lookups each carry
// their own tuned profile.
//
// Usage:
//
//	cb := circuitbreaker.New(circuitbreaker.FeedFetchConfig())
//	result, err := cb.Execute(func() (interface{}, error) {
//	    return fetchFeed()
//	})
//
//	err := retry.WithBackoff(ctx, retry.ScrapeConfig(), func() error {
//	    return fetchPage()
//	})
package resilience
