package client_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonwraymond/govql/auth"
	"github.com/jonwraymond/govql/client"
)

// Example demonstrates constructing a client with custom resilience
// settings and classifying a failure by error type.
func Example() {
	tokens := auth.NewStaticTokenProvider("api-token")

	c := client.New("https://api.example.com/graphql", tokens,
		client.WithValidation(true),
		client.WithRetry(2, time.Second),
		client.WithMaxRequestsPerMinute(10),
	)

	_, err := c.Query(context.Background(), `query { organizations {`, nil)

	var valErr *client.ValidationError
	if errors.As(err, &valErr) {
		fmt.Println("rejected before dispatch")
	}
	// Output: rejected before dispatch
}

// ExampleClient_CacheStats shows inspecting the cache after use.
func ExampleClient_CacheStats() {
	c := client.New("https://api.example.com/graphql",
		auth.NewStaticTokenProvider("api-token"),
		client.WithCacheMaxAge(time.Minute),
	)

	stats := c.CacheStats(context.Background())
	fmt.Println(stats.Size, stats.Hits, stats.Misses)
	// Output: 0 0 0
}
