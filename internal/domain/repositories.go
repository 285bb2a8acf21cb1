package domain

import "context"

// CatalogClient fetches catalog pages from the network (implemented by swapi.Client)
type CatalogClient interface {
	// FetchPage returns one page of planets. page <= 0 requests the first page.
	FetchPage(ctx context.Context, page int) (*Page, error)
}

// ConnectivityProbe reports current network reachability.
// IsReachable is synchronous and has no side effects.
type ConnectivityProbe interface {
	IsReachable() bool
}
