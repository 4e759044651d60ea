package interfaces

import "context"

// -----------------------------------------------------------------------------
// INetworkManager defines the contract for outbound HTTP requests.
// -----------------------------------------------------------------------------

type INetworkManager interface {

	// -----------------------------------------------------------------------------

	// Get performs one GET request to the specified URL with parameters.
	// Returns the response body on 200. Any other status is returned as a
	// *network.HTTPStatusError carrying the body.
	Get(ctx context.Context, url string, params map[string]string) ([]byte, error)
}
