package client

import "net/http"

// UseDefaultClient routes requests through http.DefaultClient so the mock
// transport can intercept them.
func (c *Client) UseDefaultClient() {
	c.client = http.DefaultClient
}
