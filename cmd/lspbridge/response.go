package main

import (
	"encoding/json"

	mcp_golang "github.com/metoro-io/mcp-golang"
)

// textResponse marshals an operation's structured result to JSON and
// wraps it as a single text content block, the shape every operation
// result in internal/operations is designed to cross the agent-channel
// boundary as.
func textResponse(result any) (*mcp_golang.ToolResponse, error) {
	body, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}
	return mcp_golang.NewToolResponse(mcp_golang.NewTextContent(string(body))), nil
}
