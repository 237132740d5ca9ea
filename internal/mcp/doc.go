// Package mcp exposes the documentation pipeline over the Model Context
// Protocol. Tools cover the project lifecycle (register, list, delete),
// pipeline launches, status polling, retrieval queries and site-map
// inspection. The server speaks MCP over stdio.
package mcp
