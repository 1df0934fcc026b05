// Package mcpserver exposes the portrait wizard as MCP tools so an
// assistant or a script can drive a session without the terminal UI.
//
// Each tool maps onto one wizard operation. Tools answer with the session
// status as JSON, or with a tool error carrying the message a person at
// the kiosk would have seen. The server speaks stdio or SSE, chosen by
// the mcp section of the configuration.
package mcpserver
