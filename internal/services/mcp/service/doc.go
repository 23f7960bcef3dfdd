// Package service hosts the MCP server: tool registration, transport
// selection, and lifecycle. Tool semantics live in the domain package;
// this package only wires them to a CLI runner and a transport.
package service
