// Package domain defines the MCP tool surface for the Modal platform.
//
// Each tool is a pair: a Tool() constructor describing the schema and a
// Handler() constructor binding typed input/output structs to a CLI runner.
// Handlers validate arguments, build the exact argv the modal CLI expects,
// and relay the CLI's output or error without local recovery.
package domain
