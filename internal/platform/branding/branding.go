// Package branding centralizes user-visible naming for the project.
package branding

// AppName is the display name used when identifying this server to clients.
const AppName = "Modal MCP"
