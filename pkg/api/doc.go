// Package api defines the shared data model for plauder: chat roles,
// messages, image attachments, and model-issued tool calls, all in the
// Ollama wire shape so they can be sent to the transport without
// translation. It also provides the structured error types used across
// package boundaries.
package api
