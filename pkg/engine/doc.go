// Package engine implements the conversation core: it owns the message
// history of a single chat, resolves model turns against a
// provider.Transport, and feeds tool results back to the model until a
// final answer arrives.
package engine
