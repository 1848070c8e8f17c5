// Package tools defines tool schemas and implementations, the registry
// that assembles the available tool set at startup, and the dispatcher
// that resolves and executes model-issued tool calls.
//
// Tool resolution is deliberately tolerant: a call naming an unknown
// tool is skipped rather than failed, and a tool implementation error
// is converted into a textual tool result the model can see. Neither
// aborts the conversation.
package tools
