// Package mcp connects plauder to Model Context Protocol servers and
// exposes their tools as regular tools.Tool values, so the engine treats
// them exactly like builtins.
package mcp
