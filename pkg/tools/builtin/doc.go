// Package builtin provides the tools that ship with plauder: current
// date/time, shell command execution, and URL fetching. Each is exposed
// as a tools.Tool and enabled by name through configuration.
package builtin
