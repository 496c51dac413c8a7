// Package adapter holds the translation helpers shared by vendor adapters: splitting
// instruction messages from conversation turns, resolving credentials, and reading
// JSON Schema fields. Vendor implementations live in subpackages.
package adapter
