// Package requestfile loads llmprovider requests from YAML or JSON documents.
//
// A document has a model, a list of messages (content is a string, a list of
// strings or null), an optional response_format and an options block read with
// llmprovider.OptionsFromMap:
//
//	model: claude-3-5-haiku-20241022
//	messages:
//	  - role: system
//	    content: You are helpful.
//	  - role: user
//	    content: Hello!
//	options:
//	  max_tokens: 512
//	  timeout: 30s
package requestfile
