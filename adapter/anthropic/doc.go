// Package anthropic provides an llmprovider.Provider for the Anthropic Messages API.
//
// System and developer messages become the system prompt; every other message is sent
// as a user or assistant turn with its content rendered by llmprovider.ContentString.
// A request whose ResponseFormat carries a JSON Schema is sent with a single tool built
// from that schema and a tool_choice forcing the model to call it; the tool input comes
// back as indented JSON in Response.Content. If the model does not call the tool the
// content is empty.
//
// The key is taken from ExecutionOptions.APIKey or ANTHROPIC_API_KEY and must look like
// "sk-ant-...". Vendor errors are returned as *llmprovider.ProviderError with credential
// material removed by the configured redact.Sanitizer.
package anthropic
