// Package llmprovider defines a provider-neutral request/response contract for
// large language model backends. Callers build a Request from role-tagged
// messages and hand it to any Provider; adapters in subpackages translate it to
// a vendor wire format and normalize the answer back into a Response.
package llmprovider
