// Package restrictions evaluates the declarative include/exclude-tag rules
// that decide which videos are password-gated in the rendered library.
package restrictions
