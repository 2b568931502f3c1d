// Package secret resolves credential values from configuration.
//
// A configured value is either used as-is (after strict environment
// expansion, see ExpandEnvStrict) or, when it has the form
//
//	secretref:<provider>:<ref>
//
// looked up through a Provider. Two providers are built in:
//   - secretref:env:ATLASSIAN_TOKEN reads another environment variable
//   - secretref:file:/run/secrets/atlassian reads a file (trailing newline trimmed)
package secret
