// Package errors provides coded, structured errors for hookdom.
//
// The hooks engine and the reconciler deliberately report nothing: a caller
// that breaks their contract gets corrupted slots or a host crash. The places
// that do fail with an error value (configuration, the wire protocol, journal
// replay, recovered render passes, debug hook-order findings) build a
// HookdomError from a registered code so the CLI and logs can show the same
// message, detail and hint everywhere.
//
// # Error Codes
//
//   - E100-E119: runtime (hooks, builder, render passes)
//   - E120-E139: protocol (frames, journals)
//   - E140-E159: config
//
// # Usage
//
//	err := errors.New("E141").
//	    WithDetail("server.port must be between 1 and 65535").
//	    WithSuggestion("Set server.port in hookdom.json")
//
//	fmt.Println(err.Format())
package errors
