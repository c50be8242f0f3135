package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Runtime Errors (E100-E119)
	// ============================================

	"E100": {
		Category: CategoryRuntime,
		Message:  "Hook call count changed between render passes",
		Detail:   "Hooks are addressed by call order. A pass that calls UseState or UseMemo a different number of times reads other call sites' state.",
	},
	"E101": {
		Category: CategoryRuntime,
		Message:  "Hook slot type mismatch",
		Detail:   "The slot at this position holds a value of another type, so hook call order differs from the previous pass.",
	},
	"E102": {
		Category: CategoryRuntime,
		Message:  "Unexpected child shape",
		Detail:   "Children must be *vdom.VNode or string values. Slices are not flattened.",
	},
	"E110": {
		Category: CategoryRuntime,
		Message:  "Render pass panicked",
		Detail:   "The host tree may be partially updated.",
	},

	// ============================================
	// Protocol Errors (E120-E139)
	// ============================================

	"E120": {
		Category: CategoryProtocol,
		Message:  "Journal path does not resolve",
		Detail:   "A mutation addresses a node that does not exist in the mirror tree.",
	},
	"E121": {
		Category: CategoryProtocol,
		Message:  "Malformed frame",
		Detail:   "The frame or its payload could not be encoded or decoded.",
	},

	// ============================================
	// Config Errors (E140-E159)
	// ============================================

	"E140": {
		Category: CategoryConfig,
		Message:  "Cannot load configuration",
		Detail:   "The configuration file could not be read or parsed.",
	},
	"E141": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
	},
}

// GetAllCodes returns all registered error codes.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
