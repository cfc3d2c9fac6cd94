package errors

import "sort"

// Template defines a registered error type.
type Template struct {
	Category Category
	Message  string
	Detail   string
}

// Registered error codes.
const (
	CodeRouteNotFound    = "E100"
	CodeInvalidPath      = "E101"
	CodeUnknownRoute     = "E102"
	CodeMissingParam     = "E103"
	CodeInvalidParam     = "E104"
	CodeNoHistory        = "E105"
	CodeDuplicateName    = "E110"
	CodeDuplicatePattern = "E111"
	CodeMalformedPattern = "E112"
	CodeEmptyTable       = "E113"
	CodeConfigInvalid    = "E120"
	CodeConfigFormat     = "E121"
	CodeConfigPort       = "E122"
	CodeConfigEnv        = "E123"
	CodeConfigNotFound   = "E141"
	CodeServerStart      = "E160"
	CodeAssetStore       = "E161"
	CodeTelemetry        = "E162"
	CodeInvalidArgument  = "E180"
)

// registry maps error codes to their templates.
var registry = map[string]Template{
	// ============================================
	// Routing Errors (E100-E109)
	// ============================================

	CodeRouteNotFound: {
		Category: CategoryRouting,
		Message:  "Route not found",
		Detail:   "The URL does not match any entry of the route table. There is no catch-all entry, so the not-found state is final.",
	},
	CodeInvalidPath: {
		Category: CategoryRouting,
		Message:  "Invalid navigation path",
		Detail:   "The path contains a backslash, a NUL byte, a malformed percent escape, or climbs above the root.",
	},
	CodeUnknownRoute: {
		Category: CategoryRouting,
		Message:  "Unknown route name",
		Detail:   "Programmatic navigation referenced a name that is not declared in the route table.",
	},
	CodeMissingParam: {
		Category: CategoryRouting,
		Message:  "Missing route parameter",
		Detail:   "The route pattern declares a parameter that was not supplied.",
	},
	CodeInvalidParam: {
		Category: CategoryRouting,
		Message:  "Invalid route parameter",
		Detail:   "A parameter value is empty, contains a slash, or cannot be decoded into the view input.",
	},
	CodeNoHistory: {
		Category: CategoryRouting,
		Message:  "No history entry",
		Detail:   "Back or forward navigation ran past the end of the navigation history.",
	},

	// ============================================
	// Route Table Errors (E110-E119)
	// ============================================

	CodeDuplicateName: {
		Category: CategoryTable,
		Message:  "Duplicate route name",
		Detail:   "Route names are used for programmatic navigation and must be unique within a table.",
	},
	CodeDuplicatePattern: {
		Category: CategoryTable,
		Message:  "Duplicate route pattern",
		Detail:   "Two entries share the same structure, so the later one could never match.",
	},
	CodeMalformedPattern: {
		Category: CategoryTable,
		Message:  "Malformed route pattern",
		Detail:   "Patterns start with '/', parameters are written ':name', and a parameter name appears once per pattern.",
	},
	CodeEmptyTable: {
		Category: CategoryTable,
		Message:  "Empty route table",
		Detail:   "A route table needs at least one entry.",
	},

	// ============================================
	// Configuration Errors (E120-E149)
	// ============================================

	CodeConfigInvalid: {
		Category: CategoryConfig,
		Message:  "Invalid configuration file",
		Detail:   "The configuration file could not be read or parsed.",
	},
	CodeConfigFormat: {
		Category: CategoryConfig,
		Message:  "Unsupported configuration format",
		Detail:   "Configuration files must end in .json or .toml.",
	},
	CodeConfigPort: {
		Category: CategoryConfig,
		Message:  "Invalid port",
		Detail:   "The server port must be between 0 and 65535.",
	},
	CodeConfigEnv: {
		Category: CategoryConfig,
		Message:  "Invalid environment override",
		Detail:   "A TRENDING_* environment variable could not be parsed.",
	},
	CodeConfigNotFound: {
		Category: CategoryConfig,
		Message:  "Configuration not found",
		Detail:   "No trending.json or trending.toml was found.",
	},

	// ============================================
	// Server Errors (E160-E179)
	// ============================================

	CodeServerStart: {
		Category: CategoryServer,
		Message:  "Server failed",
		Detail:   "The HTTP server could not listen or stopped unexpectedly.",
	},
	CodeAssetStore: {
		Category: CategoryServer,
		Message:  "Asset store unavailable",
		Detail:   "The application shell could not be read from the configured asset store.",
	},
	CodeTelemetry: {
		Category: CategoryServer,
		Message:  "Tracing setup failed",
		Detail:   "The OTLP trace exporter could not be created.",
	},

	// ============================================
	// CLI Errors (E180-E199)
	// ============================================

	CodeInvalidArgument: {
		Category: CategoryCLI,
		Message:  "Invalid argument",
		Detail:   "A command-line argument or request parameter is malformed.",
	},
}

// Lookup returns the template registered for a code.
func Lookup(code string) (Template, bool) {
	t, ok := registry[code]
	return t, ok
}

// Codes returns all registered codes in ascending order.
func Codes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
