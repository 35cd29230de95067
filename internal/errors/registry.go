package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

const docBase = "https://vango.dev/docs/dragsort/errors/"

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Drag Errors (E201-E299)
	// ============================================

	"E201": {
		Category: CategoryDrag,
		Message:  "Duplicate item ID",
		Detail:   "Item IDs must be unique within a container and must not use the reserved empty ID.",
		DocURL:   docBase + "E201",
	},
	"E202": {
		Category: CategoryDrag,
		Message:  "Container already initialized",
		Detail:   "A container is seeded once; later changes come from drag operations.",
		DocURL:   docBase + "E202",
	},
	"E203": {
		Category: CategoryDrag,
		Message:  "Item not measured",
		Detail:   "The item has no geometry yet. Geometry is available after the first layout pass.",
		DocURL:   docBase + "E203",
	},
	"E204": {
		Category: CategoryDrag,
		Message:  "Unknown container",
		Detail:   "No container with this ID is registered in the view.",
		DocURL:   docBase + "E204",
	},
	"E205": {
		Category: CategoryDrag,
		Message:  "Unknown item",
		Detail:   "No item with this ID is displayed in the container.",
		DocURL:   docBase + "E205",
	},

	// ============================================
	// Protocol Errors (E301-E399)
	// ============================================

	"E301": {
		Category: CategoryProtocol,
		Message:  "Invalid message",
		Detail:   "The message could not be decoded or is missing required fields.",
		DocURL:   docBase + "E301",
	},
	"E302": {
		Category: CategoryProtocol,
		Message:  "Unknown message type",
		Detail:   "The message type is not part of the protocol.",
		DocURL:   docBase + "E302",
	},

	// ============================================
	// Config Errors (E401-E499)
	// ============================================

	"E401": {
		Category: CategoryConfig,
		Message:  "Config file not found",
		Detail:   "dragsort.json was not found.",
		DocURL:   docBase + "E401",
	},
	"E402": {
		Category: CategoryConfig,
		Message:  "Config parse error",
		Detail:   "dragsort.json could not be parsed.",
		DocURL:   docBase + "E402",
	},
	"E403": {
		Category: CategoryConfig,
		Message:  "Invalid config",
		Detail:   "A configuration value is out of range.",
		DocURL:   docBase + "E403",
	},

	// ============================================
	// CLI Errors (E501-E599)
	// ============================================

	"E501": {
		Category: CategoryCLI,
		Message:  "Scenario load failed",
		Detail:   "The replay scenario could not be read or parsed.",
		DocURL:   docBase + "E501",
	},
	"E502": {
		Category: CategoryCLI,
		Message:  "Scenario step failed",
		Detail:   "A replay step referenced an unknown container or item.",
		DocURL:   docBase + "E502",
	},
}

// Lookup returns the template registered for code.
func Lookup(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Codes returns all registered error codes.
func Codes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}
