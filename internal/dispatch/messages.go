package dispatch

// Markers prefixed to titles this tool emits.
const (
	markerTool    = "🔐"
	markerKey     = "🔑"
	markerList    = "📋"
	markerWarn    = "⚠️"
	markerSuccess = "✅"
	markerFailure = "❌"
)

// reservedMarkers never appear in a label or secret typed by the user; a
// query containing one is a result title fed back by the launcher.
var reservedMarkers = []string{markerTool, markerKey, markerList, markerWarn, markerSuccess, markerFailure}

// helpMarkers are the markers used on help rows.
var helpMarkers = []string{markerTool, markerKey, markerList, markerWarn}

// Titles of status banners.
const (
	titleDeleted        = markerSuccess + " Deleted"
	titleDeleteFailed   = "Delete failed"
	titleCleared        = markerSuccess + " Cleared"
	titleClearedNothing = "Cleared"
	titlePartialClear   = markerWarn + " Partially cleared"
	titleConfirmClear   = markerWarn + " Confirm clear"
	titleStorageError   = markerFailure + " Storage error"
	titleGenerateError  = markerFailure + " Generation failed"
	titleUnexpected     = markerFailure + " Unexpected error"
	titleTyping         = "Typing..."
	titleNotFound       = "Password not found"
	titleNoPasswords    = "No passwords saved"
	titleInvalidLength  = "Invalid length"
)

// Titles of usage rows, shared by help and the command usage hints.
const (
	titleGenerate   = "Generate password"
	titleSave       = "Save password"
	titleFind       = "Find password"
	titleList       = "List passwords"
	titleDelete     = "Delete password"
	titleClear      = "Clear passwords"
	titleRegenerate = "Regenerate password"
)

// systemMessages are titles this tool emits without a marker. Seeing one as
// a query means the launcher echoed it back; several of them would
// otherwise parse as "<label> <secret>".
var systemMessages = map[string]bool{
	titleDeleted:        true,
	"Deleted":           true,
	titleDeleteFailed:   true,
	titleCleared:        true,
	titleClearedNothing: true,
	"Clear failed":      true,
	titleTyping:         true,
	titleNotFound:       true,
	titleNoPasswords:    true,
	titleInvalidLength:  true,
	titleGenerate:       true,
	titleSave:           true,
	titleFind:           true,
	titleList:           true,
	titleDelete:         true,
	titleClear:          true,
	titleRegenerate:     true,
}

const (
	notFoundHint  = "Save one with '<label> <password>' or generate one with '<length> <label>'"
	secretPreview = 20
)
