package network

import "fmt"

// Mode selects how directional trade reports are harmonized into edges.
type Mode int

const (
	// ModeImport keeps import-side reports only: a flow reported by X
	// with partner Y becomes the edge Y -> X (the partner is the shipper).
	ModeImport Mode = iota
	// ModeExport keeps export-side reports only: a flow reported by X
	// with partner Y becomes the edge X -> Y.
	ModeExport
	// ModeBoth derives both directions and averages the two weights when
	// the same logical edge is reported from both sides, reconciling the
	// double-reporting inherent in bilateral trade statistics.
	ModeBoth
)

// String returns the string representation of a mode.
func (m Mode) String() string {
	switch m {
	case ModeImport:
		return "import"
	case ModeExport:
		return "export"
	case ModeBoth:
		return "both"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

func (m Mode) valid() bool {
	return m == ModeImport || m == ModeExport || m == ModeBoth
}

// ParseMode converts a string to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "import":
		return ModeImport, nil
	case "export":
		return ModeExport, nil
	case "both":
		return ModeBoth, nil
	default:
		return 0, invalidModeError(s)
	}
}
