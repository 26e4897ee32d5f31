package note

// Focus is the panel receiving navigation input.
type Focus int

const (
	FocusSections Focus = iota
	FocusDetails
	FocusSearch
)

// Next advances Sections → Details → Search → Sections.
func (f Focus) Next() Focus {
	return (f + 1) % 3
}

// Prev is the reverse of Next.
func (f Focus) Prev() Focus {
	return (f + 2) % 3
}

func (f Focus) String() string {
	switch f {
	case FocusDetails:
		return "details"
	case FocusSearch:
		return "search"
	default:
		return "sections"
	}
}

// Mode is the state of the interactive session.
type Mode int

const (
	ModeNormal Mode = iota
	ModeAdding
	ModeEditing
	ModeViewing
	ModeSearching
	ModeHelp
	ModeExporting
)

func (m Mode) String() string {
	switch m {
	case ModeAdding:
		return "adding"
	case ModeEditing:
		return "editing"
	case ModeViewing:
		return "viewing"
	case ModeSearching:
		return "searching"
	case ModeHelp:
		return "help"
	case ModeExporting:
		return "exporting"
	default:
		return "normal"
	}
}

// PopupFocus selects the detail field that receives text input.
type PopupFocus int

const (
	PopupTitle PopupFocus = iota
	PopupDescription
	PopupCode
)

// Next advances Title → Description → Code → Title.
func (p PopupFocus) Next() PopupFocus {
	return (p + 1) % 3
}

// Prev is the reverse of Next.
func (p PopupFocus) Prev() PopupFocus {
	return (p + 2) % 3
}

func (p PopupFocus) String() string {
	switch p {
	case PopupDescription:
		return "description"
	case PopupCode:
		return "code"
	default:
		return "title"
	}
}
