package tui

type Mode int

const (
	ModeStartup Mode = iota
	ModeNormal
	ModeEditField
	ModeSource
	ModePrompt
	ModeDrag
	ModeConfirm
	ModeFileInput
)

func (m Mode) String() string {
	switch m {
	case ModeStartup:
		return "STARTUP"
	case ModeNormal:
		return "NORMAL"
	case ModeEditField:
		return "EDIT"
	case ModeSource:
		return "SOURCE"
	case ModePrompt:
		return "DRAFT"
	case ModeDrag:
		return "DRAG"
	case ModeConfirm:
		return "CONFIRM"
	case ModeFileInput:
		return "EXPORT"
	default:
		return "UNKNOWN"
	}
}

// Field is the text field being edited in ModeEditField.
type Field int

const (
	FieldTitle Field = iota
	FieldDescription
	FieldHeaderTitle
	FieldHeaderDescription
)

func (f Field) String() string {
	switch f {
	case FieldTitle:
		return "Title"
	case FieldDescription:
		return "Description"
	case FieldHeaderTitle:
		return "Roadmap title"
	case FieldHeaderDescription:
		return "Roadmap description"
	default:
		return "Field"
	}
}

type ConfirmAction int

const (
	ConfirmDeleteStage ConfirmAction = iota
	ConfirmQuit
	ConfirmNewRoadmap
)

const (
	previewRows = 9
	sourceRows  = 12
)
