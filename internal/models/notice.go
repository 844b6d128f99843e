package models

// Level of a user notification.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notice is a short message shown to the user after an action.
type Notice struct {
	Level   Level
	Message string
}
