package tui

func SuccessIcon(colorize bool) string {
	return Paint(SuccessStyle, "✅", colorize)
}

func ErrorIcon(colorize bool) string {
	return Paint(ErrorStyle, "❌", colorize)
}

func WarningIcon(colorize bool) string {
	return Paint(WarningStyle, "⚠️", colorize)
}

func SkippedIcon(colorize bool) string {
	return Paint(DimStyle, "➖", colorize)
}
