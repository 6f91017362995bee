package tui

import "github.com/rgehrsitz/regimesim/internal/tui/tuistyles"

// Re-export styles from tuistyles to avoid import cycles
var (
	TitleStyle          = tuistyles.TitleStyle
	SubtitleStyle       = tuistyles.SubtitleStyle
	StatusBarStyle      = tuistyles.StatusBarStyle
	StatusKeyStyle      = tuistyles.StatusKeyStyle
	PanelStyle          = tuistyles.PanelStyle
	LabelStyle          = tuistyles.LabelStyle
	FocusedLabelStyle   = tuistyles.FocusedLabelStyle
	TableHeaderStyle    = tuistyles.TableHeaderStyle
	TableCellStyle      = tuistyles.TableCellStyle
	TableHighlightStyle = tuistyles.TableHighlightStyle
	TableMutedStyle     = tuistyles.TableMutedStyle
	ErrorStyle          = tuistyles.ErrorStyle
	InfoStyle           = tuistyles.InfoStyle

	SeriesColors   = tuistyles.SeriesColors
	FormatCurrency = tuistyles.FormatCurrency
)
