// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package styles holds the lipgloss styles used for status lines.
package styles

import "github.com/charmbracelet/lipgloss"

const (
	Red    = "#FF6188" // Errors
	Orange = "#FC9867" // Warnings
	Green  = "#A9DC76" // Success
	Grey   = "#727072" // Dim text
)

var (
	SuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(Green))
	ErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(Red))
	WarningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(Orange))
	DimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color(Grey))
)
