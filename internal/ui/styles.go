// Package ui holds the terminal styling used by CLI output.
package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/projmem/projmem/models"
)

var (
	// Colors
	ColorPrimary   = lipgloss.Color("205") // Pink
	ColorSecondary = lipgloss.Color("241") // Gray
	ColorSuccess   = lipgloss.Color("42")  // Green
	ColorError     = lipgloss.Color("160") // Red
	ColorWarning   = lipgloss.Color("214") // Orange
	ColorText      = lipgloss.Color("252") // White/Gray
	ColorInfo      = lipgloss.Color("75")  // Blue

	// Base Styles
	StyleTitle   = lipgloss.NewStyle().Foreground(ColorText).Bold(true)
	StyleSubtle  = lipgloss.NewStyle().Foreground(ColorSecondary)
	StyleHeader  = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess)
	StyleError   = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning)
	StyleInfo    = lipgloss.NewStyle().Foreground(ColorInfo)
)

// StatusStyle returns the style for a task status badge.
func StatusStyle(s models.TaskStatus) lipgloss.Style {
	switch s {
	case models.StatusCompleted:
		return StyleSuccess
	case models.StatusInProgress:
		return StyleInfo
	case models.StatusBlocked:
		return StyleError
	default:
		return StyleSubtle
	}
}

// SeverityStyle returns the style for a blocker severity badge.
func SeverityStyle(s models.Severity) lipgloss.Style {
	switch s {
	case models.SeverityCritical:
		return StyleError
	case models.SeverityHigh:
		return StyleWarning
	case models.SeverityMedium:
		return StyleInfo
	default:
		return StyleSubtle
	}
}

// PriorityStyle returns the style for a task priority badge.
func PriorityStyle(p models.TaskPriority) lipgloss.Style {
	switch p {
	case models.PriorityHigh:
		return StyleWarning
	case models.PriorityLow:
		return StyleSubtle
	default:
		return StyleInfo
	}
}
