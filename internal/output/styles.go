package output

import (
	"github.com/charmbracelet/lipgloss"

	"wintriage/internal/domain"
)

// Styles holds all lipgloss styles for text output
var Styles = struct {
	// Severity styles
	Critical    lipgloss.Style
	Error       lipgloss.Style
	Warning     lipgloss.Style
	Information lipgloss.Style
	Verbose     lipgloss.Style

	// Component styles
	Timestamp lipgloss.Style
	Provider  lipgloss.Style

	// Summary styles
	Header  lipgloss.Style
	Label   lipgloss.Style
	Value   lipgloss.Style
	Success lipgloss.Style
	Caution lipgloss.Style
	Danger  lipgloss.Style

	// TUI styles
	Title     lipgloss.Style
	StatusBar lipgloss.Style
	Help      lipgloss.Style
}{
	// Severities - distinctive colors
	Critical:    lipgloss.NewStyle().Foreground(lipgloss.Color("201")).Bold(true).Underline(true), // Magenta bold underline
	Error:       lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),                 // Red bold
	Warning:     lipgloss.NewStyle().Foreground(lipgloss.Color("214")),                            // Orange
	Information: lipgloss.NewStyle().Foreground(lipgloss.Color("39")),                             // Cyan
	Verbose:     lipgloss.NewStyle().Foreground(lipgloss.Color("243")),                            // Gray

	// Components
	Timestamp: lipgloss.NewStyle().Foreground(lipgloss.Color("244")), // Gray
	Provider:  lipgloss.NewStyle().Foreground(lipgloss.Color("33")),  // Blue

	// Summary
	Header:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).BorderStyle(lipgloss.NormalBorder()).BorderBottom(true).BorderForeground(lipgloss.Color("239")),
	Label:   lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
	Value:   lipgloss.NewStyle().Bold(true),
	Success: lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),  // Green
	Caution: lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true), // Orange
	Danger:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true), // Red

	// TUI
	Title:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).Padding(0, 1),
	StatusBar: lipgloss.NewStyle().Background(lipgloss.Color("236")).Foreground(lipgloss.Color("252")).Padding(0, 1),
	Help:      lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
}

// SeverityStyle returns the appropriate style for a canonical severity
func SeverityStyle(sev domain.Severity) lipgloss.Style {
	switch sev {
	case domain.SeverityCritical:
		return Styles.Critical
	case domain.SeverityError:
		return Styles.Error
	case domain.SeverityWarning:
		return Styles.Warning
	case domain.SeverityInformation:
		return Styles.Information
	case domain.SeverityVerbose:
		return Styles.Verbose
	default:
		return Styles.Information
	}
}

// SeverityIndicator returns a styled short severity indicator
func SeverityIndicator(sev domain.Severity) string {
	style := SeverityStyle(sev)
	switch sev {
	case domain.SeverityCritical:
		return style.Render("CRT")
	case domain.SeverityError:
		return style.Render("ERR")
	case domain.SeverityWarning:
		return style.Render("WRN")
	case domain.SeverityInformation:
		return style.Render("INF")
	case domain.SeverityVerbose:
		return style.Render("VRB")
	default:
		return style.Render("???")
	}
}

// HealthStyle returns a style based on the worst severity seen
func HealthStyle(hasErrors, hasCriticals bool) lipgloss.Style {
	if hasCriticals {
		return Styles.Danger
	}
	if hasErrors {
		return Styles.Caution
	}
	return Styles.Success
}

// HealthLabel returns the unstyled health line for the status footer
func HealthLabel(hasErrors, hasCriticals bool) string {
	if hasCriticals {
		return "CRITICAL EVENTS DETECTED"
	}
	if hasErrors {
		return "ERRORS DETECTED"
	}
	return "OK"
}

// HealthText returns styled health text for the status table footer
func HealthText(hasErrors, hasCriticals bool) string {
	return HealthStyle(hasErrors, hasCriticals).Render(HealthLabel(hasErrors, hasCriticals))
}
