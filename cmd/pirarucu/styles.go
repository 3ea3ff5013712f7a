package main

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary = lipgloss.Color("12")  // bright blue
	colorDim     = lipgloss.Color("240") // gray
	colorTotal   = lipgloss.Color("10")  // bright green

	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	styleLabel = lipgloss.NewStyle().
			Foreground(colorDim).
			Width(14)

	styleTotal = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorTotal)

	styleBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Padding(0, 1)
)
