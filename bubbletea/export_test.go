package bubbletea

// RenderContent exports renderContent for testing.
func RenderContent(m Model) string {
	return m.renderContent()
}

// SidebarFocused reports whether the history sidebar has focus.
func SidebarFocused(m Model) bool {
	return m.sidebarFocus
}

// Selected returns the highlighted sidebar row.
func Selected(m Model) int {
	return m.selected
}
