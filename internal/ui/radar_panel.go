package ui

// RenderRadarPanel wraps radar content with a styled border.
// The radar grid itself comes from package radar.
func RenderRadarPanel(width, height int, radarContent, legend, caption string) string {
	content := radarContent + "\n" + legend
	if caption != "" {
		content += "\n" + StyleHelp.Render(caption)
	}
	return StylePanelBorder.Width(width - 2).Height(height - 2).Render(content)
}
