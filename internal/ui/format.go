package ui

import (
	"fmt"
	"time"
)

// formatSize renders a byte count with one decimal and a binary unit
func formatSize(size int64) string {
	value := float64(size)
	for _, unit := range []string{"B", "KB", "MB", "GB"} {
		if value < 1024 {
			return fmt.Sprintf("%.1f%s", value, unit)
		}
		value /= 1024
	}
	return fmt.Sprintf("%.1fTB", value)
}

// timeAgo renders the age of t relative to now
func timeAgo(now, t time.Time) string {
	if t.IsZero() {
		return "?"
	}
	diff := now.Sub(t)
	switch {
	case diff < time.Minute:
		return "now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff/time.Minute))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff/time.Hour))
	default:
		return fmt.Sprintf("%dd ago", int(diff/(24*time.Hour)))
	}
}

// fileIcon picks an icon from the file extension
func fileIcon(ext string) string {
	switch ext {
	case ".go":
		return "🐹"
	case ".py":
		return "🐍"
	case ".js", ".ts":
		return "💛"
	case ".json", ".yaml", ".yml", ".toml":
		return "⚙️"
	case ".md", ".rst":
		return "📝"
	case ".html", ".css":
		return "🌐"
	case ".sh", ".bash", ".zsh":
		return "🔧"
	default:
		return "📄"
	}
}
