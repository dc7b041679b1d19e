package release

import "strings"

// Telegram messages use HTML parse mode; <b> is the only markup emitted.
const notesLimit = 500

// importantKeywords are scanned case-insensitively against the full
// (untruncated) release notes. Each match adds its own warning line,
// in this order.
var importantKeywords = []string{
	"breaking change",
	"upgrade required",
	"mandatory upgrade",
}

// FormatMessage renders the notification text for a new release.
func FormatMessage(project string, rel *Release) string {
	v := ParseVersion(rel.TagName)

	lines := []string{
		"🔔 <b>New " + project + " Release!</b>",
		"\n<b>Version:</b> " + rel.TagName,
		"<b>Name:</b> " + rel.Name,
	}

	if v.Prerelease {
		lines = append(lines, "\n⚠️ <b>Note:</b> This is a pre-release version")
	}

	lines = append(lines, "\n<b>Release URL:</b> "+rel.HTMLURL)

	if len(rel.Assets) > 0 {
		lines = append(lines, "\n<b>Available Downloads:</b>")
		for _, a := range rel.Assets {
			lines = append(lines, "• "+a.Name)
		}
	}

	lines = append(lines, "\n<b>Release Notes:</b>\n"+truncateNotes(rel.Body))

	notesLower := strings.ToLower(rel.Body)
	for _, kw := range importantKeywords {
		if strings.Contains(notesLower, kw) {
			lines = append(lines, "\n⚠️ <b>IMPORTANT:</b> This release contains a "+kw+"!")
		}
	}

	return strings.Join(lines, "\n")
}

// truncateNotes hard-cuts long notes at 497 runes + "...".
// Not word-boundary aware; Telegram has its own message limits downstream.
func truncateNotes(notes string) string {
	rs := []rune(notes)
	if len(rs) <= notesLimit {
		return notes
	}
	return string(rs[:notesLimit-3]) + "..."
}
