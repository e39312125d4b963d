package discord

import (
	"fmt"
	"strings"
)

// FormatBold formats text as bold in Discord
func FormatBold(text string) string {
	return "**" + text + "**"
}

// FormatItalic formats text as italic in Discord
func FormatItalic(text string) string {
	return "*" + text + "*"
}

// FormatList formats items as a Discord list
func FormatList(items []string, ordered bool) string {
	var list []string
	for i, item := range items {
		if ordered {
			list = append(list, fmt.Sprintf("%d. %s", i+1, item))
		} else {
			list = append(list, "• "+item)
		}
	}
	return strings.Join(list, "\n")
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"~", `\~`,
	"`", "\\`",
	"|", `\|`,
	">", `\>`,
)

// EscapeMarkdown stops dataset text from being read as Discord markdown
func EscapeMarkdown(text string) string {
	return markdownEscaper.Replace(text)
}
