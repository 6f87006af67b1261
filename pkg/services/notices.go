package services

import (
	"fmt"
	"strings"

	"github.com/kerbaras/lucollection/pkg/data"
)

// KindLabel is the plural display name of a kind.
func KindLabel(kind data.Kind) string {
	if kind == data.KindTheme {
		return "themes"
	}
	return "characters"
}

// OverwriteNotice describes what the next import of kind will do.
func OverwriteNotice(kind data.Kind, overwrite bool) string {
	switch {
	case kind == data.KindTheme && overwrite:
		return "Importing a theme now overwrites a theme with the same name"
	case kind == data.KindTheme:
		return "Importing a theme now creates a new copy next to one with the same name"
	case overwrite:
		return "Importing a character now overwrites a card with the same file name"
	default:
		return "Importing a character now creates a new copy"
	}
}

// ImportNotice is the message shown after importing one entry.
func ImportNotice(entry data.ManifestEntry, result data.ImportResult, overwrite bool, err error) string {
	if entry.Kind == data.KindTheme {
		if err != nil {
			return fmt.Sprintf("Theme %q failed to import: %v", entry.Name, err)
		}
		detail := ""
		switch {
		case result.WasRenamed:
			detail = fmt.Sprintf(" (renamed to %q)", result.FinalName)
		case overwrite:
			detail = " (overwrote the theme with the same name)"
		}
		return fmt.Sprintf("Theme %q imported%s. Refresh the page to see it in the theme picker.", entry.Name, detail)
	}

	if err != nil {
		return fmt.Sprintf("Character %q failed to import: %v", entry.Name, err)
	}
	detail := " (created a new copy)"
	if overwrite {
		detail = " (overwrote the card with the same name)"
	}
	return fmt.Sprintf("Character %q imported%s. Refresh the page to see it in the character list.", entry.Name, detail)
}

// BatchSummary is the message shown after installing every entry of kind.
func BatchSummary(kind data.Kind, tally *Tally) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Installed %d of %d %s.", tally.Succeeded, tally.Total, KindLabel(kind))
	if tally.Failed > 0 {
		fmt.Fprintf(&b, " %d failed.", tally.Failed)
	}
	if tally.Succeeded > 0 {
		b.WriteString(" Refresh the page to see them.")
	}
	if len(tally.Renamed) > 0 {
		b.WriteString("\nRenamed to avoid name clashes:")
		for _, r := range tally.Renamed {
			fmt.Fprintf(&b, "\n  %q → %q", r.From, r.To)
		}
	}
	return b.String()
}

// Guide returns the install guide for kind, including the current setting.
func Guide(kind data.Kind, settings data.Settings) []string {
	overwrite := settings.Overwrite(kind)
	if kind == data.KindTheme {
		status := "creates a new copy"
		if overwrite {
			status = "overwrites themes with the same name"
		}
		return []string{
			`Prefer "install all themes".`,
			"If that fails, export the theme files and install them by hand.",
			"Put the JSON files in the host's themes directory.",
			"Refresh the page.",
			"Pick the new theme in the user settings.",
			"Current setting: importing " + status + ".",
		}
	}

	status := "creates a new copy"
	if overwrite {
		status = "overwrites cards with the same file name"
	}
	return []string{
		`Prefer "install all characters".`,
		"PNG and JSON cards are both supported.",
		"Imported cards are added to the character list.",
		"Refresh the page to see them in the character picker.",
		"Cards can also be imported one at a time.",
		"Use the description view to read about a character before importing it.",
		"Current setting: importing " + status + ".",
	}
}
