package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/p200/internal/config"
)

// RenderFooter renders the decorative page footer for the given year.
func RenderFooter(f config.FooterConfig, year int) string {
	if f.Brand == "" {
		return ""
	}

	column := func(title string, links []config.Link) string {
		var b strings.Builder
		b.WriteString(headerStyle.Render(title))
		for _, l := range links {
			b.WriteString("\n")
			b.WriteString(mutedStyle.Render(l.Label))
		}
		return b.String()
	}

	brand := lipgloss.NewStyle().Width(36).Render(
		titleStyle.Render(f.Brand) + "\n" + mutedStyle.Render(f.Tagline))
	gap := "    "
	var cols []string
	cols = append(cols, brand)
	if len(f.QuickLinks) > 0 {
		cols = append(cols, gap, column("Quick Links", f.QuickLinks))
	}
	if len(f.Legal) > 0 {
		cols = append(cols, gap, column("Legal", f.Legal))
	}

	var b strings.Builder
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cols...))
	b.WriteString("\n\n")

	if f.NewsletterTitle != "" {
		b.WriteString(headerStyle.Render(f.NewsletterTitle))
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render(f.NewsletterText))
		b.WriteString("\n\n")
	}

	if len(f.Social) > 0 {
		names := make([]string, len(f.Social))
		for i, s := range f.Social {
			names[i] = s.Label
		}
		b.WriteString(dimStyle.Render(strings.Join(names, " · ")))
		b.WriteString("\n")
	}

	b.WriteString(dimStyle.Render(fmt.Sprintf("© %d %s. All rights reserved.", year, f.Brand)))
	if f.ContractAddress != "" {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("Contract: " + f.ContractAddress))
	}
	b.WriteString("\n")
	return b.String()
}
