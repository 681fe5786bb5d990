package cmd

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/forgeapps/advsearch/pkg/query"
	"github.com/forgeapps/advsearch/pkg/search"
)

// Define styles using lipgloss
var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214")).
			Margin(1, 0, 1, 0)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	sourceTagStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("33")).
			Bold(true)

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	urlStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("33"))

	noDataStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true).
			Margin(1, 0)
)

var sourceCaser = cases.Title(language.English)

// printResultView renders one page of search results to the terminal.
func printResultView(spec *query.FilterSpec, view *search.ResultView) {
	header := fmt.Sprintf("Search results, page %d (%d results)", view.Page, view.TotalDisplayed)
	if spec.RawQuery != "" {
		header = fmt.Sprintf("Search results for %q, page %d (%d results)", spec.RawQuery, view.Page, view.TotalDisplayed)
	}
	fmt.Println(headerStyle.Render(header))

	if view.TotalDisplayed == 0 {
		fmt.Println(noDataStyle.Render("No results."))
		return
	}

	for i, m := range view.Items {
		tag := sourceTagStyle.Render("[" + sourceCaser.String(m.Source) + "]")
		fmt.Printf("%d. %s %s\n", i+1, tag, titleStyle.Render(m.Title))
		if m.Summary != "" {
			fmt.Printf("   %s\n", m.Summary)
		}
		meta := formatResultDate(m.Timestamp)
		if m.Author != "" {
			meta = fmt.Sprintf("by %s, %s", m.Author, meta)
		}
		fmt.Printf("   %s\n", metaStyle.Render(meta))
		fmt.Printf("   %s\n", urlStyle.Render(m.Href))
		if i < len(view.Items)-1 {
			fmt.Println()
		}
	}

	if view.HasNextPage {
		fmt.Println()
		fmt.Println(metaStyle.Render(fmt.Sprintf("More results available; rerun with --page %d", view.Page+1)))
	}
}

// formatResultDate formats a result timestamp relative to now or as an
// absolute date.
func formatResultDate(t time.Time) string {
	now := time.Now()
	diff := now.Sub(t)

	if diff >= 0 && diff < 24*time.Hour {
		if diff < time.Hour {
			minutes := int(diff.Minutes())
			if minutes < 1 {
				return "just now"
			}
			return fmt.Sprintf("%d minutes ago", minutes)
		}
		return fmt.Sprintf("%d hours ago", int(diff.Hours()))
	}

	if diff >= 0 && diff < 7*24*time.Hour {
		return fmt.Sprintf("%d days ago", int(diff.Hours()/24))
	}

	if t.Year() == now.Year() {
		return t.Format("Jan 2, 15:04")
	}
	return t.Format("Jan 2, 2006")
}
