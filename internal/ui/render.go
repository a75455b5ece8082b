package ui

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mschirtzinger/jira-lite/internal/models"
)

// Column widths for listings.
const (
	idWidth     = 8
	nameWidth   = 32
	statusWidth = 13
	countWidth  = 7
	descWidth   = 60
)

// Truncate shortens s to width runes, ending in "..." when cut.
func Truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 3 {
		return string(r[:width])
	}
	return string(r[:width-3]) + "..."
}

// pad left-aligns s to width. Padding is applied before styling so ANSI
// sequences never count toward the column width.
func pad(s string, width int) string {
	s = Truncate(s, width)
	if n := len([]rune(s)); n < width {
		s += strings.Repeat(" ", width-n)
	}
	return s
}

func statusCell(s models.Status) string {
	label := pad(s.Label(), statusWidth)
	return strings.Replace(label, s.Label(), RenderStatus(s), 1)
}

func rule(widths ...int) string {
	total := 0
	for _, w := range widths {
		total += w
	}
	total += 3 * (len(widths) - 1)
	return RenderMuted(strings.Repeat("-", total))
}

// RenderEpicList writes one row per epic in ascending id order.
func RenderEpicList(w io.Writer, state *models.State) {
	fmt.Fprintf(w, "%s | %s | %s | %s\n",
		headingStyle.Render(pad("id", idWidth)),
		headingStyle.Render(pad("name", nameWidth)),
		headingStyle.Render(pad("status", statusWidth)),
		headingStyle.Render(pad("stories", countWidth)))
	fmt.Fprintln(w, rule(idWidth, nameWidth, statusWidth, countWidth))

	ids := state.EpicIDs()
	if len(ids) == 0 {
		fmt.Fprintln(w, RenderMuted("no epics"))
		return
	}
	for _, id := range ids {
		epic := state.Epics[id]
		fmt.Fprintf(w, "%s | %s | %s | %s\n",
			pad(strconv.FormatUint(uint64(id), 10), idWidth),
			pad(epic.Name, nameWidth),
			statusCell(epic.Status),
			pad(strconv.Itoa(len(epic.Stories)), countWidth))
	}
}

// RenderEpicDetail writes an epic followed by its stories in epic order.
func RenderEpicDetail(w io.Writer, state *models.State, epicID uint32) error {
	epic, err := state.Epic(epicID)
	if err != nil {
		return err
	}
	stories, err := state.StoriesOf(epicID)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%s %s\n", RenderAccent(fmt.Sprintf("Epic %d:", epicID)), epic.Name)
	fmt.Fprintf(w, "  Status:      %s\n", RenderStatus(epic.Status))
	fmt.Fprintf(w, "  Description: %s\n\n", Truncate(epic.Description, descWidth))

	fmt.Fprintf(w, "%s | %s | %s\n",
		headingStyle.Render(pad("id", idWidth)),
		headingStyle.Render(pad("name", nameWidth)),
		headingStyle.Render(pad("status", statusWidth)))
	fmt.Fprintln(w, rule(idWidth, nameWidth, statusWidth))
	if len(stories) == 0 {
		fmt.Fprintln(w, RenderMuted("no stories"))
		return nil
	}
	for _, ref := range stories {
		fmt.Fprintf(w, "%s | %s | %s\n",
			pad(strconv.FormatUint(uint64(ref.ID), 10), idWidth),
			pad(ref.Story.Name, nameWidth),
			statusCell(ref.Story.Status))
	}
	return nil
}

// RenderStoryDetail writes a single story.
func RenderStoryDetail(w io.Writer, state *models.State, storyID uint32) error {
	story, err := state.Story(storyID)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%s %s\n", RenderAccent(fmt.Sprintf("Story %d:", storyID)), story.Name)
	if epicID, ok := state.EpicOf(storyID); ok {
		fmt.Fprintf(w, "  Epic:        %d\n", epicID)
	}
	fmt.Fprintf(w, "  Status:      %s\n", RenderStatus(story.Status))
	fmt.Fprintf(w, "  Description: %s\n", Truncate(story.Description, descWidth))
	return nil
}
