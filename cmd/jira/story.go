package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mschirtzinger/jira-lite/internal/models"
	"github.com/mschirtzinger/jira-lite/internal/ui"
)

var storyCmd = &cobra.Command{
	Use:     "story",
	GroupID: "items",
	Short:   "Create, inspect and delete stories",
}

var storyCreateCmd = &cobra.Command{
	Use:   "create EPIC_ID",
	Short: "Create a new story in an epic",
	Long: `Create a new story with status Open and append it to an epic.

Examples:
  jira story create 1 --name "Send invoice email"`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		epicID := mustParseID(models.KindEpic, args[0])
		name, _ := cmd.Flags().GetString("name")
		description, _ := cmd.Flags().GetString("description")

		id, err := jira.CreateStory(models.NewStory(name, description), epicID)
		exitOnError(err)

		fmt.Printf("%s Created story %d in epic %d\n", ui.RenderPass("✓"), id, epicID)
	},
}

var storyShowCmd = &cobra.Command{
	Use:   "show STORY_ID",
	Short: "Show a story",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id := mustParseID(models.KindStory, args[0])

		state, err := jira.ReadDB()
		exitOnError(err)

		exitOnError(ui.RenderStoryDetail(os.Stdout, state, id))
	},
}

var storyStatusCmd = &cobra.Command{
	Use:   "status STORY_ID STATUS",
	Short: "Set the status of a story",
	Long: `Set the status of a story. Any status may follow any other.

STATUS is one of open, in-progress, resolved, closed, or the menu
numbers 1-4 in that order.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		id := mustParseID(models.KindStory, args[0])
		status, err := models.ParseStatus(args[1])
		exitOnError(err)

		exitOnError(jira.UpdateStoryStatus(id, status))

		fmt.Printf("%s Story %d is now %s\n", ui.RenderPass("✓"), id, ui.RenderStatus(status))
	},
}

var storyDeleteCmd = &cobra.Command{
	Use:   "delete EPIC_ID STORY_ID",
	Short: "Delete a story from an epic",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		epicID := mustParseID(models.KindEpic, args[0])
		storyID := mustParseID(models.KindStory, args[1])
		yes, _ := cmd.Flags().GetBool("yes")

		state, err := jira.ReadDB()
		exitOnError(err)
		story, err := state.Story(storyID)
		exitOnError(err)

		err = confirmDelete(yes,
			fmt.Sprintf("Delete story %d (%s)?", storyID, story.Name),
			fmt.Sprintf("It will be removed from epic %d.", epicID))
		if errors.Is(err, errNotConfirmed) {
			fmt.Printf("%s %v\n", ui.RenderWarn("⚠"), err)
			return
		}
		exitOnError(err)

		exitOnError(jira.DeleteStory(epicID, storyID))

		fmt.Printf("%s Deleted story %d from epic %d\n", ui.RenderPass("✓"), storyID, epicID)
	},
}

func init() {
	storyCreateCmd.Flags().StringP("name", "n", "", "Story name")
	storyCreateCmd.Flags().StringP("description", "d", "", "Story description")
	_ = storyCreateCmd.MarkFlagRequired("name")

	storyDeleteCmd.Flags().BoolP("yes", "y", false, "Delete without asking")

	storyCmd.AddCommand(storyCreateCmd, storyShowCmd, storyStatusCmd, storyDeleteCmd)
	rootCmd.AddCommand(storyCmd)
}
