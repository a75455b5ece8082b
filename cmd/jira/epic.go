package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mschirtzinger/jira-lite/internal/models"
	"github.com/mschirtzinger/jira-lite/internal/ui"
)

var epicCmd = &cobra.Command{
	Use:     "epic",
	GroupID: "items",
	Short:   "Create, inspect and delete epics",
}

var epicCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new epic",
	Long: `Create a new epic with status Open and no stories.

Examples:
  jira epic create --name "Billing" --description "Invoices and payments"`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		name, _ := cmd.Flags().GetString("name")
		description, _ := cmd.Flags().GetString("description")

		id, err := jira.CreateEpic(models.NewEpic(name, description))
		exitOnError(err)

		fmt.Printf("%s Created epic %d\n", ui.RenderPass("✓"), id)
	},
}

var epicListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List all epics",
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		state, err := jira.ReadDB()
		exitOnError(err)

		ui.RenderEpicList(os.Stdout, state)
	},
}

var epicShowCmd = &cobra.Command{
	Use:   "show EPIC_ID",
	Short: "Show an epic and its stories",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id := mustParseID(models.KindEpic, args[0])

		state, err := jira.ReadDB()
		exitOnError(err)

		exitOnError(ui.RenderEpicDetail(os.Stdout, state, id))
	},
}

var epicStatusCmd = &cobra.Command{
	Use:   "status EPIC_ID STATUS",
	Short: "Set the status of an epic",
	Long: `Set the status of an epic. Any status may follow any other.

STATUS is one of open, in-progress, resolved, closed, or the menu
numbers 1-4 in that order.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		id := mustParseID(models.KindEpic, args[0])
		status, err := models.ParseStatus(args[1])
		exitOnError(err)

		exitOnError(jira.UpdateEpicStatus(id, status))

		fmt.Printf("%s Epic %d is now %s\n", ui.RenderPass("✓"), id, ui.RenderStatus(status))
	},
}

var epicDeleteCmd = &cobra.Command{
	Use:   "delete EPIC_ID",
	Short: "Delete an epic and all of its stories",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id := mustParseID(models.KindEpic, args[0])
		yes, _ := cmd.Flags().GetBool("yes")

		state, err := jira.ReadDB()
		exitOnError(err)
		epic, err := state.Epic(id)
		exitOnError(err)

		err = confirmDelete(yes,
			fmt.Sprintf("Delete epic %d (%s)?", id, epic.Name),
			fmt.Sprintf("Its %d stories will also be deleted.", len(epic.Stories)))
		if errors.Is(err, errNotConfirmed) {
			fmt.Printf("%s %v\n", ui.RenderWarn("⚠"), err)
			return
		}
		exitOnError(err)

		exitOnError(jira.DeleteEpic(id))

		fmt.Printf("%s Deleted epic %d\n", ui.RenderPass("✓"), id)
	},
}

func init() {
	epicCreateCmd.Flags().StringP("name", "n", "", "Epic name")
	epicCreateCmd.Flags().StringP("description", "d", "", "Epic description")
	_ = epicCreateCmd.MarkFlagRequired("name")

	epicDeleteCmd.Flags().BoolP("yes", "y", false, "Delete without asking")

	epicCmd.AddCommand(epicCreateCmd, epicListCmd, epicShowCmd, epicStatusCmd, epicDeleteCmd)
	rootCmd.AddCommand(epicCmd)
}
