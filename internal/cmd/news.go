package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var newsCmd = &cobra.Command{
	Use:   "news",
	Short: "Browse news headlessly",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// newsListCmd prints one page of headlines
var newsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List news headlines",
	RunE: func(cmd *cobra.Command, args []string) error {
		page, _ := cmd.Flags().GetInt("page")
		size, _ := cmd.Flags().GetInt("size")

		app, err := bootstrap(false)
		if err != nil {
			return err
		}
		defer app.close()

		result, err := app.client.ListNews(cmd.Context(), page, size)
		if err != nil {
			return err
		}

		for _, n := range result.News {
			fmt.Printf("%6d  %-40s  %s  %s\n",
				n.ID, n.Title, n.Time.Format("2006-01-02 15:04"), n.Author)
		}
		fmt.Printf("\nPage %d of %d\n", page+1, result.TotalPages)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(newsCmd)
	newsCmd.AddCommand(newsListCmd)

	newsListCmd.Flags().Int("page", 0, "Page number (0-based)")
	newsListCmd.Flags().Int("size", 20, "Page size")
}
