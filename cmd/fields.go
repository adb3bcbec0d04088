package cmd

import (
	"context"
	"fmt"
	"os"

	"attendance-capture/internal/fieldstore"

	"github.com/spf13/cobra"
)

var fieldsCmd = &cobra.Command{
	Use:   "fields",
	Short: "Inspect or clear the persisted form fields",
}

var fieldsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the persisted name and subdivision",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		store, err := fieldstore.NewStore(cfg, provider)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening field store: %v\n", err)
			os.Exit(1)
		}

		name, ok := store.Get(ctx, fieldstore.KeyName)
		if !ok {
			fmt.Println("No persisted fields (missing or expired).")
			return
		}
		subdivision, _ := store.Get(ctx, fieldstore.KeySubdivision)

		fmt.Printf("Name:        %s\n", name)
		fmt.Printf("Subdivision: %s\n", subdivision)
	},
}

var fieldsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the persisted fields",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		store, err := fieldstore.NewStore(cfg, provider)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening field store: %v\n", err)
			os.Exit(1)
		}
		if err := store.Clear(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing fields: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Persisted fields cleared.")
	},
}

func init() {
	rootCmd.AddCommand(fieldsCmd)
	fieldsCmd.AddCommand(fieldsShowCmd)
	fieldsCmd.AddCommand(fieldsClearCmd)
}
