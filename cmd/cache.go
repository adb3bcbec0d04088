package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"attendance-capture/internal/assetcache"

	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the versioned asset cache",
	Long:  `Install, activate and inspect the cached asset generations the server answers from.`,
}

func openCache() *assetcache.Cache {
	manifest, err := assetcache.LoadManifest(cfg.Cache.ManifestFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading manifest: %v\n", err)
		os.Exit(1)
	}
	return assetcache.New(provider, manifest, &cfg.Cache)
}

var cacheInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Fetch and store the manifest's asset generation",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		cache := openCache()

		if err := cache.Install(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Error installing cache generation: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Cache generation '%s' installed.\n", cache.Version())
	},
}

var cacheActivateCmd = &cobra.Command{
	Use:   "activate",
	Short: "Delete all generations except the manifest's",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		cache := openCache()

		if err := cache.Activate(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Error activating cache generation: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Cache generation '%s' active.\n", cache.Version())
	},
}

var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "List stored generations and their asset counts",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		cache := openCache()

		generations, err := cache.Generations(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error listing cache generations: %v\n", err)
			os.Exit(1)
		}

		if len(generations) == 0 {
			fmt.Println("No cache generations stored.")
			return
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "VERSION\tASSETS\tACTIVE")
		for version, count := range generations {
			active := ""
			if version == cache.Version() {
				active = "*"
			}
			fmt.Fprintf(w, "%s\t%d\t%s\n", version, count, active)
		}
		w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheInstallCmd)
	cacheCmd.AddCommand(cacheActivateCmd)
	cacheCmd.AddCommand(cacheStatusCmd)
}
