package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"backoffice.GO/config"
	catalogService "backoffice.GO/service/catalog"
)

var mediaDir string

var mediaOptimizeCmd = &cobra.Command{
	Use:   "media:optimize",
	Short: "Generate thumbnails and WebP copies for all product images",
	Run: func(cmd *cobra.Command, args []string) {
		dir := mediaDir
		if dir == "" {
			config.LoadAppConfig()
			dir = config.AppConfig.MediaDir
		}

		start := time.Now()
		processed, warnings, err := catalogService.OptimizeMediaDir(dir)
		if err != nil {
			fmt.Printf("Media optimization failed: %v\n", err)
			return
		}
		for _, w := range warnings {
			fmt.Printf("  [warn] %s\n", w)
		}
		fmt.Printf("Processed %d image(s) in %s\n", processed, time.Since(start).Round(time.Millisecond))
	},
}

func init() {
	mediaOptimizeCmd.Flags().StringVarP(&mediaDir, "dir", "d", "", "Media directory (defaults to MEDIA_DIR)")
	rootCmd.AddCommand(mediaOptimizeCmd)
}
