package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"backoffice.GO/config"
	stockService "backoffice.GO/service/stock"
)

var (
	receiveFile      string
	receiveRequester string
	receiveNote      string
)

var stockReceiveCmd = &cobra.Command{
	Use:   "stock:receive",
	Short: "Apply a receiving batch from a JSON file",
	Long:  `Reads a JSON array of {"sku","qty","cost","note"} items and books the whole batch as one stock request.`,
	Run: func(cmd *cobra.Command, args []string) {
		raw, err := os.ReadFile(receiveFile)
		if err != nil {
			fmt.Printf("Failed to read batch file: %v\n", err)
			return
		}
		var items []stockService.ReceiveItem
		if err := json.Unmarshal(raw, &items); err != nil {
			fmt.Printf("Invalid batch file: %v\n", err)
			return
		}

		db, err := config.NewDB()
		if err != nil {
			fmt.Printf("Database connection failed: %v\n", err)
			return
		}

		requestNo, err := stockService.ReceiveStock(db, items, receiveRequester, receiveNote)
		if err != nil {
			fmt.Printf("Receiving failed, nothing was booked: %v\n", err)
			return
		}
		fmt.Printf("Received %d item(s) under %s\n", len(items), requestNo)
	},
}

func init() {
	stockReceiveCmd.Flags().StringVarP(&receiveFile, "file", "f", "", "JSON batch file (required)")
	stockReceiveCmd.Flags().StringVar(&receiveRequester, "requester", "", "Requester name recorded on the stock request")
	stockReceiveCmd.Flags().StringVar(&receiveNote, "note", "", "Batch note used for items without their own note")
	stockReceiveCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(stockReceiveCmd)
}
