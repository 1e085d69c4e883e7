package cli

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
)

var provisionCmd = &cobra.Command{
	Use:   "provision",
	Short: "Provisioning operations against a running endpoint",
}

var provisionResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Factory-reset the endpoint (POST /clean): erase Wi-Fi credentials and restart into provisioning",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := &http.Client{Timeout: 5 * time.Second}
		resp, err := client.Post(baseURL+"/clean", "", nil)
		if err != nil {
			return fmt.Errorf("request failed: %w", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("unexpected status %d", resp.StatusCode)
		}
		fmt.Println("factory reset requested; the endpoint will restart into provisioning mode")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(provisionCmd)
	provisionCmd.AddCommand(provisionResetCmd)
}
