package cli

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var peersCmd = &cobra.Command{
	Use:   "peers",
	Short: "Manage the running endpoint's peer table (GET/POST /api/peers)",
}

var peersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List known peer MACs",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := &http.Client{Timeout: 5 * time.Second}
		resp, err := client.Get(baseURL + "/api/peers")
		if err != nil {
			return fmt.Errorf("request failed: %w", err)
		}
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("reading response: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, body)
		}

		macs := strings.FieldsFunc(string(body), func(r rune) bool { return r == ',' })
		if len(macs) == 0 {
			fmt.Println("no peers registered")
			return nil
		}
		for _, mac := range macs {
			fmt.Println(mac)
		}
		return nil
	},
}

var peersAddCmd = &cobra.Command{
	Use:   "add [mac...]",
	Short: "Add one or more peer MACs (aa:bb:cc:dd:ee:ff), merged into the running endpoint's peer table",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := &http.Client{Timeout: 5 * time.Second}
		resp, err := client.Post(baseURL+"/api/peers", "text/plain", strings.NewReader(strings.Join(args, ",")))
		if err != nil {
			return fmt.Errorf("request failed: %w", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, body)
		}
		fmt.Printf("added %d peer(s)\n", len(args))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(peersCmd)
	peersCmd.AddCommand(peersListCmd)
	peersCmd.AddCommand(peersAddCmd)
}
