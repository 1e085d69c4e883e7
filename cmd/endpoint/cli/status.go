package cli

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

type apiStatus struct {
	WiFi        bool   `json:"wifi"`
	IP          string `json:"ip"`
	Channel     uint8  `json:"channel"`
	Peers       string `json:"peers"`
	ESPNowPeers uint8  `json:"espnow_peers"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Fetch and render GET /api/status from a running endpoint",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := &http.Client{Timeout: 5 * time.Second}
		resp, err := client.Get(baseURL + "/api/status")
		if err != nil {
			return fmt.Errorf("request failed: %w", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("unexpected status %d", resp.StatusCode)
		}

		var status apiStatus
		if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}

		fmt.Println(renderStatus(status))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func renderStatus(s apiStatus) string {
	label := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	value := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	down := lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("12")).
		Padding(0, 1)

	wifiLine := down.Render("down")
	if s.WiFi {
		wifiLine = value.Render(fmt.Sprintf("up (%s, channel %d)", s.IP, s.Channel))
	}

	peers := s.Peers
	if peers == "" {
		peers = "none"
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		label.Render("wifi:       ")+wifiLine,
		label.Render("espnow tx:  ")+value.Render(fmt.Sprintf("%d peers", s.ESPNowPeers)),
		label.Render("peer table: ")+value.Render(peers),
	)
	return box.Render(body)
}
