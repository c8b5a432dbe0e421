package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/moneyfye/moneyfye/internal/adapter/http/dto"
)

var (
	baseURL string
	token   string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "moneyfye",
		Short: "Moneyfye CLI tool",
		Long:  `A command line interface for interacting with the Moneyfye API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the Moneyfye API")
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "Bearer token for authenticated servers")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	accountsCmd := &cobra.Command{
		Use:   "accounts",
		Short: "List accounts with per-currency totals",
		Run: func(cmd *cobra.Command, args []string) {
			listAccounts()
		},
	}

	txCmd := &cobra.Command{
		Use:   "transactions",
		Short: "List recent transactions",
		Run: func(cmd *cobra.Command, args []string) {
			limit, _ := cmd.Flags().GetInt("limit")
			listTransactions(limit)
		},
	}
	txCmd.Flags().Int("limit", 20, "Maximum number of transactions")

	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Show the yearly income and expense report",
		Run: func(cmd *cobra.Command, args []string) {
			year, _ := cmd.Flags().GetInt("year")
			showReport(year)
		},
	}
	reportCmd.Flags().Int("year", time.Now().Year(), "Year to aggregate")

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Download a full-state export",
		Run: func(cmd *cobra.Command, args []string) {
			out, _ := cmd.Flags().GetString("out")
			exportData(out)
		},
	}
	exportCmd.Flags().String("out", "moneyfye-export.json", "Output file path")

	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete all accounts and transactions",
		Run: func(cmd *cobra.Command, args []string) {
			yes, _ := cmd.Flags().GetBool("yes")
			if !yes {
				fmt.Println("This deletes all data. Re-run with --yes to confirm.")
				os.Exit(1)
			}
			resetData()
		},
	}
	resetCmd.Flags().Bool("yes", false, "Confirm deletion")

	rootCmd.AddCommand(accountsCmd, txCmd, reportCmd, exportCmd, resetCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func request(method, path string) []byte {
	client := &http.Client{Timeout: timeout}

	req, err := http.NewRequest(method, baseURL+path, nil)
	if err != nil {
		fmt.Printf("Error building request: %v\n", err)
		os.Exit(1)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Request failed (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	return body
}

func listAccounts() {
	body := request(http.MethodGet, "/accounts")

	var list dto.AccountListResponse
	if err := json.Unmarshal(body, &list); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	for _, a := range list.Accounts {
		fmt.Printf("%s  %s (%s)\n", a.ID, a.Name, a.Group)
		for currency, amount := range a.Balance {
			fmt.Printf("    %s %s\n", currency, amount.StringFixed(2))
		}
	}

	fmt.Println("Totals:")
	for currency, amount := range list.Totals {
		fmt.Printf("    %s %s\n", currency, amount.StringFixed(2))
	}
}

func listTransactions(limit int) {
	body := request(http.MethodGet, "/transaction/list?limit="+strconv.Itoa(limit))

	var list dto.TransactionListResponse
	if err := json.Unmarshal(body, &list); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	for _, tx := range list.Transactions {
		fmt.Printf("%s  %-12s %10s %s  %s\n",
			tx.Date, tx.Type, tx.Amount.StringFixed(2), tx.RelatedCurrency, tx.Description)
	}
}

func showReport(year int) {
	client := &http.Client{Timeout: timeout}

	payload := fmt.Sprintf(`{"year":%d}`, year)
	req, err := http.NewRequest(http.MethodPost, baseURL+"/transaction/report", strings.NewReader(payload))
	if err != nil {
		fmt.Printf("Error building request: %v\n", err)
		os.Exit(1)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Request failed (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	var report dto.ReportResponse
	if err := json.Unmarshal(body, &report); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Report for %d\n", report.Year)
	for _, row := range report.Rows {
		fmt.Printf("%s\n", row.Month)
		for code, amount := range row.Income {
			fmt.Printf("    income  %s %s\n", code, amount.StringFixed(2))
		}
		for code, amount := range row.Expenses {
			fmt.Printf("    expense %s %s\n", code, amount.StringFixed(2))
		}
	}
}

func resetData() {
	client := &http.Client{Timeout: timeout}

	req, err := http.NewRequest(http.MethodDelete, baseURL+"/user/data", nil)
	if err != nil {
		fmt.Printf("Error building request: %v\n", err)
		os.Exit(1)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		body, _ := io.ReadAll(resp.Body)
		fmt.Printf("Request failed (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	fmt.Println("All data deleted")
}

func exportData(out string) {
	body := request(http.MethodGet, "/export")

	if err := os.WriteFile(out, body, 0o644); err != nil {
		fmt.Printf("Failed to write %s: %v\n", out, err)
		os.Exit(1)
	}

	fmt.Printf("Exported to %s\n", out)
}
