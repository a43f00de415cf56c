package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"checklist/internal/client"
	"checklist/internal/config"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	serverURL string
	timeout   time.Duration
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "checklist",
	Short: "IT onboarding and offboarding checklist",
	Long: `checklist walks an employee through the onboarding or offboarding
steps, collects the signed acknowledgment and sends the answers to the
checklist server.

Run without arguments to start the interactive chat.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(cmd, args)
	},
}

func init() {
	cfg, err := config.LoadConfig()
	defaultServer := "http://localhost:5000"
	if err == nil {
		defaultServer = cfg.ServerURL
	}

	rootCmd.PersistentFlags().StringVarP(&serverURL, "server", "s", defaultServer, "Checklist server base URL")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Timeout for non-interactive requests")

	rootCmd.AddCommand(chatCmd, questionsCmd, responsesCmd, downloadCmd)
}

func newClient() *client.Client {
	return client.New(serverURL)
}

// requestContext bounds one non-interactive command and stops on ctrl+c.
func requestContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	ctx, cancel := context.WithTimeout(ctx, timeout)
	return ctx, func() {
		cancel()
		stop()
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
