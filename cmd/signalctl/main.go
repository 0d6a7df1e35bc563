package main

import (
	"os"
	"path/filepath"

	"github.com/ahmetcoskunkizilkaya/signalforge/internal/client"
	"github.com/spf13/cobra"
)

var (
	serverURL   string
	sessionPath string
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	home, _ := os.UserHomeDir()
	defaultSession := filepath.Join(home, ".signalforge", "session.json")

	defaultServer := os.Getenv("SIGNALFORGE_URL")
	if defaultServer == "" {
		defaultServer = "http://localhost:3001"
	}

	root := &cobra.Command{
		Use:          "signalctl",
		Short:        "Separate signal from noise in your feeds",
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&serverURL, "server", defaultServer, "API base URL")
	root.PersistentFlags().StringVar(&sessionPath, "session", defaultSession, "session file path")

	root.AddCommand(signupCmd())
	root.AddCommand(loginCmd())
	root.AddCommand(logoutCmd())
	root.AddCommand(whoamiCmd())
	root.AddCommand(classifyCmd())
	root.AddCommand(ingestCmd())
	root.AddCommand(listCmd())
	root.AddCommand(clearCmd())
	return root
}

func newClient() *client.Client {
	return client.New(serverURL, client.NewFileStore(sessionPath))
}
