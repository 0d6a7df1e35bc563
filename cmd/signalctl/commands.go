package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/ahmetcoskunkizilkaya/signalforge/internal/classifier"
	"github.com/ahmetcoskunkizilkaya/signalforge/internal/client"
	"github.com/ahmetcoskunkizilkaya/signalforge/internal/dto"
	"github.com/spf13/cobra"
)

func signupCmd() *cobra.Command {
	var email, password, name string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and log in",
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv("SIGNALFORGE_PASSWORD")
			}
			resp, err := newClient().Signup(cmd.Context(), email, password, name)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed up as %s\n", resp.User.Email)
			return nil
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (or SIGNALFORGE_PASSWORD)")
	cmd.Flags().StringVarP(&name, "name", "n", "", "full name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func loginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and remember the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv("SIGNALFORGE_PASSWORD")
			}
			resp, err := newClient().Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", resp.User.Email)
			return nil
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (or SIGNALFORGE_PASSWORD)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := newClient().Logout(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := newClient().Me(cmd.Context())
			if err != nil {
				return loginHint(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", user.FullName, user.Email)
			return nil
		},
	}
}

func classifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify [file]",
		Short: "Classify text locally and print the result as JSON",
		Long:  "Reads the file argument, or stdin when it is missing or \"-\". Nothing is sent to the server.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			records := classifier.Classify(text)
			if len(records) == 0 {
				return errors.New("no content to filter")
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(dto.ClassifyResponse{
				Signals:     records,
				SignalCount: classifier.CountSignals(records),
			})
		},
	}
}

func ingestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ingest [file]",
		Short: "Classify text locally and store every line",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			records := classifier.Classify(text)
			if len(records) == 0 {
				return errors.New("no content to filter")
			}

			resp, err := newClient().CreateBatch(cmd.Context(), dto.RequestsFromRecords(records))
			if err != nil {
				return loginHint(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Stored %d items, %d signals\n",
				resp.CreatedCount, classifier.CountSignals(records))
			return nil
		},
	}
}

func listCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored signals, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := newClient().ListSignals(cmd.Context())
			if err != nil {
				return loginHint(err)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(dto.SignalListResponse{Signals: list})
			}
			if len(list) == 0 {
				fmt.Fprintln(out, "No signals yet")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "SCORE\tTYPE\tCATEGORY\tLABEL\tCONTENT")
			for _, s := range list {
				label := "-"
				if s.IsEmail() {
					label = *s.EmailLabel
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", s.Score, s.SignalType, s.Category, label, truncate(s.Content, 60))
			}
			return w.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print raw JSON")
	return cmd
}

func clearCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every stored signal",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes && !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), "Delete all signals? This cannot be undone. [y/N] ") {
				fmt.Fprintln(cmd.OutOrStdout(), "Aborted")
				return nil
			}

			deleted, err := newClient().DeleteAllSignals(cmd.Context())
			if err != nil {
				return loginHint(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d signals\n", deleted)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func readInput(stdin io.Reader, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		raw, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(raw), nil
	}
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("read %s: %w", args[0], err)
	}
	return string(raw), nil
}

func confirm(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprint(out, prompt)
	answer, _ := bufio.NewReader(in).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

func loginHint(err error) error {
	if errors.Is(err, client.ErrNotLoggedIn) {
		return errors.New("not logged in: run `signalctl login` first")
	}
	if errors.Is(err, client.ErrSessionForOtherServer) {
		return fmt.Errorf("%w: run `signalctl login --server %s` first", err, serverURL)
	}
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusForbidden {
		return fmt.Errorf("%s: run `signalctl login` again", apiErr.Message)
	}
	return err
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
