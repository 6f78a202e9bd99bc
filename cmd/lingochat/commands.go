package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"lingochat/pkg/commands"
	"lingochat/pkg/console"
	"lingochat/pkg/version"

	"github.com/spf13/cobra"
)

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "lingochat",
		Short: "Practise a language with a tutoring chatbot",
		Long: `lingochat talks to a language-tutoring backend.

Run without arguments in a terminal to open the chat screen. When input is
piped, each line is sent as one message and the replies are printed.`,
		Version:       version.Summary(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.isTerminal() {
				return a.runTUI(a.uiOptions())
			}
			return a.runPiped(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Config file (default ~/.lingochat/config.json)")
	root.PersistentFlags().StringVar(&a.backendURL, "backend", "", "Tutor backend URL (overrides config)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error")

	root.AddCommand(
		newSendCmd(a),
		newSummaryCmd(a),
		newTranslateCmd(a),
		newLanguagesCmd(a),
		newVersionCmd(),
	)
	return root
}

func newSendCmd(a *app) *cobra.Command {
	var language string
	cmd := &cobra.Command{
		Use:   "send [text...]",
		Short: "Send one message and print the reply",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, input := a.newConsoleWidget(cmd.OutOrStdout(), strings.ToLower(language))
			input.Set(strings.Join(args, " "))
			if err := w.SendMessage(cmd.Context()); err != nil {
				return errReported
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&language, "language", "l", "", "Target language (default from config)")
	return cmd
}

func newSummaryCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show the mistakes recorded so far",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if asJSON {
				resp, err := a.client.Summary(cmd.Context())
				if err != nil {
					return err
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetEscapeHTML(false)
				enc.SetIndent("", "  ")
				return enc.Encode(resp)
			}

			w, _ := a.newConsoleWidget(cmd.OutOrStdout(), "", console.WithoutLabels())
			if err := w.GetSummary(cmd.Context()); err != nil {
				return errReported
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the raw records as JSON")
	return cmd
}

func newTranslateCmd(a *app) *cobra.Command {
	var target string
	cmd := &cobra.Command{
		Use:   "translate [text...]",
		Short: "Translate text into another language",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			to := target
			if to == "" {
				to = a.cfg.KnownLanguage
			}
			out, err := a.translator.Translate(cmd.Context(), strings.Join(args, " "), to)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&target, "to", "", "Target language (default: known_language from config)")
	return cmd
}

func newLanguagesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List the configured languages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commands.NewContext("", a.cfg.DefaultLanguage, a.cfg.Languages)
			result := commands.NewDispatcher().Dispatch("/languages", ctx)
			fmt.Fprintln(cmd.OutOrStdout(), result.Content)
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStdout(), version.Details())
		},
	}
}
