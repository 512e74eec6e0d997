package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/linguaspark/linguaspark-backend/internal/app"
	"github.com/linguaspark/linguaspark-backend/internal/modules/lessons/scoring"
	"github.com/linguaspark/linguaspark-backend/internal/modules/lessons/validation"
)

var (
	rootCmd = &cobra.Command{
		Use:          "linguaspark",
		Short:        "LinguaSpark lesson generation backend",
		SilenceUsage: true,
	}
	envFile   string
	scoreFile string
	checkFile string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Optional dotenv file loaded before reading the environment")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if envFile == "" {
			return nil
		}
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("load %s: %w", envFile, err)
		}
		return nil
	}

	scoreCmd.Flags().StringVarP(&scoreFile, "file", "f", "", "Score the words of a text file instead of the arguments (- for stdin)")
	checkCmd.Flags().StringVarP(&checkFile, "file", "f", "-", "Text file to check (- for stdin)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(checkCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := app.New(ctx, app.LoadConfig())
		if err != nil {
			return err
		}
		defer a.Close()
		return a.Run(ctx)
	},
}

var scoreCmd = &cobra.Command{
	Use:   "score [word...]",
	Short: "Pick the pronunciation practice words from a word list",
	RunE: func(cmd *cobra.Command, args []string) error {
		words := args
		if scoreFile != "" {
			text, err := readInput(cmd, scoreFile)
			if err != nil {
				return err
			}
			words = validation.Words(text)
		}
		if len(words) == 0 {
			return fmt.Errorf("no words to score")
		}
		return printJSON(cmd.OutOrStdout(), scoring.Select(words))
	},
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate source text and report its quality",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readInput(cmd, checkFile)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), map[string]any{
			"validation": validation.ValidateContent(text),
			"quality":    validation.CheckContentQuality(text),
		})
	},
}

func readInput(cmd *cobra.Command, path string) (string, error) {
	var r io.Reader = cmd.InOrStdin()
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return "", err
		}
		defer f.Close()
		r = f
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return string(b), nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
