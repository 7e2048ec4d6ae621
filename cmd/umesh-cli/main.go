package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/rmacdonaldsmith/umesh-go/pkg/envelope"
	"github.com/rmacdonaldsmith/umesh-go/pkg/ustatus"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	formatName string
	verbose    bool

	// Resolved from global flags before any subcommand runs
	format envelope.Format
	logger *slog.Logger
)

func main() {
	rootCmd := newRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v (%s)\n", err, ustatus.Code(err))
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "umesh-cli",
		Short: "uMesh addressing and envelope tool",
		Long: `umesh-cli inspects uMesh addresses, builds entities from service
descriptors, encodes and decodes message envelopes, and evaluates
subscription filters against encoded messages.`,
		PersistentPreRunE: initialize,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.PersistentFlags().StringVar(&formatName, "format", "json", "Envelope encoding: json or binary")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(newURICommand())
	rootCmd.AddCommand(newEntityCommand())
	rootCmd.AddCommand(newEncodeCommand())
	rootCmd.AddCommand(newDecodeCommand())
	rootCmd.AddCommand(newMatchCommand())

	return rootCmd
}

// initialize resolves the global flags into the logger and envelope format
func initialize(cmd *cobra.Command, args []string) error {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	var err error
	format, err = envelope.ParseFormat(formatName)
	if err != nil {
		return err
	}
	logger.Debug("initialized", "command", cmd.Name(), "format", format.String())
	return nil
}

// readInput reads path, or the command's stdin when path is "" or "-"
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

// writeOutput writes data to path, or the command's stdout when path is "" or "-"
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// decodeEnvelope reads and decodes one envelope in the global format
func decodeEnvelope(cmd *cobra.Command, path string) (envelope.Envelope, error) {
	data, err := readInput(cmd, path)
	if err != nil {
		return envelope.Envelope{}, err
	}
	env, err := envelope.Decode(format, data)
	if err != nil {
		return envelope.Envelope{}, err
	}
	logger.Debug("decoded envelope", "bytes", len(data), "id", env.Attributes.ID(), "source", env.Attributes.Source().String())
	return env, nil
}
