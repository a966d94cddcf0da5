package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	_ "time/tzdata" // timezone database for hosts without one

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"calorie-log/internal/app"
	"calorie-log/internal/config"
	"calorie-log/internal/encryption"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadEnv loads secrets from <base_dir>/.env and ./.env. Variables already
// set in the environment win; missing files are skipped.
func loadEnv(defaults map[string]string) error {
	for _, path := range []string{defaults["env_file"], ".env"} {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("loading %s: %w", path, err)
		}
	}
	return nil
}

// readConfig loads .env files and reads the config file.
func readConfig() (*config.Config, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}
	if err := loadEnv(defaults); err != nil {
		return nil, err
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return cfg, nil
}

// newApp reads the config and creates a CalApp. The caller must defer app.Close().
func newApp(ctx context.Context, opts app.Options) (*app.CalApp, error) {
	cfg, err := readConfig()
	if err != nil {
		return nil, err
	}

	a, err := app.NewCalApp(ctx, cfg, opts)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}
	return a, nil
}

var rootCmd = &cobra.Command{
	Use:          "calorielog",
	Short:        "Calorie logging webhook",
	SilenceUsage: true,
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg := config.NewConfig(defaults["base_dir"])
		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Base Dir: %s\n", defaults["base_dir"])
		fmt.Printf("Secrets:  %s\n", defaults["env_file"])
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Timezone:     %s\n", cfg.TimeZone)
		fmt.Printf("Daily target: %d\n", cfg.DailyTarget)
		fmt.Printf("Log Dir:      %s\n", cfg.LogDir)
		fmt.Printf("Listen:       %s:%d%s\n", cfg.Server.Host, cfg.Server.Port, cfg.Server.Path)
		fmt.Printf("Estimator:    %s (%s)\n", cfg.Estimator.Type, cfg.Estimator.Model)
		fmt.Printf("Row log:      %s\n", cfg.RowLog.Type)
		fmt.Printf("Encryption:   %s\n", cfg.Encryption.Type)
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the webhook server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx, app.Options{Scope: "serve", Estimator: true})
		if err != nil {
			return err
		}
		defer a.Close()

		return a.Serve(ctx)
	},
}

var sendCmd = &cobra.Command{
	Use:   "send [MESSAGE...]",
	Short: "Handle one message locally and print the reply",
	Long: "Handle one message as the webhook would. With no arguments the message " +
		"is read from standard input.",
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := messageText(args, os.Stdin)
		if err != nil {
			return err
		}

		a, err := newApp(cmd.Context(), app.Options{Scope: "send", Estimator: true})
		if err != nil {
			return err
		}
		defer a.Close()

		fmt.Println(a.Send(cmd.Context(), text))
		return nil
	},
}

// messageText joins args, or reads stdin when there are none and stdin is
// not a terminal.
func messageText(args []string, stdin *os.File) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	if term.IsTerminal(int(stdin.Fd())) {
		return "", errors.New("no message: pass it as arguments or pipe it on stdin")
	}
	data, err := io.ReadAll(bufio.NewReader(stdin))
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "Show today's entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), app.Options{Scope: "today"})
		if err != nil {
			return err
		}
		defer a.Close()

		reply, err := a.Today(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Println(reply)
		return nil
	},
}

var recalculateCmd = &cobra.Command{
	Use:   "recalculate",
	Short: "Rewrite today's running totals",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), app.Options{Scope: "recalculate"})
		if err != nil {
			return err
		}
		defer a.Close()

		total, err := a.Recalculate(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Daily total: %d\n", total)
		return nil
	},
}

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate the age identity used to encrypt csv and s3 logs",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := readConfig()
		if err != nil {
			return err
		}
		if cfg.Encryption.IdentityPath == "" {
			return errors.New("encryption.identity_path is not set")
		}

		var passphrase string
		if protect, _ := cmd.Flags().GetBool("passphrase"); protect {
			if passphrase, err = promptPassphrase(); err != nil {
				return err
			}
		}

		recipient, err := encryption.GenerateIdentity(cfg.Encryption.IdentityPath, passphrase)
		if err != nil {
			return err
		}

		fmt.Printf("Identity written to %s\n", cfg.Encryption.IdentityPath)
		fmt.Printf("Public key: %s\n", recipient)
		if cfg.Encryption.Type != "age" {
			fmt.Println(`Set [encryption] type = "age" to encrypt the log.`)
		}
		return nil
	},
}

// promptPassphrase reads a passphrase twice from the terminal without echo.
func promptPassphrase() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("--passphrase needs an interactive terminal")
	}

	fmt.Fprint(os.Stderr, "Passphrase: ")
	first, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}
	if len(first) == 0 {
		return "", errors.New("empty passphrase")
	}

	fmt.Fprint(os.Stderr, "Repeat passphrase: ")
	second, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}
	if string(first) != string(second) {
		return "", errors.New("passphrases do not match")
	}
	return string(first), nil
}

func init() {
	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	// root commands
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(todayCmd)
	rootCmd.AddCommand(recalculateCmd)
	rootCmd.AddCommand(keygenCmd)
	keygenCmd.Flags().Bool("passphrase", false, "Protect the identity with a passphrase")
}
