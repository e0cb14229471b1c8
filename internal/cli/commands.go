package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/dyike/NamaaGo/internal/config"
	"github.com/dyike/NamaaGo/internal/display"
	"github.com/dyike/NamaaGo/internal/screens"
)

// Version is set at build time with -ldflags.
var Version = "dev"

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	// Initialize configuration early
	cfg := config.DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "namaa",
		Short: "Nama'a - your intelligent financial advisor",
		Long: `Nama'a connects your bank accounts, shows where your money goes and
answers your financial questions in Arabic and English.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if debug, _ := cmd.Flags().GetBool("debug"); debug {
				cfg.Debug = true
			}
			if url, _ := cmd.Flags().GetString("api-url"); url != "" {
				cfg.APIBaseURL = url
			}
			display.Output = cmd.OutOrStdout()
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// Default behavior: start interactive mode
			return withApp(cmd, cfg, func(ctx context.Context, a *app) error {
				return newNavigator(a).run(ctx)
			})
		},
	}

	rootCmd.AddCommand(newScreenCmd(cfg, "register", "Create your Nama'a account", screens.RouteRegister))
	rootCmd.AddCommand(newScreenCmd(cfg, "link", "Connect a bank account", screens.RouteConnectBank))
	rootCmd.AddCommand(newScreenCmd(cfg, "chat", "Chat with your financial advisor", screens.RouteChat))
	rootCmd.AddCommand(newScreenCmd(cfg, "dashboard", "Show balances and spending insights", screens.RouteDashboard))
	rootCmd.AddCommand(newScreenCmd(cfg, "profile", "Show your profile and settings", screens.RouteProfile))
	rootCmd.AddCommand(newScreenCmd(cfg, "invest", "Get advice on an investment", screens.RouteInvest))
	rootCmd.AddCommand(newScreenCmd(cfg, "history", "List previous conversations", screens.RouteHistory))
	rootCmd.AddCommand(newLogoutCmd(cfg))
	rootCmd.AddCommand(newSessionCmd(cfg))
	rootCmd.AddCommand(newConfigCmd(cfg))
	rootCmd.AddCommand(newVersionCmd())

	// Global flags
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug mode")
	rootCmd.PersistentFlags().String("api-url", "", "Backend base URL (overrides NAMAA_API_BASE_URL)")

	return rootCmd
}

// withApp builds the collaborators for one command and releases them after.
func withApp(cmd *cobra.Command, cfg *config.Config, fn func(ctx context.Context, a *app) error) error {
	a, err := newApp(cfg, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	return fn(ctx, a)
}

var errNoSession = errors.New("no active session, run 'namaa register' first")

// newScreenCmd opens a single screen without the menu.
func newScreenCmd(cfg *config.Config, use, short string, route screens.Route) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, cfg, func(ctx context.Context, a *app) error {
				_, err := flows[route](ctx, a)
				var redirect *screens.Redirect
				switch {
				case err == nil, interrupted(err):
					return nil
				case errors.As(err, &redirect):
					return errNoSession
				}
				return err
			})
		},
	}
}

func newLogoutCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored identity on this device",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, cfg, func(ctx context.Context, a *app) error {
				if _, ok := a.session.Current(); !ok {
					display.DisplayInfo("You are not logged in")
					return nil
				}
				if _, err := screens.NewProfile(a.deps()).Logout(); err != nil {
					return err
				}
				display.DisplaySuccess("Logged out")
				return nil
			})
		},
	}
}

func newSessionCmd(cfg *config.Config) *cobra.Command {
	sessionCmd := &cobra.Command{
		Use:   "session",
		Short: "Inspect the stored identity",
	}

	sessionCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, cfg, func(ctx context.Context, a *app) error {
				id, ok := a.session.Current()
				if !ok {
					return errNoSession
				}
				a.println(display.SessionInfo(id, a.session.ExpiresAt()))
				return nil
			})
		},
	})

	return sessionCmd
}

// newVersionCmd creates the version command
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Nama'a %s\n", Version)
			fmt.Fprintln(out, "Intelligent financial advisor for the terminal")
		},
	}
}

// newConfigCmd creates the config command
func newConfigCmd(cfg *config.Config) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "Show and validate Nama'a configuration settings",
	}

	// config show subcommand
	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Run: func(cmd *cobra.Command, args []string) {
			showConfig(cmd.OutOrStdout(), cfg)
		},
	})

	// config validate subcommand
	configCmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return validateConfig(cmd.OutOrStdout(), cfg)
		},
	})

	return configCmd
}

// showConfig displays the current configuration
func showConfig(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w, "📋 Current Nama'a Configuration:")
	fmt.Fprintln(w, "═══════════════════════════════════════")
	fmt.Fprintf(w, "Backend URL:          %s\n", cfg.APIBaseURL)
	fmt.Fprintf(w, "Data Directory:       %s\n", cfg.DataDir)
	fmt.Fprintf(w, "Session File:         %s\n", cfg.SessionPath())
	fmt.Fprintf(w, "Log File:             %s\n", cfg.LogPath())
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Session Lifetime:     %s\n", cfg.SessionTTL)
	fmt.Fprintf(w, "Callback Address:     %s\n", cfg.CallbackAddr)
	fmt.Fprintf(w, "Link Timeout:         %s\n", cfg.LinkTimeout)
	if cfg.RequestTimeout > 0 {
		fmt.Fprintf(w, "Request Timeout:      %s\n", cfg.RequestTimeout)
	} else {
		fmt.Fprintln(w, "Request Timeout:      none")
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Locale:               %s\n", cfg.Locale)
	fmt.Fprintf(w, "Default Currency:     %s\n", cfg.DefaultCurrency)
	fmt.Fprintf(w, "Cache Enabled:        %t\n", cfg.CacheEnabled)
	fmt.Fprintf(w, "Cache TTL:            %s\n", cfg.CacheTTL)
	fmt.Fprintf(w, "Log Level:            %s\n", cfg.LogLevel)
	fmt.Fprintf(w, "Debug Mode:           %t\n", cfg.Debug)
}

// validateConfig validates the configuration
func validateConfig(w io.Writer, cfg *config.Config) error {
	fmt.Fprintln(w, "🔍 Validating Nama'a Configuration...")
	fmt.Fprintln(w, "═══════════════════════════════════════")

	fmt.Fprint(w, "⚙️  Checking configuration values... ")
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(w, "❌")
		return err
	}
	fmt.Fprintln(w, "✅")

	fmt.Fprint(w, "📁 Checking directories... ")
	if err := cfg.EnsureDirectories(); err != nil {
		fmt.Fprintln(w, "❌")
		return fmt.Errorf("directory validation failed: %w", err)
	}
	fmt.Fprintln(w, "✅")

	fmt.Fprintln(w)
	fmt.Fprintln(w, "✅ Configuration validation completed successfully!")
	return nil
}
