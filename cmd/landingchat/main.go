package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/landingchat/landingchat/internal/profile"
	"github.com/landingchat/landingchat/internal/version"
	"github.com/landingchat/landingchat/server"
	"github.com/landingchat/landingchat/server/llm"
	apiv1 "github.com/landingchat/landingchat/server/router/api/v1"
	"github.com/landingchat/landingchat/server/service/chat"
	"github.com/landingchat/landingchat/store"
	"github.com/landingchat/landingchat/store/db"
)

const greetingBanner = `landing.chat %s, mode %s, listening on %s:%d
`

var rootCmd = &cobra.Command{
	Use:   "landingchat",
	Short: "An AI app builder with a Persian-first interface",
	Run: func(_ *cobra.Command, _ []string) {
		instanceProfile := &profile.Profile{
			Mode:      viper.GetString("mode"),
			Addr:      viper.GetString("addr"),
			Port:      viper.GetInt("port"),
			Data:      viper.GetString("data"),
			Driver:    viper.GetString("driver"),
			DSN:       viper.GetString("dsn"),
			PublicURL: viper.GetString("public-url"),
			BasePath:  viper.GetString("base-path"),
			Version:   version.GetCurrentVersion(viper.GetString("mode")),
		}
		instanceProfile.FromEnv()
		if err := instanceProfile.Validate(); err != nil {
			slog.Error("invalid configuration", slog.String("error", err.Error()))
			os.Exit(1)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		dbDriver, err := db.NewDBDriver(instanceProfile)
		if err != nil {
			slog.Error("failed to create db driver", slog.String("error", err.Error()))
			os.Exit(1)
		}
		storeInstance := store.New(dbDriver, instanceProfile)

		var titleGenerator chat.TitleGenerator
		var streamer apiv1.CompletionStreamer
		if instanceProfile.IsLLMEnabled() {
			provider, err := llm.NewProvider(llm.ConfigFromProfile(instanceProfile))
			if err != nil {
				slog.Error("failed to create llm provider", slog.String("error", err.Error()))
				os.Exit(1)
			}
			titleGenerator = provider
			streamer = provider
		} else {
			slog.Warn("LANDINGCHAT_LLM_API_KEY is not set, completions and title generation are disabled")
		}

		chatService := chat.NewService(storeInstance, titleGenerator)

		s, err := server.NewServer(ctx, instanceProfile, storeInstance, chatService, streamer)
		if err != nil {
			slog.Error("failed to create server", slog.String("error", err.Error()))
			os.Exit(1)
		}

		fmt.Printf(greetingBanner, instanceProfile.Version, instanceProfile.Mode, instanceProfile.Addr, instanceProfile.Port)

		var group errgroup.Group
		group.Go(func() error {
			return s.Start(ctx)
		})
		group.Go(func() error {
			<-ctx.Done()
			slog.Info("shutting down")
			s.Shutdown(context.Background())
			return nil
		})
		if err := group.Wait(); err != nil {
			slog.Error("server exited with error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	},
}

func init() {
	viper.SetDefault("mode", "dev")
	viper.SetDefault("driver", "sqlite")
	viper.SetDefault("addr", "")
	viper.SetDefault("port", 8081)

	rootCmd.PersistentFlags().String("mode", "dev", `mode of the server, can be "prod" or "dev" or "demo"`)
	rootCmd.PersistentFlags().String("addr", "", "address of the server")
	rootCmd.PersistentFlags().Int("port", 8081, "port of the server")
	rootCmd.PersistentFlags().String("data", "", "data directory")
	rootCmd.PersistentFlags().String("driver", "sqlite", `database driver, can be "sqlite" or "postgres"`)
	rootCmd.PersistentFlags().String("dsn", "", "database source name (aka. DSN)")
	rootCmd.PersistentFlags().String("public-url", "", "externally reachable URL of this instance")
	rootCmd.PersistentFlags().String("base-path", "", "routing prefix when deployed under a sub-path")

	for _, flag := range []string{"mode", "addr", "port", "data", "driver", "dsn", "public-url", "base-path"} {
		if err := viper.BindPFlag(flag, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
			panic(err)
		}
	}

	viper.SetEnvPrefix("landingchat")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("failed to run command", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
