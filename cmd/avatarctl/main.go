// avatarctl - клиент командной строки для TCP протокола сервера аватаров.
//
//	avatarctl call agent.spawn name=Bob
//	avatarctl call agent.moveTo agent=Bob x=3 y=64 z=0
//	avatarctl agents
//	avatarctl patrol Bob 3,64,0 0,64,3 --laps 2
package main

import (
	"avatar-server/internal/config"
	"avatar-server/internal/version"
	"avatar-server/pkg/logger"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

type globalFlags struct {
	addr    string
	token   string
	timeout time.Duration
}

func main() {
	logger.Init("info", "text")
	// stdout - для ответов сервера
	logger.Log.SetOutput(os.Stderr)

	if err := buildRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "avatarctl:", err)
		os.Exit(1)
	}
}

func buildRootCmd() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:          "avatarctl",
		Short:        "Command-line client for the avatar server",
		Version:      version.String(),
		SilenceUsage: true,
	}

	defaultToken := config.DefaultToken
	if v, ok := os.LookupEnv("AVATAR_TOKEN"); ok {
		defaultToken = v
	}
	rootCmd.PersistentFlags().StringVar(&flags.addr, "addr", fmt.Sprintf("127.0.0.1:%d", config.DefaultPort), "Server address host:port")
	rootCmd.PersistentFlags().StringVar(&flags.token, "token", defaultToken, "Shared secret (or set AVATAR_TOKEN)")
	rootCmd.PersistentFlags().DurationVar(&flags.timeout, "timeout", 10*time.Second, "Timeout for a single call")

	rootCmd.AddCommand(
		buildCallCmd(flags),
		buildAgentsCmd(flags),
		buildPatrolCmd(flags),
	)
	return rootCmd
}
