package main

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/sensusai/sensus-server/cmd/cli"
	"github.com/sensusai/sensus-server/internal/core/config"
	"github.com/sensusai/sensus-server/internal/utils"
	"github.com/sensusai/sensus-server/pkg/logger"
)

var (
	logMode    string
	configPath string
)

var rootCmd = &cobra.Command{
	Use:           "sensus-server",
	Short:         "SensusAI recording rewards server",
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.InitWithMode(logger.ParseMode(logMode))
		if configPath != "" {
			config.GetConfigManager().SetConfigPath(configPath)
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		cli.RunServer()
	},
}

func main() {
	// errors raised before --log is parsed still need a visible logger
	logger.InitWithMode(logger.LogModePretty)
	utils.ExecuteCommand(rootCmd, logger.WithComponent("cli"))
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logMode, "log", "pretty", "Log mode: debug, pretty, info, prod, test")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the .env config file")

	authCmd.Flags().String("private-key", "", "Reward pool private key in hex format")
	if err := authCmd.MarkFlagRequired("private-key"); err != nil {
		log.Fatalf("Error marking flag required: %v", err)
	}

	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(cli.NewRewardCommand())
	rootCmd.AddCommand(cli.NewBalanceCommand())
	rootCmd.AddCommand(cli.NewTokenInfoCommand())
}

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the sensus server",
	Run: func(cmd *cobra.Command, args []string) {
		cli.RunServer()
	},
}

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Store the reward pool key in the local keystore",
	RunE: func(cmd *cobra.Command, args []string) error {
		privateKey, _ := cmd.Flags().GetString("private-key")
		return cli.ExecuteAuth(privateKey)
	},
}
