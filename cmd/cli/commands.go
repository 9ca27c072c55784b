package cli

import (
	"fmt"

	"github.com/sensusai/sensus-server/internal/core/config"
	"github.com/sensusai/sensus-server/internal/utils"
	"github.com/sensusai/sensus-server/pkg/logger"
	"github.com/spf13/cobra"
)

func NewRewardCommand() *cobra.Command {
	return utils.CreateCommand(utils.CommandConfig{
		Use:     "reward",
		Short:   "Issue a recording reward from the pool",
		Example: "sensus-server reward --address 0xabc... --duration 35 --dry-run",
		RunFunc: func(cmd *cobra.Command, args []string) error {
			address, _ := cmd.Flags().GetString("address")
			duration, _ := cmd.Flags().GetInt("duration")
			dryRun, _ := cmd.Flags().GetBool("dry-run")

			if dryRun {
				return ExecuteRewardEstimate(address, int64(duration), cmd.OutOrStdout())
			}

			cfg, err := config.GetConfigManager().GetConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			result, err := ExecuteReward(cfg, address, int64(duration), cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if !result.Success {
				return fmt.Errorf("reward not issued: %s", result.Reason)
			}
			return nil
		},
		Flags: map[string]utils.Flag{
			"address":  {Type: utils.FlagTypeString, Shorthand: "a", Description: "Recipient wallet address", Required: true},
			"duration": {Type: utils.FlagTypeInt, Shorthand: "d", Description: "Recording duration in seconds", Required: true},
			"dry-run":  {Type: utils.FlagTypeBool, Description: "Only print the reward the recording would earn"},
		},
	}, logger.WithComponent("cli"))
}

func NewBalanceCommand() *cobra.Command {
	return utils.CreateCommand(utils.CommandConfig{
		Use:   "balance",
		Short: "Show the SENS balance of an address",
		RunFunc: func(cmd *cobra.Command, args []string) error {
			address, _ := cmd.Flags().GetString("address")
			minBalance, _ := cmd.Flags().GetFloat64("min")

			cfg, err := config.GetConfigManager().GetConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			return ExecuteBalance(cfg, address, minBalance, cmd.OutOrStdout())
		},
		Flags: map[string]utils.Flag{
			"address": {Type: utils.FlagTypeString, Shorthand: "a", Description: "Wallet address", Required: true},
			"min":     {Type: utils.FlagTypeFloat64, Description: "Fail when the balance is below this many tokens"},
		},
	}, logger.WithComponent("cli"))
}

func NewTokenInfoCommand() *cobra.Command {
	return utils.CreateCommand(utils.CommandConfig{
		Use:   "token-info",
		Short: "Show the reward token metadata",
		RunFunc: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.GetConfigManager().GetConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			return ExecuteTokenInfo(cfg, cmd.OutOrStdout())
		},
	}, logger.WithComponent("cli"))
}
