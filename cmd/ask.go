package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ramanasai/tripboard/internal/chat"
	"github.com/ramanasai/tripboard/internal/config"
	"github.com/ramanasai/tripboard/internal/utils"
)

var (
	askLocation string
	askFormat   string
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask the trip assistant one question",
	Long: `Examples:
  tripboard ask --location Kyoto "where should we eat on day one?"
  tripboard ask -l Rome "is the Colosseum open on Mondays" --format json`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		logger := stderrLogger(cmd)
		_, _, completer := services(cfg, logger)
		if completer == nil {
			return fmt.Errorf("ask: no chat api key, set %s_CHAT_API_KEY or chat.api_key", config.EnvPrefix)
		}

		question := strings.Join(args, " ")
		entry, err := chat.NewSession(askLocation, completer, logger).Ask(cmd.Context(), question)
		if err != nil {
			return fmt.Errorf("ask: %w", err)
		}

		rc := utils.DefaultRenderConfig()
		rc.Format = utils.ParseFormat(askFormat)
		rc.Color = !noColor
		out, err := utils.NewRenderer(rc).RenderAnswer(utils.Answer{
			Location: askLocation,
			Question: question,
			Reply:    entry.Text,
		})
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	askCmd.Flags().StringVarP(&askLocation, "location", "l", "", "trip destination")
	askCmd.Flags().StringVarP(&askFormat, "format", "f", "default", "output format: default|json|csv|compact")
}
