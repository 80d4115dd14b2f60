package main

import (
	"errors"
	"fmt"

	"github.com/PizzaHomicide/listfill/internal/config"
	"github.com/PizzaHomicide/listfill/internal/ui/styles"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and update the configuration",
}

var configEnvCmd = &cobra.Command{
	Use:   "env",
	Short: "List the environment variables that override the config file",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		for _, envVar := range config.SupportedEnvVars() {
			fmt.Fprintln(cmd.OutOrStdout(), styles.Key.Render(envVar.Name))
			fmt.Fprintln(cmd.OutOrStdout(), "    "+envVar.Desc)
		}
	},
}

var configSetAuthCmd = &cobra.Command{
	Use:   "set-auth",
	Short: "Save the session credentials to the config file",
	Long: `Save the CSRF token and Cookie header of a logged in MyAnimeList browser session to the
config file, so later runs do not need them on the command line.

The token is the content of the csrf_token meta tag of any MyAnimeList page.  The cookies are the
Cookie request header the browser sends to myanimelist.net.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		token, _ := cmd.Flags().GetString("csrf-token")
		cookies, _ := cmd.Flags().GetString("cookies")
		if token == "" && cookies == "" {
			return errors.New("nothing to save, pass --csrf-token and/or --cookies")
		}

		// Makes sure a config file exists to update
		if _, err := config.LoadFrom(configPath); err != nil {
			return err
		}

		err := config.UpdateConfig(configPath, func(c *config.Config) {
			if token != "" {
				c.Auth.CSRFToken = token
			}
			if cookies != "" {
				c.Auth.Cookies = cookies
			}
		})
		if err != nil {
			return fmt.Errorf("failed to save credentials: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), styles.Success.Render("✓ Credentials saved"))
		return nil
	},
}

func init() {
	configCmd.AddCommand(configEnvCmd, configSetAuthCmd)
}
