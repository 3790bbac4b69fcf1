package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Manage webhook notification subscriptions",
}

var notifySubscribeCmd = &cobra.Command{
	Use:   "subscribe <callback-url>",
	Short: "Subscribe a callback URL to a notification category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := ctxGetApp(cmd.Context())
		categoryStr, _ := cmd.Flags().GetString("category")
		category, err := parseCategory(categoryStr)
		if err != nil {
			return err
		}
		client, err := a.client(cmd.Context())
		if err != nil {
			return err
		}
		if err := client.SubscribeNotification(cmd.Context(), args[0], category); err != nil {
			return err
		}
		a.logger.Info("Subscribed notification",
			zap.String("callback_url", args[0]),
			zap.String("category", category.String()),
		)
		return nil
	},
}

var notifyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List notification configurations",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := ctxGetApp(cmd.Context())
		categoryStr, _ := cmd.Flags().GetString("category")
		category, err := parseCategory(categoryStr)
		if err != nil {
			return err
		}
		client, err := a.client(cmd.Context())
		if err != nil {
			return err
		}
		configs, err := client.ListNotificationConfigurations(cmd.Context(), category)
		if err != nil {
			return err
		}
		return a.printJSON(configs)
	},
}

var notifyRevokeCmd = &cobra.Command{
	Use:   "revoke <callback-url>",
	Short: "Revoke a notification subscription",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := ctxGetApp(cmd.Context())
		categoryStr, _ := cmd.Flags().GetString("category")
		category, err := parseCategory(categoryStr)
		if err != nil {
			return err
		}
		client, err := a.client(cmd.Context())
		if err != nil {
			return err
		}
		if err := client.RevokeNotificationConfigurations(cmd.Context(), args[0], category); err != nil {
			return err
		}
		a.logger.Info("Revoked notification",
			zap.String("callback_url", args[0]),
			zap.String("category", category.String()),
		)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(notifyCmd)
	notifyCmd.AddCommand(notifySubscribeCmd, notifyListCmd, notifyRevokeCmd)

	notifySubscribeCmd.Flags().String("category", "1", "Notification category code (appli)")
	notifyListCmd.Flags().String("category", "", "Only list this category code (default: all)")
	notifyRevokeCmd.Flags().String("category", "1", "Notification category code (appli)")
}
