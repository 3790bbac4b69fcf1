package main

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"owl-withings/internal/models"
	"owl-withings/internal/service"
	"owl-withings/internal/store"
)

var defaultScopes = []models.AuthScope{
	models.ScopeUserInfo,
	models.ScopeUserMetrics,
	models.ScopeUserActivity,
	models.ScopeUserSleepEvents,
}

var authorizeURLCmd = &cobra.Command{
	Use:   "authorize-url",
	Short: "Print the URL where the user grants access",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := ctxGetApp(cmd.Context())
		if a.cfg.Withings.ClientID == "" || a.cfg.Withings.RedirectURL == "" {
			return errors.New("WITHINGS_CLIENT_ID and WITHINGS_REDIRECT_URL are required")
		}
		state, _ := cmd.Flags().GetString("state")
		if state == "" {
			state = uuid.NewString()
		}
		scopesStr, _ := cmd.Flags().GetString("scopes")
		scopes := parseFields[models.AuthScope](scopesStr)
		if scopes == nil {
			scopes = defaultScopes
		}
		_, err := fmt.Fprintln(a.out, service.AuthorizeURL(a.oauthConfig(), state, scopes...))
		return err
	},
}

var exchangeCodeCmd = &cobra.Command{
	Use:   "exchange-code <code>",
	Short: "Exchange an authorization code for tokens",
	Long: `Exchange the code received on the redirect URL for an access token.
With TOKEN_CACHE_ENABLED the token is stored in Redis for later commands.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := ctxGetApp(cmd.Context())
		if a.cfg.Withings.ClientID == "" || a.cfg.Withings.ClientSecret == "" {
			return errors.New("WITHINGS_CLIENT_ID and WITHINGS_CLIENT_SECRET are required")
		}
		token, err := a.authenticator().Exchange(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if a.cfg.TokenCacheEnabled {
			kv, err := a.kvStore(cmd.Context())
			if err != nil {
				return err
			}
			key := store.TokenKey(a.cfg.Withings.ClientID)
			if err := store.SaveToken(cmd.Context(), kv, key, token); err != nil {
				return err
			}
			a.logger.Info("Cached token", zap.String("key", key), zap.Time("expiry", token.Expiry))
		}
		return a.printJSON(token)
	},
}

func init() {
	rootCmd.AddCommand(authorizeURLCmd, exchangeCodeCmd)

	authorizeURLCmd.Flags().String("state", "", "OAuth state value (default: random)")
	authorizeURLCmd.Flags().String("scopes", "", "Comma-separated scopes (default: all)")
}
