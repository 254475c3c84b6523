package main

import (
	"encoding/json"
	"errors"
	"strings"

	"firebase-mcp/internal/auth"
	"firebase-mcp/internal/mcp"

	"github.com/spf13/cobra"
)

type toolListing struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	ReadOnly    bool       `json:"readOnly"`
	InputSchema mcp.Schema `json:"inputSchema"`
}

func newToolsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "Print the tool catalog as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog := mcp.NewCatalog(mcp.NewHandlers(nil, nil, nil))
			listing := make([]toolListing, 0, len(catalog.Tools()))
			for _, def := range catalog.Tools() {
				listing = append(listing, toolListing{
					Name:        def.Name,
					Description: def.Description,
					ReadOnly:    def.ReadOnly,
					InputSchema: def.InputSchema,
				})
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(listing)
		},
	}
}

func newTokenCommand(a *app) *cobra.Command {
	var (
		subject string
		tools   string
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for the http transport",
		RunE: func(cmd *cobra.Command, args []string) error {
			module, err := auth.NewAuthModule(nil, a.cfg, a.logger)
			if err != nil {
				return err
			}
			tokens := module.GetTokenService()
			if tokens == nil {
				return errors.New("JWT_SECRET_KEY must be set to mint tokens")
			}

			var granted []string
			for _, name := range strings.Split(tools, ",") {
				if name = strings.TrimSpace(name); name != "" {
					granted = append(granted, name)
				}
			}
			token, err := tokens.GenerateToken(cmd.Context(), subject, granted)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write([]byte(token + "\n"))
			return err
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "", "subject recorded in the token")
	cmd.Flags().StringVar(&tools, "tools", "", "comma-separated tool names the token grants (default all)")
	_ = cmd.MarkFlagRequired("subject")
	return cmd
}
