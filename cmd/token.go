package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rflgf/mahjong-cli/common/jwts"
)

func newTokenCmd(opts *options) *cobra.Command {
	var client string
	c := &cobra.Command{
		Use:   "token",
		Short: "用配置里的 auth.jwtSecret 签发 API token",
		RunE: func(cmd *cobra.Command, args []string) error {
			secret := opts.cfg.Auth.JwtSecret
			if secret == "" {
				return errors.New("auth.jwtSecret 未配置")
			}
			ttl := time.Duration(opts.cfg.Auth.TokenTTLMinutes) * time.Minute
			token, err := jwts.GetToken(client, secret, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	c.Flags().StringVar(&client, "client", "", "client id written into the token")
	_ = c.MarkFlagRequired("client")
	return c
}
