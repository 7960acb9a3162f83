package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/axent-pl/idtoken/idtoken"
	"github.com/axent-pl/idtoken/jwks"
)

type VerifyCmd struct {
	Token     string        `arg:"" help:"Compact ID token"`
	Audience  []string      `short:"a" required:"" help:"Accepted OAuth client id (repeatable)"`
	JWKSURL   string        `name:"jwks-url" default:"${jwks_url}" help:"Provider key set URL"`
	ClockSkew time.Duration `default:"5m" help:"Tolerance for tokens issued in the future"`
}

func (cmd *VerifyCmd) Run(ctx context.Context) error {
	keys := jwks.NewKeyStore(cmd.JWKSURL)
	v := idtoken.NewVerifier(keys)
	v.ClockSkew = cmd.ClockSkew

	payload, err := v.VerifyAny(ctx, cmd.Token, cmd.Audience)
	if err != nil {
		if r := idtoken.ReasonOf(err); r != idtoken.ReasonUnknown {
			return fmt.Errorf("token rejected: %s", r)
		}
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}
