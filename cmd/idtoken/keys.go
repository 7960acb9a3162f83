package main

import (
	"context"
	"fmt"
	"os"

	"github.com/axent-pl/idtoken/jwks"
)

type KeysCmd struct {
	JWKSURL string `name:"jwks-url" default:"${jwks_url}" help:"Provider key set URL"`
}

func (cmd *KeysCmd) Run(ctx context.Context) error {
	set, err := jwks.NewKeyStore(cmd.JWKSURL).Keys(ctx)
	if err != nil {
		return err
	}
	for _, k := range set.Keys {
		pemBytes, err := k.PEM()
		if err != nil {
			fmt.Fprintf(os.Stderr, "# kid=%s skipped: %v\n", k.Kid, err)
			continue
		}
		fp, err := k.Fingerprint()
		if err != nil {
			fmt.Fprintf(os.Stderr, "# kid=%s skipped: %v\n", k.Kid, err)
			continue
		}
		fmt.Printf("# kid=%s alg=%s spki_sha256=%s\n%s", k.Kid, k.Alg, fp, pemBytes)
	}
	return nil
}
