package main

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/axent-pl/idtoken/idtoken"
)

type MintCmd struct {
	Key      []byte        `required:"" type:"filecontent" help:"Path to a PEM RSA private key (PKCS#1 or PKCS#8)"`
	Kid      string        `required:"" help:"Key id to put into the token header"`
	Audience string        `short:"a" required:"" help:"OAuth client id"`
	Subject  string        `required:"" help:"Subject identifier"`
	Email    string        `help:"Email claim"`
	Name     string        `help:"Display name claim"`
	Lifetime time.Duration `default:"1h" help:"Token lifetime"`
	JWKSOut  string        `name:"jwks-out" type:"path" help:"Write the matching key set document to this file"`
}

func (cmd *MintCmd) Run() error {
	key, err := decodeRSAPrivateKey(cmd.Key)
	if err != nil {
		return fmt.Errorf("failed to decode signing key: %w", err)
	}
	iss := &idtoken.Issuer{Kid: cmd.Kid, Key: key, Lifetime: cmd.Lifetime}

	token, err := iss.Issue(idtoken.Payload{
		Audience:        cmd.Audience,
		AuthorizedParty: cmd.Audience,
		Subject:         cmd.Subject,
		Email:           cmd.Email,
		EmailVerified:   cmd.Email != "",
		Name:            cmd.Name,
	})
	if err != nil {
		return err
	}

	if cmd.JWKSOut != "" {
		doc, err := iss.JWKS()
		if err != nil {
			return err
		}
		if err := os.WriteFile(cmd.JWKSOut, doc, 0o644); err != nil {
			return fmt.Errorf("failed to write key set: %w", err)
		}
	}

	fmt.Println(token)
	return nil
}

func decodeRSAPrivateKey(data []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, errors.New("no PEM block found")
	}
	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return key, nil
	}
	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, err
	}
	key, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("unsupported private key type %T", parsed)
	}
	return key, nil
}
