package main

import (
	"errors"
	"fmt"

	"github.com/questx-lab/interaction/pkg/discord"
	"github.com/urfave/cli/v2"
)

func (s *srv) keygen(ctx *cli.Context) error {
	signer, err := discord.GenerateSigner()
	if err != nil {
		return err
	}

	fmt.Fprintf(ctx.App.Writer, "seed:       %s\n", signer.SeedHex())
	fmt.Fprintf(ctx.App.Writer, "public key: %s\n", signer.PublicKeyHex())
	return nil
}

func (s *srv) sign(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return errors.New("sign expects exactly one body argument")
	}
	body := []byte(ctx.Args().First())

	signer, err := discord.NewSignerFromSeed(ctx.String("seed"))
	if err != nil {
		return err
	}

	var headers discord.Headers
	if ts := ctx.String("timestamp"); ts != "" {
		headers = signer.SignWithTimestamp(body, ts)
	} else {
		headers = signer.Sign(body)
	}

	w := ctx.App.Writer
	if url := ctx.String("url"); url != "" {
		fmt.Fprintf(w, "curl -X POST %s -H 'Content-Type: application/json' -H '%s: %s' -H '%s: %s' -d '%s'\n",
			url, discord.HeaderSignature, headers.Signature, discord.HeaderTimestamp, headers.Timestamp, body)
		return nil
	}

	fmt.Fprintf(w, "%s: %s\n", discord.HeaderSignature, headers.Signature)
	fmt.Fprintf(w, "%s: %s\n", discord.HeaderTimestamp, headers.Timestamp)
	return nil
}

func (s *srv) verify(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return errors.New("verify expects exactly one body argument")
	}

	publicKey := ctx.String("public-key")
	if publicKey == "" {
		if err := s.loadConfig(ctx); err != nil {
			return err
		}
		publicKey = s.configs.Discord.InteractionPublicKey
	}

	valid := discord.VerifyKey(
		discord.Text(ctx.Args().First()),
		discord.Text(ctx.String("signature")),
		discord.Text(ctx.String("timestamp")),
		discord.Text(publicKey),
	)

	fmt.Fprintln(ctx.App.Writer, valid)
	return nil
}
