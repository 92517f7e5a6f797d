package cmd

import (
	"context"
	"encoding/hex"
	"fmt"
	"io/ioutil"

	"github.com/urfave/cli"

	"github.com/keep-network/keep-passkey/pkg/chain/eosio"
	"github.com/keep-network/keep-passkey/pkg/ecc"
	"github.com/keep-network/keep-passkey/pkg/passkey"
)

// SignCommand contains the definition of the sign command-line subcommand.
var SignCommand cli.Command

// SignK1Command contains the definition of the sign-k1 command-line
// subcommand.
var SignK1Command cli.Command

const signDescription = `The sign command turns an assertion recorded by a
   browser for the transaction digest into a SIG_WA_ signature. The assertion
   is the JSON serialized result of navigator.credentials.get with base64url
   encoded binary fields. The signature is verified against the registered
   credential public key.`

const signK1Description = `The sign-k1 command signs a transaction with a K1
   private key provided in WIF or PVT_K1_ form, e.g. to authorize adding a
   passkey to an account.`

func init() {
	SignCommand = cli.Command{
		Name:        "sign",
		Usage:       "Assembles a passkey signature for a transaction",
		Description: signDescription,
		Action:      Sign,
		Flags: []cli.Flag{
			chainIDFlag,
			transactionFlag,
			cli.StringFlag{
				Name:  "assertion,a",
				Usage: "Path to the recorded assertion JSON file",
			},
			cli.StringFlag{
				Name:  "credential-id",
				Usage: "Hex-encoded credential ID",
			},
			cli.StringFlag{
				Name:  "public-key,k",
				Usage: "Registered PUB_WA_ or PUB_R1_ key of the credential",
			},
			outputFileFlag,
		},
	}

	SignK1Command = cli.Command{
		Name:        "sign-k1",
		Usage:       "Signs a transaction with a K1 private key",
		Description: signK1Description,
		Action:      SignK1,
		ArgsUsage:   "[private-key]",
		Flags: []cli.Flag{
			chainIDFlag,
			transactionFlag,
		},
	}
}

// Sign replays a recorded assertion through the passkey signer and prints
// the resulting signature.
func Sign(c *cli.Context) error {
	cfg, err := LoadConfig(c)
	if err != nil {
		return fmt.Errorf("failed while reading config file: [%v]", err)
	}

	chainID, err := chainIDFromFlags(c, cfg)
	if err != nil {
		return err
	}

	serializedTransaction, err := transactionFromFlags(c)
	if err != nil {
		return err
	}

	credential, err := passkey.NewCredential(
		c.String("credential-id"),
		c.String("public-key"),
	)
	if err != nil {
		return err
	}

	assertionFile := c.String("assertion")
	if len(assertionFile) == 0 {
		return fmt.Errorf("assertion file is required")
	}

	response, err := ioutil.ReadFile(assertionFile)
	if err != nil {
		return fmt.Errorf("failed to read assertion file [%s]: [%v]", assertionFile, err)
	}

	assertion, err := passkey.ParseAssertionResponse(response)
	if err != nil {
		return err
	}

	signer := passkey.NewSigner(
		&passkey.StaticAuthenticator{Assertion: assertion},
		&cfg.Passkey,
	)

	signature, err := signer.Sign(
		context.Background(),
		chainID,
		serializedTransaction,
		credential,
	)
	if err != nil {
		return fmt.Errorf("failed to sign: [%w]", err)
	}

	logger.Infof(
		"signed transaction [%x] with credential [%s]",
		eosio.TransactionID(serializedTransaction),
		hex.EncodeToString(credential.ID),
	)

	return outputData(c, []byte(signature.String()+"\n"))
}

// SignK1 signs a transaction with a K1 private key.
func SignK1(c *cli.Context) error {
	cfg, err := LoadConfig(c)
	if err != nil {
		return fmt.Errorf("failed while reading config file: [%v]", err)
	}

	privateKey, err := ecc.StringToPrivateKey(c.Args().First())
	if err != nil {
		return fmt.Errorf("invalid private key: [%w]", err)
	}

	chainID, err := chainIDFromFlags(c, cfg)
	if err != nil {
		return err
	}

	serializedTransaction, err := transactionFromFlags(c)
	if err != nil {
		return err
	}

	digest := eosio.BuildDigest(chainID, serializedTransaction)

	signature, err := privateKey.Sign(digest[:])
	if err != nil {
		return fmt.Errorf("failed to sign: [%v]", err)
	}

	fmt.Printf("%s\t%s\n", privateKey.PublicKey(), signature)

	return nil
}
