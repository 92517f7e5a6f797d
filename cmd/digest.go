package cmd

import (
	"encoding/hex"
	"fmt"

	"github.com/urfave/cli"

	"github.com/keep-network/keep-passkey/pkg/chain/eosio"
)

// DigestCommand contains the definition of the digest command-line
// subcommand.
var DigestCommand cli.Command

const digestDescription = `The digest command builds the digest an authenticator
   signs to authorize a serialized transaction. It prints the digest, the
   challenge as it appears in the client data and the transaction ID.`

func init() {
	DigestCommand = cli.Command{
		Name:        "digest",
		Usage:       "Builds a transaction signing digest",
		Description: digestDescription,
		Action:      Digest,
		Flags: []cli.Flag{
			chainIDFlag,
			transactionFlag,
			cli.StringFlag{
				Name:  "context-free-data",
				Usage: "Hex-encoded packed context-free data of the transaction",
			},
		},
	}
}

// Digest prints the signing digest of a transaction.
func Digest(c *cli.Context) error {
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

	contextFreeData, err := hex.DecodeString(c.String("context-free-data"))
	if err != nil {
		return fmt.Errorf("invalid context-free data: [%v]", err)
	}

	digest := eosio.BuildDigestWithContextFreeData(
		chainID,
		serializedTransaction,
		contextFreeData,
	)
	transactionID := eosio.TransactionID(serializedTransaction)

	fmt.Printf(
		"digest:         %s\nchallenge:      %s\ntransaction ID: %x\n",
		digest.Hex(),
		digest.Challenge(),
		transactionID,
	)

	return nil
}
