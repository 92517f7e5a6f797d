package cmd

import (
	"fmt"

	"github.com/urfave/cli"

	"github.com/keep-network/keep-passkey/pkg/chain/eosio"
	"github.com/keep-network/keep-passkey/pkg/ecc"
)

// RecoverCommand contains the definition of the recover command-line
// subcommand.
var RecoverCommand cli.Command

const recoverDescription = `The recover command recovers the public key which
   signed a transaction from a SIG_K1_, SIG_R1_ or SIG_WA_ signature. For
   SIG_WA_ signatures the client data challenge must match the transaction
   digest.`

func init() {
	RecoverCommand = cli.Command{
		Name:        "recover",
		Usage:       "Recovers the signer of a transaction",
		Description: recoverDescription,
		Action:      Recover,
		ArgsUsage:   "[signature]",
		Flags: []cli.Flag{
			chainIDFlag,
			transactionFlag,
		},
	}
}

// Recover prints the public key recovered from a signature.
func Recover(c *cli.Context) error {
	cfg, err := LoadConfig(c)
	if err != nil {
		return fmt.Errorf("failed while reading config file: [%v]", err)
	}

	signature, err := ecc.StringToSignature(c.Args().First())
	if err != nil {
		return fmt.Errorf("invalid signature: [%w]", err)
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

	publicKey, err := signature.RecoverPublicKey(digest[:])
	if err != nil {
		return fmt.Errorf("failed to recover public key: [%w]", err)
	}

	fmt.Println(publicKey)

	return nil
}
