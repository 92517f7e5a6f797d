package cmd

import (
	"encoding/hex"
	"fmt"
	"io/ioutil"
	"strings"

	"github.com/urfave/cli"

	"github.com/keep-network/keep-passkey/pkg/ecc"
	"github.com/keep-network/keep-passkey/pkg/passkey"
)

// KeyCommand contains the definition of the key command-line subcommand and
// its own subcommands.
var KeyCommand cli.Command

const attestationDescription = `Decodes the public key of a passkey credential
   created with navigator.credentials.create. The argument is either the JSON
   serialized registration response or, with the --raw flag, a hex-encoded
   attestation object. It prints the credential ID and the PUB_WA_ key to
   register on chain.`

func init() {
	KeyCommand = cli.Command{
		Name:  "key",
		Usage: "Provides tools to work with public and private keys",
		Subcommands: []cli.Command{
			{
				Name:        "attestation",
				Usage:       "Decodes the public key of a new passkey",
				Description: attestationDescription,
				Action:      KeyAttestation,
				ArgsUsage:   "[registration-file]",
				Flags: []cli.Flag{
					cli.StringFlag{
						Name:  "rp-id",
						Usage: "Relying party ID. If not provided read it from a config file.",
					},
					cli.BoolFlag{
						Name:  "raw",
						Usage: "Read a hex-encoded attestation object instead of a JSON response",
					},
				},
			},
			{
				Name:      "inspect",
				Usage:     "Prints details of a public key",
				Action:    KeyInspect,
				ArgsUsage: "[public-key]",
			},
			{
				Name:      "k1",
				Usage:     "Prints the public key of a K1 private key",
				Action:    KeyK1,
				ArgsUsage: "[private-key]",
			},
		},
	}
}

// KeyAttestation decodes the key of a registered passkey.
func KeyAttestation(c *cli.Context) error {
	input, err := ioutil.ReadFile(c.Args().First())
	if err != nil {
		return fmt.Errorf("failed to read registration file: [%v]", err)
	}

	var registration *passkey.Registration
	if c.Bool("raw") {
		cfg, err := LoadConfig(c)
		if err != nil {
			return fmt.Errorf("failed while reading config file: [%v]", err)
		}

		relyingPartyID := c.String("rp-id")
		if len(relyingPartyID) == 0 {
			relyingPartyID = cfg.Passkey.RelyingPartyID
		}
		if len(relyingPartyID) == 0 {
			return fmt.Errorf("relying party ID is required")
		}

		attestationObject, err := hex.DecodeString(strings.TrimSpace(string(input)))
		if err != nil {
			return fmt.Errorf("invalid attestation object: [%v]", err)
		}

		registration, err = passkey.DecodeAttestationObject(
			relyingPartyID,
			attestationObject,
		)
		if err != nil {
			return err
		}
	} else {
		registration, err = passkey.ParseRegistrationResponse(input)
		if err != nil {
			return err
		}
	}

	fmt.Printf(
		"credential ID: %s\npublic key:    %s\n",
		hex.EncodeToString(registration.CredentialID),
		registration.PublicKey,
	)

	return nil
}

// KeyInspect prints the type and content of a public key.
func KeyInspect(c *cli.Context) error {
	publicKey, err := ecc.StringToPublicKey(c.Args().First())
	if err != nil {
		return fmt.Errorf("invalid public key: [%w]", err)
	}

	fmt.Printf("type:  %v\npoint: %x\n", publicKey.Type, publicKey.Point())

	switch publicKey.Type {
	case ecc.K1:
		legacy, err := publicKey.LegacyString()
		if err != nil {
			return err
		}
		fmt.Printf("legacy: %s\n", legacy)
	case ecc.WA:
		presence, err := publicKey.UserPresence()
		if err != nil {
			return err
		}
		relyingPartyID, err := publicKey.RelyingPartyID()
		if err != nil {
			return err
		}
		fmt.Printf("user presence: %d\nrelying party: %s\n", presence, relyingPartyID)
	}

	return nil
}

// KeyK1 prints the public key of a K1 private key.
func KeyK1(c *cli.Context) error {
	privateKey, err := ecc.StringToPrivateKey(c.Args().First())
	if err != nil {
		return fmt.Errorf("invalid private key: [%w]", err)
	}

	legacy, err := privateKey.PublicKey().LegacyString()
	if err != nil {
		return err
	}

	fmt.Printf("%s\n%s\n", privateKey.PublicKey(), legacy)

	return nil
}
