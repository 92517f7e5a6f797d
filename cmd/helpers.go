package cmd

import (
	"encoding/hex"
	"fmt"
	"io/ioutil"
	"os"
	"strings"

	"github.com/ipfs/go-log"
	"github.com/urfave/cli"

	"github.com/keep-network/keep-passkey/internal/config"
	"github.com/keep-network/keep-passkey/pkg/chain/eosio"
)

var logger = log.Logger("keep-cmd")

var (
	chainIDFlag = cli.StringFlag{
		Name:  "chain-id",
		Usage: "Hex-encoded chain ID. If not provided read it from a config file.",
	}
	transactionFlag = cli.StringFlag{
		Name:  "tx,t",
		Usage: "Hex-encoded serialized transaction",
	}
	outputFileFlag = cli.StringFlag{
		Name:  "output-file,o",
		Usage: "Output file for the result",
	}
)

// LoadConfig reads the config file set with the global `config` flag. A
// missing file at the default location yields an empty config, so commands
// can run with flags only.
func LoadConfig(c *cli.Context) (*config.Config, error) {
	path := c.GlobalString("config")

	if _, err := os.Stat(path); os.IsNotExist(err) && !c.GlobalIsSet("config") {
		logger.Debugf("config file [%s] not found; using defaults", path)
		return &config.Config{}, nil
	}

	return config.ReadConfig(path)
}

func chainIDFromFlags(c *cli.Context, cfg *config.Config) (eosio.ChainID, error) {
	if chainID := c.String(chainIDFlag.Name); len(chainID) > 0 {
		return eosio.ParseChainID(chainID)
	}

	return cfg.ChainID()
}

func transactionFromFlags(c *cli.Context) ([]byte, error) {
	transaction := c.String("tx")
	if len(transaction) == 0 {
		return nil, fmt.Errorf("serialized transaction is required")
	}

	serializedTransaction, err := hex.DecodeString(strings.TrimPrefix(transaction, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid serialized transaction: [%v]", err)
	}

	return serializedTransaction, nil
}

func outputData(c *cli.Context, data []byte) error {
	if outputFilePath := c.String(outputFileFlag.Name); len(outputFilePath) > 0 {
		if _, err := os.Stat(outputFilePath); !os.IsNotExist(err) {
			return fmt.Errorf(
				"could not write output to a file; file [%s] already exists",
				outputFilePath,
			)
		}

		err := ioutil.WriteFile(outputFilePath, data, 0644)
		if err != nil {
			return fmt.Errorf(
				"failed to write output to a file [%s]: [%v]",
				outputFilePath,
				err,
			)
		}

		fmt.Printf("output stored to a file: %s\n", outputFilePath)
	} else {
		_, err := os.Stdout.Write(data)
		if err != nil {
			return fmt.Errorf(
				"could not write bytes to stdout: [%v]",
				err,
			)
		}
	}

	return nil
}
