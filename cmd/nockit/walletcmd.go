package main

import (
	"fmt"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/docxology/nockit/internal/config"
	"github.com/docxology/nockit/internal/nockcrypto"
)

var walletCommand = &cli.Command{
	Name:  "wallet",
	Usage: "key generation, backup and restore",
	Subcommands: []*cli.Command{
		walletKeygenCommand,
		walletStatusCommand,
		walletBackupCommand,
		walletRestoreCommand,
		walletImportCommand,
		walletExportCommand,
	},
}

var walletKeygenCommand = &cli.Command{
	Name:  "keygen",
	Usage: "generate a new key pair and print its public key",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "output", Usage: "path to write the key file to"},
	},
	Action: func(c *cli.Context) error {
		ac, err := newAppContext(c)
		if err != nil {
			return err
		}
		pair, err := nockcrypto.Generate()
		if err != nil {
			return err
		}

		output := c.String("output")
		if output == "" {
			output = filepath.Join(ac.Dir, config.Default().Wallet.WalletDir, "keys.json")
		}
		if err := nockcrypto.Save(pair, output); err != nil {
			return err
		}

		fmt.Fprintln(c.App.Writer, pair.Public.Base58())
		return nil
	},
}

var walletStatusCommand = &cli.Command{
	Name:  "status",
	Usage: "report known keys and, if the node is reachable, balance",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "pubkey", Usage: "report on this public key instead of the configured default"},
	},
	Action: func(c *cli.Context) error {
		ac, err := newAppContext(c)
		if err != nil {
			return err
		}
		pubkey := c.String("pubkey")
		if pubkey == "" {
			pubkey = ac.Overlay.MiningPubkey()
		}
		if pubkey == "" {
			fmt.Fprintln(c.App.Writer, "no public key configured")
			return nil
		}
		if _, err := nockcrypto.PublicKeyFromBase58(pubkey); err != nil {
			return err
		}

		status, running := ac.Supervisor.Status("nockchain")
		fmt.Fprintf(c.App.Writer, "public key: %s\n", pubkey)
		if running {
			fmt.Fprintf(c.App.Writer, "node status: %s\n", status.State)
		} else {
			fmt.Fprintln(c.App.Writer, "node status: not supervised in this session")
		}
		fmt.Fprintln(c.App.Writer, "balance: unavailable (wallet binary integration out of scope)")
		return nil
	},
}

var walletBackupCommand = &cli.Command{
	Name:  "backup",
	Usage: "export the configured key pair to a timestamped backup file",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "output", Usage: "backup directory (default: <config-dir>/backups)"},
	},
	Action: func(c *cli.Context) error {
		ac, err := newAppContext(c)
		if err != nil {
			return err
		}
		keysPath := filepath.Join(ac.Dir, config.Default().Wallet.WalletDir, "keys.json")
		pair, err := nockcrypto.Load(keysPath)
		if err != nil {
			return err
		}
		dir := c.String("output")
		if dir == "" {
			dir = filepath.Join(ac.Dir, "backups")
		}
		path, err := nockcrypto.ExportBackup(pair, dir, map[string]string{"public_base58": pair.Public.Base58()})
		if err != nil {
			return err
		}
		fmt.Fprintln(c.App.Writer, path)
		return nil
	},
}

var walletRestoreCommand = &cli.Command{
	Name:  "restore",
	Usage: "recover a key pair from a backup file",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "input", Required: true, Usage: "backup file to restore from"},
	},
	Action: func(c *cli.Context) error {
		ac, err := newAppContext(c)
		if err != nil {
			return err
		}
		pair, err := nockcrypto.ImportBackup(c.String("input"))
		if err != nil {
			return err
		}
		keysPath := filepath.Join(ac.Dir, config.Default().Wallet.WalletDir, "keys.json")
		if err := nockcrypto.Save(pair, keysPath); err != nil {
			return err
		}
		fmt.Fprintln(c.App.Writer, pair.Public.Base58())
		return nil
	},
}

var walletImportCommand = &cli.Command{
	Name:  "import",
	Usage: "import a key pair from a raw key file",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "input", Required: true, Usage: "key file to import"},
	},
	Action: func(c *cli.Context) error {
		ac, err := newAppContext(c)
		if err != nil {
			return err
		}
		pair, err := nockcrypto.Load(c.String("input"))
		if err != nil {
			return err
		}
		keysPath := filepath.Join(ac.Dir, config.Default().Wallet.WalletDir, "keys.json")
		if err := nockcrypto.Save(pair, keysPath); err != nil {
			return err
		}
		fmt.Fprintln(c.App.Writer, pair.Public.Base58())
		return nil
	},
}

var walletExportCommand = &cli.Command{
	Name:  "export",
	Usage: "export the configured key pair to a raw key file",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "output", Required: true, Usage: "destination key file"},
	},
	Action: func(c *cli.Context) error {
		ac, err := newAppContext(c)
		if err != nil {
			return err
		}
		keysPath := filepath.Join(ac.Dir, config.Default().Wallet.WalletDir, "keys.json")
		pair, err := nockcrypto.Load(keysPath)
		if err != nil {
			return err
		}
		if err := nockcrypto.Save(pair, c.String("output")); err != nil {
			return err
		}
		return nil
	},
}
