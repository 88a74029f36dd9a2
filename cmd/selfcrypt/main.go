package main

import (
	"fmt"
	"os"

	"github.com/pboyd/selfcrypt"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"
)

// secret is the protected function. Once encrypted it can only run after
// main has decrypted it.
//
// A string literal would be stored in rodata, outside the encrypted range,
// so the text is built from bytes that end up as immediates in the code.
//
//go:noinline
func secret() {
	s := [...]byte{'s', '3', 'c', 'r', '3', 't', '\n'}
	os.Stdout.Write(s[:])
}

func main() {
	app := cli.NewApp()
	app.Name = "selfcrypt"
	app.Usage = "run a function that is stored encrypted inside this executable"
	app.UsageText = "selfcrypt [global options] <hexkey>\n   selfcrypt [global options] command [arguments...]"
	app.HideVersion = true

	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "debug",
			Usage: "enable debug output in logs",
		},
		cli.BoolFlag{
			Name:  "persist",
			Usage: "write the decrypted function back to the executable",
		},
	}

	app.Commands = []cli.Command{
		encryptCommand,
		dumpCommand,
	}

	app.Action = decryptAction

	app.Before = func(context *cli.Context) error {
		if context.GlobalBool("debug") {
			logrus.SetLevel(logrus.DebugLevel)
		}
		return nil
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "selfcrypt: %s\n", err)
		os.Exit(1)
	}
}

var encryptCommand = cli.Command{
	Name:      "encrypt",
	Usage:     "encrypt the protected function and rewrite the executable",
	ArgsUsage: "<hexkey>",
	Action: func(c *cli.Context) error {
		key, err := keyArg(c)
		if err != nil {
			return err
		}

		p, err := newProtector(c)
		if err != nil {
			return err
		}
		if err := p.Encrypt(key); err != nil {
			return err
		}

		fmt.Println("encrypted")
		return nil
	},
}

var dumpCommand = cli.Command{
	Name:  "dump",
	Usage: "print the bytes and disassembly of the protected function",
	Action: func(c *cli.Context) error {
		region, err := selfcrypt.Locate(secret)
		if err != nil {
			return err
		}
		return selfcrypt.Dump(os.Stdout, region, selfcrypt.DefaultDetector)
	},
}

func decryptAction(c *cli.Context) error {
	key, err := keyArg(c)
	if err != nil {
		return err
	}

	p, err := newProtector(c)
	if err != nil {
		return err
	}
	if err := p.Decrypt(key); err != nil {
		return err
	}

	secret()
	return nil
}

func keyArg(c *cli.Context) (selfcrypt.Key, error) {
	if c.NArg() != 1 {
		return nil, errors.Errorf("expected one hex key argument, got %d", c.NArg())
	}
	return selfcrypt.ParseKey(c.Args().First())
}

func newProtector(c *cli.Context) (*selfcrypt.Protector, error) {
	region, err := selfcrypt.Locate(secret)
	if err != nil {
		return nil, errors.Wrap(err, "locating protected function")
	}
	return selfcrypt.New(region,
		selfcrypt.WithPersistDecrypted(c.GlobalBool("persist")),
	), nil
}
