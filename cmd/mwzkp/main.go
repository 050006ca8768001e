// mwzkp is a command line front end to the Mimblewimble primitives of the
// mw, keychain and hasher packages. Every key, nonce, commitment, proof and
// signature is read and printed as hex.
package main

import (
	"errors"
	"os"

	flags "github.com/jessevdk/go-flags"
	"github.com/ltcsuite/mwzkp/mw"
)

// run parses args, sets up logging and the Context, and executes the
// selected command.
func run(args []string) error {
	cfg := newConfig()
	parser := newParser(cfg, func(cmd flags.Commander, args []string) error {
		if cmd == nil {
			return nil
		}
		ctxCfg, err := cfg.apply()
		if err != nil {
			return err
		}

		ctx, err := mw.NewContext(ctxCfg)
		if err != nil {
			mainLog.Errorf("Unable to initialize context: %v", err)
			return err
		}
		app.ctx = ctx

		mainLog.Debugf("Running command with %d arguments", len(args))
		return cmd.Execute(args)
	})

	// The parser prints its own and the command errors to standard error.
	_, err := parser.ParseArgs(args)
	var flagsErr *flags.Error
	if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
		return nil
	}
	return err
}

func main() {
	err := run(os.Args[1:])
	if logRotator != nil {
		logRotator.Close()
	}
	if err != nil {
		os.Exit(1)
	}
}
