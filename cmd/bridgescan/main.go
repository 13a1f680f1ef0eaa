// Command bridgescan resolves a signature table against a host binary and
// reports where every identifier landed. It is the triage tool for the
// usual failure mode: the host updated and the module refuses to load.
//
//	bridgescan bin/linux64/lua_shared.so --config signatures.yaml --host-version 2024.10.1
package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hostlink/lua-bridge/guard"
	"github.com/hostlink/lua-bridge/image"
	"github.com/hostlink/lua-bridge/resolver"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath  string
		hostVersion string
		platform    string
		verbose     bool
	)

	cmd := &cobra.Command{
		Use:   "bridgescan <host-binary>",
		Short: "Resolve the interpreter API against a host binary and report the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				log, err := zap.NewDevelopment()
				if err != nil {
					return err
				}
				defer log.Sync()
				guard.SetLogger(log)
			}
			return scan(cmd, args[0], configPath, hostVersion, platform)
		},
		SilenceUsage: true,
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "signature table YAML (omit for export-only resolution)")
	cmd.Flags().StringVar(&hostVersion, "host-version", "", "host build version for signature table selection")
	cmd.Flags().StringVar(&platform, "platform", runtime.GOOS, "target platform key in the signature table")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	return cmd
}

func scan(cmd *cobra.Command, binaryPath, configPath, hostVersion, platform string) error {
	img, err := image.OpenFile(binaryPath)
	if err != nil {
		return err
	}

	var plan *resolver.Plan
	if configPath != "" {
		if hostVersion == "" {
			return fmt.Errorf("--host-version is required with --config")
		}
		data, err := os.ReadFile(configPath)
		if err != nil {
			return err
		}
		cfg, err := resolver.LoadConfig(data)
		if err != nil {
			return err
		}
		plan, err = cfg.Plan(hostVersion, platform)
		if err != nil {
			return err
		}
	}

	results := resolver.Report(img, plan)

	missing := 0
	for _, r := range results {
		if r.Err != nil {
			missing++
			fmt.Fprintf(cmd.OutOrStdout(), "%-28s MISSING  %v\n", r.Ident, r.Err)
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%-28s %s\n", r.Ident, r.Addr)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\n%d identifiers, %d missing\n", len(results), missing)
	if missing > 0 {
		return fmt.Errorf("%d required identifiers not resolvable in %s", missing, binaryPath)
	}
	return nil
}
