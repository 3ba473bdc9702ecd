package main

import (
	"fmt"
	"os"

	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"
)

type globalFlags struct {
	configPath string
	email      string
	quiet      bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "console",
		Short: "Warehouse management admin console",
		Long: `Command line front end for the warehouse management backend.

Each command signs in, opens the view it needs (subject to your role),
performs its calls and signs out again.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "YAML config file layered over the environment")
	rootCmd.PersistentFlags().StringVarP(&flags.email, "email", "e", os.Getenv("CONSOLE_EMAIL"), "account email (default $CONSOLE_EMAIL)")
	rootCmd.PersistentFlags().BoolVarP(&flags.quiet, "quiet", "q", false, "skip the banner")

	rootCmd.AddCommand(
		loginCmd(flags),
		whoamiCmd(flags),
		usersCmd(flags),
		warehousesCmd(flags),
		productsCmd(flags),
		inventoryCmd(flags),
		ordersCmd(flags),
		watchCmd(flags),
	)
	return rootCmd
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
