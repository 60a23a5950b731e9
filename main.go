package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"fjacquet/moze-ledger/cmd/assets"
	"fjacquet/moze-ledger/cmd/debt"
	"fjacquet/moze-ledger/cmd/ledger"
	"fjacquet/moze-ledger/cmd/networth"
	"fjacquet/moze-ledger/cmd/project"
	"fjacquet/moze-ledger/cmd/root"
	"fjacquet/moze-ledger/cmd/sync"
)

func init() {
	root.Init()

	root.Cmd.AddCommand(sync.Cmd)
	root.Cmd.AddCommand(project.Cmd)
	root.Cmd.AddCommand(networth.Cmd)
	root.Cmd.AddCommand(ledger.Cmd)
	root.Cmd.AddCommand(debt.Cmd)
	root.Cmd.AddCommand(assets.Cmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := root.Cmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
