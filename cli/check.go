package cli

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
)

type CheckCmd struct {
	File string `help:"Budget spec file." arg:"" type:"existingfile"`
}

func (cmd *CheckCmd) Run(ctx *kong.Context, globals *Globals) error {
	runCtx, report := withTelemetry(ctx, globals, fmt.Sprintf("check %s", cmd.File))
	defer report()

	b, err := loadBudget(runCtx, cmd.File)
	if err != nil {
		printError(ctx.Stderr, err.Error())

		report()
		os.Exit(1)
	}

	transactions := 0
	for _, month := range b.Months() {
		transactions += len(b.Transactions(month))
	}

	printSuccess(ctx.Stdout, fmt.Sprintf("Check passed: %d budget transactions across %d months", transactions, len(b.Months())))

	return nil
}
