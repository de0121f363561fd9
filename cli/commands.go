package cli

// Globals defines global flags available to all commands.
type Globals struct {
	Telemetry bool `help:"Show timing telemetry for operations."`
}

type Commands struct {
	Globals

	Show   ShowCmd   `cmd:"" help:"Show the budget table for a month."`
	Assign AssignCmd `cmd:"" help:"Assign an amount to a budget category."`
	Hold   HoldCmd   `cmd:"" help:"Hold an amount back from assignment for a month."`
	Check  CheckCmd  `cmd:"" help:"Check that the ledger classifies cleanly against the budget."`
	Watch  WatchCmd  `cmd:"" help:"Show the budget and re-render whenever the ledger changes."`
}
