package cli

// Globals defines global flags available to all commands.
type Globals struct {
	Telemetry bool `help:"Show timing telemetry for operations."`
}

type Commands struct {
	Globals

	Check           CheckCmd           `cmd:"" help:"Load and validate a journal file."`
	Post            PostCmd            `cmd:"" help:"Post a transaction batch against a journal."`
	BalanceSheet    BalanceSheetCmd    `cmd:"" name:"balance-sheet" help:"Report assets, liabilities and fund balance."`
	IncomeStatement IncomeStatementCmd `cmd:"" name:"income-statement" help:"Report revenues, expenses and net income."`
	CashFlow        CashFlowCmd        `cmd:"" name:"cash-flow" help:"Report cash movement by activity."`
	Budgets         BudgetsCmd         `cmd:"" help:"Report planned-vs-actual budget figures."`
	Web             WebCmd             `cmd:"" help:"Start the statements web server."`
}
