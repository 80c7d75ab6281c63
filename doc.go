// Package finovate keeps track of the personal finances of a single user:
// the loans they grant, the properties they rent out, the debts they owe and
// their other incomes, with the payments recorded on each of them.
//
// The core functionalities include:
//   - Ledger: an immutable snapshot of the user profile, items, reminders and
//     bank accounts. Every mutation returns a new Ledger.
//   - Balances: the remaining capital of loans and debts, computed from the
//     payments and their allocation to capital or interest.
//   - Reports: the dashboard figures, the financial summary (assets,
//     liabilities and net worth) and the events due in the coming days.
//   - Import and export: json backups of the whole ledger, or of a single
//     item, merged by id into another ledger. A spreadsheet export too.
//
// Persistence lives in the store package, printable documents (receipts,
// statements and invoices) in the document package, and the command line in
// the cmd package.
package finovate
