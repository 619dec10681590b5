// Package model defines the normalized budget-execution record and its field registry.
package model

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// Record is one normalized row of the Tesouro extract.
// Code fields are opaque text: "02" stays "02", never 2.
// CommitmentBalance and BalanceToCommit are always derived, never read from source.
type Record struct {
	Year int

	ActionCode  string
	ActionName  string
	ProgramCode string // PO (plano orçamentário)
	ProgramName string

	ExpenseGroupCode   string // GND
	ResultCategoryCode string // RP
	ResultCategoryName string
	FundingSourceCode  string // fonte
	WorkProgramCode    string // PTRES

	Allocation decimal.Decimal // lei + créditos
	Committed  decimal.Decimal // empenhado
	Settled    decimal.Decimal // liquidado
	Paid       decimal.Decimal // pago

	CommitmentBalance decimal.Decimal // empenhado - liquidado
	BalanceToCommit   decimal.Decimal // dotação - empenhado
}

// Canonical field names used by filtering, aggregation, and serialization.
const (
	FieldYear               = "year"
	FieldActionCode         = "action_code"
	FieldActionName         = "action_name"
	FieldProgramCode        = "program_code"
	FieldProgramName        = "program_name"
	FieldExpenseGroupCode   = "expense_group_code"
	FieldResultCategoryCode = "result_category_code"
	FieldResultCategoryName = "result_category_name"
	FieldFundingSourceCode  = "funding_source_code"
	FieldWorkProgramCode    = "work_program_code"

	FieldAllocation        = "allocation"
	FieldCommitted         = "committed"
	FieldSettled           = "settled"
	FieldPaid              = "paid"
	FieldCommitmentBalance = "commitment_balance"
	FieldBalanceToCommit   = "balance_to_commit"
)

// Categorical returns the text value of a categorical field.
// Year is rendered in decimal so it can participate in grouping keys.
// Unknown names return "".
func (r Record) Categorical(name string) string {
	switch name {
	case FieldYear:
		return strconv.Itoa(r.Year)
	case FieldActionCode:
		return r.ActionCode
	case FieldActionName:
		return r.ActionName
	case FieldProgramCode:
		return r.ProgramCode
	case FieldProgramName:
		return r.ProgramName
	case FieldExpenseGroupCode:
		return r.ExpenseGroupCode
	case FieldResultCategoryCode:
		return r.ResultCategoryCode
	case FieldResultCategoryName:
		return r.ResultCategoryName
	case FieldFundingSourceCode:
		return r.FundingSourceCode
	case FieldWorkProgramCode:
		return r.WorkProgramCode
	}
	return ""
}

// Money returns the value of a monetary field. Unknown names return zero.
func (r Record) Money(name string) decimal.Decimal {
	switch name {
	case FieldAllocation:
		return r.Allocation
	case FieldCommitted:
		return r.Committed
	case FieldSettled:
		return r.Settled
	case FieldPaid:
		return r.Paid
	case FieldCommitmentBalance:
		return r.CommitmentBalance
	case FieldBalanceToCommit:
		return r.BalanceToCommit
	}
	return decimal.Zero
}

// Derive fills the two balance fields from the four base monetary fields.
func (r *Record) Derive() {
	r.CommitmentBalance = r.Committed.Sub(r.Settled)
	r.BalanceToCommit = r.Allocation.Sub(r.Committed)
}

// Totals holds the six summary metrics over a set of records.
type Totals struct {
	Allocation        decimal.Decimal
	Committed         decimal.Decimal
	Settled           decimal.Decimal
	Paid              decimal.Decimal
	CommitmentBalance decimal.Decimal
	BalanceToCommit   decimal.Decimal
}

// GroupRow is one row of an aggregation result: the key values in the order
// the grouping keys were given, and the summed monetary values in the order
// the value columns were given.
type GroupRow struct {
	Keys []string
	Sums []decimal.Decimal
}
