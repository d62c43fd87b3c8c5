package entity

// LedgerSummary is the derived financial view of one deal. It is a pure
// projection over the deal details and the transaction rows; nothing here
// is stored.
type LedgerSummary struct {
	ActualRevenue         int64 `json:"actual_revenue"`
	TotalIncurredExpenses int64 `json:"total_incurred_expenses"`
	ActualRevenueNet      int64 `json:"actual_revenue_net"`
	TotalDeposited        int64 `json:"total_deposited"`
	TotalPureExpense      int64 `json:"total_pure_expense"`
	PendingDeposit        int64 `json:"pending_deposit"`
	RefundableAdvances    int64 `json:"refundable_advances"`
	TotalRepayments       int64 `json:"total_repayments"`
	OutstandingAdvance    int64 `json:"outstanding_advance"`
	DealerDebtOutstanding int64 `json:"dealer_debt_outstanding"`
	NetRevenue            int64 `json:"net_revenue"`
}

// ProjectLedger folds a deal's transactions into its summary. Only approved
// rows count toward money totals; dealer debts count while they lack the
// collected marker, regardless of approval state. Derived balances floor at
// zero so an over-collected deal never shows a negative ask.
func ProjectLedger(details *DealDetails, txns []*Transaction) LedgerSummary {
	var s LedgerSummary
	if details != nil {
		s.ActualRevenue = details.ActualRevenue
	}

	var advances, expenses int64
	for _, txn := range txns {
		if txn.Type == TxnDealerDebt {
			if !txn.IsDebtCollected() {
				s.DealerDebtOutstanding += txn.Amount
			}

			continue
		}
		if txn.Status != TxnApproved {
			continue
		}

		switch txn.Type {
		case TxnIncurredExpense:
			s.TotalIncurredExpenses += txn.Amount
		case TxnDeposit:
			s.TotalDeposited += txn.Amount
		case TxnExpense:
			s.TotalPureExpense += txn.Amount
			expenses += txn.Amount
		case TxnAdvance:
			s.RefundableAdvances += txn.Amount
			advances += txn.Amount
		case TxnLoan:
			s.RefundableAdvances += txn.Amount
		case TxnRepayment, TxnLoanRepayment:
			s.TotalRepayments += txn.Amount
		}
	}

	s.ActualRevenueNet = s.ActualRevenue - s.TotalIncurredExpenses
	s.PendingDeposit = clampZero(s.ActualRevenueNet - s.TotalDeposited - s.TotalPureExpense)
	s.OutstandingAdvance = clampZero(s.RefundableAdvances - s.TotalRepayments)
	s.NetRevenue = s.TotalDeposited - expenses - advances

	return s
}

func clampZero(v int64) int64 {
	if v < 0 {
		return 0
	}

	return v
}
