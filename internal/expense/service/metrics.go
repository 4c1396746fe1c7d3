package service

import "github.com/expensio/backend/internal/observability/metrics"

func incrementExpensesCreated() {
	metrics.ExpensesCreated.Inc()
}

func incrementExpensesUpdated() {
	metrics.ExpensesUpdated.Inc()
}

func incrementExpensesDeleted() {
	metrics.ExpensesDeleted.Inc()
}

func incrementExpenseQueries(filterKind string) {
	metrics.ExpenseQueriesTotal.WithLabelValues(filterKind).Inc()
}
