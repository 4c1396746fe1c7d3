package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ExpensesCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "expenses_created_total",
			Help: "Total number of expenses created",
		},
	)

	ExpensesUpdated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "expenses_updated_total",
			Help: "Total number of expenses updated",
		},
	)

	ExpensesDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "expenses_deleted_total",
			Help: "Total number of expenses deleted",
		},
	)

	ExpenseQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "expense_queries_total",
			Help: "Total number of expense list queries by date filter kind",
		},
		[]string{"filter"},
	)
)
