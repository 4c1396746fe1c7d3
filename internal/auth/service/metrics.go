package service

import "github.com/expensio/backend/internal/observability/metrics"

func incrementUsersRegistered() {
	metrics.UsersRegistered.Inc()
}

func incrementLoginsSucceeded() {
	metrics.LoginsSucceeded.Inc()
}

func incrementLoginsFailed() {
	metrics.LoginsFailed.Inc()
}

func incrementAccessTokensIssued() {
	metrics.AccessTokensIssued.Inc()
}
