package service

import (
	"net/http"

	commonerrors "github.com/expensio/backend/internal/common/errors"
)

var (
	// ErrExpenseNotFound covers both a genuinely absent record and a
	// record owned by someone else; the two are indistinguishable to the
	// caller.
	ErrExpenseNotFound = commonerrors.NewDomainError(
		"EXPENSE_NOT_FOUND",
		commonerrors.CategoryNotFound,
		http.StatusNotFound,
		"expense not found",
	)

	ErrInvalidCategory = commonerrors.NewDomainError(
		"INVALID_CATEGORY",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"unknown expense category",
	)
)
