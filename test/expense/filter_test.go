package expense

import (
	"context"
	"testing"
	"time"

	"github.com/expensio/backend/internal/expense/domain"
	"github.com/expensio/backend/internal/expense/repository"
	"github.com/expensio/backend/internal/expense/service"
)

func captureQuery(mockRepo *mockExpenseRepo) *repository.Query {
	var captured repository.Query
	mockRepo.findFunc = func(ctx context.Context, q repository.Query) ([]domain.Expense, error) {
		captured = q
		return nil, nil
	}
	return &captured
}

func TestExpenseService_Find_DefaultsToDateDescending(t *testing.T) {
	svc, mockRepo, _, _ := setupExpenseService(t)
	captured := captureQuery(mockRepo)

	if _, err := svc.Find(context.Background(), testOwnerID, service.Filter{}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if captured.OwnerID != testOwnerID {
		t.Errorf("expected owner %s, got %s", testOwnerID, captured.OwnerID)
	}
	if captured.SortBy != domain.SortByDate || captured.Order != domain.SortDesc {
		t.Errorf("expected default date desc, got %s %s", captured.SortBy, captured.Order)
	}
	if captured.From != nil || captured.To != nil {
		t.Error("expected no date bounds without a filter")
	}
	if captured.Limit != 0 {
		t.Error("expected no pagination window by default")
	}
}

func TestExpenseService_Find_ExplicitRangeBeatsPeriod(t *testing.T) {
	svc, mockRepo, _, _ := setupExpenseService(t)
	captured := captureQuery(mockRepo)

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	_, err := svc.Find(context.Background(), testOwnerID, service.Filter{
		Period:    domain.PeriodWeek,
		StartDate: &from,
		EndDate:   &to,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if captured.From == nil || !captured.From.Equal(from) {
		t.Errorf("expected from %v, got %v", from, captured.From)
	}
	if captured.To == nil || !captured.To.Equal(to) {
		t.Errorf("expected to %v, got %v", to, captured.To)
	}
}

func TestExpenseService_Find_PeriodLowerBounds(t *testing.T) {
	// Fixed reference time: 2024-06-15 12:00 UTC (from setupExpenseService).
	cases := []struct {
		period domain.Period
		want   time.Time
	}{
		{domain.PeriodWeek, time.Date(2024, 6, 8, 0, 0, 0, 0, time.UTC)},
		{domain.PeriodMonth, time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC)},
		{domain.PeriodThreeMonths, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
	}

	for _, tc := range cases {
		t.Run(string(tc.period), func(t *testing.T) {
			svc, mockRepo, _, _ := setupExpenseService(t)
			captured := captureQuery(mockRepo)

			if _, err := svc.Find(context.Background(), testOwnerID, service.Filter{Period: tc.period}); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if captured.From == nil || !captured.From.Equal(tc.want) {
				t.Errorf("expected lower bound %v, got %v", tc.want, captured.From)
			}
			if captured.To != nil {
				t.Error("expected open upper bound for a period filter")
			}
		})
	}
}

func TestExpenseService_Find_PeriodWindowSelectsExpectedDates(t *testing.T) {
	svc, mockRepo, _, mockClock := setupExpenseService(t)
	captured := captureQuery(mockRepo)

	now := mockClock.Now()
	dates := []time.Time{
		now,
		now.AddDate(0, 0, -3),
		now.AddDate(0, 0, -10),
		now.AddDate(0, 0, -40),
	}

	within := func(bound *time.Time) int {
		count := 0
		for _, d := range dates {
			if bound == nil || !d.Before(*bound) {
				count++
			}
		}
		return count
	}

	cases := []struct {
		period domain.Period
		want   int
	}{
		{domain.PeriodWeek, 2},
		{domain.PeriodMonth, 3},
		{domain.PeriodThreeMonths, 4},
	}

	for _, tc := range cases {
		if _, err := svc.Find(context.Background(), testOwnerID, service.Filter{Period: tc.period}); err != nil {
			t.Fatalf("%s: expected no error, got %v", tc.period, err)
		}
		if got := within(captured.From); got != tc.want {
			t.Errorf("%s: expected %d expenses inside the window, got %d", tc.period, tc.want, got)
		}
	}
}

func TestExpenseService_Find_Pagination(t *testing.T) {
	svc, mockRepo, _, _ := setupExpenseService(t)
	captured := captureQuery(mockRepo)

	_, err := svc.Find(context.Background(), testOwnerID, service.Filter{Page: 3, Limit: 10})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if captured.Limit != 10 {
		t.Errorf("expected limit 10, got %d", captured.Limit)
	}
	if captured.Offset != 20 {
		t.Errorf("expected offset 20, got %d", captured.Offset)
	}
}

func TestExpenseService_Find_PaginationDisjointPages(t *testing.T) {
	svc, mockRepo, _, _ := setupExpenseService(t)

	all := []domain.Expense{
		{ID: "a", OwnerID: testOwnerID},
		{ID: "b", OwnerID: testOwnerID},
		{ID: "c", OwnerID: testOwnerID},
	}
	mockRepo.findFunc = func(ctx context.Context, q repository.Query) ([]domain.Expense, error) {
		if q.Offset >= len(all) {
			return nil, nil
		}
		end := q.Offset + q.Limit
		if end > len(all) {
			end = len(all)
		}
		return all[q.Offset:end], nil
	}

	page1, err := svc.Find(context.Background(), testOwnerID, service.Filter{Page: 1, Limit: 2})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	page2, err := svc.Find(context.Background(), testOwnerID, service.Filter{Page: 2, Limit: 2})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(page1) != 2 || len(page2) != 1 {
		t.Fatalf("expected pages of 2 and 1, got %d and %d", len(page1), len(page2))
	}

	seen := map[domain.ID]bool{}
	for _, e := range append(page1, page2...) {
		if seen[e.ID] {
			t.Errorf("expense %s appeared on more than one page", e.ID)
		}
		seen[e.ID] = true
	}
	if len(seen) != len(all) {
		t.Errorf("expected the union of pages to cover all %d expenses, got %d", len(all), len(seen))
	}
}

func TestExpenseService_Find_SortOverrides(t *testing.T) {
	svc, mockRepo, _, _ := setupExpenseService(t)
	captured := captureQuery(mockRepo)

	_, err := svc.Find(context.Background(), testOwnerID, service.Filter{
		SortBy:    domain.SortByAmount,
		SortOrder: domain.SortAsc,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if captured.SortBy != domain.SortByAmount || captured.Order != domain.SortAsc {
		t.Errorf("expected amount asc, got %s %s", captured.SortBy, captured.Order)
	}
}
