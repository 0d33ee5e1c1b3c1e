package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"budgetix/internal/domain/budget"
	"budgetix/internal/domain/expense"
	"budgetix/internal/domain/recurring"
)

// RecurringJob brings one user's recurring templates up to date. All jobs of
// one batch share the `today` snapshot taken when the batch was assembled,
// so a run's behavior does not depend on how long the queue takes to drain.
type RecurringJob struct {
	userID    string
	today     time.Time
	processor *recurring.Processor
	budgets   *budget.Service
}

// NewRecurringJob creates a recurring-expense job for a user. budgets may be
// nil to skip the post-run budget check.
func NewRecurringJob(userID string, today time.Time, processor *recurring.Processor, budgets *budget.Service) *RecurringJob {
	return &RecurringJob{userID: userID, today: today, processor: processor, budgets: budgets}
}

// Execute runs cleanup and catch-up for the user's templates.
func (j *RecurringJob) Execute(ctx context.Context) error {
	result, err := j.processor.RunForUser(ctx, j.userID, j.today)
	if err != nil {
		return fmt.Errorf("recurring processing failed: %w", err)
	}

	// Materialized occurrences are new spend; re-evaluate the user's budgets
	// so an exceeded one is reported right away.
	if j.budgets != nil && result.Inserted > 0 {
		if _, err := j.budgets.CheckAndAlert(ctx, j.userID, j.today); err != nil {
			log.Printf("Budget check after recurring run failed for user %s: %v", j.userID, err)
		}
	}

	if len(result.Errors) > 0 {
		log.Printf("Recurring processing for user %s completed with errors: inserted=%d, deactivated=%d, errors=%d",
			j.userID, result.Inserted, result.Deactivated, len(result.Errors))
		// Surface the partial failure; the next scheduled run retries
		// naturally because bookkeeping is persisted per iteration.
		return fmt.Errorf("processing completed with %d errors", len(result.Errors))
	}

	log.Printf("Recurring processing for user %s: templates=%d, inserted=%d, duplicates=%d, deactivated=%d",
		j.userID, result.TemplatesSeen, result.Inserted, result.DuplicatesSkipped, result.Deactivated)

	return nil
}

// UserID returns the user ID associated with this job
func (j *RecurringJob) UserID() string {
	return j.userID
}

// Description returns a human-readable description of the job
func (j *RecurringJob) Description() string {
	return "recurring expense catch-up"
}

// RecurringJobProvider builds the per-user job batch for one tick. The
// `today` snapshot is taken once here and shared by every job in the batch.
func RecurringJobProvider(expenses expense.Repository, processor *recurring.Processor, budgets *budget.Service) func(context.Context) ([]Job, error) {
	return func(ctx context.Context) ([]Job, error) {
		userIDs, err := expenses.RecurringUserIDs(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list users with recurring templates: %w", err)
		}

		today := expense.DateOnly(time.Now().UTC())

		jobs := make([]Job, 0, len(userIDs))
		for _, userID := range userIDs {
			jobs = append(jobs, NewRecurringJob(userID, today, processor, budgets))
		}
		return jobs, nil
	}
}
