package recurring

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"budgetix/internal/domain/expense"
	"budgetix/internal/domain/user"
)

// Notifier is called after a user's templates were brought up to date, with
// the number of occurrence rows that were materialized. Implementations send
// a push notification; a nil Notifier disables the feature.
type Notifier interface {
	RecurringPosted(ctx context.Context, userID string, inserted int) error
}

// RunResult aggregates what one processing pass did.
type RunResult struct {
	TemplatesSeen     int
	Inserted          int
	DuplicatesSkipped int
	Deactivated       int
	Deleted           int // stale occurrence rows removed by the cleanup pass
	Errors            []string
}

func (r *RunResult) merge(other *RunResult) {
	r.TemplatesSeen += other.TemplatesSeen
	r.Inserted += other.Inserted
	r.DuplicatesSkipped += other.DuplicatesSkipped
	r.Deactivated += other.Deactivated
	r.Deleted += other.Deleted
	r.Errors = append(r.Errors, other.Errors...)
}

// Processor brings recurring expense templates up to date: it materializes
// due-but-missing occurrence rows, advances template bookkeeping, and
// retires templates whose end date has passed or whose owner is gone.
//
// All date comparisons use a single `today` snapshot taken by the caller at
// run start, so one run is deterministic and testable by injection.
type Processor struct {
	expenses expense.Repository
	users    user.Directory
	notifier Notifier
}

// NewProcessor creates a recurring expense processor. notifier may be nil.
func NewProcessor(expenses expense.Repository, users user.Directory, notifier Notifier) *Processor {
	return &Processor{expenses: expenses, users: users, notifier: notifier}
}

// Run processes every recurring template: first the expired-recurrence
// cleanup pass, then the catch-up pass. A failure on one template never
// aborts the run; it is recorded and the run proceeds to the next template.
func (p *Processor) Run(ctx context.Context, today time.Time) (*RunResult, error) {
	today = expense.DateOnly(today)

	templates, err := p.expenses.ListRecurringTemplates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list recurring templates: %w", err)
	}

	result := &RunResult{}
	for _, tpl := range templates {
		res := p.cleanupTemplate(ctx, tpl, today)
		result.merge(res)
	}

	// Re-read: cleanup may have deactivated templates.
	templates, err = p.expenses.ListRecurringTemplates(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to re-list recurring templates: %w", err)
	}

	perUser := make(map[string]int)
	for _, tpl := range templates {
		res := p.processTemplate(ctx, tpl, today)
		perUser[tpl.UserID] += res.Inserted
		result.merge(res)
	}

	p.notifyUsers(ctx, perUser)

	log.Printf("Recurring run completed: templates=%d inserted=%d duplicates=%d deactivated=%d deleted=%d errors=%d",
		result.TemplatesSeen, result.Inserted, result.DuplicatesSkipped, result.Deactivated, result.Deleted, len(result.Errors))

	return result, nil
}

// RunForUser processes only the templates owned by one user, cleanup pass
// first. Used by the scheduler's per-user jobs; the per-template sequencing
// the catch-up loop depends on is preserved because a template belongs to
// exactly one user.
func (p *Processor) RunForUser(ctx context.Context, userID string, today time.Time) (*RunResult, error) {
	today = expense.DateOnly(today)

	templates, err := p.expenses.ListRecurringTemplatesByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list recurring templates for user %s: %w", userID, err)
	}

	result := &RunResult{}
	for _, tpl := range templates {
		result.merge(p.cleanupTemplate(ctx, tpl, today))
	}

	templates, err = p.expenses.ListRecurringTemplatesByUser(ctx, userID)
	if err != nil {
		return result, fmt.Errorf("failed to re-list recurring templates for user %s: %w", userID, err)
	}

	inserted := 0
	for _, tpl := range templates {
		res := p.processTemplate(ctx, tpl, today)
		inserted += res.Inserted
		result.merge(res)
	}

	p.notifyUsers(ctx, map[string]int{userID: inserted})

	return result, nil
}

// processTemplate runs the catch-up algorithm for a single template.
func (p *Processor) processTemplate(ctx context.Context, tpl *expense.Expense, today time.Time) *RunResult {
	result := &RunResult{TemplatesSeen: 1}

	// Orphaned templates stop generating rows instead of failing on a
	// foreign-key violation at insert time.
	exists, err := p.users.Exists(ctx, tpl.UserID)
	if err != nil {
		result.fail("user lookup failed for template %s: %v", tpl.ID, err)
		return result
	}
	if !exists {
		p.deactivate(ctx, tpl, result, "owner missing")
		return result
	}

	// The end date is inclusive, so an expired template still gets its
	// trailing occurrences (due on or before the end date) materialized
	// below before it is retired.
	expired := tpl.RecurringEndDate != nil && today.After(*tpl.RecurringEndDate)

	anchor := tpl.Date
	if tpl.LastOccurred != nil {
		anchor = *tpl.LastOccurred
	}
	anchor = expense.DateOnly(anchor)

	next := expense.NextOccurrence(anchor, tpl.Frequency)
	if next.Equal(anchor) || next.After(today) {
		if expired {
			p.deactivate(ctx, tpl, result, "end date passed")
			return result
		}
		// Nothing due. Still refresh the cached "upcoming" date so the
		// dashboard shows an accurate value.
		if !next.Equal(anchor) && (tpl.RecurringNextDate == nil || !tpl.RecurringNextDate.Equal(next)) {
			if err := p.expenses.UpdateRecurrence(ctx, tpl.ID, expense.RecurrenceUpdate{RecurringNextDate: &next}); err != nil {
				result.fail("failed to refresh next date for template %s: %v", tpl.ID, err)
			}
		}
		return result
	}

	for !next.After(today) {
		// End date is inclusive: an occurrence falling exactly on it is
		// still generated; only a date beyond it retires the template.
		if tpl.RecurringEndDate != nil && next.After(*tpl.RecurringEndDate) {
			p.deactivate(ctx, tpl, result, "catch-up reached end date")
			return result
		}

		existing, err := p.expenses.FindByOwnerCategoryDate(ctx, tpl.UserID, tpl.Category, next)
		if err != nil {
			result.fail("duplicate check failed for template %s at %s: %v", tpl.ID, next.Format("2006-01-02"), err)
			return result
		}

		if len(existing) > 0 {
			log.Printf("Recurring: occurrence already exists for user=%s category=%q date=%s, skipping",
				tpl.UserID, tpl.Category, next.Format("2006-01-02"))
			result.DuplicatesSkipped++
		} else {
			if err := p.materialize(ctx, tpl, next); err != nil {
				if errors.Is(err, expense.ErrOwnerMissing) {
					// Owner deleted between the guard and the insert.
					p.deactivate(ctx, tpl, result, "owner missing at insert")
					return result
				}
				result.fail("failed to materialize occurrence for template %s at %s: %v", tpl.ID, next.Format("2006-01-02"), err)
				return result
			}
			result.Inserted++
		}

		// Persist bookkeeping immediately: a crash mid-loop leaves the
		// template resumable from the last confirmed date.
		upcoming := expense.NextOccurrence(next, tpl.Frequency)
		occurred := next
		if err := p.expenses.UpdateRecurrence(ctx, tpl.ID, expense.RecurrenceUpdate{
			LastOccurred:      &occurred,
			RecurringNextDate: &upcoming,
		}); err != nil {
			result.fail("failed to advance bookkeeping for template %s: %v", tpl.ID, err)
			return result
		}
		tpl.LastOccurred = &occurred
		tpl.RecurringNextDate = &upcoming

		next = upcoming
	}

	// An expired template can leave the loop active when the cadence jumps
	// straight past today (the in-loop end check never fired). Retire it.
	if expired && tpl.IsRecurring {
		p.deactivate(ctx, tpl, result, "end date passed")
	}

	return result
}

// cleanupTemplate removes occurrence rows mistakenly generated beyond a
// template's end date (an end date set after they already existed).
// Retiring the template itself is left to the catch-up pass, which first
// materializes any occurrences still due on or before the end date.
func (p *Processor) cleanupTemplate(ctx context.Context, tpl *expense.Expense, today time.Time) *RunResult {
	result := &RunResult{}
	if tpl.RecurringEndDate == nil {
		return result
	}

	exists, err := p.users.Exists(ctx, tpl.UserID)
	if err != nil {
		result.fail("cleanup user lookup failed for template %s: %v", tpl.ID, err)
		return result
	}
	if !exists {
		p.deactivate(ctx, tpl, result, "owner missing (cleanup)")
		return result
	}

	stale, err := p.expenses.FindRecurringAfter(ctx, tpl.UserID, tpl.Category, *tpl.RecurringEndDate)
	if err != nil {
		result.fail("cleanup query failed for template %s: %v", tpl.ID, err)
		return result
	}

	for _, row := range stale {
		if row.ID == tpl.ID {
			continue // the template itself is retired below, not deleted
		}
		if err := p.expenses.Delete(ctx, row.ID); err != nil {
			// Continue past individual delete failures; the next run
			// retries them.
			result.fail("cleanup delete failed for expense %s: %v", row.ID, err)
			continue
		}
		result.Deleted++
	}

	return result
}

// deactivate flips is_recurring to false. The transition is one-directional;
// re-activation is a user action outside this job.
func (p *Processor) deactivate(ctx context.Context, tpl *expense.Expense, result *RunResult, reason string) {
	if !tpl.IsRecurring {
		return
	}
	off := false
	if err := p.expenses.UpdateRecurrence(ctx, tpl.ID, expense.RecurrenceUpdate{IsRecurring: &off}); err != nil {
		result.fail("failed to deactivate template %s: %v", tpl.ID, err)
		return
	}
	tpl.IsRecurring = false
	result.Deactivated++
	log.Printf("Recurring: deactivated template %s (user=%s): %s", tpl.ID, tpl.UserID, reason)
}

// materialize inserts the concrete occurrence row for one due date.
func (p *Processor) materialize(ctx context.Context, tpl *expense.Expense, due time.Time) error {
	occurred := due
	upcoming := expense.NextOccurrence(due, tpl.Frequency)
	_, err := p.expenses.Create(ctx, expense.CreateParams{
		UserID:             tpl.UserID,
		Amount:             tpl.Amount,
		Category:           tpl.Category,
		Description:        tpl.Description,
		Date:               due,
		PaymentMethod:      tpl.PaymentMethod,
		Frequency:          tpl.Frequency,
		IsRecurring:        false,
		RecurringStartDate: tpl.RecurringStartDate,
		RecurringEndDate:   tpl.RecurringEndDate,
		LastOccurred:       &occurred,
		RecurringNextDate:  &upcoming,
	})
	return err
}

func (p *Processor) notifyUsers(ctx context.Context, perUser map[string]int) {
	if p.notifier == nil {
		return
	}
	for userID, inserted := range perUser {
		if inserted == 0 {
			continue
		}
		if err := p.notifier.RecurringPosted(ctx, userID, inserted); err != nil {
			log.Printf("Recurring: notification failed for user %s: %v", userID, err)
		}
	}
}

func (r *RunResult) fail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	log.Printf("Recurring: %s", msg)
	r.Errors = append(r.Errors, msg)
}
