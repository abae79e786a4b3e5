package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"crew_shift_app_go/models"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// Unavailability kinds reported by the availability checker
const (
	UnavailableFullDayLeave = "FULL_DAY_LEAVE"
	UnavailablePermission   = "PERMISSION"
	UnavailableVacation     = "VACATION"
	UnavailableSickness     = "SICKNESS"
	UnavailableInjury       = "INJURY"
	UnavailableAbsent       = "ABSENT"
)

// Verdict is the derived availability of one employee on one date.
// It is never persisted.
type Verdict struct {
	Available bool   `json:"available"`
	Kind      string `json:"kind,omitempty"`

	// Explanatory detail: date range for full-day leave and combined
	// requests, time window for single-day permissions
	RangeStart  *time.Time `json:"range_start,omitempty"`
	RangeEnd    *time.Time `json:"range_end,omitempty"`
	WindowStart string     `json:"window_start,omitempty"`
	WindowEnd   string     `json:"window_end,omitempty"`
}

// RosterAvailability is the result of a batch check for one date:
// per-employee verdicts plus the separate already-assigned signal.
// Existing assignments are advisory and never reported as unavailability.
type RosterAvailability struct {
	Date     time.Time                           `json:"date"`
	Verdicts map[string]Verdict                  `json:"verdicts"`
	Assigned map[string][]models.ShiftAssignment `json:"assigned"`

	// Sources skipped because a read failed and the caller chose to
	// fail open. Empty on a clean check.
	SkippedSources []string `json:"skipped_sources,omitempty"`
}

// CheckOptions controls the failure policy of a batch check.
type CheckOptions struct {
	// FailOpen skips a leave source whose read fails, logging the error,
	// so that a transient store problem never blocks scheduling. When
	// false the check returns the first read error instead.
	FailOpen bool
}

// NormalizeDate strips the time component, keeping only the calendar day
func NormalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// CheckAvailability determines whether one employee is free on one date.
// Lookups run in a fixed priority order and short-circuit on the first
// hit: full-day leave, then single-day permissions, then the combined
// request table. At most one kind is ever reported even when several
// records overlap the date.
func CheckAvailability(dbConn *gorm.DB, userID string, date time.Time) (Verdict, error) {
	day := NormalizeDate(date)

	// 1. Full-day leave covering the date
	var leave models.ApprovedLeave
	err := dbConn.Where("user_id = ? AND status = ? AND start_date <= ? AND end_date >= ?",
		userID, models.LeaveStatusApproved, day, day).
		First(&leave).Error
	if err == nil {
		return verdictFromLeave(leave), nil
	}
	if err != gorm.ErrRecordNotFound {
		return Verdict{}, fmt.Errorf("failed to query full-day leave: %w", err)
	}

	// 2. Single-day permission on the exact date
	var perm models.ApprovedPermission
	err = dbConn.Where("user_id = ? AND status = ? AND date = ?",
		userID, models.LeaveStatusApproved, day).
		First(&perm).Error
	if err == nil {
		return verdictFromPermission(perm), nil
	}
	if err != gorm.ErrRecordNotFound {
		return Verdict{}, fmt.Errorf("failed to query permissions: %w", err)
	}

	// 3. Combined leave-request table
	var req models.LeaveRequest
	err = dbConn.Where("user_id = ? AND status = ? AND start_date <= ? AND end_date >= ?",
		userID, models.LeaveStatusApproved, day, day).
		First(&req).Error
	if err == nil {
		return verdictFromRequest(req), nil
	}
	if err != gorm.ErrRecordNotFound {
		return Verdict{}, fmt.Errorf("failed to query leave requests: %w", err)
	}

	return Verdict{Available: true}, nil
}

// CheckRoster runs the availability check for a whole roster at once.
// Instead of one round-trip per employee it fetches every relevant
// window for the date in one query per source, the sources fanned out
// concurrently, then evaluates in memory. Results mirror
// CheckAvailability exactly, including the source priority order.
func CheckRoster(ctx context.Context, dbConn *gorm.DB, companyID string, date time.Time, userIDs []string, opts CheckOptions) (*RosterAvailability, error) {
	day := NormalizeDate(date)

	var (
		leaves      []models.ApprovedLeave
		perms       []models.ApprovedPermission
		reqs        []models.LeaveRequest
		assignments []models.ShiftAssignment
	)

	skipped := make(chan string, 3)

	// fetch wraps one leave-source read under the configured failure policy
	fetch := func(source string, run func() error) func() error {
		return func() error {
			if err := run(); err != nil {
				if opts.FailOpen {
					log.Printf("[WARNING] Availability source %s failed, failing open: %v", source, err)
					skipped <- source
					return nil
				}
				return fmt.Errorf("availability source %s: %w", source, err)
			}
			return nil
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	g.Go(fetch("approved_leaves", func() error {
		return dbConn.WithContext(gctx).
			Where("company_id = ? AND user_id IN ? AND status = ? AND start_date <= ? AND end_date >= ?",
				companyID, userIDs, models.LeaveStatusApproved, day, day).
			Find(&leaves).Error
	}))

	g.Go(fetch("approved_permissions", func() error {
		return dbConn.WithContext(gctx).
			Where("company_id = ? AND user_id IN ? AND status = ? AND date = ?",
				companyID, userIDs, models.LeaveStatusApproved, day).
			Find(&perms).Error
	}))

	g.Go(fetch("leave_requests", func() error {
		return dbConn.WithContext(gctx).
			Where("company_id = ? AND user_id IN ? AND status = ? AND start_date <= ? AND end_date >= ?",
				companyID, userIDs, models.LeaveStatusApproved, day, day).
			Find(&reqs).Error
	}))

	// The already-assigned lookup is not a leave source and does not
	// fall under the fail-open policy: a planner must not lose sight of
	// double bookings silently.
	g.Go(func() error {
		return dbConn.WithContext(gctx).
			Where("company_id = ? AND user_id IN ? AND date = ?", companyID, userIDs, day).
			Find(&assignments).Error
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	close(skipped)

	result := &RosterAvailability{
		Date:     day,
		Verdicts: make(map[string]Verdict, len(userIDs)),
		Assigned: make(map[string][]models.ShiftAssignment),
	}
	for s := range skipped {
		result.SkippedSources = append(result.SkippedSources, s)
	}

	leavesByUser := make(map[string][]models.ApprovedLeave)
	for _, l := range leaves {
		leavesByUser[l.UserID] = append(leavesByUser[l.UserID], l)
	}
	permsByUser := make(map[string][]models.ApprovedPermission)
	for _, p := range perms {
		permsByUser[p.UserID] = append(permsByUser[p.UserID], p)
	}
	reqsByUser := make(map[string][]models.LeaveRequest)
	for _, r := range reqs {
		reqsByUser[r.UserID] = append(reqsByUser[r.UserID], r)
	}
	for _, a := range assignments {
		result.Assigned[a.UserID] = append(result.Assigned[a.UserID], a)
	}

	for _, userID := range userIDs {
		result.Verdicts[userID] = evaluateVerdict(day,
			leavesByUser[userID], permsByUser[userID], reqsByUser[userID])
	}

	return result, nil
}

// evaluateVerdict applies the same priority order as CheckAvailability
// to records already in memory. Each record is re-checked against the
// day so the verdict never depends on how the records were fetched.
func evaluateVerdict(day time.Time, leaves []models.ApprovedLeave, perms []models.ApprovedPermission, reqs []models.LeaveRequest) Verdict {
	for _, l := range leaves {
		if l.Covers(day) {
			return verdictFromLeave(l)
		}
	}
	for _, p := range perms {
		if p.Date.Equal(day) {
			return verdictFromPermission(p)
		}
	}
	for _, r := range reqs {
		if r.Covers(day) {
			return verdictFromRequest(r)
		}
	}
	return Verdict{Available: true}
}

func verdictFromLeave(l models.ApprovedLeave) Verdict {
	start, end := l.StartDate, l.EndDate
	return Verdict{
		Kind:       UnavailableFullDayLeave,
		RangeStart: &start,
		RangeEnd:   &end,
	}
}

func verdictFromPermission(p models.ApprovedPermission) Verdict {
	return Verdict{
		Kind:        UnavailablePermission,
		WindowStart: p.StartTime,
		WindowEnd:   p.EndTime,
	}
}

func verdictFromRequest(r models.LeaveRequest) Verdict {
	start, end := r.StartDate, r.EndDate
	return Verdict{
		Kind:       classifyRequestKind(r.Kind),
		RangeStart: &start,
		RangeEnd:   &end,
	}
}

// classifyRequestKind maps the combined table's declared kind onto a
// verdict kind. Anything unrecognized becomes a generic absence.
func classifyRequestKind(kind string) string {
	switch kind {
	case models.LeaveKindVacation:
		return UnavailableVacation
	case models.LeaveKindPermission:
		return UnavailablePermission
	case models.LeaveKindSickness:
		return UnavailableSickness
	case models.LeaveKindInjury:
		return UnavailableInjury
	default:
		return UnavailableAbsent
	}
}
