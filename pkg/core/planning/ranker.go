package planning

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Params holds the tunable planning constants.
// The assumed shift boundaries are heuristics used when a gap has no concrete
// shift times yet; assignments can override them per site.
type Params struct {
	// MinRestHours is the mandatory rest period between shifts
	MinRestHours float64

	// AssumedStart and AssumedEnd ("HH:MM") bound the hypothetical shift used
	// when scoring candidates for a gap
	AssumedStart string
	AssumedEnd   string

	// AssumedShiftHours is the assumed full shift length for the prospective
	// weekly-hours check
	AssumedShiftHours float64

	// LowRemainingHours is the threshold below which a candidate's remaining
	// weekly budget is considered tight
	LowRemainingHours float64

	// MaxParallel bounds concurrent candidate evaluations and gap rankings
	MaxParallel int
}

// DefaultParams returns the standard planning constants
func DefaultParams() Params {
	return Params{
		MinRestHours:      12,
		AssumedStart:      "08:00",
		AssumedEnd:        "20:00",
		AssumedShiftHours: 8,
		LowRemainingHours: 16,
		MaxParallel:       8,
	}
}

// Score adjustments applied by the ranker. The baseline is 100 and the final
// score is unbounded in either direction.
const (
	baselineScore        = 100
	noPreviousShiftBonus = 10
	previousRestPenalty  = 50
	nextRestPenalty      = 30
	distanceNearBonus    = 15
	distanceMidBonus     = 5
	distanceFarPenalty   = 10
	badgeGreenBonus      = 10
	badgeGreyBonus       = 5
	flexPoolBonus        = 5
	weekOveragePenalty   = 40
	weekTightPenalty     = 10
)

// Distance buckets in kilometres
const (
	distanceNearKm = 10
	distanceMidKm  = 30
	distanceFarKm  = 50
)

// CandidateRanker evaluates every active employee for one (date, assignment)
// pair, producing a sorted list of candidates with explainable reasons and
// warnings. It never excludes on soft signals: only an existing shift on the
// target date removes an employee from the list.
type CandidateRanker struct {
	employees []Employee
	shifts    ShiftSource
	hours     *WeeklyHoursValidator
	distance  DistanceService
	params    Params
	logger    *zap.Logger
}

// NewCandidateRanker creates a ranker over the given employee snapshot.
// The order of employees is preserved as the tiebreak for equal scores.
func NewCandidateRanker(employees []Employee, shifts ShiftSource, distance DistanceService, params Params, logger *zap.Logger) *CandidateRanker {
	return &CandidateRanker{
		employees: employees,
		shifts:    shifts,
		hours:     NewWeeklyHoursValidator(shifts),
		distance:  distance,
		params:    params,
		logger:    logger,
	}
}

// Rank scores every active employee for filling a gap at the assignment on
// the given date. Employees are evaluated independently and may run in
// parallel; the returned list is sorted descending by score, stable on ties.
func (r *CandidateRanker) Rank(ctx context.Context, date time.Time, asg Assignment) ([]CandidateScore, error) {
	day := DateOf(date)

	// Evaluations are independent and read-only, so they fan out under a
	// bounded group. Results keep their slot to preserve enumeration order.
	results := make([]*CandidateScore, len(r.employees))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.params.MaxParallel)

	for i, emp := range r.employees {
		i, emp := i, emp
		g.Go(func() error {
			if emp.Status != StatusActive {
				return nil
			}
			score, err := r.evaluate(gctx, emp, day, asg)
			if err != nil {
				return err
			}
			results[i] = score
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	candidates := make([]CandidateScore, 0, len(results))
	for _, score := range results {
		if score != nil {
			candidates = append(candidates, *score)
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	r.logger.Debug("Ranked candidates",
		zap.String("assignment_id", asg.ID),
		zap.String("date", dateKey(day)),
		zap.Int("candidates", len(candidates)),
		zap.Int("excluded", len(r.employees)-len(candidates)))

	return candidates, nil
}

// evaluate scores a single employee for the gap. A nil result means the
// employee is excluded because they already work that day.
func (r *CandidateRanker) evaluate(ctx context.Context, emp Employee, day time.Time, asg Assignment) (*CandidateScore, error) {
	if len(r.shifts.ShiftsForEmployeeOn(emp.ID, day)) > 0 {
		return nil, nil
	}

	assumedStart, assumedEnd, err := r.assumedWindow(day, asg)
	if err != nil {
		return nil, err
	}

	score := baselineScore
	reasons := []string{}
	warnings := []string{}

	// Rest against the previous day's last shift, assuming the candidate
	// shift starts at the assumed start time
	previous := r.shifts.ShiftsForEmployeeOn(emp.ID, day.AddDate(0, 0, -1))
	if len(previous) == 0 {
		score += noPreviousShiftBonus
		reasons = append(reasons, "no previous shift")
	} else {
		last := latestEnding(previous)
		rest := assumedStart.Sub(last.NormalizedEnd()).Hours()
		if rest < r.params.MinRestHours {
			score -= previousRestPenalty
			warnings = append(warnings, fmt.Sprintf("only %.1fh rest after previous shift", rest))
		} else {
			reasons = append(reasons, fmt.Sprintf("%.1fh rest after previous shift", rest))
		}
	}

	// Advisory rest against the next day's first shift, assuming the
	// candidate shift runs until the assumed end time. Never excludes.
	next := r.shifts.ShiftsForEmployeeOn(emp.ID, day.AddDate(0, 0, 1))
	if len(next) > 0 {
		first := earliestStarting(next)
		rest := first.Start.Sub(assumedEnd).Hours()
		if rest < r.params.MinRestHours {
			score -= nextRestPenalty
			warnings = append(warnings, fmt.Sprintf("only %.1fh rest before next shift", rest))
		}
	}

	var distanceKm, travelCosts *float64
	if emp.HomeAddress != "" && asg.Address != "" {
		if km, ok := r.distance.Resolve(ctx, emp.HomeAddress, asg.Address); ok {
			switch {
			case km < distanceNearKm:
				score += distanceNearBonus
			case km < distanceMidKm:
				score += distanceMidBonus
			case km > distanceFarKm:
				score -= distanceFarPenalty
			}
			reasons = append(reasons, fmt.Sprintf("%.1f km from site", km))
			cost := r.distance.TravelCost(km)
			distanceKm = &km
			travelCosts = &cost
		} else {
			reasons = append(reasons, "distance unavailable")
		}
	} else {
		reasons = append(reasons, "no address on file")
	}

	switch emp.Badge {
	case BadgeGreen:
		score += badgeGreenBonus
		reasons = append(reasons, "green badge")
	case BadgeGrey:
		score += badgeGreyBonus
		reasons = append(reasons, "grey badge")
	}

	if emp.IsFlexible {
		score += flexPoolBonus
		reasons = append(reasons, "flex-pool")
	}

	week := r.hours.CheckWeek(emp.ID, day, emp.MaxHoursPerWeek, r.params.AssumedShiftHours)
	if !week.Valid {
		score -= weekOveragePenalty
		warnings = append(warnings, fmt.Sprintf("weekly limit exceeded: %.1f of %.1f hours scheduled", week.CurrentHours, week.MaxHours))
		reasons = append(reasons, weekHoursReason(week))
	} else if week.MaxHours-week.CurrentHours < r.params.LowRemainingHours {
		score -= weekTightPenalty
		reasons = append(reasons, weekHoursReason(week))
	}

	return &CandidateScore{
		ID:          emp.ID,
		Name:        emp.Name,
		CAOType:     emp.CAOType,
		Score:       score,
		Reasons:     reasons,
		Warnings:    warnings,
		DistanceKm:  distanceKm,
		TravelCosts: travelCosts,
	}, nil
}

// assumedWindow returns the hypothetical shift boundaries for a gap on the
// given day, preferring the assignment's expected times over the configured
// defaults
func (r *CandidateRanker) assumedWindow(day time.Time, asg Assignment) (start, end time.Time, err error) {
	startClock := r.params.AssumedStart
	if asg.ExpectedStart != "" {
		startClock = asg.ExpectedStart
	}
	endClock := r.params.AssumedEnd
	if asg.ExpectedEnd != "" {
		endClock = asg.ExpectedEnd
	}

	start, err = At(day, startClock)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err = At(day, endClock)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if end.Before(start) {
		end = end.AddDate(0, 0, 1)
	}
	return start, end, nil
}

func weekHoursReason(week WeekCheck) string {
	return fmt.Sprintf("%.1f/%.1f hours scheduled this week", week.CurrentHours, week.MaxHours)
}

func latestEnding(shifts []Shift) Shift {
	last := shifts[0]
	for _, shift := range shifts[1:] {
		if shift.NormalizedEnd().After(last.NormalizedEnd()) {
			last = shift
		}
	}
	return last
}

func earliestStarting(shifts []Shift) Shift {
	first := shifts[0]
	for _, shift := range shifts[1:] {
		if shift.Start.Before(first.Start) {
			first = shift
		}
	}
	return first
}
