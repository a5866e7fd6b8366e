package planning

import (
	"context"
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// CoverageSource answers whether an (assignment, date) pair has any shift
// recorded. Backed by the same snapshot index as ShiftSource.
type CoverageSource interface {
	HasShift(assignmentID string, date time.Time) bool
}

// GapDetector finds (assignment, date) pairs without coverage in a date range
// and attaches ranked fill suggestions to each gap
type GapDetector struct {
	assignments []Assignment
	coverage    CoverageSource
	ranker      *CandidateRanker
	params      Params
	logger      *zap.Logger
}

// NewGapDetector creates a detector over the given assignment snapshot.
// Only active assignments participate; inactive ones are skipped.
func NewGapDetector(assignments []Assignment, coverage CoverageSource, ranker *CandidateRanker, params Params, logger *zap.Logger) *GapDetector {
	return &GapDetector{
		assignments: assignments,
		coverage:    coverage,
		ranker:      ranker,
		params:      params,
		logger:      logger,
	}
}

// DetectGaps checks every active assignment against every required day in
// [start, end] inclusive and returns one Gap per uncovered day, each carrying
// ranked employee suggestions. Gaps come back ordered by assignment, then
// date, regardless of how the rankings were parallelized.
func (d *GapDetector) DetectGaps(ctx context.Context, start, end time.Time) ([]Gap, error) {
	startDay := DateOf(start)
	endDay := DateOf(end)
	if endDay.Before(startDay) {
		return nil, fmt.Errorf("end date %s is before start date %s", dateKey(endDay), dateKey(startDay))
	}

	// Coverage checks run against the in-memory snapshot, so the uncovered
	// days are collected up front and only the rankings fan out.
	type gapJob struct {
		assignment Assignment
		date       time.Time
	}

	var jobs []gapJob
	for _, asg := range d.assignments {
		if asg.Status != StatusActive {
			continue
		}

		days, err := requiredDays(asg, startDay, endDay)
		if err != nil {
			return nil, err
		}

		for _, day := range days {
			if d.coverage.HasShift(asg.ID, day) {
				continue
			}
			jobs = append(jobs, gapJob{assignment: asg, date: day})
		}
	}

	d.logger.Info("Coverage scan complete",
		zap.String("start", dateKey(startDay)),
		zap.String("end", dateKey(endDay)),
		zap.Int("gaps", len(jobs)))

	gaps := make([]Gap, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.params.MaxParallel)

	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			suggestions, err := d.ranker.Rank(gctx, job.date, job.assignment)
			if err != nil {
				return err
			}
			gaps[i] = Gap{
				AssignmentID:       job.assignment.ID,
				LocationName:       job.assignment.Name,
				LocationAddress:    job.assignment.Address,
				ClientName:         job.assignment.ClientName,
				Date:               dateKey(job.date),
				SuggestedEmployees: suggestions,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return gaps, nil
}

// requiredDays expands an assignment's coverage rule over [start, end]
// inclusive. Assignments without a rule require coverage every calendar day.
func requiredDays(asg Assignment, start, end time.Time) ([]time.Time, error) {
	if asg.CoverageRule == "" {
		var days []time.Time
		for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
			days = append(days, day)
		}
		return days, nil
	}

	rule, err := rrule.StrToRRule(asg.CoverageRule)
	if err != nil {
		return nil, fmt.Errorf("invalid coverage rule for assignment %s: %w", asg.ID, err)
	}

	// Pin the rule to the start of the requested range so occurrences
	// enumerate from there rather than from the rule's creation time
	rule.DTStart(start)

	occurrences := rule.Between(start, end, true)
	days := make([]time.Time, 0, len(occurrences))
	for _, occ := range occurrences {
		days = append(days, DateOf(occ))
	}
	return days, nil
}
