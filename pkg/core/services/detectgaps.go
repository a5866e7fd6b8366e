package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/mkuiper/guardplan/pkg/core/planning"
	"github.com/mkuiper/guardplan/pkg/db"
)

// GapReport is the result of a gap-detection run over a date range
type GapReport struct {
	Gaps      []planning.Gap `json:"gaps"`
	StartDate string         `json:"start_date"`
	EndDate   string         `json:"end_date"`
}

// DetectGaps scans all active assignments for uncovered days in
// [start, end] inclusive and ranks fill candidates for every gap found.
// All inputs are fetched once up front; the result reflects the database
// as of that read.
func DetectGaps(ctx context.Context, store db.PlanningStore, distance planning.DistanceService, logger *zap.Logger, params planning.Params, start, end time.Time) (*GapReport, error) {
	logger.Info("Detecting coverage gaps",
		zap.String("start_date", start.Format("2006-01-02")),
		zap.String("end_date", end.Format("2006-01-02")))

	snapshot, err := loadSnapshot(ctx, store, logger, start, end)
	if err != nil {
		return nil, err
	}

	ranker := planning.NewCandidateRanker(snapshot.employees, snapshot.index, distance, params, logger)
	detector := planning.NewGapDetector(snapshot.assignments, snapshot.index, ranker, params, logger)

	gaps, err := detector.DetectGaps(ctx, start, end)
	if err != nil {
		return nil, err
	}

	logger.Info("Gap detection complete", zap.Int("gaps", len(gaps)))

	return &GapReport{
		Gaps:      gaps,
		StartDate: start.Format("2006-01-02"),
		EndDate:   end.Format("2006-01-02"),
	}, nil
}

// SuggestCandidates ranks all active employees for filling one assignment on
// one date, without running a full gap scan. Used by planners looking at a
// single known gap.
func SuggestCandidates(ctx context.Context, store db.PlanningStore, distance planning.DistanceService, logger *zap.Logger, params planning.Params, assignmentID string, date time.Time) ([]planning.CandidateScore, error) {
	snapshot, err := loadSnapshot(ctx, store, logger, date, date)
	if err != nil {
		return nil, err
	}

	var target *planning.Assignment
	for i := range snapshot.assignments {
		if snapshot.assignments[i].ID == assignmentID {
			target = &snapshot.assignments[i]
			break
		}
	}
	if target == nil {
		return nil, &UnknownAssignmentError{ID: assignmentID}
	}

	ranker := planning.NewCandidateRanker(snapshot.employees, snapshot.index, distance, params, logger)
	return ranker.Rank(ctx, date, *target)
}

// UnknownAssignmentError reports a suggestion request for an assignment that
// is missing or not active
type UnknownAssignmentError struct {
	ID string
}

func (e *UnknownAssignmentError) Error() string {
	return "no active assignment with id " + e.ID
}
