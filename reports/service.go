// Package reports implements report submission and the reporter's own
// report listing. Moderation of submitted reports lives in package
// moderation.
package reports

import (
	"context"
	"time"

	"regiobon/apperr"
	"regiobon/models"

	"github.com/rs/zerolog/log"
)

// Store persists reports.
type Store interface {
	HasDuplicate(ctx context.Context, reporter string, target models.TargetRef) (bool, error)
	Insert(ctx context.Context, report *models.Report) error
	ByReporter(ctx context.Context, reporter string) ([]models.Report, error)
}

// TargetStore resolves and mutates the entities reports point at.
type TargetStore interface {
	Review(ctx context.Context, id string) (*models.Review, error)
	Shop(ctx context.Context, id string) (*models.Shop, error)
	IncReportCount(ctx context.Context, target models.TargetRef) error
}

type Service struct {
	store   Store
	targets TargetStore
}

func NewService(store Store, targets TargetStore) *Service {
	return &Service{store: store, targets: targets}
}

// Submit validates and persists a report in pending status, then bumps the
// target's report count. The count increment is best-effort: a failure is
// logged but the report still stands.
func (s *Service) Submit(ctx context.Context, reporter string, target models.TargetRef, category, description string) (*models.Report, error) {
	if !target.Kind.Valid() {
		return nil, apperr.BadRequest("Invalid target type")
	}
	if target.ID == "" {
		return nil, apperr.BadRequest("Missing target id")
	}
	if !models.ValidCategory(category) {
		return nil, apperr.BadRequest("Invalid report category")
	}
	if description == "" {
		return nil, apperr.BadRequest("Description is required")
	}
	if len(description) > models.MaxReportDescription {
		return nil, apperr.BadRequestf("Description must be at most %d characters", models.MaxReportDescription)
	}

	switch target.Kind {
	case models.TargetReview:
		review, err := s.targets.Review(ctx, target.ID)
		if err != nil {
			return nil, err
		}
		if review == nil {
			return nil, apperr.NotFound("Review not found")
		}
		if review.ShopperID == reporter {
			return nil, apperr.Forbidden("You cannot report your own review")
		}
	case models.TargetShop:
		shop, err := s.targets.Shop(ctx, target.ID)
		if err != nil {
			return nil, err
		}
		if shop == nil {
			return nil, apperr.NotFound("Shop not found")
		}
	}

	dup, err := s.store.HasDuplicate(ctx, reporter, target)
	if err != nil {
		return nil, apperr.Internal("Error checking existing reports", err)
	}
	if dup {
		return nil, apperr.Conflict("You have already reported this item")
	}

	report := &models.Report{
		Reporter:    reporter,
		TargetRef:   target,
		Category:    category,
		Description: description,
		Status:      models.ReportPending,
		Timestamp:   time.Now().UTC(),
	}
	if err := s.store.Insert(ctx, report); err != nil {
		return nil, err
	}

	// Accepted inconsistency: a lost increment leaves the count behind by
	// one, which the admin dashboard tolerates.
	if err := s.targets.IncReportCount(ctx, target); err != nil {
		log.Warn().Err(err).
			Str("targetType", string(target.Kind)).
			Str("targetId", target.ID).
			Msg("reports: failed to increment report count")
	}

	return report, nil
}

func (s *Service) MyReports(ctx context.Context, reporter string) ([]models.Report, error) {
	list, err := s.store.ByReporter(ctx, reporter)
	if err != nil {
		return nil, apperr.Internal("Failed to fetch reports", err)
	}
	if list == nil {
		list = []models.Report{}
	}
	return list, nil
}
