// Package moderation implements the admin decision workflow: applying
// approve/remove actions to reports, accruing warnings, threshold-gated
// user removal, and the append-only audit log.
package moderation

import (
	"context"
	"fmt"
	"time"

	"regiobon/apperr"
	"regiobon/models"
	"regiobon/mq"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Action is an admin's verdict on a report.
type Action string

const (
	ActionApprove Action = "approve"
	ActionRemove  Action = "remove"
)

func ParseAction(s string) (Action, error) {
	switch Action(s) {
	case ActionApprove, ActionRemove:
		return Action(s), nil
	}
	return "", apperr.BadRequest("Action must be approve or remove")
}

// Emitter broadcasts moderation events. Delivery is best-effort and must
// never fail the decision.
type Emitter interface {
	Emit(ctx context.Context, event mq.ModerationEvent)
}

type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type Engine struct {
	store  Store
	cfg    Config
	events Emitter
}

// NewEngine wires the engine. events may be nil (tests, offline tooling).
func NewEngine(store Store, cfg Config, events Emitter) *Engine {
	return &Engine{store: store, cfg: cfg.normalized(), events: events}
}

// ModerateReview applies an admin decision to a review report.
//
// On remove: the review is soft-deleted and its warning counter bumped, the
// author gains a Warning, an audit entry is written, and the report moves to
// review_removed. On approve only the audit entry is written and the report
// resolves. The audit write is mandatory: if it fails the whole call fails
// and the admin retries. The sequence is deliberately not transactional
// (admin-driven, low-frequency path; see DESIGN.md).
func (e *Engine) ModerateReview(ctx context.Context, adminID string, reportID primitive.ObjectID, action Action, reason string) (*Result, error) {
	report, err := e.loadReport(ctx, reportID, models.TargetReview, "Report does not target a review")
	if err != nil {
		return nil, err
	}

	review, err := e.store.ReviewByID(ctx, report.TargetRef.ID)
	if err != nil {
		return nil, apperr.Internal("Failed to fetch review", err)
	}
	if review == nil {
		return nil, apperr.NotFound("Review not found")
	}

	var result *Result
	var logAction models.ModAction

	switch action {
	case ActionRemove:
		if err := e.store.RemoveReview(ctx, review.ReviewID); err != nil {
			return nil, apperr.Internal("Failed to remove review", err)
		}

		itemName, err := e.store.ItemName(ctx, review.ItemID)
		if err != nil || itemName == "" {
			itemName = "an item"
		}
		warning := models.Warning{
			Reason:        fmt.Sprintf("Your review of %s was removed by moderation", itemName),
			IssuedBy:      adminID,
			IssuedAt:      time.Now().UTC(),
			RelatedReport: report.ID,
		}
		if err := e.store.AppendWarning(ctx, review.ShopperID, warning); err != nil {
			return nil, apperr.Internal("Failed to warn review author", err)
		}

		logAction = models.ActionRemoveReview
		report.Status = models.ReportReviewRemoved
		result = &Result{Success: true, Message: "Review removed and author warned"}

	case ActionApprove:
		logAction = models.ActionApproveReview
		report.Status = models.ReportResolved
		result = &Result{Success: true, Message: "Review approved, report resolved"}

	default:
		return nil, apperr.BadRequest("Action must be approve or remove")
	}

	entry := &models.ModerationLog{
		Admin:         adminID,
		Action:        logAction,
		TargetType:    "review",
		TargetID:      review.ReviewID,
		RelatedReport: report.ID,
		Reason:        reason,
		Details:       fmt.Sprintf("report category: %s", report.Category),
		Timestamp:     time.Now().UTC(),
	}
	if err := e.store.InsertLog(ctx, entry); err != nil {
		// Audit integrity is mandatory; abort so the admin retries.
		return nil, apperr.Internal("Failed to record moderation action", err)
	}

	if err := e.finishReport(ctx, adminID, report, reason, defaultResolution(action, models.TargetReview)); err != nil {
		return nil, err
	}

	if action == ActionRemove {
		e.observeShopperThreshold(ctx, review.ShopperID)
	}
	e.emit(ctx, logAction, "review", review.ReviewID, adminID, report.ID)

	return result, nil
}

// ModerateShop is the shop-side twin of ModerateReview. Removal warns the
// shop's owner; both verdicts resolve the report.
func (e *Engine) ModerateShop(ctx context.Context, adminID string, reportID primitive.ObjectID, action Action, reason string) (*Result, error) {
	report, err := e.loadReport(ctx, reportID, models.TargetShop, "Report does not target a shop")
	if err != nil {
		return nil, err
	}

	shop, err := e.store.ShopByID(ctx, report.TargetRef.ID)
	if err != nil {
		return nil, apperr.Internal("Failed to fetch shop", err)
	}
	if shop == nil {
		return nil, apperr.NotFound("Shop not found")
	}

	var result *Result
	var logAction models.ModAction

	switch action {
	case ActionRemove:
		if err := e.store.RemoveShop(ctx, shop.ShopID); err != nil {
			return nil, apperr.Internal("Failed to remove shop", err)
		}

		warning := models.Warning{
			Reason:        fmt.Sprintf("Your shop %s was removed by moderation", shop.Name),
			IssuedBy:      adminID,
			IssuedAt:      time.Now().UTC(),
			RelatedReport: report.ID,
		}
		if err := e.store.AppendWarning(ctx, shop.OwnerID, warning); err != nil {
			return nil, apperr.Internal("Failed to warn shop owner", err)
		}

		logAction = models.ActionRemoveShop
		result = &Result{Success: true, Message: "Shop removed and owner warned"}

	case ActionApprove:
		logAction = models.ActionApproveShop
		result = &Result{Success: true, Message: "Shop approved, report resolved"}

	default:
		return nil, apperr.BadRequest("Action must be approve or remove")
	}

	report.Status = models.ReportResolved

	entry := &models.ModerationLog{
		Admin:         adminID,
		Action:        logAction,
		TargetType:    "shop",
		TargetID:      shop.ShopID,
		RelatedReport: report.ID,
		Reason:        reason,
		Details:       fmt.Sprintf("report category: %s", report.Category),
		Timestamp:     time.Now().UTC(),
	}
	if err := e.store.InsertLog(ctx, entry); err != nil {
		return nil, apperr.Internal("Failed to record moderation action", err)
	}

	if err := e.finishReport(ctx, adminID, report, reason, defaultResolution(action, models.TargetShop)); err != nil {
		return nil, err
	}

	if action == ActionRemove {
		e.observeOwnerThreshold(ctx, shop.OwnerID)
	}
	e.emit(ctx, logAction, "shop", shop.ShopID, adminID, report.ID)

	return result, nil
}

// RemoveUser is the only hard-removal path and it is threshold-gated:
// crossing a threshold never removes anyone automatically, an admin has to
// invoke this explicitly.
func (e *Engine) RemoveUser(ctx context.Context, adminID, userID, reason string) (*Result, error) {
	user, err := e.store.UserByID(ctx, userID)
	if err != nil {
		return nil, apperr.Internal("Failed to fetch user", err)
	}
	if user == nil {
		return nil, apperr.NotFound("User not found")
	}
	if user.Role == models.RoleAdmin {
		return nil, apperr.Forbidden("Admins cannot be removed through moderation")
	}

	switch user.Role {
	case models.RoleOwner:
		total, err := e.store.OwnerReportTotal(ctx, userID)
		if err != nil {
			return nil, apperr.Internal("Failed to sum shop reports", err)
		}
		if !OwnerRemovalEligible(total, e.cfg.OwnerReportThreshold) {
			return nil, apperr.BadRequestf("Owner's shops have %d of %d required reports", total, e.cfg.OwnerReportThreshold)
		}
	default:
		got := len(user.Warnings)
		if !ShopperRemovalEligible(got, e.cfg.ShopperWarningThreshold) {
			return nil, apperr.BadRequestf("User has %d of %d required warnings", got, e.cfg.ShopperWarningThreshold)
		}
	}

	if err := e.store.DeactivateUser(ctx, userID); err != nil {
		return nil, apperr.Internal("Failed to deactivate user", err)
	}

	if user.Role == models.RoleOwner {
		n, err := e.store.DeactivateShopsByOwner(ctx, userID)
		if err != nil {
			// User is already deactivated; the orphaned shops are in the
			// accepted partial-state window. Log and keep going.
			log.Error().Err(err).Str("userid", userID).Msg("moderation: shop cascade failed")
		} else if n > 0 {
			log.Info().Int64("shops", n).Str("userid", userID).Msg("moderation: cascade-deactivated owner shops")
		}
	}

	entry := &models.ModerationLog{
		Admin:      adminID,
		Action:     models.ActionRemoveUser,
		TargetType: "user",
		TargetID:   userID,
		Reason:     reason,
		Details:    fmt.Sprintf("role: %s", user.Role),
		Timestamp:  time.Now().UTC(),
	}
	if err := e.store.InsertLog(ctx, entry); err != nil {
		return nil, apperr.Internal("Failed to record moderation action", err)
	}

	e.emit(ctx, models.ActionRemoveUser, "user", userID, adminID, primitive.NilObjectID)

	return &Result{Success: true, Message: "User removed"}, nil
}

// WarnUser issues a standalone warning outside any report.
func (e *Engine) WarnUser(ctx context.Context, adminID, userID, reason string) (*Result, error) {
	if reason == "" {
		return nil, apperr.BadRequest("Reason is required")
	}

	user, err := e.store.UserByID(ctx, userID)
	if err != nil {
		return nil, apperr.Internal("Failed to fetch user", err)
	}
	if user == nil {
		return nil, apperr.NotFound("User not found")
	}

	warning := models.Warning{
		Reason:   reason,
		IssuedBy: adminID,
		IssuedAt: time.Now().UTC(),
	}
	if err := e.store.AppendWarning(ctx, userID, warning); err != nil {
		return nil, apperr.Internal("Failed to warn user", err)
	}

	entry := &models.ModerationLog{
		Admin:      adminID,
		Action:     models.ActionWarnUser,
		TargetType: "user",
		TargetID:   userID,
		Reason:     reason,
		Timestamp:  time.Now().UTC(),
	}
	if err := e.store.InsertLog(ctx, entry); err != nil {
		return nil, apperr.Internal("Failed to record moderation action", err)
	}

	e.observeShopperThreshold(ctx, userID)
	e.emit(ctx, models.ActionWarnUser, "user", userID, adminID, primitive.NilObjectID)

	return &Result{Success: true, Message: "User warned"}, nil
}

// WarnShop bumps a shop's warning counter outside any report.
func (e *Engine) WarnShop(ctx context.Context, adminID, shopID, reason string) (*Result, error) {
	if reason == "" {
		return nil, apperr.BadRequest("Reason is required")
	}

	shop, err := e.store.ShopByID(ctx, shopID)
	if err != nil {
		return nil, apperr.Internal("Failed to fetch shop", err)
	}
	if shop == nil {
		return nil, apperr.NotFound("Shop not found")
	}

	if err := e.store.IncShopWarnings(ctx, shopID); err != nil {
		return nil, apperr.Internal("Failed to warn shop", err)
	}

	entry := &models.ModerationLog{
		Admin:      adminID,
		Action:     models.ActionWarnShop,
		TargetType: "shop",
		TargetID:   shopID,
		Reason:     reason,
		Timestamp:  time.Now().UTC(),
	}
	if err := e.store.InsertLog(ctx, entry); err != nil {
		return nil, apperr.Internal("Failed to record moderation action", err)
	}

	e.emit(ctx, models.ActionWarnShop, "shop", shopID, adminID, primitive.NilObjectID)

	return &Result{Success: true, Message: "Shop warned"}, nil
}

// DismissReport closes a report without any action against its target.
// No audit entry: the log records decisions against targets, and the action
// enum has no dismiss member.
func (e *Engine) DismissReport(ctx context.Context, adminID string, reportID primitive.ObjectID, reason string) (*Result, error) {
	report, err := e.store.ReportByID(ctx, reportID)
	if err != nil {
		return nil, apperr.Internal("Failed to fetch report", err)
	}
	if report == nil {
		return nil, apperr.NotFound("Report not found")
	}

	report.Status = models.ReportDismissed
	if err := e.finishReport(ctx, adminID, report, reason, "Report dismissed without action"); err != nil {
		return nil, err
	}

	return &Result{Success: true, Message: "Report dismissed"}, nil
}

func (e *Engine) loadReport(ctx context.Context, id primitive.ObjectID, want models.TargetKind, mismatchMsg string) (*models.Report, error) {
	report, err := e.store.ReportByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal("Failed to fetch report", err)
	}
	if report == nil {
		return nil, apperr.NotFound("Report not found")
	}
	if report.Kind != want {
		return nil, apperr.BadRequest(mismatchMsg)
	}
	return report, nil
}

// finishReport writes the common epilogue: reviewer, time, resolution text.
func (e *Engine) finishReport(ctx context.Context, adminID string, report *models.Report, reason, fallback string) error {
	resolution := reason
	if resolution == "" {
		resolution = fallback
	}
	if len(resolution) > models.MaxResolution {
		resolution = resolution[:models.MaxResolution]
	}

	now := time.Now().UTC()
	report.ReviewedBy = adminID
	report.ReviewedAt = &now
	report.Resolution = resolution

	if err := e.store.SaveDecision(ctx, report); err != nil {
		return apperr.Internal("Failed to update report", err)
	}
	return nil
}

func defaultResolution(action Action, kind models.TargetKind) string {
	if action == ActionRemove {
		return fmt.Sprintf("Reported %s removed by moderation", kind)
	}
	return fmt.Sprintf("Reported %s approved, no action taken", kind)
}

// observeShopperThreshold logs when a shopper becomes removal-eligible.
// Observation only; nothing is persisted and nothing is removed.
func (e *Engine) observeShopperThreshold(ctx context.Context, userID string) {
	user, err := e.store.UserByID(ctx, userID)
	if err != nil || user == nil {
		return
	}
	if ShopperRemovalEligible(len(user.Warnings), e.cfg.ShopperWarningThreshold) {
		log.Info().
			Str("userid", userID).
			Int("warnings", len(user.Warnings)).
			Int("threshold", e.cfg.ShopperWarningThreshold).
			Msg("moderation: shopper is removal-eligible")
	}
}

func (e *Engine) observeOwnerThreshold(ctx context.Context, ownerID string) {
	total, err := e.store.OwnerReportTotal(ctx, ownerID)
	if err != nil {
		return
	}
	if OwnerRemovalEligible(total, e.cfg.OwnerReportThreshold) {
		log.Info().
			Str("userid", ownerID).
			Int("reports", total).
			Int("threshold", e.cfg.OwnerReportThreshold).
			Msg("moderation: owner is removal-eligible")
	}
}

func (e *Engine) emit(ctx context.Context, action models.ModAction, targetType, targetID, adminID string, reportID primitive.ObjectID) {
	if e.events == nil {
		return
	}
	event := mq.ModerationEvent{
		Action:     string(action),
		TargetType: targetType,
		TargetID:   targetID,
		AdminID:    adminID,
	}
	if !reportID.IsZero() {
		event.ReportID = reportID.Hex()
	}
	e.events.Emit(ctx, event)
}
