package reports

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"regiobon/apperr"
	"regiobon/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReportStore struct {
	reports []*models.Report
}

func (f *fakeReportStore) HasDuplicate(_ context.Context, reporter string, target models.TargetRef) (bool, error) {
	for _, r := range f.reports {
		if r.Reporter == reporter && r.TargetRef == target {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeReportStore) Insert(_ context.Context, report *models.Report) error {
	f.reports = append(f.reports, report)
	return nil
}

func (f *fakeReportStore) ByReporter(_ context.Context, reporter string) ([]models.Report, error) {
	var out []models.Report
	for _, r := range f.reports {
		if r.Reporter == reporter {
			out = append(out, *r)
		}
	}
	return out, nil
}

type fakeTargets struct {
	reviews map[string]*models.Review
	shops   map[string]*models.Shop
	incErr  error
	incs    []models.TargetRef
}

func (f *fakeTargets) Review(_ context.Context, id string) (*models.Review, error) {
	return f.reviews[id], nil
}

func (f *fakeTargets) Shop(_ context.Context, id string) (*models.Shop, error) {
	return f.shops[id], nil
}

func (f *fakeTargets) IncReportCount(_ context.Context, target models.TargetRef) error {
	if f.incErr != nil {
		return f.incErr
	}
	f.incs = append(f.incs, target)
	return nil
}

func newService() (*Service, *fakeReportStore, *fakeTargets) {
	store := &fakeReportStore{}
	targets := &fakeTargets{
		reviews: map[string]*models.Review{
			"rev1": {ReviewID: "rev1", ItemID: "item1", ShopID: "shop1", ShopperID: "author1", IsActive: true},
		},
		shops: map[string]*models.Shop{
			"shop1": {ShopID: "shop1", OwnerID: "owner1", IsActive: true},
		},
	}
	return NewService(store, targets), store, targets
}

func reviewTarget(id string) models.TargetRef {
	return models.TargetRef{Kind: models.TargetReview, ID: id}
}

func requireStatus(t *testing.T, err error, status int) {
	t.Helper()
	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, status, appErr.Status)
}

func TestSubmitReviewReport(t *testing.T) {
	svc, store, targets := newService()

	report, err := svc.Submit(context.Background(), "shopper1", reviewTarget("rev1"), models.CategorySpam, "obvious spam")
	require.NoError(t, err)

	assert.Equal(t, models.ReportPending, report.Status)
	assert.Equal(t, "shopper1", report.Reporter)
	assert.False(t, report.Timestamp.IsZero())
	require.Len(t, store.reports, 1)
	require.Len(t, targets.incs, 1)
	assert.Equal(t, reviewTarget("rev1"), targets.incs[0])
}

func TestSubmitShopReport(t *testing.T) {
	svc, _, targets := newService()

	target := models.TargetRef{Kind: models.TargetShop, ID: "shop1"}
	report, err := svc.Submit(context.Background(), "shopper1", target, models.CategoryMisleading, "wrong address")
	require.NoError(t, err)

	assert.Equal(t, models.ReportPending, report.Status)
	require.Len(t, targets.incs, 1)
}

func TestSubmitDuplicate(t *testing.T) {
	svc, _, _ := newService()

	_, err := svc.Submit(context.Background(), "shopper1", reviewTarget("rev1"), models.CategorySpam, "spam")
	require.NoError(t, err)

	_, err = svc.Submit(context.Background(), "shopper1", reviewTarget("rev1"), models.CategoryOffensive, "still spam")
	requireStatus(t, err, http.StatusConflict)
}

func TestSubmitOwnReview(t *testing.T) {
	svc, _, _ := newService()

	_, err := svc.Submit(context.Background(), "author1", reviewTarget("rev1"), models.CategorySpam, "self report")
	requireStatus(t, err, http.StatusForbidden)
}

func TestSubmitTargetNotFound(t *testing.T) {
	svc, _, _ := newService()

	_, err := svc.Submit(context.Background(), "shopper1", reviewTarget("ghost"), models.CategorySpam, "x")
	requireStatus(t, err, http.StatusNotFound)

	_, err = svc.Submit(context.Background(), "shopper1", models.TargetRef{Kind: models.TargetShop, ID: "ghost"}, models.CategorySpam, "x")
	requireStatus(t, err, http.StatusNotFound)
}

func TestSubmitValidation(t *testing.T) {
	svc, _, _ := newService()
	ctx := context.Background()

	_, err := svc.Submit(ctx, "shopper1", models.TargetRef{Kind: "comment", ID: "c1"}, models.CategorySpam, "x")
	requireStatus(t, err, http.StatusBadRequest)

	_, err = svc.Submit(ctx, "shopper1", models.TargetRef{Kind: models.TargetReview}, models.CategorySpam, "x")
	requireStatus(t, err, http.StatusBadRequest)

	_, err = svc.Submit(ctx, "shopper1", reviewTarget("rev1"), "rude", "x")
	requireStatus(t, err, http.StatusBadRequest)

	_, err = svc.Submit(ctx, "shopper1", reviewTarget("rev1"), models.CategorySpam, "")
	requireStatus(t, err, http.StatusBadRequest)

	_, err = svc.Submit(ctx, "shopper1", reviewTarget("rev1"), models.CategorySpam, strings.Repeat("a", models.MaxReportDescription+1))
	requireStatus(t, err, http.StatusBadRequest)
}

func TestSubmitSurvivesCountFailure(t *testing.T) {
	svc, store, targets := newService()
	targets.incErr = errors.New("mongo down")

	report, err := svc.Submit(context.Background(), "shopper1", reviewTarget("rev1"), models.CategorySpam, "spam")
	require.NoError(t, err)
	assert.Equal(t, models.ReportPending, report.Status)
	require.Len(t, store.reports, 1)
}

func TestMyReports(t *testing.T) {
	svc, _, _ := newService()
	ctx := context.Background()

	list, err := svc.MyReports(ctx, "shopper1")
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	_, err = svc.Submit(ctx, "shopper1", reviewTarget("rev1"), models.CategorySpam, "spam")
	require.NoError(t, err)

	list, err = svc.MyReports(ctx, "shopper1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "shopper1", list[0].Reporter)
}
