package moderation

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"regiobon/apperr"
	"regiobon/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeStore struct {
	reports map[primitive.ObjectID]*models.Report
	reviews map[string]*models.Review
	shops   map[string]*models.Shop
	users   map[string]*models.User
	items   map[string]string // itemID -> name
	logs    []*models.ModerationLog

	failLog   bool
	decisions int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		reports: map[primitive.ObjectID]*models.Report{},
		reviews: map[string]*models.Review{},
		shops:   map[string]*models.Shop{},
		users:   map[string]*models.User{},
		items:   map[string]string{},
	}
}

func (f *fakeStore) ReportByID(_ context.Context, id primitive.ObjectID) (*models.Report, error) {
	report, ok := f.reports[id]
	if !ok {
		return nil, nil
	}
	// Return a copy, like the real store's Decode into a fresh struct, so
	// the engine's in-memory mutations don't leak into the store until
	// SaveDecision persists them.
	clone := *report
	return &clone, nil
}

func (f *fakeStore) SaveDecision(_ context.Context, report *models.Report) error {
	f.decisions++
	f.reports[report.ID] = report
	return nil
}

func (f *fakeStore) ReviewByID(_ context.Context, id string) (*models.Review, error) {
	return f.reviews[id], nil
}

func (f *fakeStore) RemoveReview(_ context.Context, reviewID string) error {
	review := f.reviews[reviewID]
	review.IsActive = false
	review.Warnings++
	return nil
}

func (f *fakeStore) ItemName(_ context.Context, itemID string) (string, error) {
	return f.items[itemID], nil
}

func (f *fakeStore) ShopByID(_ context.Context, id string) (*models.Shop, error) {
	return f.shops[id], nil
}

func (f *fakeStore) RemoveShop(_ context.Context, shopID string) error {
	shop := f.shops[shopID]
	shop.IsActive = false
	shop.Warnings++
	return nil
}

func (f *fakeStore) IncShopWarnings(_ context.Context, shopID string) error {
	f.shops[shopID].Warnings++
	return nil
}

func (f *fakeStore) UserByID(_ context.Context, userID string) (*models.User, error) {
	return f.users[userID], nil
}

func (f *fakeStore) AppendWarning(_ context.Context, userID string, warning models.Warning) error {
	user := f.users[userID]
	user.Warnings = append(user.Warnings, warning)
	return nil
}

func (f *fakeStore) DeactivateUser(_ context.Context, userID string) error {
	f.users[userID].IsActive = false
	return nil
}

func (f *fakeStore) DeactivateShopsByOwner(_ context.Context, ownerID string) (int64, error) {
	var n int64
	for _, shop := range f.shops {
		if shop.OwnerID == ownerID && shop.IsActive {
			shop.IsActive = false
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) OwnerReportTotal(_ context.Context, ownerID string) (int, error) {
	total := 0
	for _, shop := range f.shops {
		if shop.OwnerID == ownerID {
			total += shop.ReportCount
		}
	}
	return total, nil
}

func (f *fakeStore) InsertLog(_ context.Context, entry *models.ModerationLog) error {
	if f.failLog {
		return errors.New("log write failed")
	}
	entry.ID = primitive.NewObjectID()
	f.logs = append(f.logs, entry)
	return nil
}

func (f *fakeStore) logsWithAction(action models.ModAction) []*models.ModerationLog {
	var out []*models.ModerationLog
	for _, entry := range f.logs {
		if entry.Action == action {
			out = append(out, entry)
		}
	}
	return out
}

func seedReviewReport(f *fakeStore) primitive.ObjectID {
	f.users["shopper1"] = &models.User{UserID: "shopper1", Role: models.RoleShopper, IsActive: true}
	f.items["item1"] = "Sourdough Loaf"
	f.reviews["rev1"] = &models.Review{
		ReviewID: "rev1", ItemID: "item1", ShopID: "shop1",
		ShopperID: "shopper1", IsActive: true,
	}

	reportID := primitive.NewObjectID()
	f.reports[reportID] = &models.Report{
		ID:        reportID,
		Reporter:  "shopper2",
		TargetRef: models.TargetRef{Kind: models.TargetReview, ID: "rev1"},
		Category:  models.CategorySpam,
		Status:    models.ReportPending,
	}
	return reportID
}

func seedShopReport(f *fakeStore) primitive.ObjectID {
	f.users["owner1"] = &models.User{UserID: "owner1", Role: models.RoleOwner, IsActive: true}
	f.shops["shop1"] = &models.Shop{ShopID: "shop1", OwnerID: "owner1", Name: "Corner Bakery", IsActive: true}

	reportID := primitive.NewObjectID()
	f.reports[reportID] = &models.Report{
		ID:        reportID,
		Reporter:  "shopper2",
		TargetRef: models.TargetRef{Kind: models.TargetShop, ID: "shop1"},
		Category:  models.CategorySpam,
		Status:    models.ReportPending,
	}
	return reportID
}

func requireStatus(t *testing.T, err error, status int) {
	t.Helper()
	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, status, appErr.Status)
}

func TestModerateReviewRemove(t *testing.T) {
	store := newFakeStore()
	reportID := seedReviewReport(store)
	engine := NewEngine(store, DefaultConfig(), nil)

	result, err := engine.ModerateReview(context.Background(), "admin1", reportID, ActionRemove, "spam review")
	require.NoError(t, err)
	assert.True(t, result.Success)

	review := store.reviews["rev1"]
	assert.False(t, review.IsActive)
	assert.Equal(t, 1, review.Warnings)

	author := store.users["shopper1"]
	require.Len(t, author.Warnings, 1)
	assert.Equal(t, reportID, author.Warnings[0].RelatedReport)
	assert.Equal(t, "admin1", author.Warnings[0].IssuedBy)
	assert.Contains(t, author.Warnings[0].Reason, "Sourdough Loaf")

	require.Len(t, store.logsWithAction(models.ActionRemoveReview), 1)

	report := store.reports[reportID]
	assert.Equal(t, models.ReportReviewRemoved, report.Status)
	assert.Equal(t, "admin1", report.ReviewedBy)
	assert.NotNil(t, report.ReviewedAt)
	assert.Equal(t, "spam review", report.Resolution)
}

func TestModerateReviewApprove(t *testing.T) {
	store := newFakeStore()
	reportID := seedReviewReport(store)
	engine := NewEngine(store, DefaultConfig(), nil)

	_, err := engine.ModerateReview(context.Background(), "admin1", reportID, ActionApprove, "")
	require.NoError(t, err)

	// Target untouched
	review := store.reviews["rev1"]
	assert.True(t, review.IsActive)
	assert.Equal(t, 0, review.Warnings)
	assert.Empty(t, store.users["shopper1"].Warnings)

	require.Len(t, store.logsWithAction(models.ActionApproveReview), 1)
	assert.Equal(t, models.ReportResolved, store.reports[reportID].Status)
	assert.NotEmpty(t, store.reports[reportID].Resolution)
}

func TestModerateReviewReportNotFound(t *testing.T) {
	engine := NewEngine(newFakeStore(), DefaultConfig(), nil)

	_, err := engine.ModerateReview(context.Background(), "admin1", primitive.NewObjectID(), ActionRemove, "")
	requireStatus(t, err, http.StatusNotFound)
}

func TestModerateReviewWrongTargetType(t *testing.T) {
	store := newFakeStore()
	reportID := seedShopReport(store)
	engine := NewEngine(store, DefaultConfig(), nil)

	_, err := engine.ModerateReview(context.Background(), "admin1", reportID, ActionRemove, "")
	requireStatus(t, err, http.StatusBadRequest)
}

func TestModerateReviewAuditFailureAborts(t *testing.T) {
	store := newFakeStore()
	reportID := seedReviewReport(store)
	store.failLog = true
	engine := NewEngine(store, DefaultConfig(), nil)

	_, err := engine.ModerateReview(context.Background(), "admin1", reportID, ActionRemove, "")
	requireStatus(t, err, http.StatusInternalServerError)

	// The report was not finalized: the admin must retry. The review
	// mutation that preceded the audit failure stands (documented
	// partial-state window of the non-transactional sequence).
	assert.Equal(t, models.ReportPending, store.reports[reportID].Status)
	assert.Zero(t, store.decisions)
	assert.False(t, store.reviews["rev1"].IsActive)
}

func TestModerateReviewTwiceReexecutes(t *testing.T) {
	store := newFakeStore()
	reportID := seedReviewReport(store)
	engine := NewEngine(store, DefaultConfig(), nil)

	_, err := engine.ModerateReview(context.Background(), "admin1", reportID, ActionRemove, "")
	require.NoError(t, err)
	_, err = engine.ModerateReview(context.Background(), "admin1", reportID, ActionRemove, "")
	require.NoError(t, err)

	// No state-machine guard: mutations re-execute on an already-resolved
	// report. Current behavior, documented here rather than prevented.
	assert.Equal(t, 2, store.reviews["rev1"].Warnings)
	assert.Len(t, store.users["shopper1"].Warnings, 2)
	assert.Len(t, store.logsWithAction(models.ActionRemoveReview), 2)
}

func TestModerateShopRemove(t *testing.T) {
	store := newFakeStore()
	reportID := seedShopReport(store)
	store.shops["shop1"].ReportCount = 1
	engine := NewEngine(store, DefaultConfig(), nil)

	result, err := engine.ModerateShop(context.Background(), "admin1", reportID, ActionRemove, "confirmed fake shop")
	require.NoError(t, err)
	assert.True(t, result.Success)

	shop := store.shops["shop1"]
	assert.False(t, shop.IsActive)
	assert.Equal(t, 1, shop.Warnings)

	owner := store.users["owner1"]
	require.Len(t, owner.Warnings, 1)
	assert.Contains(t, owner.Warnings[0].Reason, "Corner Bakery")

	require.Len(t, store.logsWithAction(models.ActionRemoveShop), 1)
	assert.Equal(t, models.ReportResolved, store.reports[reportID].Status)
	assert.Equal(t, "confirmed fake shop", store.reports[reportID].Resolution)
}

func TestModerateShopApprove(t *testing.T) {
	store := newFakeStore()
	reportID := seedShopReport(store)
	engine := NewEngine(store, DefaultConfig(), nil)

	_, err := engine.ModerateShop(context.Background(), "admin1", reportID, ActionApprove, "")
	require.NoError(t, err)

	assert.True(t, store.shops["shop1"].IsActive)
	require.Len(t, store.logsWithAction(models.ActionApproveShop), 1)
	assert.Equal(t, models.ReportResolved, store.reports[reportID].Status)
}

func TestRemoveUserBelowThreshold(t *testing.T) {
	store := newFakeStore()
	store.users["shopper1"] = &models.User{
		UserID: "shopper1", Role: models.RoleShopper, IsActive: true,
		Warnings: []models.Warning{{Reason: "one"}, {Reason: "two"}},
	}
	engine := NewEngine(store, DefaultConfig(), nil)

	_, err := engine.RemoveUser(context.Background(), "admin1", "shopper1", "")
	requireStatus(t, err, http.StatusBadRequest)
	assert.Contains(t, err.Error(), "2 of 3")

	// No mutation at all
	assert.True(t, store.users["shopper1"].IsActive)
	assert.Empty(t, store.logs)
}

func TestRemoveUserAtThreshold(t *testing.T) {
	store := newFakeStore()
	store.users["shopper1"] = &models.User{
		UserID: "shopper1", Role: models.RoleShopper, IsActive: true,
		Warnings: []models.Warning{{Reason: "one"}, {Reason: "two"}, {Reason: "three"}},
	}
	engine := NewEngine(store, DefaultConfig(), nil)

	result, err := engine.RemoveUser(context.Background(), "admin1", "shopper1", "repeated abuse")
	require.NoError(t, err)
	assert.True(t, result.Success)

	assert.False(t, store.users["shopper1"].IsActive)
	require.Len(t, store.logsWithAction(models.ActionRemoveUser), 1)
}

func TestRemoveOwnerCascadesShops(t *testing.T) {
	store := newFakeStore()
	store.users["owner1"] = &models.User{UserID: "owner1", Role: models.RoleOwner, IsActive: true}
	store.shops["shop1"] = &models.Shop{ShopID: "shop1", OwnerID: "owner1", ReportCount: 3, IsActive: true}
	store.shops["shop2"] = &models.Shop{ShopID: "shop2", OwnerID: "owner1", ReportCount: 2, IsActive: true}
	engine := NewEngine(store, DefaultConfig(), nil)

	_, err := engine.RemoveUser(context.Background(), "admin1", "owner1", "")
	require.NoError(t, err)

	assert.False(t, store.users["owner1"].IsActive)
	assert.False(t, store.shops["shop1"].IsActive)
	assert.False(t, store.shops["shop2"].IsActive)
}

func TestRemoveOwnerBelowThreshold(t *testing.T) {
	store := newFakeStore()
	store.users["owner1"] = &models.User{UserID: "owner1", Role: models.RoleOwner, IsActive: true}
	store.shops["shop1"] = &models.Shop{ShopID: "shop1", OwnerID: "owner1", ReportCount: 4, IsActive: true}
	engine := NewEngine(store, DefaultConfig(), nil)

	_, err := engine.RemoveUser(context.Background(), "admin1", "owner1", "")
	requireStatus(t, err, http.StatusBadRequest)
	assert.True(t, store.shops["shop1"].IsActive)
}

func TestRemoveUserNotFound(t *testing.T) {
	engine := NewEngine(newFakeStore(), DefaultConfig(), nil)

	_, err := engine.RemoveUser(context.Background(), "admin1", "ghost", "")
	requireStatus(t, err, http.StatusNotFound)
}

func TestWarnUser(t *testing.T) {
	store := newFakeStore()
	store.users["shopper1"] = &models.User{UserID: "shopper1", Role: models.RoleShopper, IsActive: true}
	engine := NewEngine(store, DefaultConfig(), nil)

	_, err := engine.WarnUser(context.Background(), "admin1", "shopper1", "misleading replies")
	require.NoError(t, err)

	require.Len(t, store.users["shopper1"].Warnings, 1)
	assert.True(t, store.users["shopper1"].Warnings[0].RelatedReport.IsZero())
	require.Len(t, store.logsWithAction(models.ActionWarnUser), 1)
}

func TestWarnUserRequiresReason(t *testing.T) {
	engine := NewEngine(newFakeStore(), DefaultConfig(), nil)

	_, err := engine.WarnUser(context.Background(), "admin1", "shopper1", "")
	requireStatus(t, err, http.StatusBadRequest)
}

func TestWarnShop(t *testing.T) {
	store := newFakeStore()
	store.shops["shop1"] = &models.Shop{ShopID: "shop1", OwnerID: "owner1", IsActive: true}
	engine := NewEngine(store, DefaultConfig(), nil)

	_, err := engine.WarnShop(context.Background(), "admin1", "shop1", "misleading listing")
	require.NoError(t, err)

	assert.Equal(t, 1, store.shops["shop1"].Warnings)
	assert.True(t, store.shops["shop1"].IsActive)
	require.Len(t, store.logsWithAction(models.ActionWarnShop), 1)
}

func TestDismissReport(t *testing.T) {
	store := newFakeStore()
	reportID := seedReviewReport(store)
	engine := NewEngine(store, DefaultConfig(), nil)

	_, err := engine.DismissReport(context.Background(), "admin1", reportID, "frivolous")
	require.NoError(t, err)

	report := store.reports[reportID]
	assert.Equal(t, models.ReportDismissed, report.Status)
	assert.Equal(t, "frivolous", report.Resolution)
	assert.Empty(t, store.logs)
	assert.True(t, store.reviews["rev1"].IsActive)
}
