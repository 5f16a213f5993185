package similarity

import (
	"context"
	"testing"
	"time"

	"github.com/richxcame/fraudguard/internal/orders"
	"github.com/richxcame/fraudguard/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockOrderHistory struct {
	mock.Mock
}

func (m *mockOrderHistory) RecentOrders(ctx context.Context, windowHours, limit int) ([]*orders.Order, error) {
	args := m.Called(ctx, windowHours, limit)
	result, _ := args.Get(0).([]*orders.Order)
	return result, args.Error(1)
}

func testConfig() config.FraudConfig {
	return config.FraudConfig{
		MaxOrdersPerAddress:     2,
		AddressWindowHours:      24,
		NameSimilarityThreshold: 80,
		NameWindowHours:         24,
		CandidateLimit:          200,
	}
}

func TestFindSimilarAddressMatches(t *testing.T) {
	ctx := context.Background()
	history := new(mockOrderHistory)
	service := NewService(history)
	now := time.Now()
	service.now = func() time.Time { return now }

	history.On("RecentOrders", ctx, 24, 200).Return([]*orders.Order{
		{ID: 1, Address: "123 Main St., Dhaka, 1200", Name: "Alpha One", CreatedAt: now.Add(-30 * time.Minute)},
		{ID: 2, Address: "123 main st dhaka 1200", Name: "Beta Two", CreatedAt: now.Add(-45 * time.Minute)},
		{ID: 3, Address: "9 Other Rd", Name: "Gamma Three", CreatedAt: now.Add(-10 * time.Minute)},
	}, nil).Once()

	fp := NewFingerprint(4, "01712345678", "123 MAIN ST, Dhaka 1200", "Delta Four", now)
	matches, err := service.FindSimilar(ctx, fp, testConfig())
	require.NoError(t, err)

	assert.Equal(t, 2, CountAddressMatches(matches))
	history.AssertExpectations(t)
}

func TestFindSimilarNameMatchAboveThreshold(t *testing.T) {
	ctx := context.Background()
	history := new(mockOrderHistory)
	service := NewService(history)
	now := time.Now()
	service.now = func() time.Time { return now }

	history.On("RecentOrders", ctx, 24, 200).Return([]*orders.Order{
		{ID: 1, Address: "x", Name: "Mohammed Rahim", CreatedAt: now.Add(-time.Hour)},
		{ID: 2, Address: "y", Name: "Totally Unrelated", CreatedAt: now.Add(-time.Hour)},
	}, nil).Once()

	fp := NewFingerprint(9, "", "elsewhere", "Mohammad Rahim", now)
	matches, err := service.FindSimilar(ctx, fp, testConfig())
	require.NoError(t, err)

	require.Len(t, matches, 1)
	assert.Equal(t, MatchName, matches[0].Type)
	assert.Equal(t, int64(1), matches[0].OrderID)
	assert.GreaterOrEqual(t, matches[0].Similarity, 80)
	assert.Equal(t, matches[0].Similarity, BestNameMatch(matches))
}

func TestFindSimilarExcludesOwnOrder(t *testing.T) {
	ctx := context.Background()
	history := new(mockOrderHistory)
	service := NewService(history)
	now := time.Now()
	service.now = func() time.Time { return now }

	history.On("RecentOrders", ctx, 24, 200).Return([]*orders.Order{
		{ID: 5, Address: "123 Main St", Name: "Same Person", CreatedAt: now},
	}, nil).Once()

	fp := NewFingerprint(5, "", "123 Main St", "Same Person", now)
	matches, err := service.FindSimilar(ctx, fp, testConfig())
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestFindSimilarRespectsWindows(t *testing.T) {
	ctx := context.Background()
	history := new(mockOrderHistory)
	service := NewService(history)
	now := time.Now()
	service.now = func() time.Time { return now }

	cfg := testConfig()
	cfg.AddressWindowHours = 1
	cfg.NameWindowHours = 24

	// Candidate window is the larger of the two; the stale address must be
	// filtered by the address cutoff even though history returned it.
	history.On("RecentOrders", ctx, 24, 200).Return([]*orders.Order{
		{ID: 1, Address: "123 Main St", Name: "Other Name Entirely", CreatedAt: now.Add(-2 * time.Hour)},
		{ID: 2, Address: "123 Main St", Name: "Another Thing", CreatedAt: now.Add(-30 * time.Minute)},
	}, nil).Once()

	fp := NewFingerprint(9, "", "123 Main St", "Nobody Similar", now)
	matches, err := service.FindSimilar(ctx, fp, cfg)
	require.NoError(t, err)

	require.Len(t, matches, 1)
	assert.Equal(t, int64(2), matches[0].OrderID)
	assert.Equal(t, MatchAddress, matches[0].Type)
}

func TestFindSimilarNoData(t *testing.T) {
	ctx := context.Background()
	history := new(mockOrderHistory)
	service := NewService(history)

	history.On("RecentOrders", ctx, 24, 200).Return([]*orders.Order{}, nil).Once()

	fp := NewFingerprint(1, "", "123 Main St", "Someone", time.Now())
	matches, err := service.FindSimilar(ctx, fp, testConfig())
	require.NoError(t, err)
	assert.NotNil(t, matches)
	assert.Empty(t, matches)
}
