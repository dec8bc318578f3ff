package services

import (
	"context"
	"testing"
	"time"

	"couple-space-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUser(id, username string, role models.Role) *models.User {
	return &models.User{ID: id, Username: username, Role: role, DisplayName: username}
}

func newPairFixture(users ...*models.User) (*PairService, *memUsers, *memPairs) {
	store := newMemUsers(users...)
	pairs := &memPairs{users: store}
	return NewPairService(store, pairs, time.UTC), store, pairs
}

func TestLinkPartnerIsSymmetric(t *testing.T) {
	alex := newUser("u-alex", "alex", models.RoleBoyfriend)
	sam := newUser("u-sam", "sam", models.RoleGirlfriend)
	svc, store, _ := newPairFixture(alex, sam)

	partner, err := svc.LinkPartner(context.Background(), principalOf(alex), "sam")
	require.NoError(t, err)
	assert.Equal(t, "u-sam", partner.ID)
	require.NotNil(t, partner.PartnerID)
	assert.Equal(t, "u-alex", *partner.PartnerID)

	a, _ := store.GetByID(context.Background(), "u-alex")
	s, _ := store.GetByID(context.Background(), "u-sam")
	require.True(t, a.HasPartner())
	require.True(t, s.HasPartner())
	assert.Equal(t, "u-sam", *a.PartnerID)
	assert.Equal(t, "u-alex", *s.PartnerID)
}

func TestLinkPartnerTwiceIsNoop(t *testing.T) {
	alex := newUser("u-alex", "alex", models.RoleBoyfriend)
	sam := newUser("u-sam", "sam", models.RoleGirlfriend)
	svc, store, pairs := newPairFixture(alex, sam)
	ctx := context.Background()

	_, err := svc.LinkPartner(ctx, principalOf(alex), "sam")
	require.NoError(t, err)

	linked, _ := store.GetByID(ctx, "u-alex")
	_, err = svc.LinkPartner(ctx, principalOf(linked), "sam")
	require.NoError(t, err)

	// and from the other side
	_, err = svc.LinkPartner(ctx, principalOf(sam), "alex")
	require.NoError(t, err)

	assert.Equal(t, 1, pairs.calls)
}

func TestLinkPartnerSameRole(t *testing.T) {
	alex := newUser("u-alex", "alex", models.RoleBoyfriend)
	jo := newUser("u-jo", "jo", models.RoleBoyfriend)
	svc, store, pairs := newPairFixture(alex, jo)

	_, err := svc.LinkPartner(context.Background(), principalOf(alex), "jo")
	require.Error(t, err)
	assert.Equal(t, models.KindInvalidState, models.KindOf(err))
	assert.Contains(t, err.Error(), "roles must differ")

	assert.Equal(t, 0, pairs.calls)
	a, _ := store.GetByID(context.Background(), "u-alex")
	j, _ := store.GetByID(context.Background(), "u-jo")
	assert.False(t, a.HasPartner())
	assert.False(t, j.HasPartner())
}

func TestLinkPartnerNotFound(t *testing.T) {
	alex := newUser("u-alex", "alex", models.RoleBoyfriend)
	svc, _, _ := newPairFixture(alex)

	_, err := svc.LinkPartner(context.Background(), principalOf(alex), "nobody")
	require.Error(t, err)
	assert.Equal(t, models.KindNotFound, models.KindOf(err))
}

func TestLinkPartnerEmptyUsername(t *testing.T) {
	alex := newUser("u-alex", "alex", models.RoleBoyfriend)
	svc, _, _ := newPairFixture(alex)

	_, err := svc.LinkPartner(context.Background(), principalOf(alex), "  ")
	assert.Equal(t, models.KindInvalidInput, models.KindOf(err))
}

func TestLinkPartnerAlreadyLinkedElsewhere(t *testing.T) {
	alex := newUser("u-alex", "alex", models.RoleBoyfriend)
	sam := newUser("u-sam", "sam", models.RoleGirlfriend)
	kim := newUser("u-kim", "kim", models.RoleGirlfriend)
	svc, store, _ := newPairFixture(alex, sam, kim)
	ctx := context.Background()

	_, err := svc.LinkPartner(ctx, principalOf(alex), "sam")
	require.NoError(t, err)

	linked, _ := store.GetByID(ctx, "u-alex")
	_, err = svc.LinkPartner(ctx, principalOf(linked), "kim")
	assert.Equal(t, models.KindConflict, models.KindOf(err))

	jo := newUser("u-jo", "jo", models.RoleBoyfriend)
	require.NoError(t, store.Create(ctx, jo))
	_, err = svc.LinkPartner(ctx, principalOf(jo), "sam")
	assert.Equal(t, models.KindConflict, models.KindOf(err))

	k, _ := store.GetByID(ctx, "u-kim")
	assert.False(t, k.HasPartner())
}

func TestLinkPartnerLosesRaceToConcurrentLink(t *testing.T) {
	alex := newUser("u-alex", "alex", models.RoleBoyfriend)
	jo := newUser("u-jo", "jo", models.RoleBoyfriend)
	sam := newUser("u-sam", "sam", models.RoleGirlfriend)
	svc, store, pairs := newPairFixture(alex, jo, sam)
	ctx := context.Background()

	// jo links with sam after alex's request has read sam as unlinked
	pairs.beforeLink = func() {
		_, err := svc.LinkPartner(ctx, principalOf(jo), "sam")
		require.NoError(t, err)
	}

	_, err := svc.LinkPartner(ctx, principalOf(alex), "sam")
	require.Error(t, err)
	assert.Equal(t, models.KindConflict, models.KindOf(err))

	a, _ := store.GetByID(ctx, "u-alex")
	j, _ := store.GetByID(ctx, "u-jo")
	s, _ := store.GetByID(ctx, "u-sam")
	assert.False(t, a.HasPartner())
	require.True(t, j.HasPartner())
	require.True(t, s.HasPartner())
	assert.Equal(t, "u-sam", *j.PartnerID)
	assert.Equal(t, "u-jo", *s.PartnerID)
}

func TestCoupleScope(t *testing.T) {
	single := models.Principal{ID: "u-1"}
	assert.Equal(t, []string{"u-1"}, single.CoupleScope())
	assert.True(t, single.InScope("u-1"))
	assert.False(t, single.InScope(""))

	linked := models.Principal{ID: "u-1", PartnerID: "u-2"}
	assert.Equal(t, []string{"u-1", "u-2"}, linked.CoupleScope())
	assert.True(t, linked.InScope("u-2"))
	assert.False(t, linked.InScope("u-3"))
}

func TestCoupleSummary(t *testing.T) {
	alex := newUser("u-alex", "alex", models.RoleBoyfriend)
	alex.AnniversaryDate = strPtr("2020-03-10")
	alex.RelationshipStart = strPtr("2024-03-01")
	sam := newUser("u-sam", "sam", models.RoleGirlfriend)
	svc, store, _ := newPairFixture(alex, sam)
	svc.now = func() time.Time { return time.Date(2024, 3, 3, 15, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	_, err := svc.LinkPartner(ctx, principalOf(alex), "sam")
	require.NoError(t, err)
	linked, _ := store.GetByID(ctx, "u-alex")

	summary, err := svc.Summary(ctx, principalOf(linked))
	require.NoError(t, err)
	require.NotNil(t, summary.Partner)
	assert.Equal(t, "u-sam", summary.Partner.ID)
	require.NotNil(t, summary.DaysTogether)
	assert.Equal(t, 2, *summary.DaysTogether)
	require.NotNil(t, summary.DaysUntilAnniversary)
	assert.Equal(t, 7, *summary.DaysUntilAnniversary)
	assert.Equal(t, "2024-03-10", summary.NextAnniversary)
}
