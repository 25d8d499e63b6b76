package review

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/questbay/questbay/internal/deal"
	"github.com/questbay/questbay/internal/domain"
	"github.com/questbay/questbay/internal/store/memory"
)

func seedDeal(t *testing.T, st *memory.Store, status domain.DealStatus) domain.Deal {
	t.Helper()
	d := domain.Deal{
		ID:        uuid.New().String(),
		SellerID:  uuid.New().String(),
		BuyerID:   uuid.New().String(),
		ListingID: uuid.New().String(),
		Status:    status,
	}
	require.NoError(t, st.CreateDeal(context.Background(), d))
	return d
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("reviews a completed deal once", func(t *testing.T) {
		st := memory.New()
		d := seedDeal(t, st, domain.DealStatusCompleted)
		svc := NewService(st)

		r, err := svc.Create(ctx, CreateInput{DealID: d.ID, Rating: 5, Comment: "smooth trade"})
		require.NoError(t, err)
		assert.Equal(t, d.ID, r.DealID)
		assert.Equal(t, 5, r.Rating)

		_, err = svc.Create(ctx, CreateInput{DealID: d.ID, Rating: 3})
		require.Error(t, err)
		assert.Equal(t, domain.KindConflict, domain.KindOf(err))
		assert.Contains(t, err.Error(), "already exists")
	})

	t.Run("pending and cancelled deals cannot be reviewed", func(t *testing.T) {
		for _, status := range []domain.DealStatus{domain.DealStatusPending, domain.DealStatusCancelled} {
			st := memory.New()
			d := seedDeal(t, st, status)
			svc := NewService(st)

			_, err := svc.Create(ctx, CreateInput{DealID: d.ID, Rating: 4})
			require.Error(t, err, "status %s", status)
			assert.Equal(t, domain.KindConflict, domain.KindOf(err))
			assert.Contains(t, err.Error(), "not completed")
		}
	})

	t.Run("missing deal is not found", func(t *testing.T) {
		svc := NewService(memory.New())
		_, err := svc.Create(ctx, CreateInput{DealID: uuid.New().String(), Rating: 4})
		assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
	})

	t.Run("rating bounds", func(t *testing.T) {
		st := memory.New()
		d := seedDeal(t, st, domain.DealStatusCompleted)
		svc := NewService(st)

		for _, rating := range []int{0, 6, -1} {
			_, err := svc.Create(ctx, CreateInput{DealID: d.ID, Rating: rating})
			assert.Equal(t, domain.KindInvalid, domain.KindOf(err), "rating %d", rating)
		}
		for _, rating := range []int{1, 5} {
			st := memory.New()
			d := seedDeal(t, st, domain.DealStatusCompleted)
			_, err := NewService(st).Create(ctx, CreateInput{DealID: d.ID, Rating: rating})
			assert.NoError(t, err, "rating %d", rating)
		}
	})

	t.Run("comment length bound", func(t *testing.T) {
		st := memory.New()
		d := seedDeal(t, st, domain.DealStatusCompleted)
		svc := NewService(st)

		long := make([]byte, maxCommentLen+1)
		for i := range long {
			long[i] = 'a'
		}
		_, err := svc.Create(ctx, CreateInput{DealID: d.ID, Rating: 4, Comment: string(long)})
		assert.Equal(t, domain.KindInvalid, domain.KindOf(err))
	})
}

// Full lifecycle against the real deal engine: no review while pending,
// one review after completion, never a second.
func TestService_ReviewAfterCompletion(t *testing.T) {
	ctx := context.Background()
	st := memory.New()

	seller := domain.User{ID: uuid.New().String(), TelegramID: 111, Name: "seller"}
	buyer := domain.User{ID: uuid.New().String(), TelegramID: 222, Name: "buyer"}
	require.NoError(t, st.CreateUser(ctx, seller))
	require.NoError(t, st.CreateUser(ctx, buyer))
	l := domain.Listing{
		ID:        uuid.New().String(),
		Title:     "CS:GO account",
		Game:      "CS:GO",
		Price:     25000,
		Seller:    domain.SellerInfo{ID: seller.ID, Name: seller.Name},
		Available: true,
	}
	require.NoError(t, st.CreateListing(ctx, l))

	deals := deal.NewService(st)
	reviews := NewService(st)

	d, err := deals.Create(ctx, deal.CreateInput{SellerID: seller.ID, BuyerID: buyer.ID, ListingID: l.ID})
	require.NoError(t, err)

	_, err = reviews.Create(ctx, CreateInput{DealID: d.ID, Rating: 5})
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))

	_, err = deals.Transition(ctx, d.ID, domain.DealStatusCompleted)
	require.NoError(t, err)

	_, err = reviews.Create(ctx, CreateInput{DealID: d.ID, Rating: 5, Comment: "great seller"})
	require.NoError(t, err)

	_, err = reviews.Create(ctx, CreateInput{DealID: d.ID, Rating: 3})
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))
}

func TestService_GetByDeal(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	d := seedDeal(t, st, domain.DealStatusCompleted)
	svc := NewService(st)

	_, err := svc.GetByDeal(ctx, d.ID)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))

	created, err := svc.Create(ctx, CreateInput{DealID: d.ID, Rating: 4, Comment: "ok"})
	require.NoError(t, err)

	got, err := svc.GetByDeal(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = svc.GetByDeal(ctx, uuid.New().String())
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*Service, domain.Deal) {
		st := memory.New()
		d := seedDeal(t, st, domain.DealStatusCompleted)
		svc := NewService(st)
		_, err := svc.Create(ctx, CreateInput{DealID: d.ID, Rating: 4, Comment: "ok"})
		require.NoError(t, err)
		return svc, d
	}

	t.Run("patches only the provided fields", func(t *testing.T) {
		svc, d := setup(t)

		rating := 2
		got, err := svc.Update(ctx, d.ID, Patch{Rating: &rating})
		require.NoError(t, err)
		assert.Equal(t, 2, got.Rating)
		assert.Equal(t, "ok", got.Comment)

		comment := "changed my mind"
		got, err = svc.Update(ctx, d.ID, Patch{Comment: &comment})
		require.NoError(t, err)
		assert.Equal(t, 2, got.Rating)
		assert.Equal(t, "changed my mind", got.Comment)
	})

	t.Run("validates the new rating", func(t *testing.T) {
		svc, d := setup(t)
		rating := 9
		_, err := svc.Update(ctx, d.ID, Patch{Rating: &rating})
		assert.Equal(t, domain.KindInvalid, domain.KindOf(err))
	})

	t.Run("missing review is not found", func(t *testing.T) {
		svc := NewService(memory.New())
		rating := 3
		_, err := svc.Update(ctx, uuid.New().String(), Patch{Rating: &rating})
		assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
	})
}
