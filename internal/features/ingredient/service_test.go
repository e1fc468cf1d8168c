package ingredient

import (
	"context"
	"testing"

	"github.com/egyjs/order-management-backend-app/internal/eventengine/event"
	"github.com/egyjs/order-management-backend-app/internal/servererrors"
	"github.com/egyjs/order-management-backend-app/internal/storage"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	ingredients map[uuid.UUID]*Ingredient

	markCalls int
	markErr   error
}

func (f *fakeStore) findForUpdate(_ context.Context, _ storage.Querier, ingredientID uuid.UUID) (*Ingredient, error) {
	ing, ok := f.ingredients[ingredientID]
	if !ok {
		panic("test fixture is missing ingredient " + ingredientID.String())
	}

	// hand out a copy, like a row scan would
	c := *ing
	return &c, nil
}

func (f *fakeStore) decrementStock(_ context.Context, _ storage.Querier, ingredientID uuid.UUID, amount uint) (uint, error) {
	ing := f.ingredients[ingredientID]
	ing.StockLevel -= amount

	return ing.StockLevel, nil
}

func (f *fakeStore) markLowStockNotified(_ context.Context, _ storage.Querier, ingredientID uuid.UUID) error {
	if f.markErr != nil {
		return f.markErr
	}

	f.markCalls++
	f.ingredients[ingredientID].LowStockNotified = true

	return nil
}

func (f *fakeStore) findAll(_ context.Context) ([]*Ingredient, error) {
	ingredients := make([]*Ingredient, 0, len(f.ingredients))
	for _, ing := range f.ingredients {
		c := *ing
		ingredients = append(ingredients, &c)
	}

	return ingredients, nil
}

type fakePublisher struct {
	registered []event.EventName
	published  []*event.Event
	publishErr error
}

func (f *fakePublisher) RegisterEvents(eventNames ...event.EventName) {
	f.registered = append(f.registered, eventNames...)
}

func (f *fakePublisher) Publish(ev *event.Event) error {
	if f.publishErr != nil {
		return f.publishErr
	}

	f.published = append(f.published, ev)

	return nil
}

func newLedgerFixture(ingredients ...*Ingredient) (*Service, *fakeStore, *fakePublisher) {
	store := &fakeStore{
		ingredients: make(map[uuid.UUID]*Ingredient, len(ingredients)),
	}
	for _, ing := range ingredients {
		store.ingredients[ing.IngredientID] = ing
	}

	publisher := &fakePublisher{}

	return NewService(store, publisher), store, publisher
}

func Test_NewService_registersTheAlertEvent(t *testing.T) {
	_, _, publisher := newLedgerFixture()

	require.Contains(t, publisher.registered, event.StockRunningLowEventName)
}

func Test_HasSufficientStock(t *testing.T) {
	ledger, _, _ := newLedgerFixture()

	ing := &Ingredient{StockLevel: 150}

	require.True(t, ledger.HasSufficientStock(ing, 150), "an exact match is sufficient")
	require.True(t, ledger.HasSufficientStock(ing, 149))
	require.False(t, ledger.HasSufficientStock(ing, 151))
}

func Test_HasStockBelowHalfMinimum_usesFractionalThreshold(t *testing.T) {
	ledger, _, _ := newLedgerFixture()

	// min 101 halves to 50.5, not 50
	require.True(t, ledger.HasStockBelowHalfMinimum(&Ingredient{StockLevel: 50, MinStockLevel: 101}))
	require.False(t, ledger.HasStockBelowHalfMinimum(&Ingredient{StockLevel: 51, MinStockLevel: 101}))

	require.True(t, ledger.HasStockBelowHalfMinimum(&Ingredient{StockLevel: 49, MinStockLevel: 100}))
	require.False(t, ledger.HasStockBelowHalfMinimum(&Ingredient{StockLevel: 50, MinStockLevel: 100}))
}

func Test_UpdateStock_decrementsEveryRequirementScaledByQty(t *testing.T) {
	beef := &Ingredient{IngredientID: uuid.New(), Name: "Beef", StockLevel: 20000, MinStockLevel: 20000}
	cheese := &Ingredient{IngredientID: uuid.New(), Name: "Cheese", StockLevel: 5000, MinStockLevel: 5000}

	ledger, store, _ := newLedgerFixture(beef, cheese)

	err := ledger.UpdateStock(
		context.Background(),
		nil,
		[]Requirement{
			{IngredientID: beef.IngredientID, Name: "Beef", AmountPerUnit: 150},
			{IngredientID: cheese.IngredientID, Name: "Cheese", AmountPerUnit: 30},
		},
		2,
	)
	require.NoError(t, err)

	require.Equal(t, uint(19700), store.ingredients[beef.IngredientID].StockLevel)
	require.Equal(t, uint(4940), store.ingredients[cheese.IngredientID].StockLevel)
}

func Test_UpdateStock_failsFastOnFirstInsufficiency(t *testing.T) {
	beef := &Ingredient{IngredientID: uuid.New(), Name: "Beef", StockLevel: 100, MinStockLevel: 20000}
	cheese := &Ingredient{IngredientID: uuid.New(), Name: "Cheese", StockLevel: 5000, MinStockLevel: 5000}

	ledger, store, _ := newLedgerFixture(beef, cheese)

	err := ledger.UpdateStock(
		context.Background(),
		nil,
		[]Requirement{
			{IngredientID: beef.IngredientID, Name: "Beef", AmountPerUnit: 150},
			{IngredientID: cheese.IngredientID, Name: "Cheese", AmountPerUnit: 30},
		},
		1,
	)

	var stockErr *servererrors.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	require.Equal(t, "Beef", stockErr.IngredientName, "the first insufficient ingredient wins")

	require.Equal(t, uint(100), store.ingredients[beef.IngredientID].StockLevel)
	require.Equal(t, uint(5000), store.ingredients[cheese.IngredientID].StockLevel, "later requirements must stay untouched")
}

func Test_UpdateStock_laterRequirementSeesEarlierDecrement(t *testing.T) {
	// the ledger does not pre-validate the batch: each decrement lands in
	// the in-flight transaction before the next requirement is evaluated,
	// and the surrounding unit of work is what erases it on failure.
	flour := &Ingredient{IngredientID: uuid.New(), Name: "Flour", StockLevel: 150, MinStockLevel: 400}

	ledger, store, _ := newLedgerFixture(flour)

	err := ledger.UpdateStock(
		context.Background(),
		nil,
		[]Requirement{
			{IngredientID: flour.IngredientID, Name: "Flour", AmountPerUnit: 100},
			{IngredientID: flour.IngredientID, Name: "Flour", AmountPerUnit: 100},
		},
		1,
	)

	var stockErr *servererrors.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	require.Equal(t, uint(50), store.ingredients[flour.IngredientID].StockLevel, "the first decrement is applied to the in-flight transaction")
}

func Test_UpdateStock_firesLowStockAlertOnCrossing(t *testing.T) {
	beef := &Ingredient{IngredientID: uuid.New(), Name: "Beef", StockLevel: 120, MinStockLevel: 101}

	ledger, store, publisher := newLedgerFixture(beef)

	// 120 - 70 = 50, below the 50.5 threshold
	err := ledger.UpdateStock(
		context.Background(),
		nil,
		[]Requirement{{IngredientID: beef.IngredientID, Name: "Beef", AmountPerUnit: 70}},
		1,
	)
	require.NoError(t, err)

	require.Equal(t, 1, store.markCalls)
	require.True(t, store.ingredients[beef.IngredientID].LowStockNotified)

	require.Len(t, publisher.published, 1)
	payload, ok := publisher.published[0].Payload.(*event.StockRunningLowEvent)
	require.True(t, ok)
	require.Equal(t, "Beef", payload.IngredientName)
	require.Equal(t, uint(50), payload.StockLevel)
	require.Equal(t, uint(50), payload.ThresholdPercent)
}

func Test_UpdateStock_doesNotAlertAboveThreshold(t *testing.T) {
	beef := &Ingredient{IngredientID: uuid.New(), Name: "Beef", StockLevel: 121, MinStockLevel: 101}

	ledger, store, publisher := newLedgerFixture(beef)

	// 121 - 70 = 51, still at or above the 50.5 threshold
	err := ledger.UpdateStock(
		context.Background(),
		nil,
		[]Requirement{{IngredientID: beef.IngredientID, Name: "Beef", AmountPerUnit: 70}},
		1,
	)
	require.NoError(t, err)

	require.Zero(t, store.markCalls)
	require.Empty(t, publisher.published)
}

func Test_UpdateStock_alertsAtMostOncePerIngredient(t *testing.T) {
	beef := &Ingredient{IngredientID: uuid.New(), Name: "Beef", StockLevel: 120, MinStockLevel: 101}

	ledger, store, publisher := newLedgerFixture(beef)

	requirements := []Requirement{{IngredientID: beef.IngredientID, Name: "Beef", AmountPerUnit: 10}}

	// first crossing: 120 -> ... -> below 50.5 on the seventh decrement
	for i := 0; i < 7; i++ {
		require.NoError(t, ledger.UpdateStock(context.Background(), nil, requirements, 1))
	}
	require.Len(t, publisher.published, 1)
	require.Equal(t, 1, store.markCalls)

	// further decrements keep it below the threshold but must not re-alert
	require.NoError(t, ledger.UpdateStock(context.Background(), nil, requirements, 1))
	require.Len(t, publisher.published, 1)
	require.Equal(t, 1, store.markCalls)
}

func Test_UpdateStock_publishFailureDoesNotFailTheOrder(t *testing.T) {
	beef := &Ingredient{IngredientID: uuid.New(), Name: "Beef", StockLevel: 120, MinStockLevel: 101}

	ledger, store, publisher := newLedgerFixture(beef)
	publisher.publishErr = context.DeadlineExceeded

	err := ledger.UpdateStock(
		context.Background(),
		nil,
		[]Requirement{{IngredientID: beef.IngredientID, Name: "Beef", AmountPerUnit: 70}},
		1,
	)
	require.NoError(t, err)
	require.True(t, store.ingredients[beef.IngredientID].LowStockNotified, "the notified flag still persists")
}

func Test_UpdateStock_flagPersistFailurePropagates(t *testing.T) {
	beef := &Ingredient{IngredientID: uuid.New(), Name: "Beef", StockLevel: 120, MinStockLevel: 101}

	ledger, store, publisher := newLedgerFixture(beef)
	store.markErr = context.DeadlineExceeded

	err := ledger.UpdateStock(
		context.Background(),
		nil,
		[]Requirement{{IngredientID: beef.IngredientID, Name: "Beef", AmountPerUnit: 70}},
		1,
	)
	require.Error(t, err)
	require.Empty(t, publisher.published, "no alert may be published when the flag cannot persist")
}

func Test_listIngredients_flagsRunningLowStock(t *testing.T) {
	beef := &Ingredient{IngredientID: uuid.New(), Name: "Beef", StockLevel: 40, MinStockLevel: 100}
	cheese := &Ingredient{IngredientID: uuid.New(), Name: "Cheese", StockLevel: 5000, MinStockLevel: 5000}

	ledger, _, _ := newLedgerFixture(beef, cheese)

	levels, err := ledger.listIngredients(context.Background())
	require.NoError(t, err)
	require.Len(t, levels, 2)

	byName := make(map[string]*StockLevelDTO, len(levels))
	for _, level := range levels {
		byName[level.Name] = level
	}

	require.True(t, byName["Beef"].RunningLow)
	require.False(t, byName["Cheese"].RunningLow)
}
