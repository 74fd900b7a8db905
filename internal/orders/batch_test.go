package orders

import (
	mathrand "math/rand"
	"reflect"
	"testing"
	"time"
)

func batchFixture() []Order {
	day1 := time.Date(2026, 3, 9, 8, 0, 0, 0, time.Local)
	day2 := time.Date(2026, 3, 10, 8, 0, 0, 0, time.Local)
	return []Order{
		{ID: "o1", SenderStation: StationSG, ReceiverStation: StationHT, CreatedAt: day1, Quantity: 2, Cost: 50000, PaymentStatus: Unpaid},
		{ID: "o2", SenderStation: StationSG, ReceiverStation: StationHT, CreatedAt: day1.Add(time.Hour), Quantity: 1, Cost: 30000, PaymentStatus: Paid},
		{ID: "o3", SenderStation: StationPA, ReceiverStation: StationHT, CreatedAt: day1.Add(2 * time.Hour), Quantity: 5, Cost: 120000, PaymentStatus: Unpaid},
		{ID: "o4", SenderStation: StationSG, ReceiverStation: StationHT, CreatedAt: day2, Quantity: 3, Cost: 80000, PaymentStatus: Unpaid},
	}
}

func TestGroupBatchesKeysAndAggregates(t *testing.T) {
	got := GroupBatches(batchFixture())
	if len(got) != 3 {
		t.Fatalf("got %d batches, want 3", len(got))
	}

	// Newest date first, station ascending within a date.
	if got[0].Date != "2026-03-10" || got[0].SenderStation != StationSG {
		t.Fatalf("batch[0] = %s/%s", got[0].Date, got[0].SenderStation)
	}
	if got[1].Date != "2026-03-09" || got[1].SenderStation != StationPA {
		t.Fatalf("batch[1] = %s/%s", got[1].Date, got[1].SenderStation)
	}
	if got[2].Date != "2026-03-09" || got[2].SenderStation != StationSG {
		t.Fatalf("batch[2] = %s/%s", got[2].Date, got[2].SenderStation)
	}

	sg9 := got[2]
	if sg9.Count != 2 || sg9.TotalQuantity != 3 || sg9.TotalCost != 80000 {
		t.Fatalf("SG day1 aggregates = %d/%d/%d", sg9.Count, sg9.TotalQuantity, sg9.TotalCost)
	}
	if sg9.UnpaidCount != 1 || sg9.UnpaidCost != 50000 {
		t.Fatalf("SG day1 unpaid = %d/%d", sg9.UnpaidCount, sg9.UnpaidCost)
	}
}

func TestGroupBatchesIsOrderIndependent(t *testing.T) {
	fixture := batchFixture()
	want := GroupBatches(fixture)

	rng := mathrand.New(mathrand.NewSource(42))
	for i := 0; i < 10; i++ {
		shuffled := append([]Order(nil), fixture...)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		got := GroupBatches(shuffled)
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("shuffle %d: grouping depends on input order", i)
		}
	}
}

func TestGroupBatchesEmpty(t *testing.T) {
	if got := GroupBatches(nil); len(got) != 0 {
		t.Fatalf("got %d batches from empty input", len(got))
	}
}
