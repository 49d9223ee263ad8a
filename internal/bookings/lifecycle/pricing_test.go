package lifecycle

import (
	"testing"

	"safari/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrice(t *testing.T) {
	snapshot := model.PackageSnapshot{Title: "Yala Leopard Trail", Duration: "3 days", Price: 10000}

	tests := []struct {
		name           string
		people         int
		accommodation  model.Accommodation
		transportation model.Transportation
		wantTotal      int64
		wantItems      int
	}{
		{
			name:           "luxury with private vehicle",
			people:         2,
			accommodation:  model.AccommodationLuxury,
			transportation: model.TransportationPrivate,
			wantTotal:      36000,
			wantItems:      3,
		},
		{
			name:           "standard included",
			people:         3,
			accommodation:  model.AccommodationStandard,
			transportation: model.TransportationIncluded,
			wantTotal:      30000,
			wantItems:      1,
		},
		{
			name:           "tented camp shared vehicle",
			people:         1,
			accommodation:  model.AccommodationTentedCamp,
			transportation: model.TransportationShared,
			wantTotal:      10000 + 3000 + 1000,
			wantItems:      3,
		},
		{
			name:           "eco lodge only",
			people:         4,
			accommodation:  model.AccommodationEcoLodge,
			transportation: model.TransportationIncluded,
			wantTotal:      40000 + 8000,
			wantItems:      2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quote, err := Price(snapshot, model.BookingDetails{
				NumberOfPeople: tt.people,
				Accommodation:  tt.accommodation,
				Transportation: tt.transportation,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, quote.Total)
			assert.Len(t, quote.LineItems, tt.wantItems)

			var sum int64
			for _, item := range quote.LineItems {
				sum += item.Amount
			}
			assert.Equal(t, quote.Total, sum)
		})
	}
}

func TestPrice_Invalid(t *testing.T) {
	snapshot := model.PackageSnapshot{Price: 100}

	_, err := Price(snapshot, model.BookingDetails{NumberOfPeople: 0, Accommodation: model.AccommodationStandard, Transportation: model.TransportationIncluded})
	assert.Error(t, err)

	_, err = Price(snapshot, model.BookingDetails{NumberOfPeople: 1, Accommodation: "Treehouse", Transportation: model.TransportationIncluded})
	assert.Error(t, err)

	_, err = Price(snapshot, model.BookingDetails{NumberOfPeople: 1, Accommodation: model.AccommodationStandard, Transportation: "Helicopter"})
	assert.Error(t, err)
}
