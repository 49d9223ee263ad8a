package lifecycle

import (
	"fmt"

	"safari/pkg/model"
)

// Per-person surcharges in the package currency.
var (
	AccommodationSurcharge = map[model.Accommodation]int64{
		model.AccommodationStandard:   0,
		model.AccommodationLuxury:     5000,
		model.AccommodationTentedCamp: 3000,
		model.AccommodationEcoLodge:   2000,
	}

	TransportationSurcharge = map[model.Transportation]int64{
		model.TransportationIncluded: 0,
		model.TransportationPrivate:  3000,
		model.TransportationShared:   1000,
	}
)

type LineItem struct {
	Name        string
	Description string
	Amount      int64
}

type Quote struct {
	LineItems []LineItem
	Total     int64
}

// Price computes the booking total and the checkout line items. Upgrades with
// a zero surcharge do not produce a line item.
func Price(snapshot model.PackageSnapshot, details model.BookingDetails) (Quote, error) {
	people := int64(details.NumberOfPeople)
	if people < 1 {
		return Quote{}, fmt.Errorf("number of people must be at least 1, got %d", details.NumberOfPeople)
	}
	accommodation, ok := AccommodationSurcharge[details.Accommodation]
	if !ok {
		return Quote{}, fmt.Errorf("unknown accommodation tier %q", details.Accommodation)
	}
	transport, ok := TransportationSurcharge[details.Transportation]
	if !ok {
		return Quote{}, fmt.Errorf("unknown transportation tier %q", details.Transportation)
	}

	quote := Quote{}
	quote.add(LineItem{
		Name:        snapshot.Title,
		Description: fmt.Sprintf("%s package for %d people", snapshot.Duration, people),
		Amount:      snapshot.Price * people,
	})
	if accommodation > 0 {
		quote.add(LineItem{
			Name:        fmt.Sprintf("%s accommodation", details.Accommodation),
			Description: fmt.Sprintf("Accommodation upgrade for %d people", people),
			Amount:      accommodation * people,
		})
	}
	if transport > 0 {
		quote.add(LineItem{
			Name:        string(details.Transportation),
			Description: fmt.Sprintf("Transportation upgrade for %d people", people),
			Amount:      transport * people,
		})
	}
	return quote, nil
}

func (q *Quote) add(item LineItem) {
	q.LineItems = append(q.LineItems, item)
	q.Total += item.Amount
}
