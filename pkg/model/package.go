package model

import "time"

type Package struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty"`
	Title     string    `json:"title" bson:"title"`
	Category  string    `json:"category" bson:"category"`
	Duration  string    `json:"duration" bson:"duration"`
	Location  string    `json:"location" bson:"location"`
	Price     int64     `json:"price" bson:"price"`
	Capacity  int       `json:"capacity" bson:"capacity"`
	IsActive  bool      `json:"isActive" bson:"is_active"`
	Rating    float64   `json:"rating" bson:"rating"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
}

func (p *Package) Snapshot() PackageSnapshot {
	return PackageSnapshot{
		Title:    p.Title,
		Duration: p.Duration,
		Location: p.Location,
		Category: p.Category,
		Price:    p.Price,
	}
}
