package repository

import (
	"time"

	"safari/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Queue names a role-scoped view over the bookings collection.
type Queue string

const (
	QueuePending   Queue = "pending"
	QueueAccepted  Queue = "accepted"
	QueueCompleted Queue = "completed"
)

func (q Queue) IsValid() bool {
	return q == QueuePending || q == QueueAccepted || q == QueueCompleted
}

var terminalPhases = bson.A{model.StatusCompleted, model.StatusCancelled}

func trackField(role model.Role, field string) string {
	return string(role) + "." + field
}

// queueFilter returns the match stage and sort order for a role queue.
//
// pending: status Payment Confirmed and nobody holds the role, or offered to
// the actor and not yet answered. accepted: held and accepted by the actor. completed: closed
// bookings the actor worked on.
func queueFilter(queue Queue, role model.Role, actorID string) (bson.M, bson.D) {
	assignee := trackField(role, "assignee_id")
	accepted := trackField(role, "accepted")

	switch queue {
	case QueueAccepted:
		return bson.M{
				assignee: actorID,
				accepted: true,
			},
			bson.D{{Key: "booking_details.start_date", Value: 1}}
	case QueueCompleted:
		return bson.M{
				"phase":  model.StatusCompleted,
				assignee: actorID,
			},
			bson.D{{Key: "updated_at", Value: -1}}
	default:
		return bson.M{
				"$or": bson.A{
					bson.M{
						"status": model.StatusPaymentConfirmed,
						assignee: bson.M{"$in": bson.A{nil, ""}},
					},
					bson.M{
						assignee: actorID,
						accepted: false,
						"phase":  bson.M{"$nin": terminalPhases},
					},
				},
			},
			bson.D{{Key: "created_at", Value: -1}}
	}
}

func orphanFilter(cutoff time.Time) bson.M {
	return bson.M{
		"payment_method": model.PaymentStripe,
		"payment":        false,
		"phase":          model.StatusPending,
		"created_at":     bson.M{"$lt": cutoff},
	}
}

// customerLookup joins the customer summary from the users collection.
// customer_id is stored as a hex string while user ids are ObjectIDs.
func customerLookup() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$lookup", Value: bson.M{
			"from": UsersCollectionName,
			"let":  bson.M{"cid": "$customer_id"},
			"pipeline": bson.A{
				bson.M{"$match": bson.M{"$expr": bson.M{"$eq": bson.A{
					"$_id",
					bson.M{"$convert": bson.M{"input": "$$cid", "to": "objectId", "onError": "$$cid", "onNull": nil}},
				}}}},
				bson.M{"$project": bson.M{"name": 1, "email": 1, "phone": 1}},
			},
			"as": "customer",
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$customer", "preserveNullAndEmptyArrays": true}}},
	}
}

// mutableFields is the $set document for a version-checked save. Empty
// session and payment intent ids are left out so the sparse unique index on
// session_id never sees an empty string.
func mutableFields(b *model.Booking) bson.M {
	set := bson.M{
		"phase":      b.Phase,
		"status":     b.Status,
		"driver":     b.Driver,
		"guide":      b.Guide,
		"payment":    b.Payment,
		"updated_at": b.UpdatedAt,
	}
	if b.SessionID != "" {
		set["session_id"] = b.SessionID
	}
	if b.PaymentIntentID != "" {
		set["payment_intent_id"] = b.PaymentIntentID
	}
	return set
}
