package validators

import "go.mongodb.org/mongo-driver/bson"

var bookingStatuses = []string{
	"Pending",
	"Payment Confirmed",
	"Driver Assigned",
	"Guide Assigned",
	"Confirmed",
	"In Progress",
	"Completed",
	"Cancelled",
}

var assignmentSchema = bson.M{
	"bsonType": "object",
	"required": []string{"accepted"},
	"properties": bson.M{
		"assignee_id":  bson.M{"bsonType": "string"},
		"accepted":     bson.M{"bsonType": "bool"},
		"assigned_by":  bson.M{"bsonType": "string"},
		"assigned_at":  bson.M{"bsonType": "date"},
		"completed_at": bson.M{"bsonType": "date"},
	},
}

var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"customer_id",
			"package_id",
			"package_details",
			"booking_details",
			"total_price",
			"phase",
			"status",
			"driver",
			"guide",
			"payment_method",
			"payment",
			"created_at",
			"version",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"customer_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"package_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"package_details": bson.M{
				"bsonType": "object",
				"required": []string{"title", "price"},
			},

			"booking_details": bson.M{
				"bsonType": "object",
				"required": []string{"start_date", "end_date", "number_of_people", "emergency_contact"},
				"properties": bson.M{
					"start_date": bson.M{"bsonType": "date"},
					"end_date":   bson.M{"bsonType": "date"},
					"number_of_people": bson.M{
						"bsonType": []string{"int", "long"},
						"minimum":  1,
						"maximum":  100,
					},
					"accommodation": bson.M{
						"enum": []string{"Standard", "Luxury", "Tented Camp", "Eco Lodge"},
					},
					"transportation": bson.M{
						"enum": []string{"Included", "Private Vehicle", "Shared Vehicle"},
					},
				},
			},

			"total_price": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  0,
			},

			"phase": bson.M{
				"bsonType": "string",
				"enum":     bookingStatuses,
			},

			"status": bson.M{
				"bsonType": "string",
				"enum":     bookingStatuses,
			},

			"driver": assignmentSchema,
			"guide":  assignmentSchema,

			"payment_method": bson.M{
				"bsonType": "string",
				"enum":     []string{"Stripe", "COD"},
			},

			"payment": bson.M{
				"bsonType": "bool",
			},

			"created_at": bson.M{
				"bsonType": "date",
			},

			"version": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  1,
			},
		},
	},
}
