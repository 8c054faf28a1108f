package validators

import "go.mongodb.org/mongo-driver/bson"

var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"booking_id",
			"user_id",
			"event_id",
			"seats",
			"status",
			"booking_date",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"booking_id": bson.M{
				"bsonType": "string",
				"pattern":  "^BK-[A-Z0-9]{8}$",
			},

			"user_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"event_id": bson.M{
				"bsonType": "string",
				"pattern":  "^EVT-[A-Z]{3}[0-9]{4}-[A-Z0-9]{3}$",
			},

			"seats": bson.M{
				"bsonType": "int",
				"minimum":  1,
				"maximum":  2,
			},

			"total_amount": bson.M{
				"bsonType": []string{"double", "int", "long", "decimal"},
				"minimum":  0,
			},

			"status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"confirmed",
					"cancelled",
				},
			},

			"booking_date": bson.M{
				"bsonType": "date",
			},

			"cancellation_date": bson.M{
				"bsonType": "date",
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
