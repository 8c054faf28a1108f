package validators

import "go.mongodb.org/mongo-driver/bson"

var EventValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"event_id",
			"title",
			"category",
			"location",
			"location_type",
			"date",
			"capacity",
			"booked_seats",
			"created_by",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"event_id": bson.M{
				"bsonType": "string",
				"pattern":  "^EVT-[A-Z]{3}[0-9]{4}-[A-Z0-9]{3}$",
			},

			"title": bson.M{
				"bsonType":  "string",
				"minLength": 3,
				"maxLength": 150,
			},

			"description": bson.M{
				"bsonType":  "string",
				"maxLength": 5000,
			},

			"category": bson.M{
				"bsonType": "string",
				"enum": []string{
					"Music", "Tech", "Business", "Workshop", "Webinar",
					"Conference", "Sports", "Arts", "Food", "Health", "Other",
				},
			},

			"location": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 200,
			},

			"location_type": bson.M{
				"bsonType": "string",
				"enum":     []string{"Online", "In-Person"},
			},

			"date": bson.M{
				"bsonType": "date",
			},

			"start_time": bson.M{
				"bsonType": "string",
				"pattern":  "^([01][0-9]|2[0-3]):[0-5][0-9]$",
			},

			"end_time": bson.M{
				"bsonType": "string",
				"pattern":  "^([01][0-9]|2[0-3]):[0-5][0-9]$",
			},

			"capacity": bson.M{
				"bsonType": "int",
				"minimum":  1,
			},

			"booked_seats": bson.M{
				"bsonType": "int",
				"minimum":  0,
			},

			"price": bson.M{
				"bsonType": []string{"double", "int", "long", "decimal"},
				"minimum":  0,
			},

			"organizer": bson.M{
				"bsonType":  "string",
				"maxLength": 150,
			},

			"created_by": bson.M{
				"bsonType": "string",
			},

			"created_at": bson.M{
				"bsonType": "date",
			},

			"updated_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
