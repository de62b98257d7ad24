package migrations

import (
	"encoding/json"

	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
)

func init() {
	m.Register(func(app core.App) error {
		jsonData := `{
			"id": "adhouse00pays01",
			"name": "payments",
			"type": "base",
			"system": false,
			"fields": [
				{
					"autogeneratePattern": "[a-z0-9]{15}",
					"hidden": false,
					"id": "text_pays_id",
					"max": 15,
					"min": 15,
					"name": "id",
					"pattern": "^[a-z0-9]+$",
					"presentable": false,
					"primaryKey": true,
					"required": true,
					"system": true,
					"type": "text"
				},
				{
					"hidden": false,
					"id": "text_reference_id",
					"max": 36,
					"min": 0,
					"name": "reference_id",
					"presentable": true,
					"required": true,
					"system": false,
					"type": "text"
				},
				{
					"hidden": false,
					"id": "text_phone_number",
					"max": 20,
					"min": 0,
					"name": "phone_number",
					"presentable": false,
					"required": false,
					"system": false,
					"type": "text"
				},
				{
					"hidden": false,
					"id": "text_amount",
					"max": 0,
					"min": 0,
					"name": "amount",
					"presentable": false,
					"required": false,
					"system": false,
					"type": "text"
				},
				{
					"hidden": false,
					"id": "text_currency",
					"max": 3,
					"min": 0,
					"name": "currency",
					"presentable": false,
					"required": false,
					"system": false,
					"type": "text"
				},
				{
					"hidden": false,
					"id": "select_provider",
					"maxSelect": 1,
					"name": "provider",
					"presentable": false,
					"required": true,
					"system": false,
					"type": "select",
					"values": [
						"mtn",
						"vodafone"
					]
				},
				{
					"hidden": false,
					"id": "select_status",
					"maxSelect": 1,
					"name": "status",
					"presentable": false,
					"required": true,
					"system": false,
					"type": "select",
					"values": [
						"PENDING",
						"SUCCESSFUL",
						"FAILED",
						"ABANDONED"
					]
				},
				{
					"cascadeDelete": false,
					"collectionId": "adhouse00ads001",
					"hidden": false,
					"id": "relation_ad",
					"maxSelect": 1,
					"minSelect": 0,
					"name": "ad",
					"presentable": false,
					"required": false,
					"system": false,
					"type": "relation"
				},
				{
					"hidden": false,
					"id": "autodate_created",
					"name": "created",
					"onCreate": true,
					"onUpdate": false,
					"presentable": false,
					"system": false,
					"type": "autodate"
				}
			],
			"indexes": [
				"CREATE UNIQUE INDEX idx_payments_reference ON payments (reference_id)"
			],
			"listRule": null,
			"viewRule": null,
			"createRule": null,
			"updateRule": null,
			"deleteRule": null
		}`

		collection := &core.Collection{}
		if err := json.Unmarshal([]byte(jsonData), collection); err != nil {
			return err
		}

		return app.Save(collection)
	}, func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("adhouse00pays01")
		if err != nil {
			return err
		}

		return app.Delete(collection)
	})
}
