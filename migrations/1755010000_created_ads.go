package migrations

import (
	"encoding/json"

	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
)

func init() {
	m.Register(func(app core.App) error {
		jsonData := `{
			"id": "adhouse00ads001",
			"name": "ads",
			"type": "base",
			"system": false,
			"fields": [
				{
					"autogeneratePattern": "[a-z0-9]{15}",
					"hidden": false,
					"id": "text_ads_id",
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
					"id": "text_title",
					"max": 120,
					"min": 3,
					"name": "title",
					"presentable": true,
					"required": true,
					"system": false,
					"type": "text"
				},
				{
					"hidden": false,
					"id": "text_description",
					"max": 5000,
					"min": 0,
					"name": "description",
					"presentable": false,
					"required": false,
					"system": false,
					"type": "text"
				},
				{
					"hidden": false,
					"id": "select_category",
					"maxSelect": 1,
					"name": "category",
					"presentable": false,
					"required": true,
					"system": false,
					"type": "select",
					"values": [
						"electronics",
						"vehicles",
						"property",
						"fashion",
						"services",
						"other"
					]
				},
				{
					"hidden": false,
					"id": "text_price",
					"max": 0,
					"min": 0,
					"name": "price",
					"presentable": false,
					"required": false,
					"system": false,
					"type": "text"
				},
				{
					"hidden": false,
					"id": "text_location",
					"max": 120,
					"min": 0,
					"name": "location",
					"presentable": false,
					"required": false,
					"system": false,
					"type": "text"
				},
				{
					"hidden": false,
					"id": "text_phone",
					"max": 20,
					"min": 0,
					"name": "phone",
					"presentable": false,
					"required": false,
					"system": false,
					"type": "text"
				},
				{
					"hidden": false,
					"id": "file_images",
					"maxSelect": 5,
					"maxSize": 5242880,
					"mimeTypes": [
						"image/jpeg",
						"image/png",
						"image/webp"
					],
					"name": "images",
					"presentable": false,
					"required": false,
					"system": false,
					"type": "file"
				},
				{
					"cascadeDelete": true,
					"collectionId": "_pb_users_auth_",
					"hidden": false,
					"id": "relation_owner",
					"maxSelect": 1,
					"minSelect": 0,
					"name": "owner",
					"presentable": false,
					"required": true,
					"system": false,
					"type": "relation"
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
						"pending",
						"active",
						"sold",
						"expired"
					]
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
				},
				{
					"hidden": false,
					"id": "autodate_updated",
					"name": "updated",
					"onCreate": true,
					"onUpdate": true,
					"presentable": false,
					"system": false,
					"type": "autodate"
				}
			],
			"indexes": [
				"CREATE INDEX idx_ads_status_created ON ads (status, created)",
				"CREATE INDEX idx_ads_owner ON ads (owner)"
			],
			"listRule": "",
			"viewRule": "",
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
		collection, err := app.FindCollectionByNameOrId("adhouse00ads001")
		if err != nil {
			return err
		}

		return app.Delete(collection)
	})
}
