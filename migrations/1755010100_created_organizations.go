package migrations

import (
	"encoding/json"

	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
)

func init() {
	m.Register(func(app core.App) error {
		jsonData := `{
			"id": "adhouse00orgs01",
			"name": "organizations",
			"type": "base",
			"system": false,
			"fields": [
				{
					"autogeneratePattern": "[a-z0-9]{15}",
					"hidden": false,
					"id": "text_orgs_id",
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
					"id": "text_name",
					"max": 120,
					"min": 2,
					"name": "name",
					"presentable": true,
					"required": true,
					"system": false,
					"type": "text"
				},
				{
					"hidden": false,
					"id": "select_org_type",
					"maxSelect": 1,
					"name": "organization_type",
					"presentable": false,
					"required": true,
					"system": false,
					"type": "select",
					"values": [
						"business",
						"ngo",
						"school",
						"church"
					]
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
					"exceptDomains": null,
					"hidden": false,
					"id": "email_email",
					"name": "email",
					"onlyDomains": null,
					"presentable": false,
					"required": false,
					"system": false,
					"type": "email"
				},
				{
					"exceptDomains": null,
					"hidden": false,
					"id": "url_website",
					"name": "website",
					"onlyDomains": null,
					"presentable": false,
					"required": false,
					"system": false,
					"type": "url"
				},
				{
					"hidden": false,
					"id": "file_logo",
					"maxSelect": 1,
					"maxSize": 2097152,
					"mimeTypes": [
						"image/jpeg",
						"image/png",
						"image/webp"
					],
					"name": "logo",
					"presentable": false,
					"required": false,
					"system": false,
					"type": "file"
				},
				{
					"hidden": false,
					"id": "bool_verified",
					"name": "verified",
					"presentable": false,
					"required": false,
					"system": false,
					"type": "bool"
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
						"active",
						"suspended"
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
				}
			],
			"indexes": [
				"CREATE INDEX idx_orgs_type ON organizations (organization_type)",
				"CREATE INDEX idx_orgs_owner ON organizations (owner)"
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
		collection, err := app.FindCollectionByNameOrId("adhouse00orgs01")
		if err != nil {
			return err
		}

		return app.Delete(collection)
	})
}
