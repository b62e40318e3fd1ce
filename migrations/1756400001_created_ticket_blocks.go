package migrations

import (
	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
	"github.com/pocketbase/pocketbase/tools/types"
)

func init() {
	m.Register(func(app core.App) error {
		events, err := app.FindCollectionByNameOrId("events")
		if err != nil {
			return err
		}

		collection := core.NewBaseCollection("ticket_blocks")

		collection.Fields.Add(
			&core.RelationField{
				Name:         "event",
				Required:     true,
				CollectionId: events.Id,
				MaxSelect:    1,
			},
			&core.NumberField{
				Name:    "vvip_count",
				OnlyInt: true,
				Min:     types.Pointer(0.0),
			},
			&core.NumberField{
				Name: "vvip_price",
				Min:  types.Pointer(0.0),
			},
			&core.NumberField{
				Name:    "vip_count",
				OnlyInt: true,
				Min:     types.Pointer(0.0),
			},
			&core.NumberField{
				Name: "vip_price",
				Min:  types.Pointer(0.0),
			},
			&core.NumberField{
				Name:    "regular_count",
				OnlyInt: true,
				Min:     types.Pointer(0.0),
			},
			&core.NumberField{
				Name: "regular_price",
				Min:  types.Pointer(0.0),
			},
			&core.NumberField{
				// not Required: a zero-capacity venue legitimately stores 0
				Name:    "total_tickets",
				OnlyInt: true,
				Min:     types.Pointer(0.0),
			},
			&core.TextField{
				Name: "serial",
			},
			&core.JSONField{
				Name:    "extra",
				MaxSize: 51200,
			},
			&core.AutodateField{
				Name:     "created",
				OnCreate: true,
			},
		)

		return app.Save(collection)
	}, func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("ticket_blocks")
		if err != nil {
			return err
		}

		return app.Delete(collection)
	})
}
