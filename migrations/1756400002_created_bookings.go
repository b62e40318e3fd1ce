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

		collection := core.NewBaseCollection("bookings")

		collection.Fields.Add(
			&core.RelationField{
				Name:         "event",
				Required:     true,
				CollectionId: events.Id,
				MaxSelect:    1,
			},
			&core.TextField{
				Name: "customer",
			},
			&core.NumberField{
				Name: "total_amount",
				Min:  types.Pointer(0.0),
			},
			&core.NumberField{
				Name: "amount_paid",
				Min:  types.Pointer(0.0),
			},
			&core.SelectField{
				Name:      "status",
				MaxSelect: 1,
				Values:    []string{"Confirmed", "Tentative", "Cancelled", "Unknown"},
			},
			&core.TextField{
				Name: "receipt",
			},
			&core.JSONField{
				Name:    "payment_details",
				MaxSize: 102400,
			},
			&core.AutodateField{
				Name:     "created",
				OnCreate: true,
			},
			&core.AutodateField{
				Name:     "updated",
				OnCreate: true,
				OnUpdate: true,
			},
		)

		return app.Save(collection)
	}, func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("bookings")
		if err != nil {
			return err
		}

		return app.Delete(collection)
	})
}
