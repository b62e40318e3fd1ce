package migrations

import (
	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
	"github.com/pocketbase/pocketbase/tools/types"
)

func init() {
	m.Register(func(app core.App) error {
		collection := core.NewBaseCollection("venue_requests")

		collection.Fields.Add(
			&core.TextField{
				Name:     "event_name",
				Required: true,
			},
			&core.TextField{
				Name:     "venue",
				Required: true,
			},
			&core.DateField{
				Name: "event_date",
			},
			&core.TextField{
				Name: "organizer",
			},
			&core.SelectField{
				Name:      "status",
				MaxSelect: 1,
				Values:    []string{"pending", "approved", "rejected"},
			},
			&core.NumberField{
				Name: "deposit_amount",
				Min:  types.Pointer(0.0),
			},
			&core.BoolField{
				Name: "deposit_paid",
			},
			&core.TextField{
				Name: "access_hash",
			},
			&core.AutodateField{
				Name:     "created",
				OnCreate: true,
			},
		)

		return app.Save(collection)
	}, func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("venue_requests")
		if err != nil {
			return err
		}

		return app.Delete(collection)
	})
}
