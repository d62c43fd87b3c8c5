package main

import (
	"autocrm/internal/infra/persistence/model"

	"gorm.io/gen"
)

func main() {
	models := []any{
		model.CustomerModel{},
		model.InteractionModel{},
		model.UserProfileModel{},
		model.CustomerShareModel{},
		model.AccessDelegationModel{},
		model.TransactionModel{},
		model.DistributorModel{},
		model.CarModelModel{},
		model.AppSettingModel{},
	}

	gen := gen.NewGenerator(gen.Config{
		OutPath: "./internal/infra/persistence/postgres/query",
	})

	gen.ApplyBasic(models...)

	gen.Execute()
}
