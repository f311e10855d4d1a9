package main

import (
	"plantcare/internal/infra/persistence/model"

	"gorm.io/gen"
)

func main() {
	models := []any{
		model.UserModel{},
		model.AccessTokenModel{},
		model.PlantModel{},
		model.WaterLogModel{},
		model.FertilizerLogModel{},
		model.DiseaseModel{},
		model.PlantDiseaseModel{},
	}

	gen := gen.NewGenerator(gen.Config{
		OutPath: "./internal/infra/persistence/postgres/query",
	})

	gen.ApplyBasic(models...)

	gen.Execute()
}
