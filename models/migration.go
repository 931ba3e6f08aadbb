package models

import (
	"log"

	"github.com/aluguelfacil/locacoes_backend/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&Product{},
		&Client{},
		&Venue{},
		&Reservation{}, &ReservationItem{},
		&Movement{},
		&User{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
