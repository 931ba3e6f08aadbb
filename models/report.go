package models

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

type reservationReportRow struct {
	ID           int    `json:"id"`
	ClientName   string `json:"client_name"`
	VenueName    string `json:"venue_name"`
	EventStart   string `json:"event_start"`
	EventEnd     string `json:"event_end"`
	Status       string `json:"status"`
	TotalValue   string `json:"total_value"`
	PenaltyTotal string `json:"penalty_total"`
}

// ExportReservationsExcel writes an xlsx sheet of the filtered reservations
// to w.
func ExportReservationsExcel(ctx context.Context, filter *ReservationFilter, w io.Writer) error {

	reservations, err := ListReservations(ctx, filter)
	if err != nil {
		return err
	}

	clients, err := GetAllClients(ctx, nil, false)
	if err != nil {
		return err
	}
	clientNames := make(map[int]string, len(clients))
	for _, c := range clients {
		clientNames[c.ID] = c.Name
	}
	venues, err := GetAllVenues(ctx, nil, false)
	if err != nil {
		return err
	}
	venueNames := make(map[int]string, len(venues))
	for _, v := range venues {
		venueNames[v.ID] = v.Name
	}

	f := excelize.NewFile()
	sheetName := "Sheet1"
	if _, err := f.NewSheet(sheetName); err != nil {
		return err
	}

	// Add headers
	f.SetCellValue(sheetName, "A1", "Id")
	f.SetCellValue(sheetName, "B1", "Cliente")
	f.SetCellValue(sheetName, "C1", "Local")
	f.SetCellValue(sheetName, "D1", "Inicio")
	f.SetCellValue(sheetName, "E1", "Fim")
	f.SetCellValue(sheetName, "F1", "Status")
	f.SetCellValue(sheetName, "G1", "Total")
	f.SetCellValue(sheetName, "H1", "Multa")

	// Add data
	for i, r := range reservations {
		row := reservationReportRow{
			ID:           r.ID,
			ClientName:   clientNames[r.ClientId],
			VenueName:    venueNames[r.VenueId],
			EventStart:   r.EventStart.Format("2006-01-02 15:04"),
			EventEnd:     r.EventEnd.Format("2006-01-02 15:04"),
			Status:       string(r.Status),
			TotalValue:   r.TotalValue.StringFixed(2),
			PenaltyTotal: r.PenaltyTotal.StringFixed(2),
		}
		f.SetCellValue(sheetName, "A"+fmt.Sprint(i+2), row.ID)
		f.SetCellValue(sheetName, "B"+fmt.Sprint(i+2), row.ClientName)
		f.SetCellValue(sheetName, "C"+fmt.Sprint(i+2), row.VenueName)
		f.SetCellValue(sheetName, "D"+fmt.Sprint(i+2), row.EventStart)
		f.SetCellValue(sheetName, "E"+fmt.Sprint(i+2), row.EventEnd)
		f.SetCellValue(sheetName, "F"+fmt.Sprint(i+2), row.Status)
		f.SetCellValue(sheetName, "G"+fmt.Sprint(i+2), row.TotalValue)
		f.SetCellValue(sheetName, "H"+fmt.Sprint(i+2), row.PenaltyTotal)
	}

	return f.Write(w)
}
