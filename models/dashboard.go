package models

import (
	"context"
	"time"

	"github.com/aluguelfacil/locacoes_backend/config"
	"github.com/shopspring/decimal"
)

type StatusCount struct {
	Status ReservationStatus `json:"status"`
	Count  int64             `json:"count"`
}

type LowStockProduct struct {
	ProductId     int             `json:"product_id"`
	Name          string          `json:"name"`
	TotalQuantity decimal.Decimal `json:"total_quantity"`
	Reserved      decimal.Decimal `json:"reserved"`
	Available     decimal.Decimal `json:"available"`
}

type Dashboard struct {
	StatusCounts      []StatusCount     `json:"status_counts"`
	Revenue           decimal.Decimal   `json:"revenue"`
	PendingSettlement decimal.Decimal   `json:"pending_settlement"`
	LowStock          []LowStockProduct `json:"low_stock"`
	From              time.Time         `json:"from"`
	To                time.Time         `json:"to"`
}

// GetDashboard aggregates the back-office landing numbers for [from, to).
func GetDashboard(ctx context.Context, from, to time.Time) (*Dashboard, error) {

	db := config.GetDB()
	result := Dashboard{From: from, To: to}

	err := db.WithContext(ctx).Model(&Reservation{}).
		Select("status, COUNT(*) AS count").
		Where("event_start >= ? AND event_start < ?", from, to).
		Group("status").
		Scan(&result.StatusCounts).Error
	if err != nil {
		return nil, err
	}

	// revenue counts concluded reservations plus the penalties they settled
	var revenue decimal.NullDecimal
	err = db.WithContext(ctx).Model(&Reservation{}).
		Select("SUM(total_value + penalty_total)").
		Where("status = ?", ReservationStatusConcluida).
		Where("event_start >= ? AND event_start < ?", from, to).
		Scan(&revenue).Error
	if err != nil {
		return nil, err
	}
	if revenue.Valid {
		result.Revenue = revenue.Decimal
	}

	var pending decimal.NullDecimal
	err = db.WithContext(ctx).Model(&Reservation{}).
		Select("SUM(penalty_total)").
		Where("status = ?", ReservationStatusAguardandoQuitacao).
		Scan(&pending).Error
	if err != nil {
		return nil, err
	}
	if pending.Valid {
		result.PendingSettlement = pending.Decimal
	}

	lowStockSql := `
SELECT
    p.id AS product_id,
    p.name,
    p.total_quantity,
    COALESCE(r.reserved, 0) AS reserved,
    p.total_quantity - COALESCE(r.reserved, 0) AS available
FROM
    products AS p
        LEFT JOIN
    (SELECT
        ri.product_id, SUM(ri.quantity) AS reserved
    FROM
        reservation_items AS ri
    JOIN reservations AS res ON res.id = ri.reservation_id
    WHERE
        ri.status NOT IN ('cancelada' , 'concluida')
            AND res.event_start < ?
            AND res.event_end > ?
    GROUP BY ri.product_id) AS r ON r.product_id = p.id
WHERE
    p.is_active = 1
        AND p.total_quantity - COALESCE(r.reserved, 0) <= p.total_quantity * 0.1
ORDER BY available`

	err = db.WithContext(ctx).Raw(lowStockSql, to, from).Scan(&result.LowStock).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}
