package models

import (
	"fmt"
)

type ReservationStatus string

const (
	ReservationStatusOrcamento          ReservationStatus = "orcamento"
	ReservationStatusAprovado           ReservationStatus = "aprovado"
	ReservationStatusPendente           ReservationStatus = "pendente"
	ReservationStatusConfirmada         ReservationStatus = "confirmada"
	ReservationStatusEmAndamento        ReservationStatus = "em_andamento"
	ReservationStatusConcluida          ReservationStatus = "concluida"
	ReservationStatusCancelada          ReservationStatus = "cancelada"
	ReservationStatusAguardandoQuitacao ReservationStatus = "aguardando_quitacao"
)

var AllReservationStatus = []ReservationStatus{
	ReservationStatusOrcamento,
	ReservationStatusAprovado,
	ReservationStatusPendente,
	ReservationStatusConfirmada,
	ReservationStatusEmAndamento,
	ReservationStatusConcluida,
	ReservationStatusCancelada,
	ReservationStatusAguardandoQuitacao,
}

func (e ReservationStatus) IsValid() bool {
	switch e {
	case ReservationStatusOrcamento, ReservationStatusAprovado, ReservationStatusPendente,
		ReservationStatusConfirmada, ReservationStatusEmAndamento, ReservationStatusConcluida,
		ReservationStatusCancelada, ReservationStatusAguardandoQuitacao:
		return true
	}
	return false
}

func (e ReservationStatus) String() string {
	return string(e)
}

func ParseReservationStatus(s string) (ReservationStatus, error) {
	status := ReservationStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("%s is not a valid ReservationStatus", s)
	}
	return status, nil
}

// reservationTransitions is the allowed status graph. Terminal states have
// no outgoing edges.
var reservationTransitions = map[ReservationStatus][]ReservationStatus{
	ReservationStatusOrcamento:          {ReservationStatusAprovado, ReservationStatusPendente, ReservationStatusCancelada},
	ReservationStatusPendente:           {ReservationStatusAprovado, ReservationStatusConfirmada, ReservationStatusCancelada},
	ReservationStatusAprovado:           {ReservationStatusConfirmada, ReservationStatusEmAndamento, ReservationStatusCancelada},
	ReservationStatusConfirmada:         {ReservationStatusEmAndamento, ReservationStatusCancelada},
	ReservationStatusEmAndamento:        {ReservationStatusConcluida, ReservationStatusAguardandoQuitacao, ReservationStatusCancelada},
	ReservationStatusAguardandoQuitacao: {ReservationStatusConcluida},
}

func (e ReservationStatus) CanTransition(to ReservationStatus) bool {
	for _, next := range reservationTransitions[e] {
		if next == to {
			return true
		}
	}
	return false
}

func (e ReservationStatus) IsTerminal() bool {
	return len(reservationTransitions[e]) == 0
}

type MovementType string

const (
	MovementTypeEntrada MovementType = "entrada"
	MovementTypeSaida   MovementType = "saida"
)

func (e MovementType) IsValid() bool {
	switch e {
	case MovementTypeEntrada, MovementTypeSaida:
		return true
	}
	return false
}

func (e MovementType) String() string {
	return string(e)
}

func ParseMovementType(s string) (MovementType, error) {
	mt := MovementType(s)
	if !mt.IsValid() {
		return "", fmt.Errorf("%s is not a valid MovementType", s)
	}
	return mt, nil
}

type UserRole string

const (
	UserRoleAdmin    UserRole = "admin"
	UserRoleOperator UserRole = "operator"
)

func (e UserRole) IsValid() bool {
	switch e {
	case UserRoleAdmin, UserRoleOperator:
		return true
	}
	return false
}

func (e UserRole) String() string {
	return string(e)
}
