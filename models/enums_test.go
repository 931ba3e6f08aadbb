package models

import "testing"

func TestParseReservationStatus(t *testing.T) {
	for _, status := range AllReservationStatus {
		parsed, err := ParseReservationStatus(string(status))
		if err != nil {
			t.Fatalf("%s should parse, got %v", status, err)
		}
		if parsed != status {
			t.Fatalf("parsed %s, want %s", parsed, status)
		}
	}

	for _, bad := range []string{"", "Orcamento", "CONCLUIDA", "concluída", "unknown", "em andamento"} {
		if _, err := ParseReservationStatus(bad); err == nil {
			t.Fatalf("%q should not parse", bad)
		}
	}
}

func TestReservationStatusTransitions(t *testing.T) {
	allowed := []struct {
		from, to ReservationStatus
	}{
		{ReservationStatusOrcamento, ReservationStatusAprovado},
		{ReservationStatusOrcamento, ReservationStatusPendente},
		{ReservationStatusOrcamento, ReservationStatusCancelada},
		{ReservationStatusPendente, ReservationStatusAprovado},
		{ReservationStatusPendente, ReservationStatusConfirmada},
		{ReservationStatusAprovado, ReservationStatusConfirmada},
		{ReservationStatusAprovado, ReservationStatusEmAndamento},
		{ReservationStatusConfirmada, ReservationStatusEmAndamento},
		{ReservationStatusEmAndamento, ReservationStatusConcluida},
		{ReservationStatusEmAndamento, ReservationStatusAguardandoQuitacao},
		{ReservationStatusEmAndamento, ReservationStatusCancelada},
		{ReservationStatusAguardandoQuitacao, ReservationStatusConcluida},
	}
	for _, tr := range allowed {
		if !tr.from.CanTransition(tr.to) {
			t.Fatalf("%s -> %s should be allowed", tr.from, tr.to)
		}
	}

	denied := []struct {
		from, to ReservationStatus
	}{
		{ReservationStatusOrcamento, ReservationStatusConcluida},
		{ReservationStatusOrcamento, ReservationStatusEmAndamento},
		{ReservationStatusConcluida, ReservationStatusOrcamento},
		{ReservationStatusConcluida, ReservationStatusCancelada},
		{ReservationStatusCancelada, ReservationStatusOrcamento},
		{ReservationStatusCancelada, ReservationStatusAprovado},
		{ReservationStatusAguardandoQuitacao, ReservationStatusCancelada},
		{ReservationStatusEmAndamento, ReservationStatusAprovado},
	}
	for _, tr := range denied {
		if tr.from.CanTransition(tr.to) {
			t.Fatalf("%s -> %s should be denied", tr.from, tr.to)
		}
	}
}

func TestTerminalStatuses(t *testing.T) {
	if !ReservationStatusConcluida.IsTerminal() {
		t.Fatal("concluida should be terminal")
	}
	if !ReservationStatusCancelada.IsTerminal() {
		t.Fatal("cancelada should be terminal")
	}
	if ReservationStatusAguardandoQuitacao.IsTerminal() {
		t.Fatal("aguardando_quitacao still has the payment transition")
	}
}

func TestParseMovementType(t *testing.T) {
	for _, good := range []string{"entrada", "saida"} {
		if _, err := ParseMovementType(good); err != nil {
			t.Fatalf("%q should parse, got %v", good, err)
		}
	}
	for _, bad := range []string{"", "Entrada", "saída", "out"} {
		if _, err := ParseMovementType(bad); err == nil {
			t.Fatalf("%q should not parse", bad)
		}
	}
}
