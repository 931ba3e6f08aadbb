package models_test

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/aluguelfacil/locacoes_backend/config"
	"github.com/aluguelfacil/locacoes_backend/models"
	"github.com/aluguelfacil/locacoes_backend/workflow"
	"github.com/shopspring/decimal"
)

// End-to-end ledger flow: budget -> approve -> dispatch -> finalize with a
// loss, verifying movements and the settlement outcome against a real MySQL.
func TestReservationLifecycle_BudgetToSettlement(t *testing.T) {
	if strings.TrimSpace(os.Getenv("INTEGRATION_TESTS")) == "" {
		t.Skip("set INTEGRATION_TESTS=1 to run integration tests (requires docker)")
	}

	ctx := context.Background()

	redisName, redisPort := startRedisContainer(t)
	t.Cleanup(func() { _ = dockerRmForce(redisName) })

	mysqlName, mysqlPort := startMySQLContainer(t)
	t.Cleanup(func() { _ = dockerRmForce(mysqlName) })

	t.Setenv("REDIS_HOST", fmt.Sprintf("127.0.0.1:%s", redisPort))
	t.Setenv("DB_USER", "root")
	t.Setenv("DB_PASSWORD", "testpw")
	t.Setenv("DB_HOST", "127.0.0.1")
	t.Setenv("DB_PORT", mysqlPort)
	t.Setenv("DB_NAME", "locacoes_test")

	config.ConnectDatabaseWithRetry()
	config.ConnectRedisWithRetry()
	models.MigrateTable()

	product, err := models.CreateProduct(ctx, &models.NewProduct{
		Name:          "Cadeira Tiffany",
		TotalQuantity: decimal.NewFromInt(200),
		RentalValue:   decimal.RequireFromString("8.50"),
	})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}

	client, err := models.CreateClient(ctx, &models.NewClient{Name: "Maria Souza"})
	if err != nil {
		t.Fatalf("CreateClient: %v", err)
	}

	start := time.Now().Add(48 * time.Hour).Truncate(time.Second)
	reservation, err := models.CreateBudget(ctx, &models.NewReservation{
		ClientId:   client.ID,
		EventStart: start,
		EventEnd:   start.Add(6 * time.Hour),
		Items: []models.NewReservationItem{
			{ProductId: product.ID, Quantity: decimal.NewFromInt(10)},
		},
	})
	if err != nil {
		t.Fatalf("CreateBudget: %v", err)
	}
	if reservation.Status != models.ReservationStatusOrcamento {
		t.Fatalf("new budget status: got %s", reservation.Status)
	}
	if !reservation.TotalValue.Equal(decimal.RequireFromString("85.00")) {
		t.Fatalf("budget total: got %s, want 85.00", reservation.TotalValue)
	}

	if _, err := models.UpdateReservationStatus(ctx, reservation.ID, "aprovado"); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if _, err := models.UpdateReservationStatus(ctx, reservation.ID, "em_andamento"); err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	movements, err := models.ListMovements(ctx, &models.MovementFilter{ReservationId: &reservation.ID})
	if err != nil {
		t.Fatalf("ListMovements: %v", err)
	}
	if len(movements) != 1 || movements[0].Type != models.MovementTypeSaida {
		t.Fatalf("expected one saida movement after dispatch, got %+v", movements)
	}

	// available stock during the event reflects the dispatched quantity
	available, err := models.CheckAvailability(ctx, product.ID, start, start.Add(time.Hour))
	if err != nil {
		t.Fatalf("CheckAvailability: %v", err)
	}
	if !available.Equal(decimal.NewFromInt(190)) {
		t.Fatalf("availability during event: got %s, want 190", available)
	}

	current, err := models.GetReservation(ctx, reservation.ID)
	if err != nil {
		t.Fatalf("GetReservation: %v", err)
	}
	result, err := workflow.FinalizeReservation(ctx, reservation.ID, []workflow.ItemReturn{
		{ItemId: current.Items[0].ID, QuantityReturned: decimal.NewFromInt(8), QuantityLost: decimal.NewFromInt(2)},
	})
	if err != nil {
		t.Fatalf("FinalizeReservation: %v", err)
	}
	if !result.PenaltyTotal.Equal(decimal.RequireFromString("17.00")) {
		t.Fatalf("penalty total: got %s, want 17.00", result.PenaltyTotal)
	}
	if result.Outcome != models.ReservationStatusAguardandoQuitacao {
		t.Fatalf("outcome: got %s, want aguardando_quitacao", result.Outcome)
	}

	movements, err = models.ListMovements(ctx, &models.MovementFilter{ReservationId: &reservation.ID})
	if err != nil {
		t.Fatalf("ListMovements after finalize: %v", err)
	}
	if len(movements) != 2 {
		t.Fatalf("expected saida + entrada movements, got %d", len(movements))
	}

	// double finalize must be rejected
	if _, err := workflow.FinalizeReservation(ctx, reservation.ID, nil); err == nil {
		t.Fatal("second finalize should conflict")
	}

	// payment confirmation closes the reservation
	settled, err := models.UpdateReservationStatus(ctx, reservation.ID, "concluida")
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if settled.Status != models.ReservationStatusConcluida {
		t.Fatalf("settled status: got %s", settled.Status)
	}
}

func startRedisContainer(t *testing.T) (containerName, hostPort string) {
	t.Helper()
	name := fmt.Sprintf("locacoes-test-redis-%d", time.Now().UnixNano())
	out, err := dockerRun(
		"run", "-d", "--name", name,
		"-p", "127.0.0.1:0:6379",
		"redis:7-alpine",
	)
	if err != nil {
		t.Fatalf("start redis container: %v\n%s", err, out)
	}
	port, err := dockerHostPort(name, "6379/tcp")
	if err != nil {
		t.Fatalf("redis docker port: %v", err)
	}
	// wait until ready
	deadline := time.Now().Add(60 * time.Second)
	for time.Now().Before(deadline) {
		_, err := dockerRun("exec", name, "redis-cli", "ping")
		if err == nil {
			return name, port
		}
		time.Sleep(250 * time.Millisecond)
	}
	t.Fatalf("redis did not become ready")
	return "", ""
}

func startMySQLContainer(t *testing.T) (containerName, hostPort string) {
	t.Helper()
	name := fmt.Sprintf("locacoes-test-mysql-%d", time.Now().UnixNano())
	out, err := dockerRun(
		"run", "-d", "--name", name,
		"-e", "MYSQL_ROOT_PASSWORD=testpw",
		"-e", "MYSQL_DATABASE=locacoes_test",
		"-p", "127.0.0.1:0:3306",
		"mysql:8.0",
		"--default-authentication-plugin=mysql_native_password",
	)
	if err != nil {
		t.Fatalf("start mysql container: %v\n%s", err, out)
	}
	port, err := dockerHostPort(name, "3306/tcp")
	if err != nil {
		t.Fatalf("mysql docker port: %v", err)
	}
	// wait until ready
	deadline := time.Now().Add(120 * time.Second)
	for time.Now().Before(deadline) {
		_, err := dockerRun("exec", name, "mysqladmin", "ping", "-h", "127.0.0.1", "-ptestpw", "--silent")
		if err == nil {
			return name, port
		}
		time.Sleep(500 * time.Millisecond)
	}
	t.Fatalf("mysql did not become ready")
	return "", ""
}

func dockerHostPort(container, portProto string) (string, error) {
	out, err := dockerRun("port", container, portProto)
	if err != nil {
		return "", fmt.Errorf("docker port: %w: %s", err, out)
	}
	re := regexp.MustCompile(`:(\d+)`)
	m := re.FindStringSubmatch(out)
	if len(m) != 2 {
		return "", fmt.Errorf("unexpected docker port output: %q", out)
	}
	return m[1], nil
}

func dockerRmForce(container string) error {
	if strings.TrimSpace(container) == "" {
		return nil
	}
	_, err := dockerRun("rm", "-f", container)
	return err
}

func dockerRun(args ...string) (string, error) {
	cmd := exec.Command("docker", args...)
	b, err := cmd.CombinedOutput()
	return string(b), err
}
