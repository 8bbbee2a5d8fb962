package services

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/lusohomes/marketplace-backend/internal/logger"
	"github.com/lusohomes/marketplace-backend/internal/repos"
	"github.com/lusohomes/marketplace-backend/internal/types"
)

// The production schema leans on Postgres defaults (uuid_generate_v4, now)
// that SQLite cannot express, so the test schema is written out by hand.
// Every ID is set in Go by the code under test, so no defaults are needed.
var testSchema = []string{
	`CREATE TABLE "user" (
		id text PRIMARY KEY,
		email text NOT NULL,
		first_name text NOT NULL,
		last_name text NOT NULL,
		created_at datetime,
		updated_at datetime
	);`,
	`CREATE TABLE client (
		id text PRIMARY KEY,
		user_id text NOT NULL,
		nif text,
		citizen_card text,
		preferred_contact_method text,
		property_preferences text,
		created_at datetime,
		updated_at datetime
	);`,
	`CREATE TABLE agent (
		id text PRIMARY KEY,
		user_id text,
		license_number text,
		office_email text,
		office_phone text,
		specialization text,
		created_at datetime,
		updated_at datetime
	);`,
	`CREATE TABLE property (
		id text PRIMARY KEY,
		agent_id text NOT NULL,
		title text NOT NULL,
		status text NOT NULL,
		price real NOT NULL,
		created_at datetime,
		updated_at datetime
	);`,
	`CREATE TABLE proposal (
		id text PRIMARY KEY,
		proposal_number text NOT NULL,
		property_id text NOT NULL,
		client_id text NOT NULL,
		proposed_value real NOT NULL,
		type text NOT NULL,
		status text NOT NULL,
		payment_method text,
		intended_move_date datetime,
		additional_notes text,
		response_date datetime,
		rejection_reason text,
		created_at datetime,
		updated_at datetime
	);`,
	`CREATE TABLE negotiation (
		id text PRIMARY KEY,
		proposal_id text NOT NULL,
		sender_id text NOT NULL,
		message text NOT NULL,
		counter_offer real,
		status text NOT NULL,
		sent_at datetime NOT NULL,
		viewed_at datetime,
		responded_at datetime,
		created_at datetime,
		updated_at datetime
	);`,
	`CREATE TABLE contract (
		id text PRIMARY KEY,
		property_id text NOT NULL,
		client_id text NOT NULL,
		agent_id text NOT NULL,
		type text NOT NULL,
		status text NOT NULL,
		start_date datetime NOT NULL,
		end_date datetime,
		signature_date datetime,
		termination_date datetime,
		value real NOT NULL,
		monthly_rent real,
		security_deposit real,
		commission real,
		payment_frequency text,
		payment_day integer,
		auto_renewal numeric NOT NULL,
		terms_and_conditions text,
		notes text,
		created_at datetime,
		updated_at datetime
	);`,
	`CREATE TABLE notification (
		id text PRIMARY KEY,
		sender_id text,
		recipient_id text NOT NULL,
		message text NOT NULL,
		status text NOT NULL,
		type text NOT NULL,
		priority text NOT NULL,
		reference_id text,
		reference_type text,
		expiration_date datetime NOT NULL,
		created_at datetime,
		updated_at datetime
	);`,
}

func testLogger() *logger.Logger {
	return &logger.Logger{SugaredLogger: zap.NewNop().Sugar()}
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	for _, stmt := range testSchema {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("create test schema: %v", err)
		}
	}
	return db
}

// testEnv wires the full service stack against an in-memory database, the
// same way cmd/main.go wires it against Postgres.
type testEnv struct {
	db                  *gorm.DB
	proposalRepo        repos.ProposalRepo
	negotiationRepo     repos.NegotiationRepo
	propertyRepo        repos.PropertyRepo
	clientRepo          repos.ClientRepo
	agentRepo           repos.AgentRepo
	userRepo            repos.UserRepo
	contractRepo        repos.ContractRepo
	notificationRepo    repos.NotificationRepo
	notificationService NotificationService
	contractService     ContractService
	proposalService     ProposalService
	approvalService     ApprovalService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := setupTestDB(t)
	log := testLogger()

	env := &testEnv{
		db:               db,
		proposalRepo:     repos.NewProposalRepo(db, log),
		negotiationRepo:  repos.NewNegotiationRepo(db, log),
		propertyRepo:     repos.NewPropertyRepo(db, log),
		clientRepo:       repos.NewClientRepo(db, log),
		agentRepo:        repos.NewAgentRepo(db, log),
		userRepo:         repos.NewUserRepo(db, log),
		contractRepo:     repos.NewContractRepo(db, log),
		notificationRepo: repos.NewNotificationRepo(db, log),
	}
	env.notificationService = NewNotificationService(db, log, env.notificationRepo)
	env.contractService = NewContractService(db, log, env.contractRepo, env.propertyRepo, env.clientRepo, env.agentRepo)
	env.proposalService = NewProposalService(db, log, env.proposalRepo, env.negotiationRepo, env.propertyRepo, env.clientRepo, env.notificationService)
	env.approvalService = NewApprovalService(db, log, env.proposalRepo, env.propertyRepo, env.clientRepo, env.agentRepo, env.userRepo, env.contractService, env.notificationService)
	return env
}

func seedUser(t *testing.T, db *gorm.DB, firstName, lastName string) *types.User {
	t.Helper()
	user := &types.User{
		ID:        uuid.New(),
		Email:     fmt.Sprintf("%s@test.local", uuid.NewString()),
		FirstName: firstName,
		LastName:  lastName,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func seedClient(t *testing.T, db *gorm.DB, user *types.User) *types.Client {
	t.Helper()
	client := &types.Client{ID: uuid.New(), UserID: user.ID}
	if err := db.Create(client).Error; err != nil {
		t.Fatalf("seed client: %v", err)
	}
	return client
}

func seedAgent(t *testing.T, db *gorm.DB, user *types.User) *types.Agent {
	t.Helper()
	agent := &types.Agent{ID: uuid.New()}
	if user != nil {
		agent.UserID = user.ID
	}
	if err := db.Create(agent).Error; err != nil {
		t.Fatalf("seed agent: %v", err)
	}
	return agent
}

func seedProperty(t *testing.T, db *gorm.DB, agent *types.Agent, title string, price float64, status types.PropertyStatus) *types.Property {
	t.Helper()
	property := &types.Property{
		ID:      uuid.New(),
		AgentID: agent.ID,
		Title:   title,
		Price:   price,
		Status:  status,
	}
	if err := db.Create(property).Error; err != nil {
		t.Fatalf("seed property: %v", err)
	}
	return property
}

func seedProposal(t *testing.T, db *gorm.DB, property *types.Property, client *types.Client, value float64, proposalType types.ProposalType, status types.ProposalStatus) *types.Proposal {
	t.Helper()
	proposal := types.NewProposal(property.ID, client.ID, value, proposalType, "", nil)
	proposal.Status = status
	if err := db.Create(proposal).Error; err != nil {
		t.Fatalf("seed proposal: %v", err)
	}
	return proposal
}

func countNotifications(t *testing.T, db *gorm.DB, recipientID uuid.UUID) int64 {
	t.Helper()
	var count int64
	if err := db.Model(&types.Notification{}).Where("recipient_id = ?", recipientID).Count(&count).Error; err != nil {
		t.Fatalf("count notifications: %v", err)
	}
	return count
}
