package main

import (
	"fmt"
	"log"
	"time"

	"reservly/internal/blockeddates"
	"reservly/internal/resources"
	"reservly/internal/shared/config"
	"reservly/internal/shared/database"
	"reservly/internal/users"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("Starting Reservly database seeder...")

	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db}

	fmt.Println("Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}

	fmt.Println("Seeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	fmt.Println("Seeding completed. Database is ready for testing.")
}

// CleanDatabase truncates all tables in reverse dependency order.
func (s *Seeder) CleanDatabase() error {
	tables := []string{
		"audit_entries",
		"reservations",
		"blocked_dates",
		"resources",
		"users",
	}

	tx := s.db.PostgreSQL.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	for _, table := range tables {
		fmt.Printf("  Truncating table: %s\n", table)
		if err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit().Error
}

// SeedAll inserts staff accounts, requesters, a small resource catalog and a
// sample blocked date.
func (s *Seeder) SeedAll() error {
	staff := []users.User{
		{ID: uuid.New(), Email: "reception@reservly.local", FullName: "Front Desk", Role: users.RoleReceptionist, IsActive: true},
		{ID: uuid.New(), Email: "admin@reservly.local", FullName: "Site Admin", Role: users.RoleSuperAdmin, IsActive: true},
	}
	requesters := []users.User{
		{ID: uuid.New(), Email: "dana@reservly.local", FullName: "Dana Whitfield", Role: users.RoleRequester, Phone: "555-0101", IsActive: true},
		{ID: uuid.New(), Email: "sam@reservly.local", FullName: "Sam Okafor", Role: users.RoleRequester, Phone: "555-0102", IsActive: true},
		{ID: uuid.New(), Email: "delegate@reservly.local", FullName: "Priya Nair", Role: users.RoleDelegate, DelegateName: "Executive Office", IsActive: true},
	}

	for _, u := range append(staff, requesters...) {
		if err := s.db.PostgreSQL.Create(&u).Error; err != nil {
			return fmt.Errorf("failed to seed user %s: %w", u.Email, err)
		}
		fmt.Printf("  Seeded user: %s (%s)\n", u.Email, u.Role)
	}

	catalog := []resources.Resource{
		{ID: uuid.New(), Name: "Grand Hall", Kind: resources.KindHall, Location: "Building A, Floor 1", Capacity: 250, IsActive: true},
		{ID: uuid.New(), Name: "Seminar Room B", Kind: resources.KindHall, Location: "Building B, Floor 2", Capacity: 40, IsActive: true},
		{ID: uuid.New(), Name: "Minibus 12", Kind: resources.KindVehicle, Location: "North Garage", Capacity: 14, IsActive: true},
		{ID: uuid.New(), Name: "Sedan 3", Kind: resources.KindVehicle, Location: "North Garage", Capacity: 4, IsActive: true},
	}
	for _, r := range catalog {
		if err := s.db.PostgreSQL.Create(&r).Error; err != nil {
			return fmt.Errorf("failed to seed resource %s: %w", r.Name, err)
		}
		fmt.Printf("  Seeded resource: %s (%s, capacity %d)\n", r.Name, r.Kind, r.Capacity)
	}

	// One global maintenance block two weeks out.
	maintenance := blockeddates.BlockedDate{
		ID:     uuid.New(),
		Date:   time.Now().UTC().AddDate(0, 0, 14).Truncate(24 * time.Hour),
		Reason: "Facility maintenance",
	}
	if err := s.db.PostgreSQL.Create(&maintenance).Error; err != nil {
		return fmt.Errorf("failed to seed blocked date: %w", err)
	}
	fmt.Printf("  Seeded blocked date: %s\n", maintenance.Date.Format("2006-01-02"))

	return nil
}
