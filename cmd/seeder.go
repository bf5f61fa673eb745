package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"golang.org/x/crypto/bcrypt"
)

var clearData bool

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlxDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		db, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: sqlxDB.DB}), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to open gorm connection: %v", err)
		}

		if clearData {
			for _, table := range []string{"time_entries", "audit_log", "work_types", "users"} {
				if err := db.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		seedUsers(db, cfg.Security.BCryptCost)
		seedSettings(db)
		seedWorkTypes(db)
		seedTimeEntries(db)
	},
}

func seedUsers(db *gorm.DB, bcryptCost int) {
	users := []struct {
		Email string
		Name  string
		Role  string
	}{
		{"admin@vektora.se", "Vektora Admin", "admin"},
		{"consultant@vektora.se", "Vektora Consultant", "viewer"},
	}

	hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcryptCost)

	for _, u := range users {
		var exists int
		row := db.Raw("SELECT 1 FROM users WHERE email = ?", u.Email).Row()
		if err := row.Scan(&exists); err == nil {
			fmt.Println("user already exists:", u.Email)
			continue
		}
		if err := db.Exec("INSERT INTO users (email, name, password_hash, role, is_active, created_at, updated_at) VALUES (?, ?, ?, ?, true, now(), now())",
			u.Email, u.Name, string(hash), u.Role).Error; err != nil {
			log.Fatalf("failed to insert user %s: %v", u.Email, err)
		}
		fmt.Println("Seeded user:", u.Email)
	}
}

func seedSettings(db *gorm.DB) {
	var exists int
	row := db.Raw("SELECT 1 FROM system_settings WHERE id = 1").Row()
	if err := row.Scan(&exists); err == nil {
		fmt.Println("system settings already exist")
		return
	}

	if err := db.Exec(`INSERT INTO system_settings
		(id, default_currency_code, allowed_currencies, time_zone, date_format,
		 company_name, company_org_number, company_email, company_phone,
		 time_entry_edit_window_days, time_entry_require_project,
		 time_entry_enable_billable_tracking, time_entry_max_hours_per_day,
		 time_entry_allow_future_dates, settings_version, updated_at)
		VALUES (1, 'SEK', 'SEK,EUR,USD', 'Europe/Stockholm', 'YYYY-MM-DD',
		 'Vektora Consulting AB', '556000-0000', 'hello@vektora.se', '+46 8 000 00 00',
		 30, false, true, 12, false, 1, now())`).Error; err != nil {
		log.Fatalf("failed to seed system settings: %v", err)
	}
	fmt.Println("Seeded system settings")
}

func seedWorkTypes(db *gorm.DB) {
	workTypes := []struct {
		Name       string
		Desc       string
		Credits    float64
		CostFactor float64
		Plans      string
		Category   string
		Billable   bool
	}{
		{"Strategic Planning", "Long-horizon strategy engagements", 2.0, 1.5, "growth,scale,custom", "strategic", true},
		{"Operational Review", "Process and operations assessments", 1.5, 1.2, "starter,growth,scale,custom", "operational", true},
		{"Technical Advisory", "Architecture and tooling advice", 1.8, 1.3, "growth,scale,custom", "technical", true},
		{"Administration", "Internal admin and coordination", 0.5, 0.8, "starter,growth,scale,custom", "administrative", false},
		{"Leadership Coaching", "Executive and team coaching", 2.5, 1.6, "scale,custom", "leadership", true},
	}

	for _, wt := range workTypes {
		var exists int
		row := db.Raw("SELECT 1 FROM work_types WHERE name = ?", wt.Name).Row()
		if err := row.Scan(&exists); err == nil {
			fmt.Println("work type already exists:", wt.Name)
			continue
		}
		if err := db.Exec(`INSERT INTO work_types
			(name, description, credits_per_hour, internal_cost_factor,
			 allowed_plan_levels, category, billable, is_active, version, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, true, 1, now(), now())`,
			wt.Name, wt.Desc, wt.Credits, wt.CostFactor, wt.Plans, wt.Category, wt.Billable).Error; err != nil {
			log.Fatalf("failed to insert work type %s: %v", wt.Name, err)
		}
		fmt.Println("Seeded work type:", wt.Name)
	}
}

func seedTimeEntries(db *gorm.DB) {
	var count int64
	if err := db.Raw("SELECT COUNT(*) FROM time_entries").Row().Scan(&count); err == nil && count > 0 {
		fmt.Println("time entries already exist")
		return
	}

	var workTypeID int64
	if err := db.Raw("SELECT id FROM work_types WHERE name = ?", "Operational Review").Row().Scan(&workTypeID); err != nil {
		fmt.Println("no work type to attach time entries to, skipping")
		return
	}

	for i := 0; i < 5; i++ {
		entryDate := time.Now().AddDate(0, 0, -7*(i+1))
		if err := db.Exec(`INSERT INTO time_entries
			(work_type_id, user_id, hours, entry_date, billable, created_at)
			VALUES (?, 1, ?, ?, true, now())`,
			workTypeID, 4.0+float64(i), entryDate).Error; err != nil {
			log.Fatalf("failed to insert time entry: %v", err)
		}
	}
	fmt.Println("Seeded sample time entries")
}
