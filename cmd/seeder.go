package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/hosana-alex/leave-management/internal"
	balancedm "github.com/hosana-alex/leave-management/internal/core/datamodel/balance"
	userdm "github.com/hosana-alex/leave-management/internal/core/datamodel/user"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, _, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		if clearData {
			for _, table := range []string{"notifications", "leave_balances", "leave_applications", "users"} {
				if err := db.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)

		seedAccounts := []userdm.Account{
			{
				Email:        "admin@ewordpublishers.com",
				Name:         "System Admin",
				Department:   "Administration",
				Designation:  "Administrator",
				Role:         userdm.RoleAdmin,
				Status:       userdm.StatusApproved,
				PasswordHash: string(hash),
			},
			{
				Email:        "jane.wanjiku@ewordpublishers.com",
				Name:         "Jane Wanjiku",
				Department:   "Editorial",
				Designation:  "Editor",
				Role:         userdm.RoleEmployee,
				Status:       userdm.StatusApproved,
				PasswordHash: string(hash),
			},
			{
				Email:        "peter.otieno@ewordpublishers.com",
				Name:         "Peter Otieno",
				Department:   "Sales",
				Designation:  "Sales Representative",
				Role:         userdm.RoleEmployee,
				Status:       userdm.StatusPending,
				PasswordHash: string(hash),
			},
		}

		year := time.Now().Year()
		for i := range seedAccounts {
			acct := &seedAccounts[i]

			var existing userdm.Account
			err := db.Where("email = ?", acct.Email).First(&existing).Error
			if err == nil {
				fmt.Println("user already exists:", acct.Email)
				acct.ID = existing.ID
			} else if err == gorm.ErrRecordNotFound {
				if err := db.Create(acct).Error; err != nil {
					log.Fatalf("failed to insert user %s: %v", acct.Email, err)
				}
				fmt.Println("Seeded user:", acct.Email)
			} else {
				log.Fatalf("failed to check user %s: %v", acct.Email, err)
			}

			if acct.Status != userdm.StatusApproved {
				continue
			}
			for leaveType, days := range internal.DefaultAllocations() {
				row := balancedm.Balance{
					UserID:    acct.ID,
					Year:      year,
					LeaveType: leaveType,
					TotalDays: days,
				}
				if err := db.Where("user_id = ? AND year = ? AND leave_type = ?",
					row.UserID, row.Year, row.LeaveType).
					FirstOrCreate(&row).Error; err != nil {
					log.Fatalf("failed to seed balance for %s: %v", acct.Email, err)
				}
			}
		}

		fmt.Println("Seeding complete")
	},
}
