package main

import (
	"fmt"
	"log"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"samadhan/backend/internal/analytics"
	"samadhan/backend/internal/config"
	"samadhan/backend/internal/models"
	"samadhan/backend/internal/storage"
)

func main() {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	store := storage.NewStorageService(db, nil) // No redis needed for admin CLI

	if len(os.Args) < 2 {
		fmt.Println("Usage: admin <command> [args]")
		os.Exit(1)
	}

	switch os.Args[1] {
	case "promote":
		if len(os.Args) != 4 {
			fmt.Println("Usage: admin promote <user_id> <role>")
			os.Exit(1)
		}
		if err := promoteUser(store, os.Args[2], models.Role(os.Args[3])); err != nil {
			log.Fatalf("Error promoting user: %v", err)
		}
		fmt.Printf("User %s is now a %s.\n", os.Args[2], os.Args[3])
	case "deactivate":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin deactivate <user_id>")
			os.Exit(1)
		}
		if err := setActive(store, os.Args[2], false); err != nil {
			log.Fatalf("Error deactivating user: %v", err)
		}
		fmt.Printf("User %s has been deactivated.\n", os.Args[2])
	case "activate":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin activate <user_id>")
			os.Exit(1)
		}
		if err := setActive(store, os.Args[2], true); err != nil {
			log.Fatalf("Error activating user: %v", err)
		}
		fmt.Printf("User %s has been activated.\n", os.Args[2])
	case "recount":
		if err := recountUsers(store); err != nil {
			log.Fatalf("Error recounting user statistics: %v", err)
		}
		fmt.Println("User complaint counters recomputed.")
	case "stats":
		if err := printStats(store); err != nil {
			log.Fatalf("Error computing stats: %v", err)
		}
	default:
		fmt.Println("Unknown command")
		os.Exit(1)
	}
}

func promoteUser(s storage.Storage, userID string, role models.Role) error {
	if _, ok := config.RolePermissions[role]; !ok {
		return fmt.Errorf("unknown role %q", role)
	}
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}
	user.Role = role
	user.Permissions = config.PermissionsForRole(role)
	return s.SaveUser(user)
}

func setActive(s storage.Storage, userID string, active bool) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}
	user.IsActive = active
	return s.SaveUser(user)
}

// recountUsers recomputes the derived complaintsCount/resolvedCount counters
// from the complaint table. They are never edited by hand.
func recountUsers(s storage.Storage) error {
	complaints, err := s.ListComplaints()
	if err != nil {
		return err
	}
	counters := analytics.CountPerUser(complaints)

	users, err := s.ListUsers()
	if err != nil {
		return err
	}
	for i := range users {
		uc := counters[users[i].ID]
		if users[i].ComplaintsCount == uc.ComplaintsCount && users[i].ResolvedCount == uc.ResolvedCount {
			continue
		}
		users[i].ComplaintsCount = uc.ComplaintsCount
		users[i].ResolvedCount = uc.ResolvedCount
		if err := s.SaveUser(&users[i]); err != nil {
			return err
		}
	}
	return nil
}

func printStats(s storage.Storage) error {
	complaints, err := s.ListComplaints()
	if err != nil {
		return err
	}
	data := analytics.Aggregate(complaints, nil)

	fmt.Printf("Total complaints:        %d\n", data.TotalComplaints)
	fmt.Printf("Pending:                 %d\n", data.PendingComplaints)
	fmt.Printf("In progress:             %d\n", data.InProgressComplaints)
	fmt.Printf("Resolved:                %d\n", data.ResolvedComplaints)
	fmt.Printf("Avg resolution (days):   %.2f\n", data.AverageResolutionTime)
	fmt.Println("By department:")
	for dept, count := range data.ComplaintsByDepartment {
		cfg, _ := config.GetDepartmentConfig(dept)
		fmt.Printf("  %-25s %d\n", cfg.Label, count)
	}
	return nil
}
