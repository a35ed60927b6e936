package db

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/catalog" // Seed products
	"storefront/internal/domain"  // Importing domain models
	"storefront/internal/session" // Seed credentials

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt" // For hashing seeded passwords

	"gorm.io/driver/mysql"  // MySQL driver for GORM
	"gorm.io/driver/sqlite" // SQLite driver for GORM
	"gorm.io/gorm"          // GORM ORM library
)

// Open connects to the database for driver ("mysql" or "sqlite")
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "mysql":
		dialector = mysql.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}
	conn, err := gorm.Open(dialector, &gorm.Config{}) // Open a connection to the database
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}
	return conn, nil
}

// Migrate performs automatic migration for the database schema
func Migrate(conn *gorm.DB) error {
	// AutoMigrate will create tables, missing foreign keys, constraints, columns and indexes
	if err := conn.AutoMigrate(&domain.User{}, &domain.Product{}); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logrus.Info("Migration completed.") // Log successful migration
	return nil
}

// Seed inserts the demo users and products that are not present yet
func Seed(ctx context.Context, conn *gorm.DB) error {
	return conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := 0
		for _, c := range session.SeedCredentials {
			created, err := seedUser(tx, c)
			if err != nil {
				return err
			}
			if created {
				users++
			}
		}
		products := 0
		for _, p := range catalog.SeedProducts() {
			created, err := seedProduct(tx, p)
			if err != nil {
				return err
			}
			if created {
				products++
			}
		}
		logrus.WithFields(logrus.Fields{
			"users":    users,
			"products": products,
		}).Info("Seed completed.")
		return nil
	})
}

func seedUser(tx *gorm.DB, c domain.Credential) (bool, error) {
	var existing domain.User
	err := tx.Where("email = ?", c.Email).First(&existing).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("lookup seed user: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(c.Password), bcrypt.DefaultCost) // Hash the password
	if err != nil {
		return false, fmt.Errorf("hash seed password: %w", err)
	}
	user := domain.User{
		ID:       c.Identity.ID,
		Name:     c.Identity.Name,
		Email:    c.Email,
		Password: string(hashedPassword),
		Role:     c.Identity.Role,
	}
	if err := tx.Create(&user).Error; err != nil {
		return false, fmt.Errorf("create seed user: %w", err)
	}
	return true, nil
}

func seedProduct(tx *gorm.DB, p domain.Product) (bool, error) {
	var count int64
	if err := tx.Model(&domain.Product{}).Where("sku = ?", p.SKU).Count(&count).Error; err != nil {
		return false, fmt.Errorf("lookup seed product: %w", err)
	}
	if count > 0 {
		return false, nil
	}
	if err := tx.Create(&p).Error; err != nil {
		return false, fmt.Errorf("create seed product: %w", err)
	}
	return true, nil
}
