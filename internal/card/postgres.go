package card

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// cardRow maps the business_card_info table
type cardRow struct {
	ID           uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	ImageData    []byte `gorm:"column:image_data;type:bytea"`
	CompanyName  string `gorm:"column:company_name;type:varchar(255)"`
	Name         string `gorm:"column:name;type:varchar(255)"`
	Designation  string `gorm:"column:designation;type:varchar(255)"`
	MobileNumber string `gorm:"column:mobile_number;type:varchar(15)"`
	EmailAddress string `gorm:"column:email_address;type:varchar(255)"`
	WebsiteURL   string `gorm:"column:website_url;type:varchar(255)"`
	Area         string `gorm:"column:area;type:varchar(255)"`
	City         string `gorm:"column:city;type:varchar(255)"`
	State        string `gorm:"column:state;type:varchar(255)"`
	PinCode      string `gorm:"column:pin_code;type:varchar(10)"`
}

func (cardRow) TableName() string { return "business_card_info" }

func rowFromDetails(d Details) cardRow {
	return cardRow{
		CompanyName:  d.CompanyName,
		Name:         d.Name,
		Designation:  d.Designation,
		MobileNumber: d.MobileNumber,
		EmailAddress: d.EmailAddress,
		WebsiteURL:   d.WebsiteURL,
		Area:         d.Area,
		City:         d.City,
		State:        d.State,
		PinCode:      d.PinCode,
	}
}

func (r cardRow) toCard() *Card {
	return &Card{
		ID: r.ID,
		Details: Details{
			CompanyName:  r.CompanyName,
			Name:         r.Name,
			Designation:  r.Designation,
			MobileNumber: r.MobileNumber,
			EmailAddress: r.EmailAddress,
			WebsiteURL:   r.WebsiteURL,
			Area:         r.Area,
			City:         r.City,
			State:        r.State,
			PinCode:      r.PinCode,
		},
		ImageData: r.ImageData,
	}
}

// PostgresConfig configures the connection pool
type PostgresConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// PostgresDB implements the DB interface on PostgreSQL through GORM
type PostgresDB struct {
	db *gorm.DB
}

// NewPostgresDB connects, configures the pool and initializes the schema
func NewPostgresDB(cfg PostgresConfig) (*PostgresDB, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("%w: postgres dsn is required", ErrPersistence)
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: connecting to postgres: %w", ErrPersistence, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("%w: getting sql.DB from gorm: %w", ErrPersistence, err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	p := &PostgresDB{db: db}
	if err := p.InitSchema(); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return p, nil
}

// InitSchema creates business_card_info if it doesn't exist
func (p *PostgresDB) InitSchema() error {
	if err := p.db.AutoMigrate(&cardRow{}); err != nil {
		return fmt.Errorf("%w: migrating business_card_info: %w", ErrPersistence, err)
	}
	return nil
}

// InsertCard stores a new row and returns its serial ID
func (p *PostgresDB) InsertCard(details Details, imageData []byte) (uint64, error) {
	if err := details.Validate(); err != nil {
		return 0, fmt.Errorf("%w: inserting card: %w", ErrPersistence, err)
	}

	row := rowFromDetails(details)
	row.ImageData = imageData
	if err := p.db.Create(&row).Error; err != nil {
		return 0, fmt.Errorf("%w: inserting card: %w", ErrPersistence, err)
	}
	return row.ID, nil
}

// ListCards returns every row ordered by ID
func (p *PostgresDB) ListCards() ([]*Card, error) {
	var rows []cardRow
	if err := p.db.Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: listing cards: %w", ErrPersistence, err)
	}
	cards := make([]*Card, 0, len(rows))
	for _, r := range rows {
		cards = append(cards, r.toCard())
	}
	return cards, nil
}

// GetCard retrieves a row by ID
func (p *PostgresDB) GetCard(id uint64) (*Card, bool, error) {
	var row cardRow
	err := p.db.First(&row, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: getting card %d: %w", ErrPersistence, id, err)
	}
	return row.toCard(), true, nil
}

// UpdateCard replaces every text column of an existing row
func (p *PostgresDB) UpdateCard(id uint64, details Details) error {
	if err := details.Validate(); err != nil {
		return fmt.Errorf("%w: updating card %d: %w", ErrPersistence, id, err)
	}

	// A map so that empty strings are written too
	result := p.db.Model(&cardRow{}).Where("id = ?", id).Updates(map[string]any{
		"company_name":  details.CompanyName,
		"name":          details.Name,
		"designation":   details.Designation,
		"mobile_number": details.MobileNumber,
		"email_address": details.EmailAddress,
		"website_url":   details.WebsiteURL,
		"area":          details.Area,
		"city":          details.City,
		"state":         details.State,
		"pin_code":      details.PinCode,
	})
	if result.Error != nil {
		return fmt.Errorf("%w: updating card %d: %w", ErrPersistence, id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return nil
}

// DeleteCard removes a row; a missing row is not an error
func (p *PostgresDB) DeleteCard(id uint64) error {
	if err := p.db.Delete(&cardRow{}, id).Error; err != nil {
		return fmt.Errorf("%w: deleting card %d: %w", ErrPersistence, id, err)
	}
	return nil
}

// Close closes the connection pool
func (p *PostgresDB) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
