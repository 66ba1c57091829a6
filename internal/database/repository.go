package database

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/wifiscout/scan-ingestion/internal/config"
)

// WiFiNetwork is a persisted scan record. BSSID is the primary key, so a
// second save of the same access point fails instead of silently updating.
type WiFiNetwork struct {
	BSSID            string    `gorm:"column:bssid;primaryKey" json:"bssid"`
	SSID             string    `gorm:"column:ssid;not null" json:"ssid"`
	Frequency        int64     `gorm:"column:frequency;not null" json:"frequency"`
	RSSI             int64     `gorm:"column:rssi;not null" json:"rssi"`
	Timestamp        int64     `gorm:"column:timestamp;not null" json:"timestamp"`
	ChannelBandwidth string    `gorm:"column:channel_bandwidth;not null" json:"channel_bandwidth"`
	Capabilities     string    `gorm:"column:capabilities;not null" json:"capabilities"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// TableName overrides the gorm default pluralization.
func (WiFiNetwork) TableName() string {
	return "wifi_networks"
}

// NewConnection opens the postgres connection and runs schema migration.
func NewConnection(cfg config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.URL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access underlying connection: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := db.AutoMigrate(&WiFiNetwork{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return db, nil
}

// NetworkRepository handles WiFi network persistence
type NetworkRepository struct {
	db *gorm.DB
}

// NewNetworkRepository creates a new network repository
func NewNetworkRepository(db *gorm.DB) *NetworkRepository {
	return &NetworkRepository{db: db}
}

// Save persists one network record. Saving a BSSID that already exists
// returns the database's uniqueness error.
func (r *NetworkRepository) Save(ctx context.Context, network *WiFiNetwork) error {
	if err := r.db.WithContext(ctx).Create(network).Error; err != nil {
		return fmt.Errorf("failed to save network %s: %w", network.BSSID, err)
	}
	return nil
}

// List returns all persisted networks ordered by insertion time.
func (r *NetworkRepository) List(ctx context.Context) ([]WiFiNetwork, error) {
	var networks []WiFiNetwork
	if err := r.db.WithContext(ctx).Order("created_at").Find(&networks).Error; err != nil {
		return nil, fmt.Errorf("failed to list networks: %w", err)
	}
	return networks, nil
}

// GetByBSSID returns a single network record, or gorm.ErrRecordNotFound.
func (r *NetworkRepository) GetByBSSID(ctx context.Context, bssid string) (*WiFiNetwork, error) {
	var network WiFiNetwork
	if err := r.db.WithContext(ctx).First(&network, "bssid = ?", bssid).Error; err != nil {
		return nil, err
	}
	return &network, nil
}

// Delete removes a network record by BSSID. Deleting an unknown BSSID is
// reported as gorm.ErrRecordNotFound.
func (r *NetworkRepository) Delete(ctx context.Context, bssid string) error {
	result := r.db.WithContext(ctx).Delete(&WiFiNetwork{}, "bssid = ?", bssid)
	if result.Error != nil {
		return fmt.Errorf("failed to delete network %s: %w", bssid, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
